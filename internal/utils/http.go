package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// HttpPostFormWithContext posts form-encoded fields and returns the raw
// response body. The caller owns the timeout via ctx; the gateway's approval
// endpoint must never be waited on longer than the configured bound.
func HttpPostFormWithContext(ctx context.Context, targetURL string, fields url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, strings.NewReader(fields.Encode()))
	if err != nil {
		return "", fmt.Errorf("new request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status code: %d, body: %s", resp.StatusCode, Truncate(string(body), 512))
	}

	return string(body), nil
}

// IsValidHTTPURL reports whether u parses as an absolute http(s) URL. Auth
// and net-cancel URLs arrive from the browser redirect and are untrusted.
func IsValidHTTPURL(u string) bool {
	parsed, err := url.ParseRequestURI(u)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func GetClientIP(c *gin.Context) string {
	ip := c.GetHeader("X-Forwarded-For")
	if ip != "" {
		parts := strings.Split(ip, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.ClientIP()
}
