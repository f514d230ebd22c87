package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"clearpay-api/internal/config"
	"clearpay-api/internal/utils"
	"clearpay-api/internal/utils/timeutil"
)

// ResultCodeSuccess is the gateway's only success code across all flows.
const ResultCodeSuccess = "0000"

// Client performs the server-to-server calls against the gateway: the
// approval that actually moves money, and the net-cancel that unwinds a
// dangling authorization.
type Client struct {
	gw *config.Gateway
}

func NewClient(gw *config.Gateway) *Client {
	return &Client{gw: gw}
}

// ApproveRequest carries everything the finalization endpoint needs, all of
// it extracted from the (already classified) callback.
type ApproveRequest struct {
	AuthURL      string
	AuthToken    string
	Timestamp    string
	NetCancelURL string
}

// ApprovalResult is the gateway's answer to the finalization call.
type ApprovalResult struct {
	ResultCode    string `json:"resultCode"`
	ResultMessage string `json:"resultMsg"`
	Tid           string `json:"tid"`
	Amount        string `json:"totPrice"`
	Signature     string `json:"signature"`

	SignatureVerified bool `json:"-"`
}

// Success: approval only counts with the success code AND a transaction id.
// A success code without a tid has been observed during gateway incidents
// and must be treated as a failure.
func (r *ApprovalResult) Success() bool {
	return r != nil && r.ResultCode == ResultCodeSuccess && r.Tid != ""
}

// Approve performs the authorization-finalization POST. Transport errors,
// timeouts and unparseable bodies come back as errors; business rejection
// comes back as a non-Success result. The caller must never retry after any
// attempt: the gateway treats a second call for the same token as a new
// approval request.
func (c *Client) Approve(ctx context.Context, req ApproveRequest) (*ApprovalResult, error) {
	if !utils.IsValidHTTPURL(req.AuthURL) {
		return nil, fmt.Errorf("invalid auth url: %q", utils.Truncate(req.AuthURL, 120))
	}

	ts := req.Timestamp
	if ts == "" {
		ts = timeutil.GatewayTimestamp(time.Now())
	}
	fields := url.Values{}
	fields.Set("mid", c.gw.MerchantID)
	fields.Set("authToken", req.AuthToken)
	fields.Set("timestamp", ts)
	fields.Set("signature", AuthSignature(req.AuthToken, ts))
	fields.Set("format", "JSON")

	log.Printf("[PG-Approve] mid=%s authToken=%s url=%s",
		utils.Mask(c.gw.MerchantID), utils.Mask(req.AuthToken), req.AuthURL)

	body, err := utils.HttpPostFormWithContext(ctx, req.AuthURL, fields)
	if err != nil {
		return nil, fmt.Errorf("approval call failed: %w", err)
	}

	var result ApprovalResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("approval response parse failed: %w, body: %s", err, utils.Truncate(body, 256))
	}

	// Opportunistic tamper check. Not all response paths carry a signature,
	// so a missing one is logged and tolerated; a wrong one is not ours to
	// accept silently either way - the amount check in finalize decides.
	if result.Signature != "" {
		result.SignatureVerified = VerifyResponseSignature(result.Tid, result.Amount, result.Signature, c.gw.SignKey)
		if !result.SignatureVerified {
			log.Printf("[PG-Approve] response signature mismatch, tid=%s", utils.Mask(result.Tid))
		}
	}

	log.Printf("[PG-Approve] resultCode=%s tid=%s", result.ResultCode, utils.Mask(result.Tid))
	return &result, nil
}

// NetCancel reverses a dangling authorization. Single attempt by design: an
// unbounded auto-retry would mask a real gateway incident and delay manual
// intervention.
func (c *Client) NetCancel(ctx context.Context, req ApproveRequest) error {
	if !utils.IsValidHTTPURL(req.NetCancelURL) {
		return fmt.Errorf("invalid net-cancel url: %q", utils.Truncate(req.NetCancelURL, 120))
	}

	ts := req.Timestamp
	if ts == "" {
		ts = timeutil.GatewayTimestamp(time.Now())
	}
	fields := url.Values{}
	fields.Set("mid", c.gw.MerchantID)
	fields.Set("authToken", req.AuthToken)
	fields.Set("timestamp", ts)
	fields.Set("signature", AuthSignature(req.AuthToken, ts))
	fields.Set("format", "JSON")

	log.Printf("[PG-NetCancel] mid=%s authToken=%s url=%s",
		utils.Mask(c.gw.MerchantID), utils.Mask(req.AuthToken), req.NetCancelURL)

	body, err := utils.HttpPostFormWithContext(ctx, req.NetCancelURL, fields)
	if err != nil {
		return fmt.Errorf("net-cancel call failed: %w", err)
	}

	var result ApprovalResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return fmt.Errorf("net-cancel response parse failed: %w, body: %s", err, utils.Truncate(body, 256))
	}
	if result.ResultCode != ResultCodeSuccess {
		return fmt.Errorf("net-cancel rejected: code=%s msg=%s", result.ResultCode, utils.Truncate(result.ResultMessage, 120))
	}

	log.Printf("[PG-NetCancel] reversed, authToken=%s", utils.Mask(req.AuthToken))
	return nil
}
