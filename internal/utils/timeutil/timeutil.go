package timeutil

import (
	"strconv"
	"time"
)

// NowSeoul returns the current time in the gateway's local zone.
func NowSeoul() time.Time {
	loc, _ := time.LoadLocation("Asia/Seoul")
	return time.Now().In(loc)
}

// GatewayTimestamp renders t the way the gateway expects signed timestamps:
// unix milliseconds as a decimal string. Part of the signature contract.
func GatewayTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// FormatISO8601 formats to RFC3339 UTC, used in event payloads and logs.
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// CompactStamp renders t as yyMMddHHmmss, the order-id timestamp segment.
func CompactStamp(t time.Time) string {
	return t.Format("060102150405")
}
