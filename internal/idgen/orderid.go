package idgen

import (
	"strings"
	"time"

	"clearpay-api/internal/utils/timeutil"
)

// Owner-domain prefixes baked into order ids. Lookups by order id alone must
// be able to tell which table the owner lives in.
const (
	PrefixSubmission   = "SB"
	PrefixSubscription = "SS"
	PrefixKaraoke      = "KR"
)

// NewOrderID mints a globally unique order id:
// <domain prefix><yyMMddHHmmss><snowflake suffix, base36>.
// The timestamp segment keeps ids grep-able in gateway dashboards; the
// snowflake suffix carries the uniqueness guarantee under concurrency.
func NewOrderID(prefix string, now time.Time) string {
	suffix := strings.ToUpper(New().Base36())
	return prefix + timeutil.CompactStamp(now) + suffix
}

// DomainPrefix extracts the owner-domain prefix from an order id, or "".
func DomainPrefix(orderID string) string {
	if len(orderID) < 2 {
		return ""
	}
	switch p := orderID[:2]; p {
	case PrefixSubmission, PrefixSubscription, PrefixKaraoke:
		return p
	default:
		return ""
	}
}
