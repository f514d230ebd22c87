package callback

import (
	"strings"

	"clearpay-api/internal/pg"
)

// Classification kinds. These are values, not errors: every branch must be
// handled by the callback handler, there is no upstream to propagate to.
const (
	KindCancelled        = "CANCELLED"
	KindFailed           = "FAILED"
	KindAwaitingApproval = "AWAITING_APPROVAL"
)

// Gateway messages are bounded before they can reach logs or the order row.
const maxMessageLen = 200

// Classification is the terminal verdict on one callback delivery.
type Classification struct {
	Kind          string
	ResultCode    string
	ResultMessage string

	// Populated only for AWAITING_APPROVAL.
	AuthToken    string
	AuthURL      string
	NetCancelURL string
	OrderID      string
	MerchantID   string
	Timestamp    string
	Amount       string
}

// successResultCodes is the gateway's defined success set for the redirect
// leg. Approval has its own check in pg.
var successResultCodes = map[string]struct{}{
	pg.ResultCodeSuccess: {},
}

// Classify inspects the normalized, untrusted callback fields and produces
// exactly one verdict. Pure: no I/O, no logging; the caller owns side
// effects. Steps short-circuit in order:
//  1. explicit cancel flag
//  2. non-success result code
//  3. missing mandatory fields for approval
//  4. merchant id mismatch (security-relevant, not transient)
//  5. otherwise ready for the approval call
func Classify(f pg.CallbackFields, expectedMerchantID string) Classification {
	if isTruthy(f.CancelFlag) {
		return Classification{Kind: KindCancelled}
	}

	if f.ResultCode != "" {
		if _, ok := successResultCodes[f.ResultCode]; !ok {
			return Classification{
				Kind:          KindFailed,
				ResultCode:    f.ResultCode,
				ResultMessage: truncate(f.ResultMessage),
			}
		}
	}

	var missing []string
	if f.AuthToken == "" {
		missing = append(missing, "authToken")
	}
	if f.AuthURL == "" {
		missing = append(missing, "authUrl")
	}
	if f.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if len(missing) > 0 {
		return Classification{
			Kind:          KindFailed,
			ResultCode:    "MISSING_FIELD",
			ResultMessage: "missing required field: " + strings.Join(missing, ", "),
		}
	}

	if f.MerchantID != "" && f.MerchantID != expectedMerchantID {
		return Classification{
			Kind:          KindFailed,
			ResultCode:    "MID_MISMATCH",
			ResultMessage: "callback merchant id does not match configuration",
		}
	}

	return Classification{
		Kind:         KindAwaitingApproval,
		ResultCode:   f.ResultCode,
		AuthToken:    f.AuthToken,
		AuthURL:      f.AuthURL,
		NetCancelURL: f.NetCancelURL,
		OrderID:      f.OrderID,
		MerchantID:   f.MerchantID,
		Timestamp:    f.Timestamp,
		Amount:       f.Amount,
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "1", "true":
		return true
	default:
		return false
	}
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return strings.TrimSpace(s[:maxMessageLen]) + "..."
}
