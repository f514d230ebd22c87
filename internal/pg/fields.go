package pg

import "net/url"

// The gateway has used inconsistent field names across flows and widget
// versions. Each logical field maps to candidate keys tried in priority
// order; first non-empty value wins. Extend here, never inline in handlers.
var callbackFieldAliases = map[string][]string{
	"cancelFlag":    {"cancelYN", "cancel_yn", "cancelFlag"},
	"resultCode":    {"resultCode", "result_code", "P_STATUS"},
	"resultMessage": {"resultMsg", "result_msg", "P_RMESG1", "resultMessage"},
	"authToken":     {"authToken", "auth_token", "authtoken"},
	"authUrl":       {"authUrl", "auth_url", "authURL"},
	"netCancelUrl":  {"netCancelUrl", "netcancelUrl", "net_cancel_url"},
	"orderId":       {"oid", "orderId", "order_id", "MOID"},
	"merchantId":    {"mid", "merchantId", "merchant_id"},
	"timestamp":     {"timestamp", "reqTimestamp", "P_REQ_TIME"},
	"amount":        {"price", "amount", "TotPrice"},
	"signature":     {"signature", "sign"},
}

// CallbackFields is the normalized, typed view of the untrusted redirect
// POST. Still unvalidated; classification happens afterwards.
type CallbackFields struct {
	CancelFlag    string
	ResultCode    string
	ResultMessage string
	AuthToken     string
	AuthURL       string
	NetCancelURL  string
	OrderID       string
	MerchantID    string
	Timestamp     string
	Amount        string
	Signature     string
}

func lookup(form url.Values, logical string) string {
	for _, key := range callbackFieldAliases[logical] {
		if v := form.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeCallback flattens the raw form through the alias table.
func NormalizeCallback(form url.Values) CallbackFields {
	return CallbackFields{
		CancelFlag:    lookup(form, "cancelFlag"),
		ResultCode:    lookup(form, "resultCode"),
		ResultMessage: lookup(form, "resultMessage"),
		AuthToken:     lookup(form, "authToken"),
		AuthURL:       lookup(form, "authUrl"),
		NetCancelURL:  lookup(form, "netCancelUrl"),
		OrderID:       lookup(form, "orderId"),
		MerchantID:    lookup(form, "merchantId"),
		Timestamp:     lookup(form, "timestamp"),
		Amount:        lookup(form, "amount"),
		Signature:     lookup(form, "signature"),
	}
}
