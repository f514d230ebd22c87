package pg

import (
	"strconv"
	"time"

	"clearpay-api/internal/config"
	"clearpay-api/internal/utils/timeutil"
)

// BuyerInfo labels the widget; the gateway shows these to the cardholder.
type BuyerInfo struct {
	Name  string
	Email string
	Tel   string
}

// ReturnURLs are where the widget redirects the browser afterwards.
type ReturnURLs struct {
	ReturnURL string
	CloseURL  string
}

// BuildSignedParams produces the ephemeral field set the browser posts to the
// payment widget. The timestamp is part of the signed material, so every
// attempt needs a fresh set; ts is injectable for deterministic tests (zero
// value means now).
func BuildSignedParams(gw *config.Gateway, orderID string, amountKrw int64, productName string, buyer BuyerInfo, urls ReturnURLs, ts time.Time) map[string]string {
	if ts.IsZero() {
		ts = time.Now()
	}
	price := strconv.FormatInt(amountKrw, 10)
	timestamp := timeutil.GatewayTimestamp(ts)

	return map[string]string{
		"version":      "1.0",
		"mid":          gw.MerchantID,
		"oid":          orderID,
		"price":        price,
		"timestamp":    timestamp,
		"signature":    RequestSignature(gw.MerchantID, orderID, price, timestamp, gw.SignKey),
		"mKey":         MKey(gw.SignKey),
		"currency":     "WON",
		"goodname":     productName,
		"buyername":    buyer.Name,
		"buyeremail":   buyer.Email,
		"buyertel":     buyer.Tel,
		"gopaymethod":  "Card",
		"acceptmethod": "below1000",
		"returnUrl":    urls.ReturnURL,
		"closeUrl":     urls.CloseURL,
	}
}
