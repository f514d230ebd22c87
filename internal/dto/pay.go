package dto

import "time"

// CreateOrderReq starts a payment for one payable entity. Caller identity
// comes from the auth middleware, never from the body.
type CreateOrderReq struct {
	OwnerType string `json:"ownerType" binding:"required"`
	OwnerID   uint64 `json:"ownerId" binding:"required"`
	Context   string `json:"context"` // page context tag, echoed into logs ("popup", "mobile", ...)

	// Optional display fields for the payment widget.
	BuyerName  string `json:"buyerName"`
	BuyerEmail string `json:"buyerEmail"`
	BuyerTel   string `json:"buyerTel"`
}

// CreateOrderResp hands the browser everything the widget needs. The signed
// params are ephemeral: a retry must request a fresh set.
type CreateOrderResp struct {
	OrderID         string            `json:"orderId"`
	SignedParams    map[string]string `json:"signedParams"`
	WidgetScriptURL string            `json:"widgetScriptUrl"`
	ReturnURL       string            `json:"returnUrl"`
	CloseURL        string            `json:"closeUrl"`
}

// OrderVO is the read shape for the continuation page and admin lookups.
type OrderVO struct {
	OrderID       string     `json:"orderId"`
	OwnerType     string     `json:"ownerType"`
	OwnerID       uint64     `json:"ownerId"`
	AmountKrw     int64      `json:"amountKrw"`
	ProductName   string     `json:"productName"`
	Status        string     `json:"status"`
	PgTid         string     `json:"pgTid,omitempty"`
	ResultCode    string     `json:"resultCode,omitempty"`
	ResultMessage string     `json:"resultMessage,omitempty"`
	CreateTime    *time.Time `json:"createTime,omitempty"`
	FinishTime    *time.Time `json:"finishTime,omitempty"`
}

// Outcome kinds for finalize.
const (
	OutcomeApproved  = "APPROVED"
	OutcomeFailed    = "FAILED"
	OutcomeCancelled = "CANCELLED"
)

// Outcome is the terminal result applied to an order exactly once.
// AmountReported is kept as the gateway sent it (string) so the tamper check
// can parse it strictly instead of trusting upstream formatting.
type Outcome struct {
	Kind           string `json:"kind"`
	Tid            string `json:"tid,omitempty"`
	ResultCode     string `json:"resultCode,omitempty"`
	ResultMessage  string `json:"resultMessage,omitempty"`
	AmountReported string `json:"amountReported,omitempty"`
}

func Approved(tid, code, msg, amount string) Outcome {
	return Outcome{Kind: OutcomeApproved, Tid: tid, ResultCode: code, ResultMessage: msg, AmountReported: amount}
}

func Failed(code, msg string) Outcome {
	return Outcome{Kind: OutcomeFailed, ResultCode: code, ResultMessage: msg}
}

func Cancelled() Outcome {
	return Outcome{Kind: OutcomeCancelled}
}

// OrderFinalizedEvent is published to the order_events exchange after every
// terminal transition. Consumers write the audit row and raise ops alerts.
type OrderFinalizedEvent struct {
	OrderID       string `json:"order_id"`
	OwnerType     string `json:"owner_type"`
	OwnerID       uint64 `json:"owner_id"`
	Status        string `json:"status"` // APPROVED | FAILED | CANCELED
	PgTidMasked   string `json:"pg_tid_masked,omitempty"`
	ResultCode    string `json:"result_code,omitempty"`
	ResultMessage string `json:"result_message,omitempty"`
	AmountKrw     int64  `json:"amount_krw"`
	TraceID       string `json:"trace_id,omitempty"`
	FinalizedAt   int64  `json:"finalized_at"`
}
