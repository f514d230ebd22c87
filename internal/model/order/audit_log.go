package ordermodel

import "time"

// PayAuditLog is append-only: one row per terminal transition, written by the
// finalize event consumer. Sensitive fields arrive pre-masked.
type PayAuditLog struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	OrderID       string    `gorm:"column:order_id;type:varchar(40);index" json:"orderId"`
	OwnerType     string    `gorm:"column:owner_type;type:varchar(20)" json:"ownerType"`
	OwnerID       uint64    `gorm:"column:owner_id" json:"ownerId"`
	Status        string    `gorm:"column:status;type:varchar(12)" json:"status"`
	PgTidMasked   string    `gorm:"column:pg_tid_masked;type:varchar(64)" json:"pgTidMasked"`
	ResultCode    string    `gorm:"column:result_code;type:varchar(10)" json:"resultCode"`
	ResultMessage string    `gorm:"column:result_message;type:varchar(255)" json:"resultMessage"`
	AmountKrw     int64     `gorm:"column:amount_krw" json:"amountKrw"`
	TraceID       string    `gorm:"column:trace_id;type:varchar(40)" json:"traceId"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (PayAuditLog) TableName() string { return "pay_audit_log" }
