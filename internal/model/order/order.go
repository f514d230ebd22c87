package ordermodel

import "time"

// Order status. REQUESTED is the only non-terminal state; every transition
// out of it is guarded by a conditional update on status.
const (
	StatusRequested int8 = 0
	StatusApproved  int8 = 1
	StatusFailed    int8 = 2
	StatusCanceled  int8 = 3
)

func StatusName(s int8) string {
	switch s {
	case StatusRequested:
		return "REQUESTED"
	case StatusApproved:
		return "APPROVED"
	case StatusFailed:
		return "FAILED"
	case StatusCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// PayOrder represents pay_order. One row per payment attempt; rows are never
// deleted (audit trail). At most one APPROVED row settles an owner.
type PayOrder struct {
	OrderID       string     `gorm:"column:order_id;type:varchar(40);primaryKey" json:"orderId"`            // globally unique, minted at request time
	OwnerType     string     `gorm:"column:owner_type;type:varchar(20);not null;index:idx_owner" json:"ownerType"` // submission | subscription | karaoke
	OwnerID       uint64     `gorm:"column:owner_id;not null;index:idx_owner" json:"ownerId"`
	AmountKrw     int64      `gorm:"column:amount_krw;not null" json:"amountKrw"` // fixed at creation, never mutated
	ProductName   string     `gorm:"column:product_name;type:varchar(80);not null" json:"productName"`
	BuyerName     string     `gorm:"column:buyer_name;type:varchar(40);not null" json:"buyerName"`
	Status        int8       `gorm:"column:status;type:tinyint(1);not null" json:"status"` // 0:requested 1:approved 2:failed 3:canceled
	Mode          string     `gorm:"column:mode;type:varchar(10);not null" json:"mode"`    // staging | production
	PgTid         *string    `gorm:"column:pg_tid;type:varchar(64)" json:"pgTid"`          // assigned by the gateway on approval only
	ResultCode    *string    `gorm:"column:result_code;type:varchar(10)" json:"resultCode"`
	ResultMessage *string    `gorm:"column:result_message;type:varchar(255)" json:"resultMessage"`
	CreateTime    *time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime    *time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
	FinishTime    *time.Time `gorm:"column:finish_time" json:"finishTime"`
}

func (PayOrder) TableName() string { return "pay_order" }
