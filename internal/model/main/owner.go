package mainmodel

import "time"

// Owner domain tags. An order settles exactly one of these.
const (
	OwnerSubmission   = "submission"
	OwnerSubscription = "subscription"
	OwnerKaraoke      = "karaoke"
)

// Owner payment status, shared across the three payable tables.
const (
	PayStatusUnpaid  int8 = 0
	PayStatusPending int8 = 1 // order created, waiting on the gateway round trip
	PayStatusPaid    int8 = 2
	PayStatusFailed  int8 = 3
)

// OwnerRef is the polymorphic reference an order carries: exactly one payable
// entity, addressed by domain tag and row id.
type OwnerRef struct {
	Type string `json:"type"`
	ID   uint64 `json:"id"`
}

func (r OwnerRef) Valid() bool {
	switch r.Type {
	case OwnerSubmission, OwnerSubscription, OwnerKaraoke:
		return r.ID > 0
	default:
		return false
	}
}

// Submission is a clearance submission awaiting its review fee.
type Submission struct {
	ID         uint64     `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint64     `gorm:"column:user_id;not null;index" json:"userId"`
	Title      string     `gorm:"column:title;type:varchar(120);not null" json:"title"`
	FeeKrw     int64      `gorm:"column:fee_krw;not null" json:"feeKrw"`
	PayStatus  int8       `gorm:"column:pay_status;type:tinyint(1);not null" json:"payStatus"`
	PayOrderID *string    `gorm:"column:pay_order_id;type:varchar(40)" json:"payOrderId"` // latest order, for lookups from the continuation page
	PaidAt     *time.Time `gorm:"column:paid_at" json:"paidAt"`
	CreateTime *time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime *time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Submission) TableName() string { return "submission" }

// Subscription activates on payment.
type Subscription struct {
	ID          uint64     `gorm:"column:id;primaryKey" json:"id"`
	UserID      uint64     `gorm:"column:user_id;not null;index" json:"userId"`
	PlanName    string     `gorm:"column:plan_name;type:varchar(40);not null" json:"planName"`
	FeeKrw      int64      `gorm:"column:fee_krw;not null" json:"feeKrw"`
	PayStatus   int8       `gorm:"column:pay_status;type:tinyint(1);not null" json:"payStatus"`
	PayOrderID  *string    `gorm:"column:pay_order_id;type:varchar(40)" json:"payOrderId"`
	ActivatedAt *time.Time `gorm:"column:activated_at" json:"activatedAt"`
	CreateTime  *time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime  *time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Subscription) TableName() string { return "subscription" }

// KaraokeRequest is a karaoke-use registration with a flat fee.
type KaraokeRequest struct {
	ID         uint64     `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint64     `gorm:"column:user_id;not null;index" json:"userId"`
	SongTitle  string     `gorm:"column:song_title;type:varchar(120);not null" json:"songTitle"`
	FeeKrw     int64      `gorm:"column:fee_krw;not null" json:"feeKrw"`
	PayStatus  int8       `gorm:"column:pay_status;type:tinyint(1);not null" json:"payStatus"`
	PayOrderID *string    `gorm:"column:pay_order_id;type:varchar(40)" json:"payOrderId"`
	PaidAt     *time.Time `gorm:"column:paid_at" json:"paidAt"`
	CreateTime *time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime *time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (KaraokeRequest) TableName() string { return "karaoke_request" }
