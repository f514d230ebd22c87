package dao

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"clearpay-api/internal/dal"
	mainmodel "clearpay-api/internal/model/main"
)

// OwnerInfo is the narrow read contract against the owner tables: enough to
// validate ownership, pick the fee, and label the widget.
type OwnerInfo struct {
	Ref         mainmodel.OwnerRef
	UserID      uint64
	FeeKrw      int64
	PayStatus   int8
	ProductName string
}

type OwnerDao struct {
	DB *gorm.DB
}

func NewOwnerDao() *OwnerDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &OwnerDao{DB: dal.MainDB}
}

func NewOwnerDaoWithDB(db *gorm.DB) *OwnerDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &OwnerDao{DB: db}
}

// Get loads the payable entity behind ref. Returns nil when absent.
func (r *OwnerDao) Get(ref mainmodel.OwnerRef) (*OwnerInfo, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("OwnerDao not initialized")
	}

	switch ref.Type {
	case mainmodel.OwnerSubmission:
		var m mainmodel.Submission
		if err := r.DB.Where("id = ?", ref.ID).First(&m).Error; err != nil {
			return nilIfNotFound(err)
		}
		return &OwnerInfo{Ref: ref, UserID: m.UserID, FeeKrw: m.FeeKrw, PayStatus: m.PayStatus,
			ProductName: "Clearance review: " + m.Title}, nil
	case mainmodel.OwnerSubscription:
		var m mainmodel.Subscription
		if err := r.DB.Where("id = ?", ref.ID).First(&m).Error; err != nil {
			return nilIfNotFound(err)
		}
		return &OwnerInfo{Ref: ref, UserID: m.UserID, FeeKrw: m.FeeKrw, PayStatus: m.PayStatus,
			ProductName: "Subscription: " + m.PlanName}, nil
	case mainmodel.OwnerKaraoke:
		var m mainmodel.KaraokeRequest
		if err := r.DB.Where("id = ?", ref.ID).First(&m).Error; err != nil {
			return nilIfNotFound(err)
		}
		return &OwnerInfo{Ref: ref, UserID: m.UserID, FeeKrw: m.FeeKrw, PayStatus: m.PayStatus,
			ProductName: "Karaoke registration: " + m.SongTitle}, nil
	default:
		return nil, fmt.Errorf("unknown owner type: %s", ref.Type)
	}
}

func nilIfNotFound(err error) (*OwnerInfo, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("owner query failed: %w", err)
}

// MarkPending records the chosen order id on the owner row so the callback
// path and the continuation page can find the owner from the order id alone.
func (r *OwnerDao) MarkPending(ref mainmodel.OwnerRef, orderID string) error {
	return r.update(ref, map[string]interface{}{
		"pay_status":   mainmodel.PayStatusPending,
		"pay_order_id": orderID,
		"update_time":  time.Now(),
	})
}

// ApplyPaymentResult propagates a terminal order outcome to the owner row.
// Cancel leaves the owner unpaid rather than failed: the user backed out.
func (r *OwnerDao) ApplyPaymentResult(ref mainmodel.OwnerRef, orderID string, paid bool, cancelled bool, when time.Time) error {
	values := map[string]interface{}{
		"pay_order_id": orderID,
		"update_time":  time.Now(),
	}
	switch {
	case paid:
		values["pay_status"] = mainmodel.PayStatusPaid
		if ref.Type == mainmodel.OwnerSubscription {
			values["activated_at"] = when
		} else {
			values["paid_at"] = when
		}
	case cancelled:
		values["pay_status"] = mainmodel.PayStatusUnpaid
	default:
		values["pay_status"] = mainmodel.PayStatusFailed
	}
	return r.update(ref, values)
}

func (r *OwnerDao) update(ref mainmodel.OwnerRef, values map[string]interface{}) error {
	if r == nil || r.DB == nil {
		return errors.New("OwnerDao not initialized")
	}

	var model interface{}
	switch ref.Type {
	case mainmodel.OwnerSubmission:
		model = &mainmodel.Submission{}
	case mainmodel.OwnerSubscription:
		model = &mainmodel.Subscription{}
	case mainmodel.OwnerKaraoke:
		model = &mainmodel.KaraokeRequest{}
	default:
		return fmt.Errorf("unknown owner type: %s", ref.Type)
	}

	res := r.DB.Model(model).Where("id = ?", ref.ID).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("owner update failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("owner not found: %s/%d", ref.Type, ref.ID)
	}
	return nil
}
