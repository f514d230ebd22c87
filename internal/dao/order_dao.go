package dao

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"clearpay-api/internal/dal"
	ordermodel "clearpay-api/internal/model/order"
)

type OrderDao struct {
	DB *gorm.DB
}

func NewOrderDao() *OrderDao {
	if dal.OrderDB == nil {
		log.Panic("[FATAL] dal.OrderDB is nil - database not initialized")
	}
	return &OrderDao{DB: dal.OrderDB}
}

func NewOrderDaoWithDB(db *gorm.DB) *OrderDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &OrderDao{DB: db}
}

func (r *OrderDao) checkDB() error {
	if r == nil {
		return errors.New("OrderDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

func (r *OrderDao) Insert(o *ordermodel.PayOrder) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert order failed: %w", err)
	}
	return r.DB.Create(o).Error
}

func (r *OrderDao) GetByOrderID(orderID string) (*ordermodel.PayOrder, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get by order id failed: %w", err)
	}

	var m ordermodel.PayOrder
	err := r.DB.Where("order_id = ?", orderID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

// GetByOwner returns all orders for a payable entity, newest first.
func (r *OrderDao) GetByOwner(ownerType string, ownerID uint64) ([]ordermodel.PayOrder, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get by owner failed: %w", err)
	}

	var out []ordermodel.PayOrder
	err := r.DB.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("create_time DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}

// FinalizeUpdate is the single terminal write applied to a REQUESTED order.
type FinalizeUpdate struct {
	Status        int8
	PgTid         *string
	ResultCode    *string
	ResultMessage *string
	FinishTime    time.Time
}

// FinalizeIfRequested transitions the order out of REQUESTED with one
// conditional write. Returns false when the row was already terminal, which
// is how duplicate callback delivery is detected without any cross-process
// lock.
func (r *OrderDao) FinalizeIfRequested(orderID string, upd FinalizeUpdate) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("finalize order failed: %w", err)
	}

	values := map[string]interface{}{
		"status":      upd.Status,
		"finish_time": upd.FinishTime,
		"update_time": time.Now(),
	}
	if upd.PgTid != nil {
		values["pg_tid"] = *upd.PgTid
	}
	if upd.ResultCode != nil {
		values["result_code"] = *upd.ResultCode
	}
	if upd.ResultMessage != nil {
		values["result_message"] = *upd.ResultMessage
	}

	res := r.DB.Model(&ordermodel.PayOrder{}).
		Where("order_id = ? AND status = ?", orderID, ordermodel.StatusRequested).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("finalize update failed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderDao) InsertAuditLog(entry *ordermodel.PayAuditLog) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert audit log failed: %w", err)
	}
	return r.DB.Create(entry).Error
}
