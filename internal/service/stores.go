package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"clearpay-api/internal/dao"
	"clearpay-api/internal/logger"
	mainmodel "clearpay-api/internal/model/main"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/pg"
)

// OrderStore is the slice of OrderDao the services need. Narrow on purpose:
// the finalize path must be testable without a database.
type OrderStore interface {
	Insert(o *ordermodel.PayOrder) error
	GetByOrderID(orderID string) (*ordermodel.PayOrder, error)
	GetByOwner(ownerType string, ownerID uint64) ([]ordermodel.PayOrder, error)
	FinalizeIfRequested(orderID string, upd dao.FinalizeUpdate) (bool, error)
}

// OwnerStore abstracts the owner tables in the main database.
type OwnerStore interface {
	Get(ref mainmodel.OwnerRef) (*dao.OwnerInfo, error)
	MarkPending(ref mainmodel.OwnerRef, orderID string) error
	ApplyPaymentResult(ref mainmodel.OwnerRef, orderID string, paid bool, cancelled bool, when time.Time) error
}

// GatewayClient is satisfied by pg.Client; tests substitute a scripted fake.
type GatewayClient interface {
	Approve(ctx context.Context, req pg.ApproveRequest) (*pg.ApprovalResult, error)
	NetCancel(ctx context.Context, req pg.ApproveRequest) error
}

// plog returns the payment logger, falling back to the default logger when
// logging is not initialized (tests).
func plog() *logrus.Logger {
	if logger.Payment != nil {
		return logger.Payment
	}
	return logrus.StandardLogger()
}
