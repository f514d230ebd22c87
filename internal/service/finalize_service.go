package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"clearpay-api/internal/constant"
	"clearpay-api/internal/dao"
	"clearpay-api/internal/dto"
	"clearpay-api/internal/event"
	mainmodel "clearpay-api/internal/model/main"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/notify"
	"clearpay-api/internal/utils"
	"clearpay-api/internal/utils/timeutil"
)

// FinalizeService applies exactly one terminal outcome per order. Duplicate
// deliveries, concurrent callbacks and replays all funnel through a single
// conditional update on the REQUESTED status; whoever loses the race gets
// Applied=false and must not repeat side effects.
type FinalizeService struct {
	orders OrderStore
	owners OwnerStore
	pub    event.Publisher
	alert  func(level, title string, fields map[string]string)
}

func NewFinalizeService() *FinalizeService {
	return NewFinalizeServiceWith(dao.NewOrderDao(), dao.NewOwnerDao(), event.NewRabbitPublisher())
}

func NewFinalizeServiceWith(orders OrderStore, owners OwnerStore, pub event.Publisher) *FinalizeService {
	return &FinalizeService{orders: orders, owners: owners, pub: pub, alert: notify.PaymentAlert}
}

// FinalizeResult reports what this particular delivery did.
type FinalizeResult struct {
	// Applied is true when this call performed the terminal transition.
	// False means the order was already terminal: respond from Order, do
	// not repeat side effects.
	Applied bool

	// Order reflects the row after finalize (or the pre-existing terminal
	// row for duplicates).
	Order *ordermodel.PayOrder

	// Effective is the outcome actually recorded. An APPROVED outcome with
	// a mismatched amount is downgraded to FAILED here.
	Effective dto.Outcome

	TamperSuspected bool
}

// Finalize transitions orderID out of REQUESTED.
func (s *FinalizeService) Finalize(orderID string, outcome dto.Outcome, traceID string) (*FinalizeResult, error) {
	// 1. load the order
	order, err := s.orders.GetByOrderID(orderID)
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if order == nil {
		return nil, constant.NewErrorf(constant.CodeOrderNotFound, "order not found: %s", orderID)
	}

	// 2. amount tamper check: the gateway-reported amount must equal the
	// amount fixed at creation. A mismatch turns the approval into FAILED,
	// the caller decides whether to reverse the settled transaction.
	effective := outcome
	tamper := false
	if outcome.Kind == dto.OutcomeApproved && !amountMatches(order.AmountKrw, outcome.AmountReported) {
		tamper = true
		plog().Errorf("[Finalize] amount mismatch on %s: stored=%d reported=%q tid=%s",
			orderID, order.AmountKrw, outcome.AmountReported, utils.Mask(outcome.Tid))
		s.alert("CRITICAL", "Payment amount mismatch", map[string]string{
			"orderId":    orderID,
			"tid":        utils.Mask(outcome.Tid),
			"amount":     outcome.AmountReported,
			"resultCode": outcome.ResultCode,
			"traceId":    traceID,
		})
		effective = dto.Failed("AMOUNT_MISMATCH", "reported amount does not match order")
	}

	// 3. the one conditional write
	now := timeutil.NowSeoul()
	upd := dao.FinalizeUpdate{Status: statusFor(effective.Kind), FinishTime: now}
	if effective.Kind == dto.OutcomeApproved {
		upd.PgTid = &effective.Tid
	}
	if effective.ResultCode != "" {
		upd.ResultCode = &effective.ResultCode
	}
	if effective.ResultMessage != "" {
		upd.ResultMessage = &effective.ResultMessage
	}
	applied, err := s.orders.FinalizeIfRequested(orderID, upd)
	if err != nil {
		plog().Errorf("[Finalize] conditional update failed for %s: %v", orderID, err)
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if !applied {
		existing, gerr := s.orders.GetByOrderID(orderID)
		if gerr != nil || existing == nil {
			existing = order
		}
		plog().Infof("[Finalize] duplicate delivery for %s ignored, status=%s trace=%s",
			orderID, ordermodel.StatusName(existing.Status), traceID)
		return &FinalizeResult{Applied: false, Order: existing, Effective: effective, TamperSuspected: tamper}, nil
	}

	order.Status = upd.Status
	order.FinishTime = &now
	if upd.PgTid != nil {
		order.PgTid = upd.PgTid
	}
	if upd.ResultCode != nil {
		order.ResultCode = upd.ResultCode
	}
	if upd.ResultMessage != nil {
		order.ResultMessage = upd.ResultMessage
	}

	// 4. propagate to the owner row. Cross-database, so not atomic with the
	// order write: a failure here leaves a recoverable inconsistency that is
	// alerted for manual reconciliation, never rolled back.
	ref := mainmodel.OwnerRef{Type: order.OwnerType, ID: order.OwnerID}
	paid := effective.Kind == dto.OutcomeApproved
	cancelled := effective.Kind == dto.OutcomeCancelled
	if err := s.owners.ApplyPaymentResult(ref, orderID, paid, cancelled, now); err != nil {
		plog().Errorf("[Finalize] owner propagation failed for %s (%s/%d): %v", orderID, ref.Type, ref.ID, err)
		s.alert("CRITICAL", "Order finalized but owner update failed", map[string]string{
			"orderId": orderID,
			"reason":  err.Error(),
			"traceId": traceID,
		})
	}

	cacheOrder(order)

	// 5. announce; consumers write the audit row
	if s.pub != nil {
		evt := dto.OrderFinalizedEvent{
			OrderID:       orderID,
			OwnerType:     order.OwnerType,
			OwnerID:       order.OwnerID,
			Status:        ordermodel.StatusName(order.Status),
			ResultCode:    effective.ResultCode,
			ResultMessage: effective.ResultMessage,
			AmountKrw:     order.AmountKrw,
			TraceID:       traceID,
			FinalizedAt:   now.Unix(),
		}
		if order.PgTid != nil {
			evt.PgTidMasked = utils.Mask(*order.PgTid)
		}
		s.pub.PublishOrderFinalized(evt)
	}

	plog().Infof("[Finalize] order %s -> %s code=%s trace=%s",
		orderID, ordermodel.StatusName(order.Status), effective.ResultCode, traceID)
	return &FinalizeResult{Applied: true, Order: order, Effective: effective, TamperSuspected: tamper}, nil
}

func statusFor(kind string) int8 {
	switch kind {
	case dto.OutcomeApproved:
		return ordermodel.StatusApproved
	case dto.OutcomeCancelled:
		return ordermodel.StatusCanceled
	default:
		return ordermodel.StatusFailed
	}
}

// amountMatches compares the gateway-reported amount string against the
// stored integer KRW amount. The gateway is inconsistent about formatting
// ("5000" vs "5000.00"), so the comparison is numeric, but a missing or
// unparseable amount fails closed.
func amountMatches(stored int64, reported string) bool {
	reported = strings.TrimSpace(reported)
	if reported == "" {
		return false
	}
	d, err := decimal.NewFromString(reported)
	if err != nil {
		return false
	}
	return d.Equal(decimal.NewFromInt(stored))
}
