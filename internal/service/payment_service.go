package service

import (
	"context"
	"net/url"
	"time"

	"clearpay-api/internal/bridge"
	"clearpay-api/internal/callback"
	"clearpay-api/internal/config"
	"clearpay-api/internal/dto"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/notify"
	"clearpay-api/internal/pg"
	"clearpay-api/internal/utils"
)

// PaymentService drives the untrusted browser callback to a terminal order
// state: classify, approve server-to-server, finalize exactly once, and
// net-cancel whenever an authorization may be left dangling.
type PaymentService struct {
	gw       *config.Gateway
	client   GatewayClient
	finalize *FinalizeService
	alert    func(level, title string, fields map[string]string)
}

func NewPaymentService() *PaymentService {
	gw := config.MustGateway()
	return &PaymentService{
		gw:       gw,
		client:   pg.NewClient(gw),
		finalize: NewFinalizeService(),
		alert:    notify.PaymentAlert,
	}
}

func NewPaymentServiceWith(gw *config.Gateway, client GatewayClient, finalize *FinalizeService) *PaymentService {
	return &PaymentService{gw: gw, client: client, finalize: finalize, alert: notify.PaymentAlert}
}

// HandleCallback processes one gateway redirect delivery. It always returns
// a bridge message: the popup needs an answer no matter what went wrong.
func (s *PaymentService) HandleCallback(ctx context.Context, form url.Values, traceID string) bridge.Message {
	// 1. normalize and classify; pure, no side effects yet
	fields := pg.NormalizeCallback(form)
	cls := callback.Classify(fields, s.gw.MerchantID)
	plog().Infof("[Callback] kind=%s order=%s code=%s trace=%s", cls.Kind, fields.OrderID, cls.ResultCode, traceID)

	switch cls.Kind {
	case callback.KindCancelled:
		if fields.OrderID != "" {
			if _, err := s.finalize.Finalize(fields.OrderID, dto.Cancelled(), traceID); err != nil {
				plog().Warnf("[Callback] cancel finalize failed for %s: %v", fields.OrderID, err)
			}
		}
		return bridge.Cancel(fields.OrderID)

	case callback.KindFailed:
		if fields.OrderID != "" {
			if _, err := s.finalize.Finalize(fields.OrderID, dto.Failed(cls.ResultCode, cls.ResultMessage), traceID); err != nil {
				plog().Warnf("[Callback] fail finalize failed for %s: %v", fields.OrderID, err)
			}
		}
		return bridge.Fail(fields.OrderID, cls.ResultCode, cls.ResultMessage)
	}

	// AWAITING_APPROVAL from here on.
	req := pg.ApproveRequest{
		AuthURL:      cls.AuthURL,
		AuthToken:    cls.AuthToken,
		Timestamp:    cls.Timestamp,
		NetCancelURL: cls.NetCancelURL,
	}

	// 2. the order must exist and still be open before money moves
	order, err := s.finalize.orders.GetByOrderID(cls.OrderID)
	if err != nil {
		plog().Errorf("[Callback] order lookup failed for %s: %v", cls.OrderID, err)
		s.compensate(req, false, "", cls.OrderID)
		return bridge.Error("temporary failure, payment was not completed")
	}
	if order == nil {
		plog().Warnf("[Callback] callback for unknown order %s, releasing authorization", cls.OrderID)
		s.compensate(req, false, "", cls.OrderID)
		return bridge.Fail(cls.OrderID, "ORDER_NOT_FOUND", "no such order")
	}
	if order.Status != ordermodel.StatusRequested {
		// Replay of an already-settled callback. The token was consumed by
		// the first delivery; approving again would start a new payment.
		plog().Infof("[Callback] order %s already terminal (%s), skipping approval",
			cls.OrderID, ordermodel.StatusName(order.Status))
		s.compensate(req, true, "order already finalized, auth token consumed by first delivery", cls.OrderID)
		return messageFor(order)
	}

	// 3. server-to-server approval, bounded by its own deadline
	actx, cancel := context.WithTimeout(ctx, time.Duration(s.gw.ApproveTimeoutSec)*time.Second)
	defer cancel()
	res, err := s.client.Approve(actx, req)
	if err != nil {
		// Unknown outcome: the approval may or may not have gone through.
		// Record FAILED and reverse whatever the gateway holds.
		plog().Errorf("[Callback] approval errored for %s: %v", cls.OrderID, err)
		if _, ferr := s.finalize.Finalize(cls.OrderID, dto.Failed("APPROVE_ERROR", "approval call failed"), traceID); ferr != nil {
			plog().Errorf("[Callback] finalize after approval error failed for %s: %v", cls.OrderID, ferr)
		}
		s.compensate(req, false, "", cls.OrderID)
		return bridge.Fail(cls.OrderID, "APPROVE_ERROR", "payment could not be completed")
	}
	if !res.Success() {
		// Definite rejection: no settled transaction exists to reverse.
		if _, ferr := s.finalize.Finalize(cls.OrderID, dto.Failed(res.ResultCode, res.ResultMessage), traceID); ferr != nil {
			plog().Errorf("[Callback] finalize after rejection failed for %s: %v", cls.OrderID, ferr)
		}
		s.compensate(req, true, "gateway rejected approval, nothing settled", cls.OrderID)
		return bridge.Fail(cls.OrderID, res.ResultCode, res.ResultMessage)
	}

	// 4. money moved; record it exactly once
	fr, ferr := s.finalize.Finalize(cls.OrderID, dto.Approved(res.Tid, res.ResultCode, res.ResultMessage, res.Amount), traceID)
	if ferr != nil {
		// Settled at the gateway but not recorded here. Reverse rather than
		// leave an approval we cannot account for.
		plog().Errorf("[Callback] finalize failed after settlement for %s: %v", cls.OrderID, ferr)
		s.alert("CRITICAL", "Settled payment could not be recorded", map[string]string{
			"orderId": cls.OrderID,
			"tid":     utils.Mask(res.Tid),
			"traceId": traceID,
		})
		s.compensate(req, false, "", cls.OrderID)
		return bridge.Error("temporary failure, payment was reversed")
	}
	if fr.TamperSuspected {
		s.compensate(req, false, "", cls.OrderID)
		return bridge.Fail(cls.OrderID, "AMOUNT_MISMATCH", "payment rejected and reversed")
	}
	if !fr.Applied {
		// A concurrent delivery finalized first; it owns the side effects.
		s.compensate(req, true, "concurrent delivery already finalized the order", cls.OrderID)
		return messageFor(fr.Order)
	}

	return bridge.Success(cls.OrderID, res.Tid, res.Amount)
}

// messageFor maps a terminal order row to the bridge message a late or
// duplicate popup should see.
func messageFor(o *ordermodel.PayOrder) bridge.Message {
	code, msg := "", ""
	if o.ResultCode != nil {
		code = *o.ResultCode
	}
	if o.ResultMessage != nil {
		msg = *o.ResultMessage
	}
	switch o.Status {
	case ordermodel.StatusApproved:
		tid := ""
		if o.PgTid != nil {
			tid = *o.PgTid
		}
		return bridge.Success(o.OrderID, tid, "")
	case ordermodel.StatusCanceled:
		return bridge.Cancel(o.OrderID)
	default:
		return bridge.Fail(o.OrderID, code, msg)
	}
}

// compensate reverses a possibly-dangling authorization. Skipping is always
// an explicit decision with a stated reason. Runs on a detached context: the
// inbound request may already be dead, the reversal must still happen.
func (s *PaymentService) compensate(req pg.ApproveRequest, skip bool, skipReason, orderID string) {
	if skip {
		plog().Infof("[NetCancel] skipped for %s: %s", orderID, skipReason)
		return
	}
	if req.NetCancelURL == "" {
		plog().Errorf("[NetCancel] no net-cancel url for %s, manual reversal required", orderID)
		s.alert("CRITICAL", "Net-cancel impossible: no url", map[string]string{"orderId": orderID})
		return
	}

	nctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.gw.NetCancelTimeoutSec)*time.Second)
	defer cancel()
	if err := s.client.NetCancel(nctx, req); err != nil {
		// Single attempt. A failed reversal goes straight to ops, an
		// auto-retry loop would just hammer a gateway that is already down.
		plog().Errorf("[NetCancel] failed for %s: %v", orderID, err)
		s.alert("CRITICAL", "Net-cancel failed, manual reversal required", map[string]string{
			"orderId": orderID,
			"reason":  err.Error(),
		})
		return
	}
	plog().Infof("[NetCancel] authorization reversed for %s", orderID)
}
