package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"clearpay-api/internal/bridge"
	mainmodel "clearpay-api/internal/model/main"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/pg"
)

type paymentFixture struct {
	orders *fakeOrderStore
	owners *fakeOwnerStore
	gw     *fakeGateway
	pub    *stubPublisher
	alerts *alertRecorder
	svc    *PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		orders: newFakeOrderStore(),
		owners: newFakeOwnerStore(),
		gw:     &fakeGateway{},
		pub:    &stubPublisher{},
		alerts: &alertRecorder{},
	}
	fin := NewFinalizeServiceWith(f.orders, f.owners, f.pub)
	fin.alert = f.alerts.record
	f.svc = NewPaymentServiceWith(testGW(), f.gw, fin)
	f.svc.alert = f.alerts.record
	return f
}

func (f *paymentFixture) seedRequested() {
	_ = f.orders.Insert(&ordermodel.PayOrder{
		OrderID:   "SB260101120000AAA",
		OwnerType: mainmodel.OwnerSubmission,
		OwnerID:   42,
		AmountKrw: 5000,
		Status:    ordermodel.StatusRequested,
	})
}

func callbackForm() url.Values {
	return url.Values{
		"resultCode":   {"0000"},
		"resultMsg":    {"OK"},
		"authToken":    {"tok-abcdef0123456789"},
		"authUrl":      {"https://stgstdpay.example.com/api/v1/auth"},
		"netCancelUrl": {"https://stgstdpay.example.com/api/v1/netcancel"},
		"oid":          {"SB260101120000AAA"},
		"mid":          {"tmtest01"},
		"timestamp":    {"1767225600000"},
		"price":        {"5000"},
	}
}

func approvedResult() *pg.ApprovalResult {
	return &pg.ApprovalResult{ResultCode: "0000", ResultMessage: "OK", Tid: "StdpayCARD123", Amount: "5000"}
}

func orderStatus(t *testing.T, f *paymentFixture) int8 {
	t.Helper()
	o, _ := f.orders.GetByOrderID("SB260101120000AAA")
	if o == nil {
		t.Fatal("order vanished")
	}
	return o.Status
}

func TestHandleCallback_ApprovalSuccess(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	f.gw.approveRes = approvedResult()

	msg := f.svc.HandleCallback(context.Background(), callbackForm(), "t1")
	if msg.Type != bridge.TypeSuccess {
		t.Fatalf("type = %s (%+v)", msg.Type, msg.Payload)
	}
	if msg.Payload.Tid != "StdpayCARD123" {
		t.Errorf("tid = %s", msg.Payload.Tid)
	}
	if orderStatus(t, f) != ordermodel.StatusApproved {
		t.Error("order not approved")
	}
	if f.gw.approveCalls != 1 || f.gw.cancelCalls != 0 {
		t.Errorf("approve=%d cancel=%d", f.gw.approveCalls, f.gw.cancelCalls)
	}
	if f.gw.lastApprove.AuthToken != "tok-abcdef0123456789" {
		t.Error("auth token not forwarded")
	}
}

func TestHandleCallback_GatewayRejection(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	f.gw.approveRes = &pg.ApprovalResult{ResultCode: "1193", ResultMessage: "card limit exceeded"}

	msg := f.svc.HandleCallback(context.Background(), callbackForm(), "t2")
	if msg.Type != bridge.TypeFail || msg.Payload.ResultCode != "1193" {
		t.Fatalf("got %s/%s", msg.Type, msg.Payload.ResultCode)
	}
	if orderStatus(t, f) != ordermodel.StatusFailed {
		t.Error("order not failed")
	}
	// definite rejection: nothing settled, nothing to reverse
	if f.gw.cancelCalls != 0 {
		t.Errorf("net-cancel must be skipped on rejection, calls=%d", f.gw.cancelCalls)
	}
}

func TestHandleCallback_ApprovalTransportErrorCompensates(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	f.gw.approveErr = errors.New("context deadline exceeded")

	msg := f.svc.HandleCallback(context.Background(), callbackForm(), "t3")
	if msg.Type != bridge.TypeFail {
		t.Fatalf("type = %s", msg.Type)
	}
	if orderStatus(t, f) != ordermodel.StatusFailed {
		t.Error("order not failed")
	}
	if f.gw.cancelCalls != 1 {
		t.Fatalf("unknown outcome must be reversed, cancel calls=%d", f.gw.cancelCalls)
	}
	if f.gw.lastCancel.NetCancelURL == "" {
		t.Error("net-cancel url not forwarded")
	}
}

func TestHandleCallback_AmountTamperCompensates(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	res := approvedResult()
	res.Amount = "99999"
	f.gw.approveRes = res

	msg := f.svc.HandleCallback(context.Background(), callbackForm(), "t4")
	if msg.Type != bridge.TypeFail || msg.Payload.ResultCode != "AMOUNT_MISMATCH" {
		t.Fatalf("got %s/%s", msg.Type, msg.Payload.ResultCode)
	}
	if orderStatus(t, f) != ordermodel.StatusFailed {
		t.Error("order not failed")
	}
	if f.gw.cancelCalls != 1 {
		t.Error("tampered approval must be reversed")
	}
}

func TestHandleCallback_CancelFlag(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	form := callbackForm()
	form.Set("cancelYN", "Y")

	msg := f.svc.HandleCallback(context.Background(), form, "t5")
	if msg.Type != bridge.TypeCancel {
		t.Fatalf("type = %s", msg.Type)
	}
	if orderStatus(t, f) != ordermodel.StatusCanceled {
		t.Error("order not canceled")
	}
	if f.gw.approveCalls != 0 {
		t.Error("cancel must never call approve")
	}
	if len(f.owners.applied) != 1 || !f.owners.applied[0].cancelled {
		t.Error("owner must be reset to unpaid on cancel")
	}
}

func TestHandleCallback_DuplicateDelivery(t *testing.T) {
	f := newPaymentFixture(t)
	tid := "StdpayCARD123"
	_ = f.orders.Insert(&ordermodel.PayOrder{
		OrderID:   "SB260101120000AAA",
		OwnerType: mainmodel.OwnerSubmission,
		OwnerID:   42,
		AmountKrw: 5000,
		Status:    ordermodel.StatusApproved,
		PgTid:     &tid,
	})

	msg := f.svc.HandleCallback(context.Background(), callbackForm(), "t6")
	if msg.Type != bridge.TypeSuccess {
		t.Fatalf("replay of an approved order should answer SUCCESS, got %s", msg.Type)
	}
	if f.gw.approveCalls != 0 {
		t.Fatal("replay must never approve twice")
	}
	if f.gw.cancelCalls != 0 {
		t.Error("replay must not net-cancel the consumed token")
	}
	if len(f.owners.applied) != 0 {
		t.Error("replay must not touch the owner row")
	}
}

func TestHandleCallback_UnknownOrderReleasesHold(t *testing.T) {
	f := newPaymentFixture(t)

	msg := f.svc.HandleCallback(context.Background(), callbackForm(), "t7")
	if msg.Type != bridge.TypeFail || msg.Payload.ResultCode != "ORDER_NOT_FOUND" {
		t.Fatalf("got %s/%s", msg.Type, msg.Payload.ResultCode)
	}
	if f.gw.approveCalls != 0 {
		t.Error("unknown order must never be approved")
	}
	if f.gw.cancelCalls != 1 {
		t.Error("authorization for an unknown order must be released")
	}
}

func TestHandleCallback_MissingFields(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	form := callbackForm()
	form.Del("authToken")

	msg := f.svc.HandleCallback(context.Background(), form, "t8")
	if msg.Type != bridge.TypeFail || msg.Payload.ResultCode != "MISSING_FIELD" {
		t.Fatalf("got %s/%s", msg.Type, msg.Payload.ResultCode)
	}
	if f.gw.approveCalls != 0 {
		t.Error("approval must not run without a token")
	}
	if orderStatus(t, f) != ordermodel.StatusFailed {
		t.Error("order should be finalized FAILED")
	}
}

func TestHandleCallback_NetCancelFailureAlerts(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedRequested()
	f.gw.approveErr = errors.New("read timeout")
	f.gw.cancelErr = errors.New("gateway down")

	_ = f.svc.HandleCallback(context.Background(), callbackForm(), "t9")
	if f.gw.cancelCalls != 1 {
		t.Fatal("net-cancel must be attempted exactly once")
	}
	if len(f.alerts.titles) == 0 {
		t.Fatal("failed compensation must raise an ops alert")
	}
}
