package service

import (
	"errors"
	"testing"

	"clearpay-api/internal/constant"
	"clearpay-api/internal/dto"
	mainmodel "clearpay-api/internal/model/main"
	ordermodel "clearpay-api/internal/model/order"
)

func requestedOrder() *ordermodel.PayOrder {
	return &ordermodel.PayOrder{
		OrderID:   "SB260101120000AAA",
		OwnerType: mainmodel.OwnerSubmission,
		OwnerID:   42,
		AmountKrw: 5000,
		Status:    ordermodel.StatusRequested,
		Mode:      "staging",
	}
}

func newFinalizeForTest(orders *fakeOrderStore, owners *fakeOwnerStore, pub *stubPublisher) (*FinalizeService, *alertRecorder) {
	rec := &alertRecorder{}
	s := NewFinalizeServiceWith(orders, owners, pub)
	s.alert = rec.record
	return s, rec
}

func TestFinalize_ApprovedHappyPath(t *testing.T) {
	orders := newFakeOrderStore()
	owners := newFakeOwnerStore()
	pub := &stubPublisher{}
	_ = orders.Insert(requestedOrder())
	svc, _ := newFinalizeForTest(orders, owners, pub)

	res, err := svc.Finalize("SB260101120000AAA", dto.Approved("StdpayCARD123", "0000", "OK", "5000"), "t1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !res.Applied || res.TamperSuspected {
		t.Fatalf("applied=%v tamper=%v", res.Applied, res.TamperSuspected)
	}

	stored, _ := orders.GetByOrderID("SB260101120000AAA")
	if stored.Status != ordermodel.StatusApproved {
		t.Errorf("status = %s", ordermodel.StatusName(stored.Status))
	}
	if stored.PgTid == nil || *stored.PgTid != "StdpayCARD123" {
		t.Error("pg tid not recorded")
	}
	if stored.FinishTime == nil {
		t.Error("finish time not set")
	}
	if len(owners.applied) != 1 || !owners.applied[0].paid {
		t.Fatalf("owner not marked paid: %+v", owners.applied)
	}
	if len(pub.events) != 1 || pub.events[0].Status != "APPROVED" {
		t.Fatalf("event not published: %+v", pub.events)
	}
}

func TestFinalize_DuplicateDeliveryIsNoOp(t *testing.T) {
	orders := newFakeOrderStore()
	owners := newFakeOwnerStore()
	pub := &stubPublisher{}
	o := requestedOrder()
	o.Status = ordermodel.StatusApproved
	_ = orders.Insert(o)
	svc, _ := newFinalizeForTest(orders, owners, pub)

	res, err := svc.Finalize(o.OrderID, dto.Approved("T2", "0000", "OK", "5000"), "t2")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res.Applied {
		t.Fatal("duplicate delivery must not apply")
	}
	if res.Order.Status != ordermodel.StatusApproved {
		t.Errorf("existing status not reported: %s", ordermodel.StatusName(res.Order.Status))
	}
	if len(owners.applied) != 0 {
		t.Error("duplicate must not touch the owner row")
	}
	if len(pub.events) != 0 {
		t.Error("duplicate must not publish an event")
	}
}

func TestFinalize_AmountMismatchFailsClosed(t *testing.T) {
	orders := newFakeOrderStore()
	owners := newFakeOwnerStore()
	pub := &stubPublisher{}
	_ = orders.Insert(requestedOrder())
	svc, rec := newFinalizeForTest(orders, owners, pub)

	res, err := svc.Finalize("SB260101120000AAA", dto.Approved("T1", "0000", "OK", "99999"), "t3")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !res.Applied || !res.TamperSuspected {
		t.Fatalf("applied=%v tamper=%v", res.Applied, res.TamperSuspected)
	}
	stored, _ := orders.GetByOrderID("SB260101120000AAA")
	if stored.Status != ordermodel.StatusFailed {
		t.Errorf("tampered amount must finalize FAILED, got %s", ordermodel.StatusName(stored.Status))
	}
	if len(owners.applied) != 1 || owners.applied[0].paid {
		t.Error("owner must not be marked paid on tamper")
	}
	if len(rec.titles) == 0 {
		t.Error("tamper must raise an ops alert")
	}
}

func TestFinalize_CancelLeavesOwnerUnpaid(t *testing.T) {
	orders := newFakeOrderStore()
	owners := newFakeOwnerStore()
	_ = orders.Insert(requestedOrder())
	svc, _ := newFinalizeForTest(orders, owners, &stubPublisher{})

	res, err := svc.Finalize("SB260101120000AAA", dto.Cancelled(), "t4")
	if err != nil || !res.Applied {
		t.Fatalf("finalize: applied=%v err=%v", res != nil && res.Applied, err)
	}
	stored, _ := orders.GetByOrderID("SB260101120000AAA")
	if stored.Status != ordermodel.StatusCanceled {
		t.Errorf("status = %s", ordermodel.StatusName(stored.Status))
	}
	if len(owners.applied) != 1 || !owners.applied[0].cancelled || owners.applied[0].paid {
		t.Fatalf("cancel propagation wrong: %+v", owners.applied)
	}
}

func TestFinalize_OwnerFailureDoesNotRollBack(t *testing.T) {
	orders := newFakeOrderStore()
	owners := newFakeOwnerStore()
	owners.applyErr = errors.New("main db gone")
	_ = orders.Insert(requestedOrder())
	svc, rec := newFinalizeForTest(orders, owners, &stubPublisher{})

	res, err := svc.Finalize("SB260101120000AAA", dto.Approved("T1", "0000", "OK", "5000"), "t5")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !res.Applied {
		t.Fatal("order transition must stand even when owner update fails")
	}
	stored, _ := orders.GetByOrderID("SB260101120000AAA")
	if stored.Status != ordermodel.StatusApproved {
		t.Error("order must remain APPROVED")
	}
	if len(rec.titles) == 0 {
		t.Error("owner failure must raise an ops alert")
	}
}

func TestFinalize_UnknownOrder(t *testing.T) {
	svc, _ := newFinalizeForTest(newFakeOrderStore(), newFakeOwnerStore(), &stubPublisher{})
	_, err := svc.Finalize("SB000000000000XXX", dto.Cancelled(), "t6")
	var cerr constant.Error
	if !errors.As(err, &cerr) || cerr.Code() != constant.CodeOrderNotFound {
		t.Fatalf("want order-not-found, got %v", err)
	}
}

func TestAmountMatches(t *testing.T) {
	cases := []struct {
		stored   int64
		reported string
		want     bool
	}{
		{5000, "5000", true},
		{5000, "5000.00", true},
		{5000, " 5000 ", true},
		{5000, "5001", false},
		{5000, "4999.99", false},
		{5000, "", false},
		{5000, "abc", false},
		{5000, "5,000", false},
	}
	for _, c := range cases {
		if got := amountMatches(c.stored, c.reported); got != c.want {
			t.Errorf("amountMatches(%d, %q) = %v, want %v", c.stored, c.reported, got, c.want)
		}
	}
}
