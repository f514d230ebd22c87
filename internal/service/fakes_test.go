package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"clearpay-api/internal/dao"
	"clearpay-api/internal/dto"
	mainmodel "clearpay-api/internal/model/main"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/pg"
)

// fakeOrderStore keeps orders in memory with the same conditional-update
// semantics the real DAO gets from the database.
type fakeOrderStore struct {
	mu        sync.Mutex
	orders    map[string]*ordermodel.PayOrder
	insertErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*ordermodel.PayOrder{}}
}

func (f *fakeOrderStore) Insert(o *ordermodel.PayOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *o
	f.orders[o.OrderID] = &cp
	return nil
}

func (f *fakeOrderStore) GetByOrderID(orderID string) (*ordermodel.PayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) GetByOwner(ownerType string, ownerID uint64) ([]ordermodel.PayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ordermodel.PayOrder
	for _, o := range f.orders {
		if o.OwnerType == ownerType && o.OwnerID == ownerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) FinalizeIfRequested(orderID string, upd dao.FinalizeUpdate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != ordermodel.StatusRequested {
		return false, nil
	}
	o.Status = upd.Status
	o.FinishTime = &upd.FinishTime
	if upd.PgTid != nil {
		o.PgTid = upd.PgTid
	}
	if upd.ResultCode != nil {
		o.ResultCode = upd.ResultCode
	}
	if upd.ResultMessage != nil {
		o.ResultMessage = upd.ResultMessage
	}
	return true, nil
}

type appliedCall struct {
	ref       mainmodel.OwnerRef
	orderID   string
	paid      bool
	cancelled bool
}

type fakeOwnerStore struct {
	mu       sync.Mutex
	owners   map[mainmodel.OwnerRef]*dao.OwnerInfo
	pending  map[mainmodel.OwnerRef]string
	applied  []appliedCall
	applyErr error
}

func newFakeOwnerStore() *fakeOwnerStore {
	return &fakeOwnerStore{
		owners:  map[mainmodel.OwnerRef]*dao.OwnerInfo{},
		pending: map[mainmodel.OwnerRef]string{},
	}
}

func (f *fakeOwnerStore) Get(ref mainmodel.OwnerRef) (*dao.OwnerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.owners[ref]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOwnerStore) MarkPending(ref mainmodel.OwnerRef, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[ref] = orderID
	return nil
}

func (f *fakeOwnerStore) ApplyPaymentResult(ref mainmodel.OwnerRef, orderID string, paid bool, cancelled bool, when time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, appliedCall{ref: ref, orderID: orderID, paid: paid, cancelled: cancelled})
	return nil
}

type fakeGateway struct {
	mu           sync.Mutex
	approveRes   *pg.ApprovalResult
	approveErr   error
	approveCalls int
	lastApprove  pg.ApproveRequest
	cancelErr    error
	cancelCalls  int
	lastCancel   pg.ApproveRequest
}

func (f *fakeGateway) Approve(ctx context.Context, req pg.ApproveRequest) (*pg.ApprovalResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approveCalls++
	f.lastApprove = req
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	if f.approveRes == nil {
		return nil, errors.New("no scripted response")
	}
	cp := *f.approveRes
	return &cp, nil
}

func (f *fakeGateway) NetCancel(ctx context.Context, req pg.ApproveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	f.lastCancel = req
	return f.cancelErr
}

type stubPublisher struct {
	mu     sync.Mutex
	events []dto.OrderFinalizedEvent
}

func (s *stubPublisher) PublishOrderFinalized(evt dto.OrderFinalizedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

type alertRecorder struct {
	mu     sync.Mutex
	titles []string
}

func (a *alertRecorder) record(level, title string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.titles = append(a.titles, title)
}
