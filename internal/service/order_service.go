package service

import (
	"strings"
	"time"

	"clearpay-api/internal/config"
	"clearpay-api/internal/constant"
	"clearpay-api/internal/dao"
	"clearpay-api/internal/dto"
	"clearpay-api/internal/idgen"
	mainmodel "clearpay-api/internal/model/main"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/pg"
	"clearpay-api/internal/utils/timeutil"
)

// OrderService mints payment orders and hands the browser the signed widget
// parameters. The order row is persisted before any signed material leaves
// the server, so every callback can be matched to a known order.
type OrderService struct {
	gw     *config.Gateway
	orders OrderStore
	owners OwnerStore
}

func NewOrderService() *OrderService {
	return &OrderService{
		gw:     config.MustGateway(),
		orders: dao.NewOrderDao(),
		owners: dao.NewOwnerDao(),
	}
}

func NewOrderServiceWith(gw *config.Gateway, orders OrderStore, owners OwnerStore) *OrderService {
	return &OrderService{gw: gw, orders: orders, owners: owners}
}

func orderPrefix(ownerType string) string {
	switch ownerType {
	case mainmodel.OwnerSubscription:
		return idgen.PrefixSubscription
	case mainmodel.OwnerKaraoke:
		return idgen.PrefixKaraoke
	default:
		return idgen.PrefixSubmission
	}
}

// Create starts a payment for the entity in req on behalf of uid.
// The amount always comes from the owner row, never from the request body.
func (s *OrderService) Create(uid uint64, req dto.CreateOrderReq) (*dto.CreateOrderResp, constant.Error) {
	// 1. resolve and validate the payable entity
	ref := mainmodel.OwnerRef{Type: req.OwnerType, ID: req.OwnerID}
	if !ref.Valid() {
		return nil, constant.NewErrorf(constant.CodeOwnerNotFound, "unknown owner type: %s", req.OwnerType)
	}
	owner, err := s.owners.Get(ref)
	if err != nil {
		plog().Errorf("[Order-Create] owner lookup failed for %s/%d: %v", ref.Type, ref.ID, err)
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if owner == nil {
		return nil, constant.NewError(constant.CodeOwnerNotFound)
	}
	if owner.UserID != uid {
		plog().Warnf("[Order-Create] uid %d attempted payment for %s/%d owned by %d", uid, ref.Type, ref.ID, owner.UserID)
		return nil, constant.NewError(constant.CodeOwnershipError)
	}
	if owner.PayStatus == mainmodel.PayStatusPaid {
		return nil, constant.NewError(constant.CodeOrderAlreadyPaid)
	}
	if owner.FeeKrw <= 0 {
		return nil, constant.NewErrorf(constant.CodeAmountInvalid, "invalid fee for %s/%d: %d", ref.Type, ref.ID, owner.FeeKrw)
	}

	// 2. mint the order id and persist the REQUESTED row first
	now := timeutil.NowSeoul()
	orderID := idgen.NewOrderID(orderPrefix(ref.Type), now)
	order := &ordermodel.PayOrder{
		OrderID:     orderID,
		OwnerType:   ref.Type,
		OwnerID:     ref.ID,
		AmountKrw:   owner.FeeKrw,
		ProductName: owner.ProductName,
		BuyerName:   req.BuyerName,
		Status:      ordermodel.StatusRequested,
		Mode:        s.gw.Mode,
	}
	if err := s.orders.Insert(order); err != nil {
		plog().Errorf("[Order-Create] insert failed for %s: %v", orderID, err)
		return nil, constant.NewError(constant.CodeDatabaseError)
	}

	// 3. mark the owner pending; advisory, the order row is authoritative
	if err := s.owners.MarkPending(ref, orderID); err != nil {
		plog().Warnf("[Order-Create] mark pending failed for %s: %v", orderID, err)
	}

	cacheOrder(order)

	// 4. sign the widget parameters; fresh timestamp per attempt
	base := strings.TrimRight(config.C.Server.PublicBaseURL, "/")
	urls := pg.ReturnURLs{
		ReturnURL: base + "/api/v1/pay/callback",
		CloseURL:  base + "/api/v1/pay/close",
	}
	buyer := pg.BuyerInfo{Name: req.BuyerName, Email: req.BuyerEmail, Tel: req.BuyerTel}
	params := pg.BuildSignedParams(s.gw, orderID, owner.FeeKrw, owner.ProductName, buyer, urls, time.Time{})

	plog().Infof("[Order-Create] order %s created, owner=%s/%d amount=%d mode=%s ctx=%s",
		orderID, ref.Type, ref.ID, owner.FeeKrw, s.gw.Mode, req.Context)

	return &dto.CreateOrderResp{
		OrderID:         orderID,
		SignedParams:    params,
		WidgetScriptURL: s.gw.WidgetScriptURL,
		ReturnURL:       urls.ReturnURL,
		CloseURL:        urls.CloseURL,
	}, nil
}

// Get returns one order for its owner. Cache first, database on miss; the
// ownership check always goes to the main database.
func (s *OrderService) Get(uid uint64, orderID string) (*dto.OrderVO, constant.Error) {
	vo := cachedOrder(orderID)
	if vo == nil {
		order, err := s.orders.GetByOrderID(orderID)
		if err != nil {
			return nil, constant.NewError(constant.CodeDatabaseError)
		}
		if order == nil {
			return nil, constant.NewError(constant.CodeOrderNotFound)
		}
		vo = voFromOrder(order)
		cacheOrder(order)
	}

	ref := mainmodel.OwnerRef{Type: vo.OwnerType, ID: vo.OwnerID}
	owner, err := s.owners.Get(ref)
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if owner == nil || owner.UserID != uid {
		return nil, constant.NewError(constant.CodeOwnershipError)
	}
	return vo, nil
}
