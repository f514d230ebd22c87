package service

import (
	"encoding/json"
	"time"

	"clearpay-api/internal/dal"
	"clearpay-api/internal/dto"
	ordermodel "clearpay-api/internal/model/order"
)

const (
	orderCachePrefix = "pay:order:"
	orderCacheTTL    = 10 * time.Minute
)

// cacheOrder refreshes the read cache. Best effort: a cache failure is
// logged and ignored, the database stays authoritative.
func cacheOrder(o *ordermodel.PayOrder) {
	if dal.RedisClient == nil || o == nil {
		return
	}
	b, err := json.Marshal(voFromOrder(o))
	if err != nil {
		return
	}
	if err := dal.RedisClient.Set(dal.RedisCtx, orderCachePrefix+o.OrderID, b, orderCacheTTL).Err(); err != nil {
		plog().Warnf("[Cache] set failed for order %s: %v", o.OrderID, err)
	}
}

func cachedOrder(orderID string) *dto.OrderVO {
	if dal.RedisClient == nil {
		return nil
	}
	b, err := dal.RedisClient.Get(dal.RedisCtx, orderCachePrefix+orderID).Bytes()
	if err != nil {
		return nil
	}
	var vo dto.OrderVO
	if err := json.Unmarshal(b, &vo); err != nil {
		return nil
	}
	return &vo
}

func voFromOrder(o *ordermodel.PayOrder) *dto.OrderVO {
	vo := &dto.OrderVO{
		OrderID:     o.OrderID,
		OwnerType:   o.OwnerType,
		OwnerID:     o.OwnerID,
		AmountKrw:   o.AmountKrw,
		ProductName: o.ProductName,
		Status:      ordermodel.StatusName(o.Status),
		CreateTime:  o.CreateTime,
		FinishTime:  o.FinishTime,
	}
	if o.PgTid != nil {
		vo.PgTid = *o.PgTid
	}
	if o.ResultCode != nil {
		vo.ResultCode = *o.ResultCode
	}
	if o.ResultMessage != nil {
		vo.ResultMessage = *o.ResultMessage
	}
	return vo
}
