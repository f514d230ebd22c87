package mq

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"

	"clearpay-api/internal/dal"
	"clearpay-api/internal/dao"
	"clearpay-api/internal/dto"
	ordermodel "clearpay-api/internal/model/order"
	"clearpay-api/internal/notify"
	"clearpay-api/internal/utils"
)

// StartConsumers drains the order_finalized queue. The consumer writes the
// append-only audit row and raises ops alerts for failed payments; it never
// touches order state, finalize already happened.
func StartConsumers() {
	if dal.RabbitCh == nil {
		log.Println("RabbitMQ channel not initialized")
		return
	}
	msgs, err := dal.RabbitCh.Consume("order_finalized", "", false, false, false, false, nil)
	if err != nil {
		log.Printf("consume order_finalized failed: %v", err)
		return
	}
	for d := range msgs {
		go handleFinalized(d)
	}
}

func handleFinalized(d amqp.Delivery) {
	var evt dto.OrderFinalizedEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		log.Printf("order_finalized unmarshal err: %v", err)
		d.Nack(false, false)
		return
	}

	entry := &ordermodel.PayAuditLog{
		OrderID:       evt.OrderID,
		OwnerType:     evt.OwnerType,
		OwnerID:       evt.OwnerID,
		Status:        evt.Status,
		PgTidMasked:   evt.PgTidMasked,
		ResultCode:    evt.ResultCode,
		ResultMessage: utils.Truncate(evt.ResultMessage, 255),
		AmountKrw:     evt.AmountKrw,
		TraceID:       evt.TraceID,
		CreatedAt:     time.Unix(evt.FinalizedAt, 0),
	}
	if err := dao.NewOrderDao().InsertAuditLog(entry); err != nil {
		log.Printf("audit insert failed for %s: %v", evt.OrderID, err)
		// requeue once via redelivery; a broken row is dropped on the retry
		d.Nack(false, !d.Redelivered)
		return
	}

	if evt.Status == "FAILED" {
		notify.PaymentAlert("WARN", "Payment failed", map[string]string{
			"orderId":    evt.OrderID,
			"resultCode": evt.ResultCode,
			"resultMsg":  evt.ResultMessage,
			"traceId":    evt.TraceID,
		})
	}

	d.Ack(false)
}
