package event

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"

	"clearpay-api/internal/dal"
	"clearpay-api/internal/dto"
)

// Publisher decouples finalize from the broker. The finalize path must not
// fail because the broker is down; implementations log and swallow.
type Publisher interface {
	PublishOrderFinalized(evt dto.OrderFinalizedEvent)
}

// RabbitPublisher publishes to the order_events topic exchange declared by
// dal.InitRabbitMQ.
type RabbitPublisher struct{}

func NewRabbitPublisher() *RabbitPublisher {
	return &RabbitPublisher{}
}

func (p *RabbitPublisher) PublishOrderFinalized(evt dto.OrderFinalizedEvent) {
	if dal.RabbitCh == nil {
		return
	}
	b, _ := json.Marshal(evt)
	err := dal.RabbitCh.Publish(
		"order_events",
		"order.finalized",
		false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         b,
		},
	)
	if err != nil {
		log.Printf("publish order.finalized failed: %v", err)
	}
}
