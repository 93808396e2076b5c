// Package events publishes order lifecycle events to Kafka. Publishing is
// best-effort: a broker outage must never fail a checkout.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
)

const (
	TypeOrderCreated   = "order_created"
	TypeOrderPaid      = "order_paid"
	TypeShipmentBooked = "shipment_booked"
)

type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	OrderID string         `json:"order_id"`
	At      time.Time      `json:"at"`
	Data    map[string]any `json:"data,omitempty"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, eventType, orderID string, data map[string]any) error {
	ev := Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		OrderID: orderID,
		At:      time.Now().UTC(),
		Data:    data,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: payload,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
