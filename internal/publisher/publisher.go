package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// OrderConfirmedEvent is published after an invoice and its quantity rows
// have been persisted.
type OrderConfirmedEvent struct {
	InvoiceNumber int64            `json:"invoice_number"`
	UserID        int64            `json:"user_id"`
	FinalAmount   float64          `json:"final_amount"`
	CreatedAt     string           `json:"created_at"`
	Items         []OrderItemEvent `json:"items"`
}

type OrderItemEvent struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event *OrderConfirmedEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	if len(brokers) == 0 {
		return &KafkaPublisher{}
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-confirmed",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderConfirmed(ctx context.Context, event *OrderConfirmedEvent) error {
	if p.writer == nil {
		return nil // publishing disabled
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order confirmed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprint(event.UserID)), // per-user ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_confirmed")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
