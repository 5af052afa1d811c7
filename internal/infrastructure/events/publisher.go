// Package events publishes order status changes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/IBM/sarama"
)

const EventOrderStatusChanged = "order.status_changed"

type OrderStatusChanged struct {
	Event          string    `json:"event"`
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	GatewayOrderID string    `json:"gateway_order_id"`
	AmountKopeks   int64     `json:"amount_kopeks"`
	PreviousStatus int       `json:"previous_status"`
	Status         int       `json:"status"`
	StatusName     string    `json:"status_name"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewOrderStatusChanged(order *domain.Order, previous domain.OrderStatus) OrderStatusChanged {
	return OrderStatusChanged{
		Event:          EventOrderStatusChanged,
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		GatewayOrderID: order.GatewayOrderID,
		AmountKopeks:   order.AmountKopeks,
		PreviousStatus: int(previous),
		Status:         int(order.Status),
		StatusName:     order.Status.String(),
		OccurredAt:     order.UpdatedAt,
	}
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// NewProducerConfig returns the sarama settings the publisher relies on.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	return cfg
}

// PublishStatusChanged sends the event keyed by order number, so changes of one order keep their order.
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, event OrderStatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshalling event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderNumber),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(event.Event)},
		},
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish order status event",
			"order_number", event.OrderNumber,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", event.Event, err)
	}

	p.logger.InfoContext(ctx, "order status event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"order_number", event.OrderNumber,
		"status", event.StatusName,
	)

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, OrderStatusChanged) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
