// Package events publishes order lifecycle notifications to Kafka. The
// topic is a downstream convenience for other systems; the flat-file log
// stays the source of truth and nothing here is read back.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/models"
)

// OrderProcessedEvent is the JSON envelope written per processed order.
type OrderProcessedEvent struct {
	EventID   string             `json:"event_id"`
	OrderID   string             `json:"order_id"`
	Username  string             `json:"username"`
	Total     string             `json:"total"`
	Items     []models.OrderItem `json:"items"`
	PlacedAt  time.Time          `json:"placed_at"`
	EmittedAt time.Time          `json:"emitted_at"`
}

type Producer struct {
	w   *kafkago.Writer
	log *zap.Logger
}

// NewProducer builds a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	w := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	return &Producer{w: w, log: log}
}

// OrderProcessed publishes o keyed by its order id.
func (p *Producer) OrderProcessed(ctx context.Context, o models.Order) error {
	ev := OrderProcessedEvent{
		EventID:   uuid.NewString(),
		OrderID:   o.OrderID,
		Username:  o.Username,
		Total:     o.Total.StringFixed(2),
		Items:     o.Items,
		PlacedAt:  o.Timestamp,
		EmittedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(o.OrderID),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return err
	}
	p.log.Debug("order event published", zap.String("order_id", o.OrderID), zap.String("event_id", ev.EventID))
	return nil
}

func (p *Producer) Close() error { return p.w.Close() }
