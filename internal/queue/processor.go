package queue

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/models"
)

// Sink receives orders after they are taken off the queue. The Kafka event
// producer satisfies this; tests use fakes.
type Sink interface {
	OrderProcessed(ctx context.Context, o models.Order) error
}

// Processor drains the queue one order at a time. Processing removes the
// order from the queue only; the store already holds the durable record, so
// a sink failure is logged and never retried here.
type Processor struct {
	q        *Queue
	sink     Sink // nil when events are disabled
	interval time.Duration
	log      *zap.Logger
}

func NewProcessor(q *Queue, sink Sink, interval time.Duration, log *zap.Logger) *Processor {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{q: q, sink: sink, interval: interval, log: log}
}

// Run polls the queue until ctx is cancelled, sleeping interval between
// polls of an empty queue. Cancellation exits quietly.
func (p *Processor) Run(ctx context.Context) error {
	p.log.Info("order processor started", zap.Duration("interval", p.interval))
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		o, ok := p.q.Dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
			continue
		}
		p.process(ctx, o)
	}
}

func (p *Processor) process(ctx context.Context, o models.Order) {
	p.log.Info("processing order",
		zap.String("order_id", o.OrderID),
		zap.String("user", o.Username),
		zap.String("total", o.Total.StringFixed(2)))
	if p.sink == nil {
		return
	}
	if err := p.sink.OrderProcessed(ctx, o); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		p.log.Warn("order event publish failed", zap.String("order_id", o.OrderID), zap.Error(err))
	}
}
