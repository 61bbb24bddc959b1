// Package queue models placed-but-not-yet-processed orders. The queue is a
// pure in-process worklist: it is never persisted and starts empty on every
// restart. Durability is the store's job.
package queue

import (
	"sync"

	"github.com/abenova/shopcore/internal/models"
)

// Queue is a FIFO of orders backed by a slice with a moving head index, so
// both ends are amortized O(1).
type Queue struct {
	mu   sync.Mutex
	buf  []models.Order
	head int
}

func New() *Queue { return &Queue{} }

// Enqueue appends o at the rear.
func (q *Queue) Enqueue(o models.Order) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = append(q.buf, o)
}

// Dequeue removes and returns the front order. The second result is false
// when the queue is empty.
func (q *Queue) Dequeue() (models.Order, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.buf) {
		return models.Order{}, false
	}
	o := q.buf[q.head]
	q.buf[q.head] = models.Order{}
	q.head++
	if q.head == len(q.buf) {
		q.buf, q.head = q.buf[:0], 0
	}
	return o, true
}

// IsEmpty reports whether the queue holds no orders.
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head == len(q.buf)
}

// Len reports the number of queued orders.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) - q.head
}
