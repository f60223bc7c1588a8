package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lumenlab/ledsignal/internal/light"
)

// Intent is a deferred mutation of the scene hierarchy. Network handlers
// build intents; only the render loop ever runs Apply, so the hierarchy
// needs no locking of its own.
type Intent struct {
	ID      string
	Address string
	Apply   func(m *light.Manager) error
}

// NewIntent tags a mutation with a fresh id so a dropped or failed command
// can be correlated across log lines.
func NewIntent(address string, apply func(m *light.Manager) error) Intent {
	return Intent{ID: uuid.NewString(), Address: address, Apply: apply}
}

// Queue is the bounded handoff between network handlers and the render
// loop. When full, the oldest pending intent is dropped and counted: stale
// control input loses to fresh control input.
type Queue struct {
	mu      sync.Mutex
	items   []Intent
	limit   int
	dropped uint64
}

// NewQueue creates a queue holding at most limit pending intents.
func NewQueue(limit int) *Queue {
	if limit < 1 {
		limit = 1
	}
	return &Queue{limit: limit}
}

// Enqueue adds an intent, evicting the oldest pending one if the queue is
// full. Never blocks.
func (q *Queue) Enqueue(in Intent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.limit {
		evicted := q.items[0]
		q.items = q.items[1:]
		q.dropped++
		log.Warn().
			Str("address", evicted.Address).
			Str("intent_id", evicted.ID).
			Uint64("dropped_total", q.dropped).
			Msg("Command queue full, dropping oldest intent")
	}
	q.items = append(q.items, in)
}

// Drain removes and returns up to max pending intents in arrival order.
func (q *Queue) Drain(max int) []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	n := len(q.items)
	if max > 0 && n > max {
		n = max
	}
	out := make([]Intent, n)
	copy(out, q.items[:n])
	q.items = append(q.items[:0], q.items[n:]...)
	return out
}

// Len reports the number of pending intents.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped reports how many intents have been evicted since creation.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
