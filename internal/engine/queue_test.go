package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlab/ledsignal/internal/light"
)

func noopIntent(address string) Intent {
	return NewIntent(address, func(*light.Manager) error { return nil })
}

func TestQueue_DrainInArrivalOrder(t *testing.T) {
	q := NewQueue(8)
	for i := 0; i < 3; i++ {
		q.Enqueue(noopIntent(fmt.Sprintf("/cmd/%d", i)))
	}

	got := q.Drain(10)
	require.Len(t, got, 3)
	for i, in := range got {
		assert.Equal(t, fmt.Sprintf("/cmd/%d", i), in.Address)
	}
	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain(10), "drained queue yields nothing")
}

func TestQueue_DrainRespectsBatchLimit(t *testing.T) {
	q := NewQueue(8)
	for i := 0; i < 5; i++ {
		q.Enqueue(noopIntent("/cmd"))
	}

	assert.Len(t, q.Drain(2), 2)
	assert.Equal(t, 3, q.Len())
	assert.Len(t, q.Drain(0), 3, "non-positive max drains everything")
}

func TestQueue_FullDropsOldest(t *testing.T) {
	q := NewQueue(2)
	q.Enqueue(noopIntent("/first"))
	q.Enqueue(noopIntent("/second"))
	q.Enqueue(noopIntent("/third"))

	assert.Equal(t, uint64(1), q.Dropped())

	got := q.Drain(10)
	require.Len(t, got, 2)
	assert.Equal(t, "/second", got[0].Address, "oldest intent was evicted")
	assert.Equal(t, "/third", got[1].Address)
}

func TestNewIntent_UniqueIDs(t *testing.T) {
	a := noopIntent("/a")
	b := noopIntent("/a")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
