package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishJoinsAllHandlers(t *testing.T) {
	bus := NewBus()

	var completed int32
	slow := func(d time.Duration) Handler {
		return func(ctx context.Context, e Event) error {
			time.Sleep(d)
			atomic.AddInt32(&completed, 1)
			return nil
		}
	}

	bus.Subscribe(TypeSelection, slow(50*time.Millisecond))
	bus.Subscribe(TypeSelection, slow(10*time.Millisecond))
	bus.Subscribe(TypeSelection, slow(30*time.Millisecond))

	err := bus.Publish(context.Background(), SelectionEvent{Code: "x"})
	require.NoError(t, err)

	// Publish must not return before every handler has finished, regardless
	// of their individual completion order.
	assert.Equal(t, int32(3), atomic.LoadInt32(&completed))
}

func TestBus_PublishNoSubscribers(t *testing.T) {
	bus := NewBus()

	err := bus.Publish(context.Background(), RefreshRequestedEvent{})
	assert.NoError(t, err)
}

func TestBus_PublishDeliversPayload(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var got []SelectionEvent
	bus.Subscribe(TypeSelection, func(ctx context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(SelectionEvent))
		return nil
	})

	// Events of other types must not reach the handler.
	require.NoError(t, bus.Publish(context.Background(), RefreshRequestedEvent{}))
	require.NoError(t, bus.Publish(context.Background(), SelectionEvent{Code: "pods", DisplayText: "Pods"}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "pods", got[0].Code)
	assert.Equal(t, "Pods", got[0].DisplayText)
}

func TestBus_PublishPropagatesFirstError(t *testing.T) {
	bus := NewBus()

	boom := errors.New("handler exploded")
	var siblingRan int32

	bus.Subscribe(TypeStoreUpdate, func(ctx context.Context, e Event) error {
		return boom
	})
	bus.Subscribe(TypeStoreUpdate, func(ctx context.Context, e Event) error {
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&siblingRan, 1)
		return nil
	})

	err := bus.Publish(context.Background(), StoreUpdateEvent{ResourceKind: "pods"})
	assert.ErrorIs(t, err, boom)

	// The failing handler does not prevent siblings from completing their
	// side effects before Publish returns.
	assert.Equal(t, int32(1), atomic.LoadInt32(&siblingRan))
}

func TestBus_SubscriberCount(t *testing.T) {
	bus := NewBus()
	assert.Equal(t, 0, bus.SubscriberCount(TypeSelection))

	bus.Subscribe(TypeSelection, func(ctx context.Context, e Event) error { return nil })
	bus.Subscribe(TypeSelection, func(ctx context.Context, e Event) error { return nil })
	assert.Equal(t, 2, bus.SubscriberCount(TypeSelection))
}
