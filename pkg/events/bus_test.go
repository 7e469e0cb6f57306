package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(id, content string) Frame {
	return Frame{ID: id, Kind: KindUser, Content: content, Timestamp: time.Now()}
}

func TestSubscribeReplaysRingTailInOrder(t *testing.T) {
	bus := NewBus(10, 3)
	for i := 0; i < 5; i++ {
		bus.Publish(frame(string(rune('a'+i)), "content"))
	}

	replay, sub := bus.Subscribe("p1")
	defer bus.Unsubscribe(sub)

	require.Len(t, replay, 3)
	assert.Equal(t, "c", replay[0].ID)
	assert.Equal(t, "d", replay[1].ID)
	assert.Equal(t, "e", replay[2].ID)
}

func TestSubscribeReplaysFewerThanKWhenRingSmall(t *testing.T) {
	bus := NewBus(10, 50)
	bus.Publish(frame("only", "x"))

	replay, sub := bus.Subscribe("p1")
	defer bus.Unsubscribe(sub)

	require.Len(t, replay, 1)
}

func TestPublishSameIDReplacesInPlace(t *testing.T) {
	bus := NewBus(10, 10)
	bus.Publish(frame("msg-1", "partial"))
	bus.Publish(frame("msg-1", "partial more"))
	bus.Publish(frame("msg-1", "final"))

	replay, sub := bus.Subscribe("p1")
	defer bus.Unsubscribe(sub)

	require.Len(t, replay, 1)
	assert.Equal(t, "final", replay[0].Content)
}

func TestPublishEvictsOldestWhenRingFull(t *testing.T) {
	bus := NewBus(2, 2)
	bus.Publish(frame("1", "a"))
	bus.Publish(frame("2", "b"))
	bus.Publish(frame("3", "c"))

	replay, sub := bus.Subscribe("p1")
	defer bus.Unsubscribe(sub)

	require.Len(t, replay, 2)
	assert.Equal(t, "2", replay[0].ID)
	assert.Equal(t, "3", replay[1].ID)
}

func TestLiveDeliveryAfterReplay(t *testing.T) {
	bus := NewBus(10, 10)
	_, sub := bus.Subscribe("p1")
	defer bus.Unsubscribe(sub)

	bus.Publish(frame("live-1", "hello"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f, ok, err := sub.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "live-1", f.ID)
}

func TestNextReturnsHeartbeatWhenIdle(t *testing.T) {
	bus := NewBus(10, 10)
	_, sub := bus.Subscribe("p1")
	defer bus.Unsubscribe(sub)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, ok, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFullQueueUnsubscribesDeadConsumer(t *testing.T) {
	bus := NewBus(100, 100)
	_, sub := bus.Subscribe("p1")

	for i := 0; i < subscriberQueueDepth+5; i++ {
		bus.Publish(frame(string(rune('a'+i)), "x"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, err := sub.Next(ctx)
	// Either the queue drained some buffered frames first or the
	// subscription was already evicted; eventually Next reports closed.
	for err == nil {
		_, _, err = sub.Next(ctx)
	}
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestMembershipCallbacks(t *testing.T) {
	bus := NewBus(10, 10)
	var subscribed, unsubscribed string
	bus.OnMembershipChange(
		func(id string) { subscribed = id },
		func(id string) { unsubscribed = id },
	)

	_, sub := bus.Subscribe("p1")
	assert.Equal(t, "p1", subscribed)

	bus.Unsubscribe(sub)
	assert.Equal(t, "p1", unsubscribed)
}

func TestConcurrentPublishDuringEvictionDoesNotPanic(t *testing.T) {
	bus := NewBus(500, 10)
	// A subscriber that never reads, so every publisher races to evict it
	// while others are still fanning out to their snapshots.
	_, dead := bus.Subscribe("dead")
	_ = dead

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				bus.Publish(frame(fmt.Sprintf("g%d-%d", g, i), "x"))
			}
		}(g)
	}
	wg.Wait()
}

func TestNextDrainsBufferedFramesBeforeReportingClosed(t *testing.T) {
	bus := NewBus(10, 10)
	_, sub := bus.Subscribe("p1")
	bus.Publish(frame("buffered", "x"))
	bus.Unsubscribe(sub)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	f, ok, err := sub.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "buffered", f.ID)

	_, _, err = sub.Next(ctx)
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus(10, 10)
	_, sub := bus.Subscribe("p1")
	bus.Unsubscribe(sub)
	assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
}
