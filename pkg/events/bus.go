package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// subscriberQueueDepth bounds each subscriber's pending-frame queue. A full
// queue means the consumer cannot keep up (or is dead) and is unregistered —
// the publisher never blocks on a slow subscriber.
const subscriberQueueDepth = 32

// heartbeatInterval bounds how long Subscription.Next blocks with no frame
// before returning a heartbeat, so SSE connections stay alive through idle
// proxies.
const heartbeatInterval = 1 * time.Second

// ErrSubscriptionClosed is returned by Subscription.Next once the bus has
// unregistered the subscription (queue overflow, or Unsubscribe was called).
var ErrSubscriptionClosed = errors.New("events: subscription closed")

// Bus is the process-local broadcast substrate: publish fans a Frame out to
// every live subscriber and appends it to a bounded replay ring; subscribe
// first replays the ring's tail, then delivers live frames. One mutex
// guards the subscriber table; publish snapshots the table and enqueues
// without the lock, so a slow subscriber never blocks the rest.
type Bus struct {
	mu       sync.Mutex
	ring     []Frame
	ringIdx  map[string]int // frame id -> index in ring
	capacity int
	replay   int
	subs     map[string]*Subscription // subscription id -> subscription

	onSubscribe   func(participantID string)
	onUnsubscribe func(participantID string)
}

// NewBus creates a broadcast bus retaining up to capacity frames in its
// replay ring, replaying the last `replay` of them to new subscribers.
func NewBus(capacity, replay int) *Bus {
	return &Bus{
		ring:     make([]Frame, 0, capacity),
		ringIdx:  make(map[string]int, capacity),
		capacity: capacity,
		replay:   replay,
		subs:     make(map[string]*Subscription),
	}
}

// OnMembershipChange registers callbacks invoked when a subscription starts
// or ends, keyed by participant id. Used to wire the participant registry's
// active-tracking without the bus importing that package.
func (b *Bus) OnMembershipChange(onSubscribe, onUnsubscribe func(participantID string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSubscribe = onSubscribe
	b.onUnsubscribe = onUnsubscribe
}

// Subscription is a single live subscriber's delivery channel. The queue
// is never closed — concurrent publishers may still hold a reference to an
// evicted subscription, and a send on a closed channel would panic the
// process. Closure is signalled through done instead.
type Subscription struct {
	id            string
	participantID string
	queue         chan Frame
	done          chan struct{}
	bus           *Bus
	closeOnce     sync.Once
}

// Subscribe registers a new subscription for participantID and returns the
// replay tail (oldest first) to send before switching to live delivery.
func (b *Bus) Subscribe(participantID string) (replay []Frame, sub *Subscription) {
	b.mu.Lock()
	start := 0
	if len(b.ring) > b.replay {
		start = len(b.ring) - b.replay
	}
	replay = append([]Frame(nil), b.ring[start:]...)

	sub = &Subscription{
		id:            uuid.New().String(),
		participantID: participantID,
		queue:         make(chan Frame, subscriberQueueDepth),
		done:          make(chan struct{}),
		bus:           b,
	}
	b.subs[sub.id] = sub
	onSub := b.onSubscribe
	b.mu.Unlock()

	if onSub != nil {
		onSub(participantID)
	}
	return replay, sub
}

// Unsubscribe removes sub from the live subscriber set. Safe to call more
// than once, and safe against publishers still fanning out to a snapshot
// that contains sub: the queue stays open, only done is closed.
func (b *Bus) Unsubscribe(sub *Subscription) {
	sub.closeOnce.Do(func() {
		b.mu.Lock()
		delete(b.subs, sub.id)
		onUnsub := b.onUnsubscribe
		b.mu.Unlock()

		close(sub.done)
		if onUnsub != nil {
			onUnsub(sub.participantID)
		}
	})
}

// Publish appends f to the replay ring (replacing any existing entry with
// the same frame ID in place) and fans it out to every live subscriber.
// A subscriber whose queue is full is dropped — its consumer isn't keeping
// up, which publish treats as a dead connection. A concurrent publisher
// whose snapshot still holds an evicted subscription at worst enqueues
// into its abandoned buffer; the send can never panic because the queue is
// never closed.
func (b *Bus) Publish(f Frame) {
	b.mu.Lock()
	if idx, ok := b.ringIdx[f.ID]; ok {
		b.ring[idx] = f
	} else {
		if len(b.ring) >= b.capacity && b.capacity > 0 {
			evicted := b.ring[0]
			b.ring = b.ring[1:]
			delete(b.ringIdx, evicted.ID)
			for id, i := range b.ringIdx {
				b.ringIdx[id] = i - 1
			}
		}
		b.ring = append(b.ring, f)
		b.ringIdx[f.ID] = len(b.ring) - 1
	}

	snapshot := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		snapshot = append(snapshot, s)
	}
	b.mu.Unlock()

	for _, s := range snapshot {
		select {
		case s.queue <- f:
		default:
			b.Unsubscribe(s)
		}
	}
}

// Next blocks until a frame is available, the subscription is closed, ctx is
// cancelled, or heartbeatInterval elapses with no frame (returned as
// ok=false, err=nil — the caller should emit an SSE comment/heartbeat).
// Frames already buffered when the subscription closes are drained before
// ErrSubscriptionClosed is reported.
func (s *Subscription) Next(ctx context.Context) (frame Frame, ok bool, err error) {
	select {
	case f := <-s.queue:
		return f, true, nil
	default:
	}

	select {
	case f := <-s.queue:
		return f, true, nil
	case <-s.done:
		return Frame{}, false, ErrSubscriptionClosed
	case <-time.After(heartbeatInterval):
		return Frame{}, false, nil
	case <-ctx.Done():
		return Frame{}, false, ctx.Err()
	}
}

// ParticipantID returns the subscription's owning participant.
func (s *Subscription) ParticipantID() string { return s.participantID }

// TryNext returns the next queued frame without blocking. Used once a
// caller knows no more frames are coming (e.g. the orchestrator's dispatch
// for this request has returned) to flush anything still buffered before
// closing out a one-shot /chat response, without racing a context
// cancellation against a non-empty queue.
func (s *Subscription) TryNext() (frame Frame, ok bool) {
	select {
	case f := <-s.queue:
		return f, true
	default:
		return Frame{}, false
	}
}
