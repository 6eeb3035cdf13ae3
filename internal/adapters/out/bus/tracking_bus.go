// Package bus provides the in-process tracking broadcast channel. Command
// handlers publish tracking events into it and transport adapters (the
// tracking WebSocket endpoint) subscribe per order.
package bus

import (
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// subscriptionBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing events and recovers from the
// persisted tracking snapshot.
const subscriptionBuffer = 16

// Event is one broadcast delivered to a subscriber.
type Event struct {
	Type      ports.EventType
	Data      any
	Timestamp time.Time
}

// Subscription is one subscriber's view of an order's tracking channel.
// Close it when done; the bus never closes it on its own.
type Subscription struct {
	bus     *TrackingBus
	orderID kernel.UUID
	events  chan Event
	once    sync.Once
}

// Events returns the channel the subscriber reads broadcasts from.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription from the bus and releases its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.unsubscribe(s)
		close(s.events)
	})
}

// TrackingBus fans tracking events out to the subscribers of each order.
// Delivery is best-effort: Publish never blocks, a subscriber whose buffer
// is full misses the event.
type TrackingBus struct {
	mu          sync.RWMutex
	subscribers map[kernel.UUID]map[*Subscription]struct{}
	logger      *slog.Logger
}

// NewTrackingBus creates an empty tracking bus.
func NewTrackingBus(logger *slog.Logger) *TrackingBus {
	return &TrackingBus{
		subscribers: make(map[kernel.UUID]map[*Subscription]struct{}),
		logger:      logger.With("component", "tracking_bus"),
	}
}

// Subscribe registers a new subscriber for the given order's broadcasts.
func (b *TrackingBus) Subscribe(orderID kernel.UUID) *Subscription {
	sub := &Subscription{
		bus:     b,
		orderID: orderID,
		events:  make(chan Event, subscriptionBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	group, ok := b.subscribers[orderID]
	if !ok {
		group = make(map[*Subscription]struct{})
		b.subscribers[orderID] = group
	}
	group[sub] = struct{}{}

	return sub
}

// Publish delivers the event to every current subscriber of the order.
// Subscribers whose buffers are full are skipped.
func (b *TrackingBus) Publish(orderID kernel.UUID, eventType ports.EventType, payload any) {
	event := Event{
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[orderID] {
		select {
		case sub.events <- event:
		default:
			b.logger.Warn("dropping tracking event for slow subscriber",
				"orderId", orderID.String(),
				"eventType", string(eventType))
		}
	}
}

// SubscriberCount reports how many subscribers the order currently has.
func (b *TrackingBus) SubscriberCount(orderID kernel.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[orderID])
}

func (b *TrackingBus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	group, ok := b.subscribers[sub.orderID]
	if !ok {
		return
	}
	delete(group, sub)
	if len(group) == 0 {
		delete(b.subscribers, sub.orderID)
	}
}
