package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/event/topic"
)

// Bus delivers events synchronously to matching subscriptions.
// It is safe for concurrent use; handlers may publish or subscribe
// re-entrantly because no lock is held while a handler runs.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription
	seq  uint64

	config busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Bus{config: config}
}

// Subscribe registers handler for events whose topic matches pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	sub := newSubscription(uuid.NewString(), pattern, handler, b.seq, opts...)

	subs := append(b.subs[:len(b.subs):len(b.subs)], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].config.Priority != subs[j].config.Priority {
			return subs[i].config.Priority < subs[j].config.Priority
		}
		return subs[i].seq < subs[j].seq
	})
	b.subs = subs

	return sub, nil
}

// SubscribeFunc is Subscribe for a plain function.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(sub)
}

func (b *Bus) removeLocked(sub *Subscription) error {
	for i, s := range b.subs {
		if s == sub {
			// Copy so that in-flight Publish calls keep iterating their own slice.
			subs := make([]*Subscription, 0, len(b.subs)-1)
			subs = append(subs, b.subs[:i]...)
			subs = append(subs, b.subs[i+1:]...)
			b.subs = subs
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers ev to every matching active subscription, in priority
// order, and returns after all handlers have run. Nothing is ever dropped
// at the bus level; only a subscription can be paused. Handler errors and
// recovered panics are joined into the returned error; they never stop
// delivery to the remaining handlers.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if !ev.Topic.IsValid() || ev.Topic.IsWildcard() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, ev.Topic)
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range subs {
		if !sub.shouldDeliver(ev) {
			continue
		}
		if err := b.deliver(ctx, ev, sub); err != nil {
			errs = append(errs, &HandlerError{
				SubscriptionID: sub.id,
				Topic:          ev.Topic.String(),
				Err:            err,
			})
			continue
		}
		b.eventsDelivered.Add(1)
		if sub.config.Once {
			_ = b.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, ev Event, sub *Subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.config.logger.Error("event handler panicked",
				zap.String("topic", ev.Topic.String()),
				zap.String("subscription", sub.id),
				zap.Any("panic", r))
			if b.config.panicHandler != nil {
				b.config.panicHandler(ev, sub, r)
			}
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	if err := sub.handler.Handle(ctx, ev); err != nil {
		b.handlerErrors.Add(1)
		b.config.logger.Warn("event handler failed",
			zap.String("topic", ev.Topic.String()),
			zap.String("subscription", sub.id),
			zap.Error(err))
		return err
	}
	return nil
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, s := range b.subs {
		if s.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}
