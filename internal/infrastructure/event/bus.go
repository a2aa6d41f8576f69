// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned when publishing to a stopped asynchronous bus
var ErrBusStopped = errors.New("event bus stopped")

// BusConfig controls dispatch. Zero workers dispatches synchronously
// inside Publish.
type BusConfig struct {
	Workers int
	Buffer  int
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// Bus implements shared.EventBus. Handler errors and panics are logged
// and never reach the publisher.
type Bus struct {
	hmu      sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	// mu guards queue and stopped; it is never held by workers
	mu      sync.RWMutex
	cfg     BusConfig
	queue   chan envelope
	wg      sync.WaitGroup
	stopped bool
	logger  *zap.Logger
}

// NewBus creates a new event bus
func NewBus(cfg BusConfig, logger *zap.Logger) *Bus {
	if cfg.Workers > 0 && cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}
	return &Bus{
		handlers: make(map[string][]shared.EventHandler),
		cfg:      cfg,
		logger:   logger,
	}
}

// Subscribe registers handler for eventTypes, or for the handler's own
// EventTypes when none are given. A handler with no types receives everything.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.hmu.Lock()
	defer b.hmu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Publish dispatches events in order. The asynchronous bus detaches
// the events from ctx cancellation since the request may end first.
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.queue == nil {
		for _, e := range events {
			b.dispatch(ctx, e)
		}
		return nil
	}
	if b.stopped {
		return ErrBusStopped
	}
	detached := context.WithoutCancel(ctx)
	for _, e := range events {
		select {
		case b.queue <- envelope{ctx: detached, event: e}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Start launches the workers of an asynchronous bus
func (b *Bus) Start(_ context.Context) error {
	if b.cfg.Workers <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue != nil {
		return nil
	}
	b.queue = make(chan envelope, b.cfg.Buffer)
	for i := 0; i < b.cfg.Workers; i++ {
		b.wg.Add(1)
		go b.work()
	}
	b.logger.Info("event bus started", zap.Int("workers", b.cfg.Workers))
	return nil
}

// Stop closes the queue and waits for queued events to drain, or for ctx
func (b *Bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.queue == nil || b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	close(b.queue)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus drain: %w", ctx.Err())
	}
}

func (b *Bus) work() {
	defer b.wg.Done()
	for env := range b.queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *Bus) handlersFor(eventType string) []shared.EventHandler {
	b.hmu.RLock()
	defer b.hmu.RUnlock()
	out := make([]shared.EventHandler, 0, len(b.handlers[eventType])+len(b.wildcard))
	out = append(out, b.handlers[eventType]...)
	return append(out, b.wildcard...)
}

func (b *Bus) dispatch(ctx context.Context, e shared.DomainEvent) {
	for _, h := range b.handlersFor(e.EventType()) {
		if err := b.safeHandle(ctx, h, e); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *Bus) safeHandle(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}

var _ shared.EventBus = (*Bus)(nil)
