package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shop/storefront/internal/domain/cart"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemoryCartStore implements cart.Store with a process-local map.
// Suitable for single-instance deployments and tests; carts are lost on restart.
type InMemoryCartStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates the store and starts its expiry sweeper.
// A zero ttl keeps carts until they are deleted.
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	s := &InMemoryCartStore{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Load returns the session cart, or an empty cart when none is stored
func (s *InMemoryCartStore) Load(_ context.Context, sessionID string) (cart.Cart, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	now := time.Now()
	if ok && e.expired(now) {
		delete(s.entries, sessionID)
		ok = false
	}
	if ok && s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
		s.entries[sessionID] = e
	}
	s.mu.Unlock()

	if !ok {
		return cart.Cart{}, nil
	}
	// Round-trips through the codec so callers never share backing arrays
	return cart.Decode(e.data)
}

// Save stores the cart. An empty cart removes the entry.
func (s *InMemoryCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, sessionID)
	}

	data, err := cart.Encode(c)
	if err != nil {
		return err
	}

	e := entry{data: data}
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = e
	s.mu.Unlock()
	return nil
}

// Delete removes the session cart
func (s *InMemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored carts, including expired ones not yet swept
func (s *InMemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryCartStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *InMemoryCartStore) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
}

var _ cart.Store = (*InMemoryCartStore)(nil)
