// Package store is the in-process reconciliation store: the single source
// of truth the handlers read from. Collections only support whole-value
// replacement; callers read the current value, compute the full next value
// and submit it. Concurrent replacements are not merged, the later call wins.
package store

import (
	"sort"
	"sync"
)

// Collection holds one entity collection and its change subscribers.
// Subscriber delivery is sequential and non-overlapping per collection.
type Collection[T any] struct {
	mu    sync.RWMutex
	items []T

	deliverMu sync.Mutex
	subsMu    sync.Mutex
	subs      map[int]func([]T)
	nextSub   int
}

// NewCollection returns an empty collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{subs: make(map[int]func([]T))}
}

// Get returns a copy of the current items.
func (c *Collection[T]) Get() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the current item count.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace swaps in the new collection value and notifies subscribers in
// registration order. Each subscriber receives its own copy.
func (c *Collection[T]) Replace(items []T) {
	next := make([]T, len(items))
	copy(next, items)

	c.mu.Lock()
	c.items = next
	c.mu.Unlock()

	c.notify()
}

func (c *Collection[T]) notify() {
	// deliverMu serializes deliveries so a slow subscriber never observes
	// two overlapping callbacks for the same collection.
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.subsMu.Lock()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	fns := make(map[int]func([]T), len(c.subs))
	for id, fn := range c.subs {
		fns[id] = fn
	}
	c.subsMu.Unlock()

	sort.Ints(ids)
	for _, id := range ids {
		fns[id](c.Get())
	}
}

// OnChange registers a subscriber and returns its unsubscribe function.
// The returned function is idempotent, calling it more than once is safe.
func (c *Collection[T]) OnChange(fn func([]T)) func() {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, id)
			c.subsMu.Unlock()
		})
	}
}

// Singleton holds one record with get/replace semantics, used for Settings.
type Singleton[T any] struct {
	mu    sync.RWMutex
	value T

	deliverMu sync.Mutex
	subsMu    sync.Mutex
	subs      map[int]func(T)
	nextSub   int
}

// NewSingleton returns a singleton holding the given initial value.
func NewSingleton[T any](initial T) *Singleton[T] {
	return &Singleton[T]{value: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (s *Singleton[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers sequentially.
func (s *Singleton[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	s.subsMu.Lock()
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range fns {
		fn(s.Get())
	}
}

// OnChange registers a subscriber and returns its idempotent unsubscribe
// function.
func (s *Singleton[T]) OnChange(fn func(T)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}
