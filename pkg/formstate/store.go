package formstate

import (
	"context"
	"strings"
	"sync"
)

// Store is the read/write handle a form exposes to its filter tags. Snapshot
// must return fields in a stable order for the lifetime of one render.
type Store interface {
	Snapshot() Snapshot
	SetField(name string, value any)
	Submit(ctx context.Context) error
}

// SubmitFunc receives the snapshot current at submit time. Handlers typically
// re-run the list query the filters belong to.
type SubmitFunc func(ctx context.Context, snapshot Snapshot) error

// StoreOption configures a MemoryStore.
type StoreOption func(*MemoryStore)

// WithSubmitHandler registers a handler invoked on every Submit, in
// registration order.
func WithSubmitHandler(fn SubmitFunc) StoreOption {
	return func(s *MemoryStore) {
		if fn != nil {
			s.handlers = append(s.handlers, fn)
		}
	}
}

// WithDynamicFields lets SetField append fields that were not part of the
// initial snapshot. Without it, writes to unknown fields are ignored.
func WithDynamicFields() StoreOption {
	return func(s *MemoryStore) {
		s.dynamic = true
	}
}

// MemoryStore is a concurrency-safe Store backed by a Snapshot.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot Snapshot
	handlers []SubmitFunc
	dynamic  bool
	submits  int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore seeds a store with the initial snapshot.
func NewMemoryStore(initial Snapshot, options ...StoreOption) *MemoryStore {
	store := &MemoryStore{snapshot: initial}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(store)
	}
	return store
}

// Snapshot returns the current field values.
func (s *MemoryStore) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetField replaces the value of a single field.
func (s *MemoryStore) SetField(name string, value any) {
	if s == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dynamic && !s.snapshot.Has(name) {
		return
	}
	s.snapshot = s.snapshot.With(name, value)
}

// Submit runs the registered handlers against the current snapshot and
// returns the first handler error.
func (s *MemoryStore) Submit(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.submits++
	snapshot := s.snapshot
	handlers := append([]SubmitFunc(nil), s.handlers...)
	s.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// Submissions reports how many times Submit has been called.
func (s *MemoryStore) Submissions() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submits
}
