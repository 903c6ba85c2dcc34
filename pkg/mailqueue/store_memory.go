package mailqueue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and local development. It
// applies the same pure transition rules the postgres store encodes in SQL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry
	order   []uuid.UUID // insertion order, drives FIFO selection
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]Entry),
	}
}

func (s *MemoryStore) Enqueue(ctx context.Context, entry Entry) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.Status = StatusPending
	entry.RetryCount = 0

	s.entries[entry.ID] = entry
	s.order = append(s.order, entry.ID)
	return entry.ID, nil
}

func (s *MemoryStore) NextPending(ctx context.Context, maxRetries int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		e := s.entries[id]
		if e.Status == StatusPending && e.RetryCount < maxRetries {
			return e, nil
		}
	}
	return Entry{}, ErrNoPendingEntries
}

func (s *MemoryStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return s.update(id, func(e Entry) Entry {
		return e.withProcessing()
	})
}

func (s *MemoryStore) MarkSent(ctx context.Context, id uuid.UUID, provider string) error {
	return s.update(id, func(e Entry) Entry {
		return e.withSent(provider, time.Now())
	})
}

func (s *MemoryStore) MarkRetryOrFailed(ctx context.Context, id uuid.UUID, errMsg, provider string, maxRetries int) error {
	return s.update(id, func(e Entry) Entry {
		return e.withFailedAttempt(errMsg, provider, maxRetries)
	})
}

// Get returns a copy of the entry. Not part of the Store contract; used by
// tests and administrative inspection.
func (s *MemoryStore) Get(id uuid.UUID) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return e, nil
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) update(id uuid.UUID, apply func(Entry) Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	s.entries[id] = apply(e)
	return nil
}
