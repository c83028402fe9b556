package memory

import (
	"context"
	"sync"
	"time"

	"staybook/internal/app/middleware"
)

// IdempotencyStore keeps the first outcome saved for a key until it is older
// than ttl. A zero ttl keeps records forever.
type IdempotencyStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	records map[string]middleware.IdempotencyRecord
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{ttl: ttl, now: time.Now, records: make(map[string]middleware.IdempotencyRecord)}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.live(key)
	return rec, ok, nil
}

// Save ignores a key that already holds a live record.
func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(rec.Key); ok {
		return nil
	}
	s.records[rec.Key] = rec
	return nil
}

func (s *IdempotencyStore) live(key string) (middleware.IdempotencyRecord, bool) {
	rec, ok := s.records[key]
	if !ok {
		return middleware.IdempotencyRecord{}, false
	}
	if s.ttl > 0 && s.now().Sub(rec.OccurredAt) > s.ttl {
		delete(s.records, key)
		return middleware.IdempotencyRecord{}, false
	}
	return rec, true
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
