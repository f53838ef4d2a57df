package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process RecordStore used by tests and DB-less
// local runs. Expired records are dropped lazily on Get.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]memoryRecord
}

type memoryRecord struct {
	rec Record
	exp time.Time // zero = never expires
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]memoryRecord)}
}

func (s *MemoryStore) Save(ctx context.Context, jti string, rec Record, ttl time.Duration) error {
	var exp time.Time

	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.m[jti] = memoryRecord{rec: rec, exp: exp}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(ctx context.Context, jti string) (Record, error) {
	s.mu.RLock()
	e, ok := s.m[jti]
	s.mu.RUnlock()

	if !ok {
		return Record{}, ErrNoSession
	}

	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		delete(s.m, jti)
		s.mu.Unlock()

		return Record{}, ErrNoSession
	}

	return e.rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, jti string) error {
	s.mu.Lock()
	delete(s.m, jti)
	s.mu.Unlock()

	return nil
}
