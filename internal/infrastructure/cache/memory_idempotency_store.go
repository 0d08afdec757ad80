// Package cache implementa el almacén de Idempotency-Key: Redis en producción y un mapa
// en memoria cuando no hay Redis configurado.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
)

type memoryEntry struct {
	id        int64
	done      bool
	expiresAt time.Time
}

// MemoryIdempotencyStore válido solo para una instancia.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// get devuelve la entrada vigente; las vencidas se descartan. Requiere mu tomado.
func (s *MemoryIdempotencyStore) get(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (s *MemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(key); ok {
		return false, nil
	}
	s.entries[key] = memoryEntry{expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *MemoryIdempotencyStore) Complete(_ context.Context, key string, id int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{id: id, done: true, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryIdempotencyStore) Lookup(_ context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok || !e.done {
		return 0, false, nil
	}
	return e.id, true, nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

var _ ledger.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
