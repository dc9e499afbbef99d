package cart

import (
	"context"
	"sync"
	"time"

	"locadora-erp-backend/internal/domain"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps carts in process. Carts are stored encoded so callers
// never share slices with the store.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, c *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(c)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.put(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func (s *MemoryStore) get(id string) (*domain.Cart, error) {
	e, ok := s.carts[id]
	if !ok {
		return nil, notFound(id)
	}
	if s.ttl > 0 && s.now().After(e.expiresAt) {
		delete(s.carts, id)
		return nil, notFound(id)
	}
	return decode(e.data)
}

func (s *MemoryStore) put(c *domain.Cart) error {
	b, err := encode(c)
	if err != nil {
		return err
	}
	s.carts[c.ID] = memoryEntry{data: b, expiresAt: s.now().Add(s.ttl)}
	return nil
}
