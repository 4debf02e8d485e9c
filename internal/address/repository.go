package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	// Upsert saves the binding, replacing any prior binding for the same
	// cart (last write wins).
	Upsert(b Binding) (Binding, error)
	GetByCartID(cartID string) (Binding, error)
	ListByUser(userID int) ([]Binding, error)
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bindings map[string]Binding // keyed by cartID
}

func NewInMemoryRepository(seed []Binding) *InMemoryRepository {
	r := &InMemoryRepository{bindings: make(map[string]Binding, len(seed))}
	for _, b := range seed {
		r.bindings[b.CartID] = b
	}
	return r
}

func (r *InMemoryRepository) Upsert(b Binding) (Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.CartID] = b
	return b, nil
}

func (r *InMemoryRepository) GetByCartID(cartID string) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.bindings[cartID]; ok {
		return b, nil
	}
	return Binding{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0)
	for _, b := range r.bindings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}
