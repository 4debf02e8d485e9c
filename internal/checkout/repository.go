package checkout

import (
	"sort"
	"sync"
)

type Repository interface {
	Create(sc SubmittedCart) (SubmittedCart, error)
	GetByID(cartID string) (SubmittedCart, error)
	// ListByUser returns the user's submitted carts newest-first.
	ListByUser(userID int) ([]SubmittedCart, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts []SubmittedCart
}

func NewInMemoryRepository(seed []SubmittedCart) *InMemoryRepository {
	r := &InMemoryRepository{carts: make([]SubmittedCart, 0, len(seed))}
	r.carts = append(r.carts, seed...)
	return r
}

func (r *InMemoryRepository) Create(sc SubmittedCart) (SubmittedCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, sc)
	return sc, nil
}

func (r *InMemoryRepository) GetByID(cartID string) (SubmittedCart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sc := range r.carts {
		if sc.CartID == cartID {
			return sc, nil
		}
	}
	return SubmittedCart{}, ErrInvalidCart
}

func (r *InMemoryRepository) ListByUser(userID int) ([]SubmittedCart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SubmittedCart, 0)
	for _, sc := range r.carts {
		if sc.UserID == userID {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}
