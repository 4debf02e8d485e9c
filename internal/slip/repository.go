package slip

import (
	"sort"
	"sync"
)

type Repository interface {
	Create(s Slip) (Slip, error)
	GetByID(id int) (Slip, error)
	// ListByStatus returns slips in a given status, newest-first. An
	// empty status means all slips.
	ListByStatus(status Status) ([]Slip, error)
	ListByUser(userID int) ([]Slip, error)
	// HasActiveForCart reports whether the cart already has a slip that
	// is not REJECTED.
	HasActiveForCart(cartID string) (bool, error)
	// TransitionFromPending is the atomic check-and-set: it moves the
	// slip to next only if it is currently PENDING. Returns
	// ErrInvalidTransition when the slip exists but is no longer
	// pending, ErrNotFound when it does not exist.
	TransitionFromPending(id int, next Status, decidedAt string) (Slip, error)
	// Delete removes the slip regardless of status and returns the
	// removed record so callers can clean up the stored file.
	Delete(id int) (Slip, error)
}

// InMemoryRepository for tests. Its TransitionFromPending holds the lock
// across check and set, matching the conditional-update semantics of the
// postgres implementation.
type InMemoryRepository struct {
	mu     sync.Mutex
	slips  []Slip
	nextID int
}

func NewInMemoryRepository(seed []Slip) *InMemoryRepository {
	r := &InMemoryRepository{slips: make([]Slip, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, s := range seed {
		r.slips = append(r.slips, s)
		if s.SlipID > maxID {
			maxID = s.SlipID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(s Slip) (Slip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.SlipID == 0 {
		s.SlipID = r.nextID
		r.nextID++
	}
	r.slips = append(r.slips, s)
	return s, nil
}

func (r *InMemoryRepository) GetByID(id int) (Slip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slips {
		if s.SlipID == id {
			return s, nil
		}
	}
	return Slip{}, ErrNotFound
}

func (r *InMemoryRepository) ListByStatus(status Status) ([]Slip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Slip, 0)
	for _, s := range r.slips {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt > out[j].SubmittedAt
	})
	return out, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Slip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Slip, 0)
	for _, s := range r.slips {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) HasActiveForCart(cartID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slips {
		if s.CartID == cartID && s.Status != StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) TransitionFromPending(id int, next Status, decidedAt string) (Slip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.slips {
		if s.SlipID == id {
			if s.Status != StatusPending {
				return Slip{}, ErrInvalidTransition
			}
			s.Status = next
			s.DecidedAt = &decidedAt
			r.slips[i] = s
			return s, nil
		}
	}
	return Slip{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) (Slip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.slips {
		if s.SlipID == id {
			r.slips = append(r.slips[:i], r.slips[i+1:]...)
			return s, nil
		}
	}
	return Slip{}, ErrNotFound
}
