package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/deeying/shop-backend/internal/cart"
)

// CartResolver is how later pipeline stages (address binding, slip
// submission, history) look up a submitted cart while enforcing
// ownership.
type CartResolver interface {
	Resolve(cartID string, userID int) (SubmittedCart, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit freezes the given line items into a new SubmittedCart. The
// total is always recomputed server-side from the snapshot; client
// totals are ignored. Each call creates a fresh cart — submission is
// one-shot by design.
func (s *Service) Submit(userID int, items []cart.LineItem) (SubmittedCart, error) {
	if len(items) == 0 {
		return SubmittedCart{}, ErrEmptyCart
	}

	snapshot := make([]cart.LineItem, len(items))
	copy(snapshot, items)

	var total float64
	for i := range snapshot {
		if snapshot[i].Quantity < 1 {
			snapshot[i].Quantity = 1
		}
		total += snapshot[i].UnitPrice * float64(snapshot[i].Quantity)
	}

	return s.repo.Create(SubmittedCart{
		CartID:      uuid.NewString(),
		UserID:      userID,
		Items:       snapshot,
		TotalAmount: total,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Resolve returns the cart only when it exists and belongs to userID.
// A cart owned by someone else is indistinguishable from a missing one.
func (s *Service) Resolve(cartID string, userID int) (SubmittedCart, error) {
	if cartID == "" {
		return SubmittedCart{}, ErrInvalidCart
	}
	sc, err := s.repo.GetByID(cartID)
	if err != nil {
		return SubmittedCart{}, err
	}
	if sc.UserID != userID {
		return SubmittedCart{}, ErrInvalidCart
	}
	return sc, nil
}

// Get returns a cart without the ownership check, for admin views.
func (s *Service) Get(cartID string) (SubmittedCart, error) {
	return s.repo.GetByID(cartID)
}

// Latest returns the user's most recent submission.
func (s *Service) Latest(userID int) (SubmittedCart, error) {
	carts, err := s.repo.ListByUser(userID)
	if err != nil {
		return SubmittedCart{}, err
	}
	if len(carts) == 0 {
		return SubmittedCart{}, ErrInvalidCart
	}
	return carts[0], nil
}

// ListByUser returns the user's submitted carts newest-first.
func (s *Service) ListByUser(userID int) ([]SubmittedCart, error) {
	return s.repo.ListByUser(userID)
}
