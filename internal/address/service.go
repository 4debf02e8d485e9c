package address

import (
	"errors"
	"strings"
	"time"

	"github.com/deeying/shop-backend/internal/checkout"
)

// ErrEmptyAddress rejects an address that is blank after trimming.
var ErrEmptyAddress = errors.New("address is required")

type Service struct {
	repo  Repository
	carts checkout.CartResolver
}

func NewService(repo Repository, carts checkout.CartResolver) *Service {
	return &Service{repo: repo, carts: carts}
}

// Save binds an address to a submitted cart owned by userID. Saving
// again overwrites the previous binding — the cart has exactly one
// active address.
func (s *Service) Save(userID int, cartID, addressText string) (Binding, error) {
	addressText = strings.TrimSpace(addressText)
	if addressText == "" {
		return Binding{}, ErrEmptyAddress
	}

	if _, err := s.carts.Resolve(cartID, userID); err != nil {
		return Binding{}, err
	}

	return s.repo.Upsert(Binding{
		CartID:  cartID,
		UserID:  userID,
		Address: addressText,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetByCartID returns the current binding for a cart.
func (s *Service) GetByCartID(cartID string) (Binding, error) {
	return s.repo.GetByCartID(cartID)
}

// ListByUser returns all of the user's bindings, newest-first in the
// postgres implementation.
func (s *Service) ListByUser(userID int) ([]Binding, error) {
	return s.repo.ListByUser(userID)
}
