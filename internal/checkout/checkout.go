package checkout

import (
	"errors"

	"github.com/deeying/shop-backend/internal/cart"
)

var (
	// ErrEmptyCart rejects a submission with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCart means the cart id does not resolve to a submitted
	// cart owned by the caller.
	ErrInvalidCart = errors.New("cart not found")
)

// SubmittedCart is the immutable checkout-time snapshot of a cart. Line
// items and total are frozen at submission; a later change of mind means
// a new submission, never a mutation.
type SubmittedCart struct {
	CartID      string          `json:"cartId"`
	UserID      int             `json:"userId"`
	Items       []cart.LineItem `json:"items"`
	TotalAmount float64         `json:"totalAmount"`
	CreatedAt   string          `json:"createdAt"`
}
