package history

import "github.com/deeying/shop-backend/internal/cart"

// Address provenance for an order summary.
const (
	SourceCart      = "cart"
	SourceHeuristic = "heuristic"
	SourceUnknown   = "unknown"
)

// AddressUnknown is the placeholder shown when no binding can be
// resolved for a cart. It is an explicit marker, never a guess.
const AddressUnknown = "unknown"

// OrderSummary is one row of a user's purchase history: the immutable
// cart snapshot joined with its shipping address and slip status.
type OrderSummary struct {
	CartID        string          `json:"cartId"`
	CreatedAt     string          `json:"createdAt"`
	Items         []cart.LineItem `json:"items"`
	Total         float64         `json:"total"`
	Address       string          `json:"address"`
	AddressSource string          `json:"addressSource"`
	SlipStatus    string          `json:"slipStatus,omitempty"`
}
