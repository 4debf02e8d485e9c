package cart

import "sync"

// LineItem is a snapshot of a product taken when it was added to the
// cart. Title and price are frozen here so later catalog edits do not
// change what the buyer saw.
type LineItem struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Store holds one user's in-progress selection before checkout. It keeps
// items in insertion order and makes no persistence guarantees; a
// submitted cart is a separate, immutable record.
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

func NewStore() *Store {
	return &Store{}
}

// Add merges by product identity: if the product is already present its
// quantity is incremented by item.Quantity, otherwise the item is
// appended. Quantities below one are treated as one.
func (s *Store) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

// Adjust changes a line item's quantity by delta. If the effective
// quantity drops to zero or below the item is removed. Adjusting an
// absent product is a no-op. Returns the resulting quantity (zero when
// removed or absent).
func (s *Store) Adjust(productID, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == productID {
			next := it.Quantity + delta
			if next <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return 0
			}
			s.items[i].Quantity = next
			return next
		}
	}
	return 0
}

// SetQuantity sets a line item's quantity directly, clamping to a
// minimum of one. Unlike Adjust it never removes the item; removal is an
// explicit, separate operation.
func (s *Store) SetQuantity(productID, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == productID {
			s.items[i].Quantity = qty
			return
		}
	}
}

// Remove deletes the line item for productID. Removing an absent product
// is not an error.
func (s *Store) Remove(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total recomputes the cart total on demand.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, it := range s.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Clear empties the store. Called after a successful slip submission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Manager hands out one Store per user. It is an explicit, injectable
// container rather than package-level state so tests can run against
// isolated instances.
type Manager struct {
	mu     sync.Mutex
	stores map[int]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[int]*Store)}
}

// ForUser returns the user's store, creating it on first use.
func (m *Manager) ForUser(userID int) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stores[userID]
	if !ok {
		s = NewStore()
		m.stores[userID] = s
	}
	return s
}
