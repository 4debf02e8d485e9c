package history

import (
	"time"

	"github.com/deeying/shop-backend/internal/address"
	"github.com/deeying/shop-backend/internal/checkout"
	"github.com/deeying/shop-backend/internal/slip"
)

// CartLog lists a user's submitted carts, newest-first.
type CartLog interface {
	ListByUser(userID int) ([]checkout.SubmittedCart, error)
}

// AddressDirectory is the slice of the address service the projection
// reads from.
type AddressDirectory interface {
	GetByCartID(cartID string) (address.Binding, error)
	ListByUser(userID int) ([]address.Binding, error)
}

// SlipLog lists a user's payment slips.
type SlipLog interface {
	ListByUser(userID int) ([]slip.Slip, error)
}

// heuristicWindow bounds how far a saved address may sit from the
// cart's submission time and still be attributed to it. Legacy carts
// were submitted before addresses carried a cart id, so proximity is
// the only signal left.
const heuristicWindow = 30 * time.Minute

type Service struct {
	carts     CartLog
	addresses AddressDirectory
	slips     SlipLog
}

func NewService(carts CartLog, addresses AddressDirectory, slips SlipLog) *Service {
	return &Service{carts: carts, addresses: addresses, slips: slips}
}

// ListByUser projects the user's submitted carts into order summaries,
// newest-first. Each cart's address is resolved through the chain:
// direct binding by cart id, then nearest same-user binding saved
// within the heuristic window, then the explicit unknown marker.
func (s *Service) ListByUser(userID int) ([]OrderSummary, error) {
	carts, err := s.carts.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	bindings, err := s.addresses.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	slipByCart, err := s.latestSlips(userID)
	if err != nil {
		return nil, err
	}

	out := make([]OrderSummary, 0, len(carts))
	for _, sc := range carts {
		sum := OrderSummary{
			CartID:    sc.CartID,
			CreatedAt: sc.CreatedAt,
			Items:     sc.Items,
			Total:     sc.TotalAmount,
		}
		sum.Address, sum.AddressSource = s.resolveAddress(sc, bindings)
		if sl, ok := slipByCart[sc.CartID]; ok {
			sum.SlipStatus = string(sl.Status)
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *Service) resolveAddress(sc checkout.SubmittedCart, bindings []address.Binding) (string, string) {
	if b, err := s.addresses.GetByCartID(sc.CartID); err == nil {
		return b.Address, SourceCart
	}

	if b, ok := nearestBinding(sc.CreatedAt, bindings); ok {
		return b.Address, SourceHeuristic
	}

	return AddressUnknown, SourceUnknown
}

// nearestBinding picks the user's binding saved closest to the cart's
// submission time, provided it falls inside the heuristic window.
func nearestBinding(createdAt string, bindings []address.Binding) (address.Binding, bool) {
	ref, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return address.Binding{}, false
	}

	var best address.Binding
	bestGap := heuristicWindow + time.Second
	for _, b := range bindings {
		saved, err := time.Parse(time.RFC3339, b.SavedAt)
		if err != nil {
			continue
		}
		gap := saved.Sub(ref)
		if gap < 0 {
			gap = -gap
		}
		if gap <= heuristicWindow && gap < bestGap {
			best = b
			bestGap = gap
		}
	}
	return best, bestGap <= heuristicWindow
}

// latestSlips maps each cart to its representative slip: the newest
// non-rejected one if any, otherwise the newest overall. Slip ids are
// assigned in submission order.
func (s *Service) latestSlips(userID int) (map[string]slip.Slip, error) {
	slips, err := s.slips.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]slip.Slip, len(slips))
	for _, sl := range slips {
		cur, ok := out[sl.CartID]
		if !ok {
			out[sl.CartID] = sl
			continue
		}
		curActive := cur.Status != slip.StatusRejected
		newActive := sl.Status != slip.StatusRejected
		switch {
		case newActive && !curActive:
			out[sl.CartID] = sl
		case newActive == curActive && sl.SlipID > cur.SlipID:
			out[sl.CartID] = sl
		}
	}
	return out, nil
}
