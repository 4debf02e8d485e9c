package checkout

import (
	"encoding/json"
	"errors"

	"github.com/deeying/shop-backend/internal/cart"
)

var errBadPayload = errors.New("could not parse line items")

// wireLineItem tolerates the key spellings the storefront has used over
// time. Shape-guessing happens here, once, at the boundary; everything
// past this function works with cart.LineItem only.
type wireLineItem struct {
	ProductID  int      `json:"productId"`
	ProductID2 int      `json:"productID"`
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Name       string   `json:"name"`
	UnitPrice  *float64 `json:"unitPrice"`
	Price      *float64 `json:"price"`
	Image      string   `json:"image"`
	Quantity   *int     `json:"quantity"`
	Count      *int     `json:"count"`
}

type wireCart struct {
	Items []wireLineItem `json:"items"`
	Data  []wireLineItem `json:"data"`
}

// normalizeLineItems maps the submission payload — `{"items": [...]}`,
// `{"data": [...]}` or a bare array — into line items.
func normalizeLineItems(body []byte) ([]cart.LineItem, error) {
	var wrapped wireCart
	var raw []wireLineItem

	// a present-but-empty list is a well-formed payload; it surfaces
	// later as an empty cart, not a parse error
	switch {
	case json.Unmarshal(body, &wrapped) == nil && wrapped.Items != nil:
		raw = wrapped.Items
	case wrapped.Data != nil:
		raw = wrapped.Data
	case json.Unmarshal(body, &raw) == nil:
		// bare array
	default:
		return nil, errBadPayload
	}

	out := make([]cart.LineItem, 0, len(raw))
	for _, w := range raw {
		item := cart.LineItem{
			ProductID: firstInt(w.ProductID, w.ProductID2, w.ID),
			Title:     firstString(w.Title, w.Name),
			Image:     w.Image,
			Quantity:  1,
		}
		if w.UnitPrice != nil {
			item.UnitPrice = *w.UnitPrice
		} else if w.Price != nil {
			item.UnitPrice = *w.Price
		}
		if w.Quantity != nil {
			item.Quantity = *w.Quantity
		} else if w.Count != nil {
			item.Quantity = *w.Count
		}
		if item.ProductID <= 0 {
			return nil, errBadPayload
		}
		out = append(out, item)
	}
	return out, nil
}

func firstInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
