package checkout

import "testing"

func TestNormalizeLineItems_Shapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"items wrapper", `{"items":[{"productId":1,"title":"P","unitPrice":100,"quantity":2}]}`},
		{"data wrapper", `{"data":[{"productID":1,"name":"P","price":100,"count":2}]}`},
		{"bare array", `[{"id":1,"title":"P","price":100,"quantity":2}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := normalizeLineItems([]byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("expected one item, got %d", len(items))
			}
			it := items[0]
			if it.ProductID != 1 || it.Title != "P" || it.UnitPrice != 100 || it.Quantity != 2 {
				t.Fatalf("normalization lost fields: %+v", it)
			}
		})
	}
}

func TestNormalizeLineItems_DefaultQuantity(t *testing.T) {
	items, err := normalizeLineItems([]byte(`{"items":[{"productId":5,"price":10}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", items[0].Quantity)
	}
}

func TestNormalizeLineItems_EmptyListIsNotAParseError(t *testing.T) {
	for _, body := range []string{`{"items":[]}`, `{"data":[]}`, `[]`} {
		items, err := normalizeLineItems([]byte(body))
		if err != nil {
			t.Fatalf("expected %s to parse, got %v", body, err)
		}
		if len(items) != 0 {
			t.Fatalf("expected no items for %s, got %d", body, len(items))
		}
	}
}

func TestNormalizeLineItems_Rejects(t *testing.T) {
	if _, err := normalizeLineItems([]byte(`"not a cart"`)); err == nil {
		t.Fatalf("expected error for junk payload")
	}
	if _, err := normalizeLineItems([]byte(`{"items":[{"title":"no id"}]}`)); err == nil {
		t.Fatalf("expected error for item without product id")
	}
}
