package cart

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/deeying/shop-backend/internal/product"
)

func makeAppWithCartHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func testProducts() product.ServiceInterface {
	return product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Title: "Cat food", Price: 100},
		{ID: 3, Title: "Litter box", Price: 250},
	}))
}

func TestCartRoutes_Basic(t *testing.T) {
	h := NewHandler(NewManager(), testProducts())
	app := makeAppWithCartHandler(h)

	// unauthorized access is blocked
	req := httptest.NewRequest("GET", "/api/cart/items", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	// add a product with quantity 2
	req2 := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"productId":3,"quantity":2}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"quantity":2`) || !strings.Contains(string(b2), `"total":500`) {
		t.Fatalf("unexpected add response: %s", string(b2))
	}

	// add the same product again, quantity merges
	req3 := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"productId":3,"quantity":1}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"quantity":3`) {
		t.Fatalf("expected merged quantity 3, got %s", string(b3))
	}

	// unknown product is rejected
	req4 := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"productId":99}`))
	req4.Header.Set("Content-Type", "application/json")
	req4.Header.Set("X-User-ID", "42")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res4.StatusCode)
	}

	// negative quantity decrements, removing at zero
	req5 := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"productId":3,"quantity":-3}`))
	req5.Header.Set("Content-Type", "application/json")
	req5.Header.Set("X-User-ID", "42")
	res5, _ := app.Test(req5)
	b5, _ := io.ReadAll(res5.Body)
	if strings.Contains(string(b5), `"productId":3`) {
		t.Fatalf("expected product removed at zero, got %s", string(b5))
	}

	// direct quantity set clamps to 1 instead of removing
	req6 := httptest.NewRequest("POST", "/api/cart/items", strings.NewReader(`{"productId":1,"quantity":2}`))
	req6.Header.Set("Content-Type", "application/json")
	req6.Header.Set("X-User-ID", "42")
	app.Test(req6)

	req7 := httptest.NewRequest("PUT", "/api/cart/items/1", strings.NewReader(`{"quantity":0}`))
	req7.Header.Set("Content-Type", "application/json")
	req7.Header.Set("X-User-ID", "42")
	res7, _ := app.Test(req7)
	b7, _ := io.ReadAll(res7.Body)
	if !strings.Contains(string(b7), `"quantity":1`) {
		t.Fatalf("expected quantity clamped to 1, got %s", string(b7))
	}

	// explicit remove then clear
	req8 := httptest.NewRequest("DELETE", "/api/cart/items/1", nil)
	req8.Header.Set("X-User-ID", "42")
	res8, _ := app.Test(req8)
	b8, _ := io.ReadAll(res8.Body)
	if strings.Contains(string(b8), "productId") {
		t.Fatalf("expected empty cart after remove, got %s", string(b8))
	}

	req9 := httptest.NewRequest("DELETE", "/api/cart", nil)
	req9.Header.Set("X-User-ID", "42")
	res9, _ := app.Test(req9)
	if res9.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear, got %d", res9.StatusCode)
	}
}
