package checkout

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithCheckoutHandler(s *Service) *fiber.App {
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
	NewHandler(s).RegisterProtectedRoutes(app)
	return app
}

func TestSubmitCartRoute(t *testing.T) {
	app := makeAppWithCheckoutHandler(NewService(NewInMemoryRepository(nil)))

	// an empty list is a valid payload rejected as an empty cart, not a
	// parse failure
	req := httptest.NewRequest("POST", "/api/cart", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "cart cannot be empty") {
		t.Fatalf("expected empty-cart message, got %s", string(body))
	}

	req2 := httptest.NewRequest("POST", "/api/cart", strings.NewReader(`{"items":[{"productId":1,"title":"P1","unitPrice":100,"quantity":2}]}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}
	body2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(body2), `"cartId"`) || !strings.Contains(string(body2), `"totalAmount":200`) {
		t.Fatalf("unexpected submit response: %s", string(body2))
	}
}
