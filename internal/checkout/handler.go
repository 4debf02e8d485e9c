package checkout

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deeying/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/cart", h.submitCart)
	app.Get("/api/cart", h.getCart)
}

// submitCart snapshots the posted line items into a new immutable cart
// and returns its id plus the server-computed total.
func (h *Handler) submitCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	items, err := normalizeLineItems(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	sc, err := h.service.Submit(userID, items)
	if err != nil {
		if err == ErrEmptyCart {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart cannot be empty"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"cartId":      sc.CartID,
		"totalAmount": sc.TotalAmount,
	})
}

// getCart returns the caller's most recent submitted cart for summary
// views.
func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	sc, err := h.service.Latest(userID)
	if err != nil {
		if err == ErrInvalidCart {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no submitted cart"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(sc)
}
