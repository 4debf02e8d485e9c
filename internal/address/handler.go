package address

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deeying/shop-backend/internal/checkout"
	"github.com/deeying/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/address", h.saveAddress)
	app.Get("/api/user/address/my", h.myAddresses)
}

type saveAddressRequest struct {
	CartID  string `json:"cartId"`
	Address string `json:"address"`
}

func (h *Handler) saveAddress(c *fiber.Ctx) error {
	payload := new(saveAddressRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	b, err := h.service.Save(userID, payload.CartID, payload.Address)
	if err != nil {
		switch err {
		case ErrEmptyAddress:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "address is required", "field": "address"})
		case checkout.ErrInvalidCart:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": "address saved",
		"cartId":  b.CartID,
		"address": b.Address,
		"savedAt": b.SavedAt,
	})
}

func (h *Handler) myAddresses(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	bindings, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(bindings)
}
