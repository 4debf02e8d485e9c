package bankinfo

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

// The transfer destination is public so the checkout page can render it
// without a session.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/admin/bank-info", h.getBankInfo)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Put("/api/admin/bank-info", user.RequireAdmin, h.putBankInfo)
}

func (h *Handler) getBankInfo(c *fiber.Ctx) error {
	info, err := h.service.Get()
	if err == ErrNotConfigured {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(info)
}

func (h *Handler) putBankInfo(c *fiber.Ctx) error {
	payload := new(BankInfo)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	saved, err := h.service.Update(*payload)
	if err == ErrInvalidInfo {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(saved)
}
