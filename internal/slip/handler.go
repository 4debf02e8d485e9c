package slip

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deeying/shop-backend/internal/address"
	"github.com/deeying/shop-backend/internal/checkout"
	"github.com/deeying/shop-backend/internal/user"
)

type Handler struct {
	service *Service
	users   user.ServiceInterface
	// uploadDir is the directory served under the public /uploads
	// prefix; slip file paths are stored with that prefix.
	uploadDir string
}

func NewHandler(s *Service, users user.ServiceInterface, uploadDir string) *Handler {
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &Handler{service: s, users: users, uploadDir: uploadDir}
}

func (h *Handler) diskPath(publicPath string) string {
	return filepath.Join(h.uploadDir, strings.TrimPrefix(publicPath, "/uploads"))
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/payments/slip", h.submitSlip)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/admin/approve", user.RequireAdmin, h.listSlips)
	app.Patch("/api/admin/slips/:id<[0-9]+>", user.RequireAdmin, h.applyAction)
	app.Put("/api/admin/slips/:id<[0-9]+>/status", user.RequireAdmin, h.setStatus)
	app.Delete("/api/admin/slips/:id<[0-9]+>", user.RequireAdmin, h.deleteSlip)
}

func (h *Handler) submitSlip(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	sub := Submission{
		CartID:          c.FormValue("cart_id"),
		AddressOverride: c.FormValue("shipping_address"),
	}

	rawAmount := strings.TrimSpace(c.FormValue("amount"))
	if rawAmount != "" {
		amount, err := strconv.ParseFloat(rawAmount, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "amount: must be a number", "field": "amount"})
		}
		sub.Amount = amount
	}

	file, err := c.FormFile("slip")
	if err == nil && file != nil {
		sub.FileName = file.Filename
		sub.FileSize = file.Size
		sub.ContentType = file.Header.Get("Content-Type")
	}

	created, err := h.service.Submit(userID, sub, func(path string) error {
		return c.SaveFile(file, h.diskPath(path))
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "slip uploaded",
		"slip":    created,
	})
}

func (h *Handler) listSlips(c *fiber.Ctx) error {
	raw := c.Query("status")
	var status Status
	if raw != "" && !strings.EqualFold(raw, "all") {
		parsed, ok := ParseStatus(strings.ToUpper(raw))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status filter"})
		}
		status = parsed
	}

	details, err := h.service.ListDetailed(status, buyerLookup{users: h.users})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{"items": details})
}

type actionRequest struct {
	Action string `json:"action"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) applyAction(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(actionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var next Status
	switch strings.ToLower(payload.Action) {
	case "approve":
		next = StatusApproved
	case "reject":
		next = StatusRejected
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "action must be approve or reject"})
	}

	updated, err := h.service.Transition(id, next)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) setStatus(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	next, ok := ParseStatus(strings.ToUpper(payload.Status))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status"})
	}

	updated, err := h.service.Transition(id, next)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteSlip(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	removed, err := h.service.Delete(id)
	if err != nil {
		return respondError(c, err)
	}

	// best-effort file cleanup; a missing file is not an error
	if removed.FilePath != "" {
		if err := os.Remove(h.diskPath(removed.FilePath)); err != nil && !os.IsNotExist(err) {
			fmt.Printf("warning: could not remove slip file %s: %v\n", removed.FilePath, err)
		}
	}

	return c.JSON(fiber.Map{"message": "slip deleted", "slipId": removed.SlipID})
}

func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ve.Error(), "field": ve.Field})
	}
	switch err {
	case address.ErrEmptyAddress:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error(), "field": "shipping_address"})
	case checkout.ErrInvalidCart:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart not found"})
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "slip not found"})
	case ErrNoAddress, ErrDuplicateSlip, ErrInvalidTransition:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

type buyerLookup struct {
	users user.ServiceInterface
}

func (b buyerLookup) BuyerRef(userID int) string {
	if b.users == nil {
		return ""
	}
	u, err := b.users.GetByID(userID)
	if err != nil {
		return ""
	}
	return u.Email
}
