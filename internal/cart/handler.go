package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deeying/shop-backend/internal/product"
	"github.com/deeying/shop-backend/internal/user"
)

// Handler exposes the editable cart over HTTP. Add requests carry only a
// product id; the title/price snapshot is taken here from the catalog so
// clients cannot invent prices.
type Handler struct {
	stores   *Manager
	products product.ServiceInterface
}

func NewHandler(stores *Manager, products product.ServiceInterface) *Handler {
	return &Handler{stores: stores, products: products}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/cart/items", h.getItems)
	app.Post("/api/cart/items", h.addItem)
	app.Put("/api/cart/items/:productId<[0-9]+>", h.setQuantity)
	app.Delete("/api/cart/items/:productId<[0-9]+>", h.removeItem)
	app.Delete("/api/cart", h.clear)
}

type addItemRequest struct {
	ProductID int `json:"productId"`
	// Quantity is a delta: positive adds/merges, negative decrements
	// (removing the line at zero), zero defaults to adding one.
	Quantity int `json:"quantity,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

func (h *Handler) respond(c *fiber.Ctx, s *Store) error {
	return c.JSON(cartResponse{Items: s.Items(), Total: s.Total()})
}

func (h *Handler) getItems(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return h.respond(c, h.stores.ForUser(userID))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	store := h.stores.ForUser(userID)

	if payload.Quantity < 0 {
		store.Adjust(payload.ProductID, payload.Quantity)
		return h.respond(c, store)
	}

	p, err := h.products.GetByID(payload.ProductID)
	if err != nil {
		if err == product.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	store.Add(LineItem{
		ProductID: p.ID,
		Title:     p.Title,
		UnitPrice: p.Price,
		Image:     p.Image,
		Quantity:  payload.Quantity,
	})
	return h.respond(c, store)
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}
	payload := new(setQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	store := h.stores.ForUser(userID)
	store.SetQuantity(productID, payload.Quantity)
	return h.respond(c, store)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	store := h.stores.ForUser(userID)
	store.Remove(productID)
	return h.respond(c, store)
}

func (h *Handler) clear(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	h.stores.ForUser(userID).Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
