package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gaspedidos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	cart     *services.CartService
	products *services.ProductService
	location *services.LocationService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, products *services.ProductService, location *services.LocationService) *CartHandler {
	return &CartHandler{
		cart:     cart,
		products: products,
		location: location,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Put("/proveedor", h.HandleSelectProveedor)
}

// HandleGetCart returns the caller's current cart and total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := h.cart.LoadCart(c.Context(), userID); err != nil {
		log.Printf("Warning: failed to hydrate cart for user %s: %v", userID, err)
	}
	return c.JSON(fiber.Map{
		"items": h.cart.Items(userID),
		"total": h.cart.Total(userID),
	})
}

// HandleAddItem adds one unit of a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}

	product, err := h.products.GetProductByID(req.ProductID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", req.ProductID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	if err := h.cart.AddItem(userID, *product); err != nil {
		if errors.Is(err, services.ErrCantidadMaxima) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"items": h.cart.Items(userID),
		"total": h.cart.Total(userID),
	})
}

// HandleUpdateQuantity sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	productID := c.Params("productId")

	var req struct {
		Cantidad int `json:"cantidad"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.cart.UpdateQuantity(userID, productID, req.Cantidad); err != nil {
		switch {
		case errors.Is(err, services.ErrCantidadInvalida):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": err.Error(),
			})
		case errors.Is(err, services.ErrNoEnCarro):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update quantity",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"items": h.cart.Items(userID),
		"total": h.cart.Total(userID),
	})
}

// HandleRemoveItem removes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	productID := c.Params("productId")

	if err := h.cart.RemoveItem(userID, productID); err != nil {
		if errors.Is(err, services.ErrNoEnCarro) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"items": h.cart.Items(userID),
		"total": h.cart.Total(userID),
	})
}

// HandleClearCart empties the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	h.cart.ClearCart(userID)
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// HandleSelectProveedor records which provider the user is ordering from.
func (h *CartHandler) HandleSelectProveedor(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req struct {
		ProveedorID string `json:"proveedorId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProveedorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "proveedorId is required",
		})
	}

	h.location.SetSelectedProveedor(userID, req.ProveedorID)
	return c.JSON(fiber.Map{
		"message": "Proveedor selected",
	})
}
