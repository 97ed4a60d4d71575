package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gaspedidos/internal/middleware"
	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
	"gaspedidos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for provider catalogs.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Catalog
// mutation is provider-only; browsing is open to any signed-in identity.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/proveedor/:proveedorId", h.HandleGetCatalogo)

	proveedorOnly := productRoutes.Group("", middleware.RolRequired(models.RolProveedor))
	proveedorOnly.Post("/", h.HandleCreateProduct)
	proveedorOnly.Put("/:id", h.HandleUpdateProduct)
	proveedorOnly.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetCatalogo retrieves one provider's catalog.
func (h *ProductHandler) HandleGetCatalogo(c *fiber.Ctx) error {
	proveedorID := c.Params("proveedorId")
	products, err := h.service.GetCatalogo(proveedorID)
	if err != nil {
		log.Printf("Error getting catalogo for proveedor %s: %v", proveedorID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve catalog",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new catalog entry for the calling provider.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	proveedorID, _ := c.Locals("user_id").(string)

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ProveedorID = proveedorID

	if err := h.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateProduct(proveedorID, &product); err != nil {
		log.Printf("Error creating product: %v", err)
		if errors.Is(err, repositories.ErrCatalogoDuplicado) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Ya existe un producto con esa marca y formato en el catálogo",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a catalog entry owned by the calling provider.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	proveedorID, _ := c.Locals("user_id").(string)
	productID := c.Params("id")

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = productID

	if err := h.service.UpdateProduct(proveedorID, &product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		if errors.Is(err, services.ErrNoAutorizado) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a catalog entry owned by the calling provider.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	proveedorID, _ := c.Locals("user_id").(string)
	productID := c.Params("id")

	if err := h.service.DeleteProduct(proveedorID, productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		if errors.Is(err, services.ErrNoAutorizado) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted", productID),
	})
}
