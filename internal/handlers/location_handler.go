package handlers

import (
	"fmt"
	"log"
	"strings"

	"gaspedidos/internal/models"
	"gaspedidos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LocationHandler handles HTTP requests for identity locations.
type LocationHandler struct {
	service  *services.LocationService
	validate *validator.Validate
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service *services.LocationService) *LocationHandler {
	return &LocationHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the location routes with the Fiber app.
func (h *LocationHandler) RegisterRoutes(router fiber.Router) {
	locationRoutes := router.Group("/locations")
	locationRoutes.Get("/me", h.HandleGetOwnLocation)
	locationRoutes.Put("/me", h.HandleSaveOwnLocation)
	locationRoutes.Get("/proveedores", h.HandleGetProveedorLocations)
}

// HandleGetOwnLocation returns the caller's stored location.
func (h *LocationHandler) HandleGetOwnLocation(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	location, err := h.service.Location(userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No hay ubicación registrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve location",
			"error":   err.Error(),
		})
	}
	return c.JSON(location)
}

// HandleSaveOwnLocation upserts the caller's resolved geocoded location.
func (h *LocationHandler) HandleSaveOwnLocation(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var location models.UserLocation
	if err := c.BodyParser(&location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	location.UserID = userID

	if err := h.validate.Struct(location); err != nil {
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

	if err := h.service.SaveLocation(&location); err != nil {
		log.Printf("Error saving location for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save location",
			"error":   err.Error(),
		})
	}
	return c.JSON(location)
}

// HandleGetProveedorLocations returns the locations of every provider, for
// the map screen's provider pins.
func (h *LocationHandler) HandleGetProveedorLocations(c *fiber.Ctx) error {
	locations, err := h.service.ProveedorLocations()
	if err != nil {
		log.Printf("Error getting proveedor locations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve proveedor locations",
			"error":   err.Error(),
		})
	}
	return c.JSON(locations)
}
