package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gaspedidos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles HTTP requests for in-pedido chat.
type ChatHandler struct {
	service  *services.ChatService
	validate *validator.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the chat routes with the Fiber app.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	chatRoutes := router.Group("/chats/:pedidoId")
	chatRoutes.Get("/mensajes", h.HandleGetMensajes)
	chatRoutes.Post("/mensajes", h.HandleEnviarMensaje)
}

// HandleGetMensajes returns a pedido's chat history.
func (h *ChatHandler) HandleGetMensajes(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	pedidoID := c.Params("pedidoId")

	mensajes, err := h.service.Mensajes(pedidoID, userID)
	if err != nil {
		log.Printf("Error getting mensajes for pedido %s: %v", pedidoID, err)
		switch {
		case errors.Is(err, services.ErrNoParticipante):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": err.Error(),
			})
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Pedido with ID %s not found", pedidoID),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve mensajes",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(mensajes)
}

// HandleEnviarMensaje appends a message to a pedido's chat.
func (h *ChatHandler) HandleEnviarMensaje(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	username, _ := c.Locals("username").(string)
	pedidoID := c.Params("pedidoId")

	var req struct {
		Texto string `json:"texto" validate:"required,min=1,max=1000"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "El texto del mensaje es obligatorio",
		})
	}

	mensaje, err := h.service.EnviarMensaje(pedidoID, userID, username, req.Texto)
	if err != nil {
		log.Printf("Error sending mensaje for pedido %s: %v", pedidoID, err)
		switch {
		case errors.Is(err, services.ErrChatDeshabilitado):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		case errors.Is(err, services.ErrNoParticipante):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": err.Error(),
			})
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Pedido with ID %s not found", pedidoID),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not send mensaje",
				"error":   err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(mensaje)
}
