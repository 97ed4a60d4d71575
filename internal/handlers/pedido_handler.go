package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"gaspedidos/internal/middleware"
	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
	"gaspedidos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// PedidoHandler handles HTTP requests for pedidos.
type PedidoHandler struct {
	service *services.PedidoService
}

// NewPedidoHandler creates a new PedidoHandler.
func NewPedidoHandler(service *services.PedidoService) *PedidoHandler {
	return &PedidoHandler{
		service: service,
	}
}

// RegisterRoutes registers the pedido routes with the Fiber app.
func (h *PedidoHandler) RegisterRoutes(router fiber.Router) {
	pedidoRoutes := router.Group("/pedidos")
	pedidoRoutes.Get("/", h.HandleListPedidos)
	pedidoRoutes.Get("/stream", h.HandleStream)
	pedidoRoutes.Get("/actual", h.HandleGetPedidoActual)
	pedidoRoutes.Delete("/actual", h.HandleClearPedidoActual)
	pedidoRoutes.Get("/:id", h.HandleGetPedidoByID)
	pedidoRoutes.Put("/:id/actual", h.HandleSetPedidoActual)
	pedidoRoutes.Post("/:id/cancelar", h.HandleCancelar)
	pedidoRoutes.Post("/:id/llegada", h.HandleLlegada)

	proveedorOnly := pedidoRoutes.Group("", middleware.RolRequired(models.RolProveedor))
	proveedorOnly.Post("/:id/aceptar", h.HandleAceptar)
	proveedorOnly.Post("/:id/rechazar", h.HandleRechazar)
}

// HandleListPedidos returns the caller's pedidos, as client or as provider
// depending on the caller's role.
func (h *PedidoHandler) HandleListPedidos(c *fiber.Ctx) error {
	identityID, _ := c.Locals("user_id").(string)
	rol, _ := c.Locals("rol").(string)

	pedidos, err := h.service.ListPedidos(identityID, rol)
	if err != nil {
		log.Printf("Error listing pedidos for %s: %v", identityID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve pedidos",
			"error":   err.Error(),
		})
	}
	return c.JSON(pedidos)
}

// HandleStream delivers the caller's pedido changes as a server-sent event
// stream. The subscription is torn down when the client disconnects, so a
// dismissed screen stops receiving callbacks.
func (h *PedidoHandler) HandleStream(c *fiber.Ctx) error {
	identityID, _ := c.Locals("user_id").(string)
	rol, _ := c.Locals("rol").(string)

	sub := h.service.InitializePedidosListener(identityID, rol)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Unsubscribe()
		for event := range sub.C() {
			body, err := json.Marshal(event)
			if err != nil {
				log.Printf("Failed to marshal pedido event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Tipo, body)
			if err := w.Flush(); err != nil {
				// Client went away; stop delivering.
				return
			}
		}
	}))
	return nil
}

// HandleGetPedidoByID retrieves a single pedido.
func (h *PedidoHandler) HandleGetPedidoByID(c *fiber.Ctx) error {
	pedidoID := c.Params("id")
	pedido, err := h.service.GetPedido(pedidoID)
	if err != nil {
		log.Printf("Error getting pedido by ID %s: %v", pedidoID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Pedido with ID %s not found", pedidoID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve pedido",
			"error":   err.Error(),
		})
	}
	return c.JSON(pedido)
}

// HandleGetPedidoActual returns the caller's focused pedido.
func (h *PedidoHandler) HandleGetPedidoActual(c *fiber.Ctx) error {
	identityID, _ := c.Locals("user_id").(string)
	pedido, ok := h.service.PedidoActual(identityID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No hay pedido actual",
		})
	}
	return c.JSON(pedido)
}

// HandleSetPedidoActual marks a pedido as the caller's focused pedido.
func (h *PedidoHandler) HandleSetPedidoActual(c *fiber.Ctx) error {
	identityID, _ := c.Locals("user_id").(string)
	pedidoID := c.Params("id")

	pedido, err := h.service.GetPedido(pedidoID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Pedido with ID %s not found", pedidoID),
		})
	}
	h.service.SetPedidoActual(identityID, *pedido)
	return c.JSON(pedido)
}

// HandleClearPedidoActual drops the caller's focused pedido.
func (h *PedidoHandler) HandleClearPedidoActual(c *fiber.Ctx) error {
	identityID, _ := c.Locals("user_id").(string)
	h.service.ClearPedidoActual(identityID)
	return c.JSON(fiber.Map{
		"message": "Pedido actual cleared",
	})
}

// HandleAceptar moves a Pendiente pedido to Aceptado, reserving stock.
func (h *PedidoHandler) HandleAceptar(c *fiber.Ctx) error {
	return h.transition(c, h.service.AceptarPedido)
}

// HandleRechazar moves a Pendiente pedido to the terminal Rechazado.
func (h *PedidoHandler) HandleRechazar(c *fiber.Ctx) error {
	return h.transition(c, h.service.RechazarPedido)
}

// HandleLlegada moves an Aceptado pedido to the terminal Llegado.
func (h *PedidoHandler) HandleLlegada(c *fiber.Ctx) error {
	return h.transition(c, h.service.MarcarLlegada)
}

// HandleCancelar moves a Pendiente pedido to the terminal Cancelado.
func (h *PedidoHandler) HandleCancelar(c *fiber.Ctx) error {
	return h.transition(c, h.service.CancelarPedido)
}

func (h *PedidoHandler) transition(c *fiber.Ctx, apply func(string) (*models.Pedido, error)) error {
	pedidoID := c.Params("id")
	pedido, err := apply(pedidoID)
	if err != nil {
		log.Printf("Error transitioning pedido %s: %v", pedidoID, err)
		switch {
		case errors.Is(err, repositories.ErrTransicionInvalida):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "El pedido ya no admite esta transición",
			})
		case errors.Is(err, repositories.ErrStockInsuficiente):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Stock insuficiente para aceptar el pedido",
			})
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Pedido with ID %s not found", pedidoID),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update pedido",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(pedido)
}
