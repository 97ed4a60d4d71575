package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gaspedidos/internal/services"
	"gaspedidos/pkg/payments"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payment authorization and the
// checkout that follows it. A pedido is created only when the gateway reports
// the transaction as authorized; every other outcome aborts the checkout and
// leaves the cart untouched.
type PaymentHandler struct {
	paymentService *services.PaymentService
	pedidoService  *services.PedidoService
	cartService    *services.CartService
	validate       *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService, pedidoService *services.PedidoService, cartService *services.CartService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		pedidoService:  pedidoService,
		cartService:    cartService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/transbank/create", h.HandleCreateTransbank)
	paymentRoutes.Post("/transbank/confirm", h.HandleConfirmTransbank)
	paymentRoutes.Post("/khipu/create", h.HandleCreateKhipu)
	paymentRoutes.Post("/khipu/confirm", h.HandleConfirmKhipu)
}

// checkoutRequest carries the confirm token plus the order data the new
// pedido is seeded with.
type checkoutRequest struct {
	Token  string                      `json:"token" validate:"required"`
	Pedido services.CrearPedidoRequest `json:"pedido"`
}

// HandleCreateTransbank starts a Transbank transaction for the cart total.
func (h *PaymentHandler) HandleCreateTransbank(c *fiber.Ctx) error {
	return h.create(c, h.paymentService.CreateTransbank)
}

// HandleCreateKhipu starts a Khipu payment for the cart total.
func (h *PaymentHandler) HandleCreateKhipu(c *fiber.Ctx) error {
	return h.create(c, h.paymentService.CreateKhipu)
}

// HandleConfirmTransbank confirms a Transbank transaction and, when
// authorized, creates the pedido from the current cart.
func (h *PaymentHandler) HandleConfirmTransbank(c *fiber.Ctx) error {
	return h.confirm(c, h.paymentService.ConfirmTransbank)
}

// HandleConfirmKhipu confirms a Khipu payment and, when authorized, creates
// the pedido from the current cart.
func (h *PaymentHandler) HandleConfirmKhipu(c *fiber.Ctx) error {
	return h.confirm(c, h.paymentService.ConfirmKhipu)
}

func (h *PaymentHandler) create(c *fiber.Ctx, start func(ctx context.Context, userID string, amount int) (*payments.PaymentIntent, error)) error {
	userID, _ := c.Locals("user_id").(string)

	total := h.cartService.Total(userID)
	if total <= 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "El carro está vacío",
		})
	}

	intent, err := start(c.Context(), userID, total)
	if err != nil {
		log.Printf("Error creating payment for user %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":   "No se pudo iniciar el pago, intenta nuevamente",
			"retryable": true,
			"error":     err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(intent)
}

func (h *PaymentHandler) confirm(c *fiber.Ctx, confirm func(ctx context.Context, token string) (*payments.PaymentResult, error)) error {
	userID, _ := c.Locals("user_id").(string)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
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

	result, err := confirm(c.Context(), req.Token)
	if err != nil {
		// Declined-looking network or gateway errors are retryable for the
		// user; nothing was committed.
		log.Printf("Error confirming payment %s: %v", req.Token, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":   "No se pudo confirmar el pago, intenta nuevamente",
			"retryable": true,
			"error":     err.Error(),
		})
	}

	if !result.Authorized {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"message": "El pago no fue autorizado",
			"status":  result.Status,
		})
	}

	pedido, err := h.pedidoService.CrearNuevoPedido(userID, req.Pedido)
	if err != nil {
		log.Printf("Error creating pedido after payment %s: %v", req.Token, err)
		switch {
		case errors.Is(err, services.ErrCarroVacio), errors.Is(err, services.ErrSinProveedor):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not create pedido",
				"error":   err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(pedido)
}
