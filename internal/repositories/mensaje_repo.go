package repositories

import (
	"gaspedidos/internal/models"
)

// MensajeRepository defines the interface for per-pedido chat messages.
type MensajeRepository interface {
	Create(mensaje *models.Mensaje) error
	GetByPedido(pedidoID string) ([]models.Mensaje, error)
}
