package repositories

import (
	"gaspedidos/internal/models"
)

// PedidoRepository defines the interface for pedido data access.
// UpdateEstado is a compare-and-swap: the transition is applied only if the
// pedido is currently in the expected estado, otherwise ErrTransicionInvalida
// is returned and nothing changes.
type PedidoRepository interface {
	GetAll() ([]models.Pedido, error)
	GetByID(id string) (*models.Pedido, error)
	GetByCliente(clienteID string) ([]models.Pedido, error)
	GetByConductor(conductorID string) ([]models.Pedido, error)
	Create(pedido *models.Pedido) error
	UpdateEstado(id string, desde string, hacia string) error
	// Delete is intentionally absent: pedidos are never removed, a terminal
	// estado is the only form of deletion the application knows.
}
