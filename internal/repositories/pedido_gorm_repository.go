package repositories

import (
	"fmt"
	"time"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPedidoRepository is a GORM implementation of PedidoRepository.
type GORMPedidoRepository struct {
	db *gorm.DB
}

// NewGORMPedidoRepository creates a new instance of GORMPedidoRepository.
func NewGORMPedidoRepository(db *gorm.DB) *GORMPedidoRepository {
	return &GORMPedidoRepository{
		db: db,
	}
}

// GetAll retrieves all pedidos.
func (r *GORMPedidoRepository) GetAll() ([]models.Pedido, error) {
	var pedidos []models.Pedido
	if err := r.db.Order("timestamp desc").Find(&pedidos).Error; err != nil {
		return nil, fmt.Errorf("failed to get all pedidos: %w", err)
	}
	return pedidos, nil
}

// GetByID retrieves a single pedido by its ID.
func (r *GORMPedidoRepository) GetByID(id string) (*models.Pedido, error) {
	var pedido models.Pedido
	if err := r.db.First(&pedido, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("pedido with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get pedido by ID %s: %w", id, err)
	}
	return &pedido, nil
}

// GetByCliente retrieves all pedidos placed by a client, newest first.
func (r *GORMPedidoRepository) GetByCliente(clienteID string) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	if err := r.db.Order("timestamp desc").Find(&pedidos, "cliente_id = ?", clienteID).Error; err != nil {
		return nil, fmt.Errorf("failed to get pedidos for cliente %s: %w", clienteID, err)
	}
	return pedidos, nil
}

// GetByConductor retrieves all pedidos assigned to a provider, newest first.
func (r *GORMPedidoRepository) GetByConductor(conductorID string) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	if err := r.db.Order("timestamp desc").Find(&pedidos, "conductor_id = ?", conductorID).Error; err != nil {
		return nil, fmt.Errorf("failed to get pedidos for conductor %s: %w", conductorID, err)
	}
	return pedidos, nil
}

// Create persists a new pedido.
func (r *GORMPedidoRepository) Create(pedido *models.Pedido) error {
	if pedido.ID == "" {
		pedido.ID = uuid.New().String()
	}
	if pedido.Timestamp.IsZero() {
		pedido.Timestamp = time.Now()
	}
	if err := r.db.Create(pedido).Error; err != nil {
		return fmt.Errorf("failed to create pedido: %w", err)
	}
	return nil
}

// UpdateEstado moves a pedido from estado `desde` to estado `hacia` with a
// guarded UPDATE. The WHERE clause on the current estado is the
// compare-and-swap: a concurrent transition that got there first leaves
// RowsAffected at zero and this call returns ErrTransicionInvalida.
func (r *GORMPedidoRepository) UpdateEstado(id string, desde string, hacia string) error {
	if !models.TransicionValida(desde, hacia) {
		return ErrTransicionInvalida
	}

	updates := map[string]interface{}{"estado": hacia}
	now := time.Now()
	switch hacia {
	case models.EstadoAceptado:
		updates["timestamp_aceptado"] = &now
	case models.EstadoLlegado:
		updates["timestamp_llegada"] = &now
	}

	res := r.db.Model(&models.Pedido{}).
		Where("id = ? AND estado = ?", id, desde).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update estado for pedido %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Pedido{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check pedido %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("pedido with ID %s not found for status update", id)
		}
		return ErrTransicionInvalida
	}
	return nil
}
