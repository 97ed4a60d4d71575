package repositories

import (
	"fmt"
	"time"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMensajeRepository is a GORM implementation of MensajeRepository.
type GORMMensajeRepository struct {
	db *gorm.DB
}

// NewGORMMensajeRepository creates a new instance of GORMMensajeRepository.
func NewGORMMensajeRepository(db *gorm.DB) *GORMMensajeRepository {
	return &GORMMensajeRepository{
		db: db,
	}
}

// Create persists a new chat message.
func (r *GORMMensajeRepository) Create(mensaje *models.Mensaje) error {
	if mensaje.ID == "" {
		mensaje.ID = uuid.New().String()
	}
	if mensaje.Timestamp.IsZero() {
		mensaje.Timestamp = time.Now()
	}
	if err := r.db.Create(mensaje).Error; err != nil {
		return fmt.Errorf("failed to create mensaje: %w", err)
	}
	return nil
}

// GetByPedido retrieves a pedido's chat history, oldest first.
func (r *GORMMensajeRepository) GetByPedido(pedidoID string) ([]models.Mensaje, error) {
	var mensajes []models.Mensaje
	if err := r.db.Order("timestamp asc").Find(&mensajes, "pedido_id = ?", pedidoID).Error; err != nil {
		return nil, fmt.Errorf("failed to get mensajes for pedido %s: %w", pedidoID, err)
	}
	return mensajes, nil
}
