package repositories

import (
	"sync"
	"time"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
)

// MockMensajeRepository is an in-memory implementation of MensajeRepository.
type MockMensajeRepository struct {
	mensajes map[string][]models.Mensaje // keyed by pedido ID
	mu       sync.RWMutex
}

// NewMockMensajeRepository creates a new instance of MockMensajeRepository.
func NewMockMensajeRepository() *MockMensajeRepository {
	return &MockMensajeRepository{
		mensajes: make(map[string][]models.Mensaje),
	}
}

// Create appends a new chat message.
func (r *MockMensajeRepository) Create(mensaje *models.Mensaje) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mensaje.ID == "" {
		mensaje.ID = uuid.New().String()
	}
	if mensaje.Timestamp.IsZero() {
		mensaje.Timestamp = time.Now()
	}
	r.mensajes[mensaje.PedidoID] = append(r.mensajes[mensaje.PedidoID], *mensaje)
	return nil
}

// GetByPedido retrieves a pedido's chat history, oldest first.
func (r *MockMensajeRepository) GetByPedido(pedidoID string) ([]models.Mensaje, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.mensajes[pedidoID]
	mensajes := make([]models.Mensaje, len(history))
	copy(mensajes, history)
	return mensajes, nil
}
