package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
)

// MockPedidoRepository is an in-memory implementation of PedidoRepository.
type MockPedidoRepository struct {
	pedidos map[string]models.Pedido
	mu      sync.RWMutex
}

// NewMockPedidoRepository creates a new instance of MockPedidoRepository.
func NewMockPedidoRepository() *MockPedidoRepository {
	return &MockPedidoRepository{
		pedidos: make(map[string]models.Pedido),
	}
}

// GetAll returns all pedidos, newest first.
func (r *MockPedidoRepository) GetAll() ([]models.Pedido, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pedidoList := make([]models.Pedido, 0, len(r.pedidos))
	for _, p := range r.pedidos {
		pedidoList = append(pedidoList, p)
	}
	sortPedidos(pedidoList)
	return pedidoList, nil
}

// GetByID returns a pedido by its ID.
func (r *MockPedidoRepository) GetByID(id string) (*models.Pedido, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pedido, ok := r.pedidos[id]
	if !ok {
		return nil, fmt.Errorf("pedido with ID %s not found", id)
	}
	return &pedido, nil
}

// GetByCliente returns the pedidos placed by a client, newest first.
func (r *MockPedidoRepository) GetByCliente(clienteID string) ([]models.Pedido, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pedidoList []models.Pedido
	for _, p := range r.pedidos {
		if p.ClienteID == clienteID {
			pedidoList = append(pedidoList, p)
		}
	}
	sortPedidos(pedidoList)
	return pedidoList, nil
}

// GetByConductor returns the pedidos assigned to a provider, newest first.
func (r *MockPedidoRepository) GetByConductor(conductorID string) ([]models.Pedido, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pedidoList []models.Pedido
	for _, p := range r.pedidos {
		if p.ConductorID == conductorID {
			pedidoList = append(pedidoList, p)
		}
	}
	sortPedidos(pedidoList)
	return pedidoList, nil
}

// Create adds a new pedido.
func (r *MockPedidoRepository) Create(pedido *models.Pedido) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pedido.ID == "" {
		pedido.ID = uuid.New().String()
	}
	if pedido.Timestamp.IsZero() {
		pedido.Timestamp = time.Now()
	}
	r.pedidos[pedido.ID] = *pedido
	return nil
}

// UpdateEstado applies the estado transition only when the pedido currently
// holds the expected estado. Check and write happen under one lock.
func (r *MockPedidoRepository) UpdateEstado(id string, desde string, hacia string) error {
	if !models.TransicionValida(desde, hacia) {
		return ErrTransicionInvalida
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pedido, ok := r.pedidos[id]
	if !ok {
		return fmt.Errorf("pedido with ID %s not found for status update", id)
	}
	if pedido.Estado != desde {
		return ErrTransicionInvalida
	}

	pedido.Estado = hacia
	now := time.Now()
	switch hacia {
	case models.EstadoAceptado:
		pedido.TimestampAceptado = &now
	case models.EstadoLlegado:
		pedido.TimestampLlegada = &now
	}
	r.pedidos[id] = pedido
	return nil
}

func sortPedidos(pedidos []models.Pedido) {
	sort.Slice(pedidos, func(i, j int) bool {
		return pedidos[i].Timestamp.After(pedidos[j].Timestamp)
	})
}
