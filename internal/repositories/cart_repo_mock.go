package repositories

import (
	"context"
	"sync"

	"gaspedidos/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string][]models.CartItem
	mu    sync.RWMutex

	// FailSaves makes SaveCart return an error, for exercising the
	// best-effort persistence path in tests.
	FailSaves bool
	SaveErr   error
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string][]models.CartItem),
	}
}

// SaveCart stores a copy of the snapshot.
func (r *MockCartRepository) SaveCart(_ context.Context, userID string, items []models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSaves {
		return r.SaveErr
	}
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)
	r.carts[userID] = snapshot
	return nil
}

// LoadCart returns the stored snapshot, nil when none exists.
func (r *MockCartRepository) LoadCart(_ context.Context, userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)
	return snapshot, nil
}

// DeleteCart removes the stored snapshot.
func (r *MockCartRepository) DeleteCart(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

// StoredCart exposes the saved snapshot for assertions.
func (r *MockCartRepository) StoredCart(userID string) []models.CartItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.carts[userID]
}
