package repositories

import (
	"fmt"
	"sync"

	"gaspedidos/internal/models"
)

// MockLocationRepository is an in-memory implementation of LocationRepository.
// Because the mock has no users table to join against, provider identities are
// registered explicitly with MarkProveedor.
type MockLocationRepository struct {
	locations   map[string]models.UserLocation
	proveedores map[string]bool
	mu          sync.RWMutex
}

// NewMockLocationRepository creates a new instance of MockLocationRepository.
func NewMockLocationRepository() *MockLocationRepository {
	return &MockLocationRepository{
		locations:   make(map[string]models.UserLocation),
		proveedores: make(map[string]bool),
	}
}

// MarkProveedor flags an identity as a provider for GetProveedorLocations.
func (r *MockLocationRepository) MarkProveedor(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proveedores[userID] = true
}

// Save upserts the location document for the identity.
func (r *MockLocationRepository) Save(location *models.UserLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[location.UserID] = *location
	return nil
}

// GetByUserID retrieves an identity's location document.
func (r *MockLocationRepository) GetByUserID(userID string) (*models.UserLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	location, ok := r.locations[userID]
	if !ok {
		return nil, fmt.Errorf("location for user %s not found", userID)
	}
	return &location, nil
}

// GetProveedorLocations retrieves the locations of registered providers.
func (r *MockLocationRepository) GetProveedorLocations() ([]models.UserLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var locations []models.UserLocation
	for userID, location := range r.locations {
		if r.proveedores[userID] {
			locations = append(locations, location)
		}
	}
	return locations, nil
}
