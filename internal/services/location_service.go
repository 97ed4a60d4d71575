package services

import (
	"sync"

	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
)

// LocationService holds the geocoded locations of identities and the one
// provider a user has selected for an in-progress order. The selection is
// session state and lives only in memory.
type LocationService struct {
	repo repositories.LocationRepository

	mu       sync.RWMutex
	selected map[string]string // userID -> selected proveedorID
}

// NewLocationService creates a new LocationService.
func NewLocationService(repo repositories.LocationRepository) *LocationService {
	return &LocationService{
		repo:     repo,
		selected: make(map[string]string),
	}
}

// SaveLocation upserts an identity's resolved geocoded location.
func (s *LocationService) SaveLocation(location *models.UserLocation) error {
	return s.repo.Save(location)
}

// Location returns an identity's stored location.
func (s *LocationService) Location(userID string) (*models.UserLocation, error) {
	return s.repo.GetByUserID(userID)
}

// ProveedorLocations returns the locations of every provider.
func (s *LocationService) ProveedorLocations() ([]models.UserLocation, error) {
	return s.repo.GetProveedorLocations()
}

// SetSelectedProveedor records which provider the user is ordering from.
func (s *LocationService) SetSelectedProveedor(userID string, proveedorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[userID] = proveedorID
}

// SelectedProveedor returns the user's current provider selection.
func (s *LocationService) SelectedProveedor(userID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proveedorID, ok := s.selected[userID]
	return proveedorID, ok
}

// ClearSelectedProveedor drops the user's provider selection.
func (s *LocationService) ClearSelectedProveedor(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, userID)
}
