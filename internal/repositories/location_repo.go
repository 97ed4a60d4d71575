package repositories

import (
	"gaspedidos/internal/models"
)

// LocationRepository defines the interface for per-identity location access.
// Location documents are keyed by the identity ID, one per user.
type LocationRepository interface {
	Save(location *models.UserLocation) error
	GetByUserID(userID string) (*models.UserLocation, error)
	GetProveedorLocations() ([]models.UserLocation, error)
}
