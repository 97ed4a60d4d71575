package repositories

import (
	"fmt"

	"gaspedidos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMLocationRepository is a GORM implementation of LocationRepository.
type GORMLocationRepository struct {
	db *gorm.DB
}

// NewGORMLocationRepository creates a new instance of GORMLocationRepository.
func NewGORMLocationRepository(db *gorm.DB) *GORMLocationRepository {
	return &GORMLocationRepository{
		db: db,
	}
}

// Save upserts the location document for the identity.
func (r *GORMLocationRepository) Save(location *models.UserLocation) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(location).Error
	if err != nil {
		return fmt.Errorf("failed to save location for user %s: %w", location.UserID, err)
	}
	return nil
}

// GetByUserID retrieves an identity's location document.
func (r *GORMLocationRepository) GetByUserID(userID string) (*models.UserLocation, error) {
	var location models.UserLocation
	if err := r.db.First(&location, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("location for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get location for user %s: %w", userID, err)
	}
	return &location, nil
}

// GetProveedorLocations retrieves the locations of every provider identity.
func (r *GORMLocationRepository) GetProveedorLocations() ([]models.UserLocation, error) {
	var locations []models.UserLocation
	err := r.db.
		Joins("JOIN users ON users.id = user_locations.user_id AND users.rol = ?", models.RolProveedor).
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get proveedor locations: %w", err)
	}
	return locations, nil
}
