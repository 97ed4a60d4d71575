package repositories

import (
	"gaspedidos/internal/models"
)

// ProductRepository defines the interface for product data access.
// DecrementStock and IncrementStock operate on a whole set of line items
// atomically: either every line is applied or none is.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByProveedor(proveedorID string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(items models.LineItems) error
	IncrementStock(items models.LineItems) error
}
