package services

import (
	"errors"

	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
)

// ErrNoAutorizado means an identity tried to touch a catalog entry it does
// not own.
var ErrNoAutorizado = errors.New("no autorizado para modificar este producto")

// ProductService handles business logic related to the provider catalogs.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products across providers.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetCatalogo retrieves one provider's catalog.
func (s *ProductService) GetCatalogo(proveedorID string) ([]models.Product, error) {
	return s.repo.GetByProveedor(proveedorID)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new catalog entry owned by the provider. The
// repository enforces (marca, formato) uniqueness within the catalog.
func (s *ProductService) CreateProduct(proveedorID string, product *models.Product) error {
	product.ProveedorID = proveedorID
	return s.repo.Create(product)
}

// UpdateProduct updates an existing catalog entry after checking ownership.
func (s *ProductService) UpdateProduct(proveedorID string, product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing.ProveedorID != proveedorID {
		return ErrNoAutorizado
	}
	product.ProveedorID = proveedorID
	return s.repo.Update(product)
}

// DeleteProduct deletes a catalog entry after checking ownership.
func (s *ProductService) DeleteProduct(proveedorID string, id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.ProveedorID != proveedorID {
		return ErrNoAutorizado
	}
	return s.repo.Delete(id)
}
