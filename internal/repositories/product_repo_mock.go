package repositories

import (
	"fmt"
	"sync"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByProveedor returns the catalog of a single provider.
func (r *MockProductRepository) GetByProveedor(proveedorID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.ProveedorID == proveedorID {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Create adds a new product, enforcing the per-provider (marca, formato)
// uniqueness constraint.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ProveedorID == product.ProveedorID && p.Marca == product.Marca && p.Formato == product.Formato {
			return ErrCatalogoDuplicado
		}
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// DecrementStock applies all line items or none. The whole check-then-apply
// runs under one lock so concurrent accepts cannot interleave.
func (r *MockProductRepository) DecrementStock(items models.LineItems) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		p, ok := r.products[item.Product.ID]
		if !ok {
			return fmt.Errorf("product with ID %s not found", item.Product.ID)
		}
		if p.Stock < item.Cantidad {
			return ErrStockInsuficiente
		}
	}
	for _, item := range items {
		p := r.products[item.Product.ID]
		p.Stock -= item.Cantidad
		r.products[item.Product.ID] = p
	}
	return nil
}

// IncrementStock returns stock for every line item.
func (r *MockProductRepository) IncrementStock(items models.LineItems) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		p, ok := r.products[item.Product.ID]
		if !ok {
			return fmt.Errorf("product with ID %s not found", item.Product.ID)
		}
		p.Stock += item.Cantidad
		r.products[item.Product.ID] = p
	}
	return nil
}
