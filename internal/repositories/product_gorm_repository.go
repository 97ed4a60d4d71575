package repositories

import (
	"fmt"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByProveedor retrieves the catalog of a single provider.
func (r *GORMProductRepository) GetByProveedor(proveedorID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products, "proveedor_id = ?", proveedorID).Error; err != nil {
		return nil, fmt.Errorf("failed to get products for proveedor %s: %w", proveedorID, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database. A provider may list each
// (marca, formato) pair only once; duplicates return ErrCatalogoDuplicado.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("proveedor_id = ? AND marca = ? AND formato = ?", product.ProveedorID, product.Marca, product.Formato).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check catalog uniqueness: %w", err)
	}
	if count > 0 {
		return ErrCatalogoDuplicado
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows affected
		// for an update, so we check RowsAffected.
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// DecrementStock decrements stock for every line item inside one transaction.
// Each UPDATE is guarded by stock >= cantidad; if any line cannot be covered
// the transaction rolls back and ErrStockInsuficiente is returned.
func (r *GORMProductRepository) DecrementStock(items models.LineItems) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.Product.ID, item.Cantidad).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Cantidad))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.Product.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrStockInsuficiente
			}
		}
		return nil
	})
}

// IncrementStock returns stock for every line item inside one transaction.
// Used to compensate a decrement when a later step of an accept fails.
func (r *GORMProductRepository) IncrementStock(items models.LineItems) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", item.Product.ID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Cantidad))
			if res.Error != nil {
				return fmt.Errorf("failed to increment stock for product %s: %w", item.Product.ID, res.Error)
			}
		}
		return nil
	})
}
