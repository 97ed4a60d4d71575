package models

import "gorm.io/gorm"

// Marca is the gas brand of a product. The catalog only carries these brands.
const (
	MarcaLipigas   = "Lipigas"
	MarcaAbastible = "Abastible"
	MarcaGasco     = "Gasco"
	MarcaGasmar    = "Gasmar"
)

// Formato is the cylinder size of a product.
const (
	Formato5Kg  = "5kg"
	Formato11Kg = "11kg"
	Formato15Kg = "15kg"
	Formato45Kg = "45kg"
)

// Product represents one gas-cylinder offering in a provider's catalog.
// A provider may list each (marca, formato) pair at most once.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProveedorID string `json:"proveedorId" gorm:"index:idx_catalogo,unique;type:varchar(36)" validate:"required,uuid"`
	Marca       string `json:"marca" gorm:"index:idx_catalogo,unique;type:varchar(30)" validate:"required,oneof=Lipigas Abastible Gasco Gasmar"`
	Formato     string `json:"formato" gorm:"index:idx_catalogo,unique;type:varchar(10)" validate:"required,oneof=5kg 11kg 15kg 45kg"`
	Nombre      string `json:"nombre" validate:"required,min=3,max=100"`
	Precio      int    `json:"precio" validate:"required,gt=0"` // CLP, integer pesos
	Stock       int    `json:"stock" validate:"gte=0"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
