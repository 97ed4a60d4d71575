package models

import "gorm.io/gorm"

// Identity roles. Usuarios build carts and place pedidos; proveedores manage a
// catalog and accept or reject pedidos.
const (
	RolUsuario   = "usuario"
	RolProveedor = "proveedor"
)

// User represents a signed-in identity, either a consumer or a provider.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Nombre     string `json:"nombre" validate:"required,min=2,max=100"`
	Rol        string `json:"rol" gorm:"type:varchar(20)" validate:"required,oneof=usuario proveedor"`
	PushToken  string `json:"pushToken" gorm:"type:varchar(255)" validate:"omitempty"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
