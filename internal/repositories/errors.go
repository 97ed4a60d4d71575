package repositories

import "errors"

// Business-rule errors shared by the GORM and mock implementations. Services
// test for these with errors.Is and map them to user-facing notices.
var (
	// ErrStockInsuficiente means at least one line item could not be covered
	// by the product's current stock. No stock was changed.
	ErrStockInsuficiente = errors.New("stock insuficiente")

	// ErrTransicionInvalida means the pedido was not in the expected estado
	// when a status transition was attempted.
	ErrTransicionInvalida = errors.New("transición de estado inválida")

	// ErrCatalogoDuplicado means the provider already lists the same
	// (marca, formato) pair.
	ErrCatalogoDuplicado = errors.New("producto duplicado en el catálogo")
)
