package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Cart quantity bounds. A single line item never exceeds MaxCantidad cylinders.
const (
	MinCantidad = 1
	MaxCantidad = 5
)

// CartItem is one line of a cart: a snapshot of the product at the time it was
// added, plus the requested quantity.
type CartItem struct {
	Product  Product `json:"product"`
	Cantidad int     `json:"cantidad"`
}

// Subtotal returns the line total in integer pesos.
func (i CartItem) Subtotal() int {
	return i.Product.Precio * i.Cantidad
}

// LineItems is the ordered sequence of cart snapshots frozen into a pedido.
// It is stored as a JSON column; line items are immutable once the pedido exists.
type LineItems []CartItem

// Value implements driver.Valuer for GORM serialization.
func (l LineItems) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal line items: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM deserialization.
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for line items", value)
	}
	return json.Unmarshal(data, l)
}

// Total returns the sum of all line subtotals.
func (l LineItems) Total() int {
	total := 0
	for _, item := range l {
		total += item.Subtotal()
	}
	return total
}
