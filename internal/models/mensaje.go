package models

import "time"

// Mensaje is a chat message exchanged inside a pedido between the cliente and
// the assigned proveedor. Messages are append-only.
type Mensaje struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PedidoID     string    `json:"pedidoId" gorm:"index;type:varchar(36)" validate:"required"`
	SenderID     string    `json:"senderId" gorm:"type:varchar(36)" validate:"required"`
	SenderNombre string    `json:"senderNombre"`
	Texto        string    `json:"texto" validate:"required,min=1,max=1000"`
	Timestamp    time.Time `json:"timestamp"`
}
