package models

import "time"

// Payment record statuses.
const (
	PagoCreado     = "creado"
	PagoAutorizado = "autorizado"
	PagoRechazado  = "rechazado"
)

// TransbankPayment records one Transbank transaction attempt.
type TransbankPayment struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyOrder     string    `json:"buyOrder" gorm:"index;type:varchar(64)"`
	UserID       string    `json:"userId" gorm:"index;type:varchar(36)"`
	Token        string    `json:"token" gorm:"uniqueIndex;type:varchar(128)"`
	Amount       int       `json:"amount"`
	Status       string    `json:"status" gorm:"type:varchar(20)"`
	ResponseCode *int      `json:"responseCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// KhipuPayment records one Khipu payment attempt.
type KhipuPayment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PaymentID  string    `json:"paymentId" gorm:"uniqueIndex;type:varchar(128)"`
	UserID     string    `json:"userId" gorm:"index;type:varchar(36)"`
	Amount     int       `json:"amount"`
	Status     string    `json:"status" gorm:"type:varchar(20)"`
	PaymentURL string    `json:"paymentUrl" gorm:"type:varchar(512)"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
