package repositories

import (
	"gaspedidos/internal/models"
)

// PaymentRepository records gateway transaction attempts, one table per
// gateway. Records are written on creation and updated once confirmed.
type PaymentRepository interface {
	CreateTransbank(payment *models.TransbankPayment) error
	GetTransbankByToken(token string) (*models.TransbankPayment, error)
	UpdateTransbank(payment *models.TransbankPayment) error
	CreateKhipu(payment *models.KhipuPayment) error
	GetKhipuByPaymentID(paymentID string) (*models.KhipuPayment, error)
	UpdateKhipu(payment *models.KhipuPayment) error
}
