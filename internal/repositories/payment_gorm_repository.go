package repositories

import (
	"fmt"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// CreateTransbank records a new Transbank transaction attempt.
func (r *GORMPaymentRepository) CreateTransbank(payment *models.TransbankPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create transbank payment: %w", err)
	}
	return nil
}

// GetTransbankByToken retrieves a Transbank record by its gateway token.
func (r *GORMPaymentRepository) GetTransbankByToken(token string) (*models.TransbankPayment, error) {
	var payment models.TransbankPayment
	if err := r.db.First(&payment, "token = ?", token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("transbank payment with token %s not found", token)
		}
		return nil, fmt.Errorf("failed to get transbank payment by token: %w", err)
	}
	return &payment, nil
}

// UpdateTransbank saves the updated Transbank record.
func (r *GORMPaymentRepository) UpdateTransbank(payment *models.TransbankPayment) error {
	res := r.db.Save(payment)
	if res.Error != nil {
		return fmt.Errorf("failed to update transbank payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transbank payment with ID %s not found for update", payment.ID)
	}
	return nil
}

// CreateKhipu records a new Khipu payment attempt.
func (r *GORMPaymentRepository) CreateKhipu(payment *models.KhipuPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create khipu payment: %w", err)
	}
	return nil
}

// GetKhipuByPaymentID retrieves a Khipu record by the gateway payment ID.
func (r *GORMPaymentRepository) GetKhipuByPaymentID(paymentID string) (*models.KhipuPayment, error) {
	var payment models.KhipuPayment
	if err := r.db.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("khipu payment %s not found", paymentID)
		}
		return nil, fmt.Errorf("failed to get khipu payment: %w", err)
	}
	return &payment, nil
}

// UpdateKhipu saves the updated Khipu record.
func (r *GORMPaymentRepository) UpdateKhipu(payment *models.KhipuPayment) error {
	res := r.db.Save(payment)
	if res.Error != nil {
		return fmt.Errorf("failed to update khipu payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("khipu payment with ID %s not found for update", payment.ID)
	}
	return nil
}
