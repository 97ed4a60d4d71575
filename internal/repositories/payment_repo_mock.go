package repositories

import (
	"fmt"
	"sync"

	"gaspedidos/internal/models"

	"github.com/google/uuid"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
type MockPaymentRepository struct {
	transbank map[string]models.TransbankPayment // keyed by token
	khipu     map[string]models.KhipuPayment     // keyed by payment ID
	mu        sync.RWMutex
}

// NewMockPaymentRepository creates a new instance of MockPaymentRepository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		transbank: make(map[string]models.TransbankPayment),
		khipu:     make(map[string]models.KhipuPayment),
	}
}

// CreateTransbank records a new Transbank transaction attempt.
func (r *MockPaymentRepository) CreateTransbank(payment *models.TransbankPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	r.transbank[payment.Token] = *payment
	return nil
}

// GetTransbankByToken retrieves a Transbank record by its gateway token.
func (r *MockPaymentRepository) GetTransbankByToken(token string) (*models.TransbankPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.transbank[token]
	if !ok {
		return nil, fmt.Errorf("transbank payment with token %s not found", token)
	}
	return &payment, nil
}

// UpdateTransbank saves the updated Transbank record.
func (r *MockPaymentRepository) UpdateTransbank(payment *models.TransbankPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transbank[payment.Token]; !ok {
		return fmt.Errorf("transbank payment with ID %s not found for update", payment.ID)
	}
	r.transbank[payment.Token] = *payment
	return nil
}

// CreateKhipu records a new Khipu payment attempt.
func (r *MockPaymentRepository) CreateKhipu(payment *models.KhipuPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	r.khipu[payment.PaymentID] = *payment
	return nil
}

// GetKhipuByPaymentID retrieves a Khipu record by the gateway payment ID.
func (r *MockPaymentRepository) GetKhipuByPaymentID(paymentID string) (*models.KhipuPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.khipu[paymentID]
	if !ok {
		return nil, fmt.Errorf("khipu payment %s not found", paymentID)
	}
	return &payment, nil
}

// UpdateKhipu saves the updated Khipu record.
func (r *MockPaymentRepository) UpdateKhipu(payment *models.KhipuPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.khipu[payment.PaymentID]; !ok {
		return fmt.Errorf("khipu payment with ID %s not found for update", payment.ID)
	}
	r.khipu[payment.PaymentID] = *payment
	return nil
}
