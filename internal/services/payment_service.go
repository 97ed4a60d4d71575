package services

import (
	"context"
	"fmt"

	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
	"gaspedidos/pkg/payments"

	"github.com/google/uuid"
)

// PaymentService fronts the payment gateways and keeps a record of every
// transaction attempt. Confirm results are the sole gate for order creation:
// only Authorized == true lets a checkout proceed.
type PaymentService struct {
	transbank payments.Gateway
	khipu     payments.Gateway
	repo      repositories.PaymentRepository
	returnURL string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(transbank payments.Gateway, khipu payments.Gateway, repo repositories.PaymentRepository, returnURL string) *PaymentService {
	return &PaymentService{
		transbank: transbank,
		khipu:     khipu,
		repo:      repo,
		returnURL: returnURL,
	}
}

// CreateTransbank starts a Transbank transaction for the amount and records
// the attempt.
func (s *PaymentService) CreateTransbank(ctx context.Context, userID string, amount int) (*payments.PaymentIntent, error) {
	buyOrder := uuid.New().String()
	intent, err := s.transbank.Create(ctx, payments.PaymentRequest{
		Amount:    amount,
		Currency:  "CLP",
		BuyOrder:  buyOrder,
		SessionID: userID,
		ReturnURL: s.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("transbank create failed: %w", err)
	}

	record := &models.TransbankPayment{
		BuyOrder: buyOrder,
		UserID:   userID,
		Token:    intent.Token,
		Amount:   amount,
		Status:   models.PagoCreado,
	}
	if err := s.repo.CreateTransbank(record); err != nil {
		return nil, fmt.Errorf("failed to record transbank payment: %w", err)
	}
	return intent, nil
}

// ConfirmTransbank asks the gateway for the transaction outcome and updates
// the stored record. Any error aborts the checkout; the caller must not
// create a pedido unless the returned result is Authorized.
func (s *PaymentService) ConfirmTransbank(ctx context.Context, token string) (*payments.PaymentResult, error) {
	record, err := s.repo.GetTransbankByToken(token)
	if err != nil {
		return nil, err
	}

	result, err := s.transbank.Confirm(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("transbank confirm failed: %w", err)
	}

	record.ResponseCode = &result.ResponseCode
	if result.Authorized {
		record.Status = models.PagoAutorizado
	} else {
		record.Status = models.PagoRechazado
	}
	if err := s.repo.UpdateTransbank(record); err != nil {
		return nil, fmt.Errorf("failed to update transbank payment: %w", err)
	}
	return result, nil
}

// CreateKhipu starts a Khipu payment for the amount and records the attempt.
func (s *PaymentService) CreateKhipu(ctx context.Context, userID string, amount int) (*payments.PaymentIntent, error) {
	intent, err := s.khipu.Create(ctx, payments.PaymentRequest{
		Amount:    amount,
		Currency:  "CLP",
		BuyOrder:  uuid.New().String(),
		SessionID: userID,
		ReturnURL: s.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("khipu create failed: %w", err)
	}

	record := &models.KhipuPayment{
		PaymentID:  intent.Token,
		UserID:     userID,
		Amount:     amount,
		Status:     models.PagoCreado,
		PaymentURL: intent.RedirectURL,
	}
	if err := s.repo.CreateKhipu(record); err != nil {
		return nil, fmt.Errorf("failed to record khipu payment: %w", err)
	}
	return intent, nil
}

// ConfirmKhipu asks the gateway for the payment status and updates the stored
// record.
func (s *PaymentService) ConfirmKhipu(ctx context.Context, paymentID string) (*payments.PaymentResult, error) {
	record, err := s.repo.GetKhipuByPaymentID(paymentID)
	if err != nil {
		return nil, err
	}

	result, err := s.khipu.Confirm(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("khipu confirm failed: %w", err)
	}

	if result.Authorized {
		record.Status = models.PagoAutorizado
	} else {
		record.Status = models.PagoRechazado
	}
	if err := s.repo.UpdateKhipu(record); err != nil {
		return nil, fmt.Errorf("failed to update khipu payment: %w", err)
	}
	return result, nil
}
