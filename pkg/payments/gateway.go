package payments

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// PaymentRequest carries everything a gateway needs to start a transaction.
type PaymentRequest struct {
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	BuyOrder  string `json:"buyOrder"`
	SessionID string `json:"sessionId"`
	ReturnURL string `json:"returnUrl"`
}

// PaymentIntent is the gateway's answer to a create call: where to send the
// user, and the token to confirm the transaction with later.
type PaymentIntent struct {
	RedirectURL string `json:"redirectUrl"`
	Token       string `json:"token"`
}

// PaymentResult is the outcome of a confirm call. Authorized is the only field
// the checkout flow may key off; everything else is bookkeeping.
type PaymentResult struct {
	Authorized   bool   `json:"authorized"`
	Status       string `json:"status"`
	ResponseCode int    `json:"responseCode"`
	Amount       int    `json:"amount"`
	BuyOrder     string `json:"buyOrder"`
}

// ErrRespuestaInvalida means the gateway answered with a body this client
// could not interpret. Callers must treat it like a declined payment.
var ErrRespuestaInvalida = errors.New("respuesta del gateway inválida")

// Gateway is the provider-agnostic interface every payment adapter implements.
// Create starts a transaction and returns the redirect target; Confirm asks
// the provider whether the transaction was authorized.
type Gateway interface {
	Create(ctx context.Context, req PaymentRequest) (*PaymentIntent, error)
	Confirm(ctx context.Context, token string) (*PaymentResult, error)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
