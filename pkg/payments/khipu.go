package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Khipu reports a completed payment with this status string.
const khipuStatusDone = "done"

// KhipuClient talks to a Khipu-style REST gateway:
// POST {base}/create and GET {base}/{paymentId}.
// A payment is authorized if and only if its status is "done".
type KhipuClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewKhipuClient creates a client for the given gateway base URL.
// A nil httpClient falls back to a default with a request timeout.
func NewKhipuClient(baseURL string, httpClient *http.Client) *KhipuClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &KhipuClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type khipuCreateRequest struct {
	Subject   string `json:"subject"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	ReturnURL string `json:"return_url"`
}

type khipuCreateResponse struct {
	Payment struct {
		PaymentID  string `json:"payment_id"`
		PaymentURL string `json:"payment_url"`
	} `json:"payment"`
}

type khipuStatusResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Amount    int    `json:"amount"`
}

// Create starts a Khipu payment. The returned token is the Khipu payment_id.
func (c *KhipuClient) Create(ctx context.Context, req PaymentRequest) (*PaymentIntent, error) {
	body, err := json.Marshal(khipuCreateRequest{
		Subject:   req.BuyOrder,
		Amount:    req.Amount,
		Currency:  req.Currency,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal khipu create request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build khipu create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("khipu create request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("khipu create returned status %d", resp.StatusCode)
	}

	var created khipuCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRespuestaInvalida, err)
	}
	if created.Payment.PaymentID == "" || created.Payment.PaymentURL == "" {
		return nil, fmt.Errorf("%w: missing payment_id or payment_url", ErrRespuestaInvalida)
	}

	return &PaymentIntent{
		RedirectURL: created.Payment.PaymentURL,
		Token:       created.Payment.PaymentID,
	}, nil
}

// Confirm fetches the payment status detail for a payment ID.
func (c *KhipuClient) Confirm(ctx context.Context, token string) (*PaymentResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build khipu status request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("khipu status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("khipu status returned status %d", resp.StatusCode)
	}

	var status khipuStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRespuestaInvalida, err)
	}
	if status.Status == "" {
		return nil, fmt.Errorf("%w: missing status", ErrRespuestaInvalida)
	}

	return &PaymentResult{
		Authorized: status.Status == khipuStatusDone,
		Status:     status.Status,
		Amount:     status.Amount,
	}, nil
}
