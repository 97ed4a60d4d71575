package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TransbankClient talks to a Transbank-style REST gateway:
// POST {base}/transbank/create and GET {base}/transbank/get/{token}.
// A transaction is authorized if and only if response_code is 0.
type TransbankClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTransbankClient creates a client for the given gateway base URL.
// A nil httpClient falls back to a default with a request timeout.
func NewTransbankClient(baseURL string, httpClient *http.Client) *TransbankClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &TransbankClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type transbankCreateRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int    `json:"amount"`
	ReturnURL string `json:"return_url"`
}

type transbankCreateResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

type transbankStatusResponse struct {
	ResponseCode *int   `json:"response_code"`
	Amount       int    `json:"amount"`
	BuyOrder     string `json:"buy_order"`
	Status       string `json:"status"`
}

// Create starts a Transbank transaction and returns the redirect URL + token.
func (c *TransbankClient) Create(ctx context.Context, req PaymentRequest) (*PaymentIntent, error) {
	body, err := json.Marshal(transbankCreateRequest{
		BuyOrder:  req.BuyOrder,
		SessionID: req.SessionID,
		Amount:    req.Amount,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transbank create request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transbank/create", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build transbank create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transbank create request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("transbank create returned status %d", resp.StatusCode)
	}

	var created transbankCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRespuestaInvalida, err)
	}
	if created.URL == "" || created.Token == "" {
		return nil, fmt.Errorf("%w: missing url or token", ErrRespuestaInvalida)
	}

	return &PaymentIntent{RedirectURL: created.URL, Token: created.Token}, nil
}

// Confirm fetches the transaction status for a token. Any response without a
// response_code is treated as malformed, never as authorized.
func (c *TransbankClient) Confirm(ctx context.Context, token string) (*PaymentResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transbank/get/"+token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build transbank status request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transbank status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transbank status returned status %d", resp.StatusCode)
	}

	var status transbankStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRespuestaInvalida, err)
	}
	if status.ResponseCode == nil {
		return nil, fmt.Errorf("%w: missing response_code", ErrRespuestaInvalida)
	}

	return &PaymentResult{
		Authorized:   *status.ResponseCode == 0,
		Status:       status.Status,
		ResponseCode: *status.ResponseCode,
		Amount:       status.Amount,
		BuyOrder:     status.BuyOrder,
	}, nil
}
