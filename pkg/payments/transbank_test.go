package payments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gaspedidos/pkg/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransbankClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transbank/create", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(24000), req["amount"])
		assert.Equal(t, "order-1", req["buy_order"])

		json.NewEncoder(w).Encode(map[string]string{
			"url":   "https://webpay.example/init",
			"token": "tbk-token-1",
		})
	}))
	defer server.Close()

	client := payments.NewTransbankClient(server.URL, nil)
	intent, err := client.Create(context.Background(), payments.PaymentRequest{
		Amount:    24000,
		Currency:  "CLP",
		BuyOrder:  "order-1",
		SessionID: "user-1",
		ReturnURL: "https://app.example/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://webpay.example/init", intent.RedirectURL)
	assert.Equal(t, "tbk-token-1", intent.Token)
}

func TestTransbankClient_Create_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": "https://webpay.example/init"})
	}))
	defer server.Close()

	client := payments.NewTransbankClient(server.URL, nil)
	_, err := client.Create(context.Background(), payments.PaymentRequest{Amount: 1000})
	assert.ErrorIs(t, err, payments.ErrRespuestaInvalida)
}

func TestTransbankClient_Confirm(t *testing.T) {
	cases := []struct {
		name         string
		responseCode int
		authorized   bool
	}{
		{"autorizado", 0, true},
		{"rechazado", -1, false},
		{"rechazado_codigo_positivo", 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/transbank/get/tbk-token-1", r.URL.Path)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"response_code": tc.responseCode,
					"amount":        24000,
					"buy_order":     "order-1",
					"status":        "AUTHORIZED",
				})
			}))
			defer server.Close()

			client := payments.NewTransbankClient(server.URL, nil)
			result, err := client.Confirm(context.Background(), "tbk-token-1")
			require.NoError(t, err)
			assert.Equal(t, tc.authorized, result.Authorized)
			assert.Equal(t, tc.responseCode, result.ResponseCode)
			assert.Equal(t, 24000, result.Amount)
		})
	}
}

func TestTransbankClient_Confirm_MissingResponseCode(t *testing.T) {
	// A body without response_code is malformed, never authorized.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"amount": 24000,
			"status": "AUTHORIZED",
		})
	}))
	defer server.Close()

	client := payments.NewTransbankClient(server.URL, nil)
	_, err := client.Confirm(context.Background(), "tbk-token-1")
	assert.ErrorIs(t, err, payments.ErrRespuestaInvalida)
}

func TestTransbankClient_Confirm_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := payments.NewTransbankClient(server.URL, nil)
	_, err := client.Confirm(context.Background(), "tbk-token-1")
	assert.Error(t, err)
}
