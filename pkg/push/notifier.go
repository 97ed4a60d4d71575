package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notification is one push message addressed to a device token.
type Notification struct {
	Token      string `json:"token"`
	Message    string `json:"message"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
}

// Notifier delivers push notifications to devices.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// HTTPNotifier posts notifications as JSON to a push relay endpoint.
type HTTPNotifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPNotifier creates a notifier for the given relay endpoint.
func NewHTTPNotifier(endpoint string, httpClient *http.Client) *HTTPNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPNotifier{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Send delivers one notification. Tokenless notifications are dropped without
// error: a user who never registered a device simply gets nothing.
func (n *HTTPNotifier) Send(ctx context.Context, notification Notification) error {
	if notification.Token == "" {
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification relay returned status %d", resp.StatusCode)
	}
	return nil
}
