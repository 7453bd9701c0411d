package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"ticketing/internal/service"
)

// defaultBaseURL is the Razorpay REST API root.
const defaultBaseURL = "https://api.razorpay.com"

// RazorpayClient creates orders at Razorpay and validates its callback
// signatures. Implements service.Gateway.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// Ensure RazorpayClient implements the gateway contract.
var _ service.Gateway = (*RazorpayClient)(nil)

// NewRazorpayClient creates a Razorpay client authenticated with the key
// pair from the dashboard.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewRazorpayClientWithBaseURL overrides the API root, used in tests.
func NewRazorpayClientWithBaseURL(keyID, keySecret, baseURL string) *RazorpayClient {
	c := NewRazorpayClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder mints an order via POST /v1/orders. Amount is converted to
// paise, the gateway's smallest-unit convention. A transport failure maps to
// GatewayUnavailable, a non-2xx response to GatewayRejected; neither is
// retried here.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", service.ErrGatewayRejected, resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding order response: %v", service.ErrGatewayRejected, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: empty order id", service.ErrGatewayRejected)
	}

	return out.ID, nil
}

// VerifySignature checks the documented Razorpay checkout signature:
// HMAC-SHA256 over "<order_id>|<payment_id>" with the key secret, hex
// encoded. Comparison is constant-time.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	expected := SignPayload(orderID, paymentID, c.keySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayload computes the checkout signature for an order/payment pair.
// Exported so tests can craft valid callbacks.
func SignPayload(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
