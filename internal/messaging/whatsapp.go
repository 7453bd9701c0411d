package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ticketing/internal/service"
)

// Ensure WhatsAppNotifier implements the messaging contract.
var _ service.PaymentLinkNotifier = (*WhatsAppNotifier)(nil)

// WhatsAppNotifier delivers payment links over WhatsApp. When no API URL is
// configured it only builds the wa.me deep link and logs it, which keeps
// local development working without a messaging account.
type WhatsAppNotifier struct {
	apiURL     string
	httpClient *http.Client
}

// NewWhatsAppNotifier creates a WhatsApp notifier. apiURL may be empty.
func NewWhatsAppNotifier(apiURL string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendPaymentLink delivers a challan payment link to the given phone number.
func (n *WhatsAppNotifier) SendPaymentLink(ctx context.Context, phoneNumber, paymentURL string, amount float64) error {
	deepLink := DeepLink(phoneNumber, paymentURL, amount)

	if n.apiURL == "" {
		logrus.WithFields(logrus.Fields{
			"phone": phoneNumber,
			"link":  deepLink,
		}).Info("whatsapp api not configured, payment link built only")
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"phone":   digitsOnly(phoneNumber),
		"message": paymentMessage(paymentURL, amount),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp api returned status %d", resp.StatusCode)
	}

	return nil
}

// DeepLink builds the wa.me link that opens a chat pre-filled with the
// payment message.
func DeepLink(phoneNumber, paymentURL string, amount float64) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		digitsOnly(phoneNumber),
		url.QueryEscape(paymentMessage(paymentURL, amount)))
}

func paymentMessage(paymentURL string, amount float64) string {
	return fmt.Sprintf("Please pay your challan using this link: %s\nAmount: ₹%.2f", paymentURL, amount)
}

// digitsOnly strips everything but digits so the number fits the wa.me
// format.
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
