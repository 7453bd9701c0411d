package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDeepLink_Format(t *testing.T) {
	t.Parallel()

	link := DeepLink("+91 98200 12345", "https://pay.example.com/pay?order_id=order_1", 500.00)

	if !strings.HasPrefix(link, "https://wa.me/919820012345?text=") {
		t.Errorf("unexpected deep link prefix: %s", link)
	}
	// The pre-filled message is query escaped.
	if !strings.Contains(link, "Please+pay+your+challan") && !strings.Contains(link, "Please%20pay%20your%20challan") {
		t.Errorf("expected escaped message in link: %s", link)
	}
}

func TestSendPaymentLink_PostsToAPI(t *testing.T) {
	t.Parallel()

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
	}))
	defer srv.Close()

	notifier := NewWhatsAppNotifier(srv.URL)

	err := notifier.SendPaymentLink(context.Background(), "+91 98200 12345", "https://pay.example.com/pay?order_id=order_1", 500.00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["phone"] != "919820012345" {
		t.Errorf("expected digits-only phone, got %s", got["phone"])
	}
	if !strings.Contains(got["message"], "https://pay.example.com/pay?order_id=order_1") {
		t.Errorf("expected payment url in message, got %s", got["message"])
	}
	if !strings.Contains(got["message"], "500.00") {
		t.Errorf("expected amount in message, got %s", got["message"])
	}
}

func TestSendPaymentLink_APIFailure_ReturnsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier := NewWhatsAppNotifier(srv.URL)

	err := notifier.SendPaymentLink(context.Background(), "9820012345", "https://pay.example.com/pay", 500.00)
	if err == nil {
		t.Error("expected error on API failure")
	}
}

func TestSendPaymentLink_NoAPIConfigured_Succeeds(t *testing.T) {
	t.Parallel()

	notifier := NewWhatsAppNotifier("")

	err := notifier.SendPaymentLink(context.Background(), "9820012345", "https://pay.example.com/pay", 500.00)
	if err != nil {
		t.Errorf("unconfigured notifier must not fail: %v", err)
	}
}
