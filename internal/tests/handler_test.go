package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
	"ticketing/internal/handler"
	"ticketing/internal/middleware"
	"ticketing/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ──────────────────────────────────────────────
// 8. LIST ENDPOINT AUTH SCOPING
// ──────────────────────────────────────────────

func newTicketHandlerFixture(t *testing.T) (*handler.TicketHandler, *MockTicketRepository) {
	t.Helper()

	ticketRepo := NewMockTicketRepository()
	orderRepo := NewMockOrderRepository()
	gw := NewMockGateway("test_secret")
	settler := NewMockSettlementStore(orderRepo, ticketRepo, NewMockChallanRepository())

	paymentService := service.NewPaymentService(gw, orderRepo, settler, NewMockLockStore())
	fareCalc := service.NewFareCalculator(catalog.Default())
	ticketService := service.NewTicketService(fareCalc, ticketRepo, paymentService, NewMockCacheStore())

	return handler.NewTicketHandler(ticketService, "key-id"), ticketRepo
}

func getTickets(t *testing.T, h *handler.TicketHandler, phoneClaim, queryUserID string) []handler.TicketResponse {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/tickets?user_id="+queryUserID, nil)
	if phoneClaim != "" {
		c.Set(middleware.PhoneClaimKey, phoneClaim)
	}

	h.GetTickets(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out []handler.TicketResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return out
}

func TestListTickets_TokenPhoneOverridesQueryParam(t *testing.T) {
	t.Parallel()

	h, ticketRepo := newTicketHandlerFixture(t)

	ticketRepo.AddTicket(&domain.Ticket{ID: "ticket-self", UserID: "9820000001"})
	ticketRepo.AddTicket(&domain.Ticket{ID: "ticket-other", UserID: "9820000002"})

	// A passenger token names its own phone; the query parameter cannot
	// widen the list to someone else's tickets.
	out := getTickets(t, h, "9820000001", "9820000002")

	if len(out) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(out))
	}
	if out[0].ID != "ticket-self" {
		t.Errorf("expected the caller's own ticket, got %s", out[0].ID)
	}
}

func TestListTickets_NoPhoneClaim_QueryParamHonored(t *testing.T) {
	t.Parallel()

	h, ticketRepo := newTicketHandlerFixture(t)

	ticketRepo.AddTicket(&domain.Ticket{ID: "ticket-other", UserID: "9820000002"})

	// Staff tokens carry no phone claim and may list by user id.
	out := getTickets(t, h, "", "9820000002")

	if len(out) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(out))
	}
	if out[0].ID != "ticket-other" {
		t.Errorf("expected ticket-other, got %s", out[0].ID)
	}
}

func TestListChallans_TokenPhoneOverridesQueryParam(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	challanRepo := NewMockChallanRepository()
	orderRepo := NewMockOrderRepository()
	gw := NewMockGateway("test_secret")
	settler := NewMockSettlementStore(orderRepo, ticketRepo, challanRepo)

	paymentService := service.NewPaymentService(gw, orderRepo, settler, NewMockLockStore())
	challanService := service.NewChallanService(challanRepo, paymentService, NewMockNotifier(), "https://pay.example.com")
	h := handler.NewChallanHandler(challanService)

	ctx := context.Background()
	challanRepo.Create(ctx, &domain.Challan{ID: "challan-self", UserID: "9820000001", Reason: "Invalid ticket"})
	challanRepo.Create(ctx, &domain.Challan{ID: "challan-other", UserID: "9820000002", Reason: "Invalid ticket"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/challans?user_id=9820000002", nil)
	c.Set(middleware.PhoneClaimKey, "9820000001")

	h.GetChallans(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out []handler.ChallanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 challan, got %d", len(out))
	}
	if out[0].ID != "challan-self" {
		t.Errorf("expected the caller's own challan, got %s", out[0].ID)
	}
}
