package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketing/internal/catalog"
	"ticketing/internal/domain"
	"ticketing/internal/service"
)

// newBookingFixture wires a ticket service over mocks.
func newBookingFixture(t *testing.T) (*service.TicketService, *MockTicketRepository, *MockOrderRepository, *MockCacheStore) {
	t.Helper()

	ticketRepo := NewMockTicketRepository()
	challanRepo := NewMockChallanRepository()
	orderRepo := NewMockOrderRepository()
	gw := NewMockGateway("test_secret")
	settler := NewMockSettlementStore(orderRepo, ticketRepo, challanRepo)
	cacheStore := NewMockCacheStore()

	paymentService := service.NewPaymentService(gw, orderRepo, settler, NewMockLockStore())
	fareCalc := service.NewFareCalculator(catalog.Default())
	ticketService := service.NewTicketService(fareCalc, ticketRepo, paymentService, cacheStore)

	return ticketService, ticketRepo, orderRepo, cacheStore
}

// ──────────────────────────────────────────────
// 6. TICKET BOOKING
// ──────────────────────────────────────────────

func TestBooking_CreatesPendingTicketAndOrder(t *testing.T) {
	t.Parallel()

	ticketService, ticketRepo, orderRepo, _ := newBookingFixture(t)

	resp, err := ticketService.Book(context.Background(), service.BookTicketRequest{
		UserID:         "9820012345",
		FromStation:    "Churchgate",
		ToStation:      "Grant Road",
		JourneyDate:    "2026-08-29",
		FareClass:      domain.FareClassSecond,
		PassengerClass: domain.PassengerAdult,
		Validity:       domain.ValidityOneWay,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Ticket.Status != domain.PaymentStatusPending {
		t.Errorf("expected ticket status %s, got %s", domain.PaymentStatusPending, resp.Ticket.Status)
	}
	if resp.Ticket.Fare != 30.00 {
		t.Errorf("expected fare 30.00, got %.2f", resp.Ticket.Fare)
	}

	if resp.Order.Amount != resp.Ticket.Fare {
		t.Errorf("order amount %.2f must match ticket fare %.2f", resp.Order.Amount, resp.Ticket.Fare)
	}
	if resp.Order.EntityKind != domain.EntityTicket {
		t.Errorf("expected entity kind %s, got %s", domain.EntityTicket, resp.Order.EntityKind)
	}
	if resp.Order.EntityID != resp.Ticket.ID {
		t.Error("order must reference the booked ticket")
	}
	if resp.Order.Status != domain.OrderStatusAwaitingCallback {
		t.Errorf("expected order status %s, got %s", domain.OrderStatusAwaitingCallback, resp.Order.Status)
	}

	if ticketRepo.CountTickets() != 1 {
		t.Errorf("expected 1 ticket, got %d", ticketRepo.CountTickets())
	}
	if orderRepo.CountOrders() != 1 {
		t.Errorf("expected 1 order, got %d", orderRepo.CountOrders())
	}
}

func TestBooking_UnknownStation_Rejected(t *testing.T) {
	t.Parallel()

	ticketService, ticketRepo, orderRepo, _ := newBookingFixture(t)

	_, err := ticketService.Book(context.Background(), service.BookTicketRequest{
		UserID:         "9820012345",
		FromStation:    "Atlantis",
		ToStation:      "Dadar",
		JourneyDate:    "2026-08-29",
		FareClass:      domain.FareClassSecond,
		PassengerClass: domain.PassengerAdult,
		Validity:       domain.ValidityOneWay,
	})
	if !errors.Is(err, service.ErrFareUnavailable) {
		t.Fatalf("expected ErrFareUnavailable, got %v", err)
	}

	// An unavailable fare is never a free ticket.
	if ticketRepo.CountTickets() != 0 {
		t.Errorf("no ticket should be created, got %d", ticketRepo.CountTickets())
	}
	if orderRepo.CountOrders() != 0 {
		t.Errorf("no order should be created, got %d", orderRepo.CountOrders())
	}
}

func TestBooking_MissingFields_Rejected(t *testing.T) {
	t.Parallel()

	ticketService, _, _, _ := newBookingFixture(t)

	base := service.BookTicketRequest{
		UserID:         "9820012345",
		FromStation:    "Churchgate",
		ToStation:      "Dadar",
		JourneyDate:    "2026-08-29",
		FareClass:      domain.FareClassSecond,
		PassengerClass: domain.PassengerAdult,
		Validity:       domain.ValidityOneWay,
	}

	noUser := base
	noUser.UserID = ""
	if _, err := ticketService.Book(context.Background(), noUser); !errors.Is(err, service.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}

	noDate := base
	noDate.JourneyDate = ""
	if _, err := ticketService.Book(context.Background(), noDate); !errors.Is(err, service.ErrInvalidJourneyDate) {
		t.Errorf("expected ErrInvalidJourneyDate, got %v", err)
	}
}

func TestBooking_InvalidatesUserTicketCache(t *testing.T) {
	t.Parallel()

	ticketService, _, _, cacheStore := newBookingFixture(t)

	// Warm the cache first.
	if _, err := ticketService.TicketsByUser(context.Background(), "9820012345"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cacheStore.HasEntry("9820012345") {
		t.Fatal("expected cache to be warm")
	}

	_, err := ticketService.Book(context.Background(), service.BookTicketRequest{
		UserID:         "9820012345",
		FromStation:    "Churchgate",
		ToStation:      "Dadar",
		JourneyDate:    "2026-08-29",
		FareClass:      domain.FareClassSecond,
		PassengerClass: domain.PassengerAdult,
		Validity:       domain.ValidityOneWay,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cacheStore.HasEntry("9820012345") {
		t.Error("booking must invalidate the user's cached ticket list")
	}
}

func TestBooking_TicketListServedFromCache(t *testing.T) {
	t.Parallel()

	ticketService, ticketRepo, _, cacheStore := newBookingFixture(t)

	ticketRepo.AddTicket(&domain.Ticket{
		ID:          "ticket-1",
		UserID:      "9820012345",
		FromStation: "Churchgate",
		ToStation:   "Dadar",
		Fare:        50.00,
		Status:      domain.PaymentStatusPaid,
	})

	// First read fills the cache.
	first, err := ticketService.TicketsByUser(context.Background(), "9820012345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(first))
	}
	if cacheStore.SetCallCount != 1 {
		t.Errorf("expected 1 cache write, got %d", cacheStore.SetCallCount)
	}

	// Second read is served from cache.
	second, err := ticketService.TicketsByUser(context.Background(), "9820012345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected 1 cached ticket, got %d", len(second))
	}
	if second[0].Fare != 50.00 {
		t.Errorf("expected cached fare 50.00, got %.2f", second[0].Fare)
	}
	if cacheStore.SetCallCount != 1 {
		t.Errorf("cache hit must not rewrite the cache, got %d writes", cacheStore.SetCallCount)
	}
}

func TestBooking_CacheHitServesSamePayloadAsStorage(t *testing.T) {
	t.Parallel()

	ticketService, ticketRepo, _, _ := newBookingFixture(t)

	issued := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	ticketRepo.AddTicket(&domain.Ticket{
		ID:             "ticket-1",
		UserID:         "9820012345",
		FromStation:    "Churchgate",
		ToStation:      "Grant Road",
		JourneyDate:    "2026-08-29",
		FareClass:      domain.FareClassFirst,
		PassengerClass: domain.PassengerChild,
		Validity:       domain.ValidityReturn,
		Fare:           54.00,
		Status:         domain.PaymentStatusPaid,
		PaymentRef:     "pay-1",
		IssuedAt:       issued,
	})

	// First read misses the cache, second is served from it.
	miss, err := ticketService.TicketsByUser(context.Background(), "9820012345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hit, err := ticketService.TicketsByUser(context.Background(), "9820012345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(miss) != 1 || len(hit) != 1 {
		t.Fatalf("expected 1 ticket from both paths, got %d and %d", len(miss), len(hit))
	}

	m, h := miss[0], hit[0]
	if h.FareClass != m.FareClass {
		t.Errorf("fare class differs on cache hit: %q vs %q", h.FareClass, m.FareClass)
	}
	if h.PassengerClass != m.PassengerClass {
		t.Errorf("passenger class differs on cache hit: %q vs %q", h.PassengerClass, m.PassengerClass)
	}
	if h.Validity != m.Validity {
		t.Errorf("validity differs on cache hit: %q vs %q", h.Validity, m.Validity)
	}
	if h.PaymentRef != m.PaymentRef {
		t.Errorf("payment ref differs on cache hit: %q vs %q", h.PaymentRef, m.PaymentRef)
	}
	if !h.IssuedAt.Equal(m.IssuedAt) {
		t.Errorf("issued at differs on cache hit: %v vs %v", h.IssuedAt, m.IssuedAt)
	}
	if h.ID != m.ID || h.UserID != m.UserID || h.FromStation != m.FromStation ||
		h.ToStation != m.ToStation || h.JourneyDate != m.JourneyDate ||
		h.Fare != m.Fare || h.Status != m.Status {
		t.Errorf("cache hit payload differs from storage read: %+v vs %+v", h, m)
	}
}

func TestBooking_SettlementMarksTicketPaid(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	orderRepo := NewMockOrderRepository()
	gw := NewMockGateway("test_secret")
	settler := NewMockSettlementStore(orderRepo, ticketRepo, NewMockChallanRepository())

	paymentService := service.NewPaymentService(gw, orderRepo, settler, NewMockLockStore())
	fareCalc := service.NewFareCalculator(catalog.Default())
	ticketService := service.NewTicketService(fareCalc, ticketRepo, paymentService, NewMockCacheStore())

	resp, err := ticketService.Book(context.Background(), service.BookTicketRequest{
		UserID:         "9820012345",
		FromStation:    "Churchgate",
		ToStation:      "Dadar",
		JourneyDate:    "2026-08-29",
		FareClass:      domain.FareClassSecond,
		PassengerClass: domain.PassengerAdult,
		Validity:       domain.ValidityOneWay,
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	sig := gw.Sign(resp.Order.ID, "pay-1")
	if _, err := paymentService.HandleCallback(context.Background(), "pay-1", resp.Order.ID, sig); err != nil {
		t.Fatalf("callback failed: %v", err)
	}

	ticket := ticketRepo.GetTicket(resp.Ticket.ID)
	if ticket.Status != domain.PaymentStatusPaid {
		t.Errorf("expected ticket status %s after settlement, got %s", domain.PaymentStatusPaid, ticket.Status)
	}
	if ticket.PaymentRef != "pay-1" {
		t.Errorf("expected payment ref pay-1, got %s", ticket.PaymentRef)
	}
}
