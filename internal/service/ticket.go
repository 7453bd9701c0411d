package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ticketing/internal/domain"
	"ticketing/internal/redis"
	"ticketing/internal/repository"
)

// TicketService handles booking and ticket reads. Tickets are created in
// PENDING state; only a verified settlement moves them to PAID.
type TicketService struct {
	fareCalc       *FareCalculator
	ticketRepo     repository.TicketRepository
	paymentService *PaymentService
	cacheStore     redis.CacheStoreInterface
}

// NewTicketService creates a new TicketService.
func NewTicketService(
	fareCalc *FareCalculator,
	ticketRepo repository.TicketRepository,
	paymentService *PaymentService,
	cacheStore redis.CacheStoreInterface,
) *TicketService {
	return &TicketService{
		fareCalc:       fareCalc,
		ticketRepo:     ticketRepo,
		paymentService: paymentService,
		cacheStore:     cacheStore,
	}
}

// BookTicketRequest contains the parameters for booking a ticket.
type BookTicketRequest struct {
	UserID         string // phone number
	FromStation    string
	ToStation      string
	JourneyDate    string
	FareClass      domain.FareClass
	PassengerClass domain.PassengerClass
	Validity       domain.TripValidity
}

// BookTicketResponse contains the pending ticket and the gateway order the
// client completes at checkout.
type BookTicketResponse struct {
	Ticket *domain.Ticket
	Order  *domain.PaymentOrder
}

// Book quotes the fare, persists a pending ticket and mints a gateway order
// for it. An unavailable fare rejects the booking; it is never a free ticket.
func (s *TicketService) Book(ctx context.Context, req BookTicketRequest) (*BookTicketResponse, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.JourneyDate == "" {
		return nil, ErrInvalidJourneyDate
	}

	quote := s.fareCalc.Quote(req.FromStation, req.ToStation, req.FareClass, req.PassengerClass, req.Validity)
	if !quote.Available {
		return nil, ErrFareUnavailable
	}

	ticket := &domain.Ticket{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		FromStation:    req.FromStation,
		ToStation:      req.ToStation,
		JourneyDate:    req.JourneyDate,
		FareClass:      req.FareClass,
		PassengerClass: req.PassengerClass,
		Validity:       req.Validity,
		Fare:           quote.Amount,
		Status:         domain.PaymentStatusPending,
		IssuedAt:       time.Now(),
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	order, err := s.paymentService.CreateOrder(ctx, CreateOrderRequest{
		Amount:     quote.Amount,
		Currency:   "INR",
		EntityKind: domain.EntityTicket,
		EntityID:   ticket.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.paymentService.BeginCheckout(ctx, order.ID); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusAwaitingCallback

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateUserTickets(ctx, req.UserID)
	}

	logrus.WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"order_id":  order.ID,
		"fare":      quote.Amount,
	}).Info("ticket booked, awaiting payment")

	return &BookTicketResponse{Ticket: ticket, Order: order}, nil
}

// GetTicket retrieves a ticket by ID.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// TicketsByUser retrieves a user's tickets, served from cache when fresh.
func (s *TicketService) TicketsByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetUserTickets(ctx, userID)
		if err == nil && cached != nil {
			tickets := make([]*domain.Ticket, 0, len(cached))
			for _, ct := range cached {
				tickets = append(tickets, &domain.Ticket{
					ID:             ct.ID,
					UserID:         ct.UserID,
					FromStation:    ct.FromStation,
					ToStation:      ct.ToStation,
					JourneyDate:    ct.JourneyDate,
					FareClass:      domain.FareClass(ct.FareClass),
					PassengerClass: domain.PassengerClass(ct.PassengerClass),
					Validity:       domain.TripValidity(ct.Validity),
					Fare:           ct.Fare,
					Status:         domain.PaymentStatus(ct.Status),
					PaymentRef:     ct.PaymentRef,
					IssuedAt:       ct.IssuedAt,
				})
			}
			return tickets, nil
		}
	}

	tickets, err := s.ticketRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		cached := make([]redis.CachedTicket, 0, len(tickets))
		for _, t := range tickets {
			cached = append(cached, redis.CachedTicket{
				ID:             t.ID,
				UserID:         t.UserID,
				FromStation:    t.FromStation,
				ToStation:      t.ToStation,
				JourneyDate:    t.JourneyDate,
				FareClass:      string(t.FareClass),
				PassengerClass: string(t.PassengerClass),
				Validity:       string(t.Validity),
				Fare:           t.Fare,
				Status:         string(t.Status),
				PaymentRef:     t.PaymentRef,
				IssuedAt:       t.IssuedAt,
			})
		}
		_ = s.cacheStore.SetUserTickets(ctx, userID, cached)
	}

	return tickets, nil
}
