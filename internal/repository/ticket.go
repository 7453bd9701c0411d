package repository

import (
	"context"

	"ticketing/internal/domain"
)

// TicketRepository defines the persistence operations for tickets. The
// storage service owns the records; this core only creates and reads them
// and flips payment status on settlement.
type TicketRepository interface {
	// Create persists a new ticket.
	Create(ctx context.Context, ticket *domain.Ticket) error

	// GetByID retrieves a ticket by ID.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// GetByUser retrieves all tickets owned by a phone number, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)

	// UpdatePaymentStatus records a settlement outcome with its gateway
	// payment reference.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentRef string) error
}
