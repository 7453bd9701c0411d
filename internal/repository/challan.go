package repository

import (
	"context"

	"ticketing/internal/domain"
)

// ChallanRepository defines the persistence operations for challans.
type ChallanRepository interface {
	// Create persists a new challan.
	Create(ctx context.Context, challan *domain.Challan) error

	// GetByID retrieves a challan by ID.
	GetByID(ctx context.Context, id string) (*domain.Challan, error)

	// GetByUser retrieves all challans issued against a phone number.
	GetByUser(ctx context.Context, userID string) ([]*domain.Challan, error)

	// UpdatePaymentStatus records a settlement outcome with its gateway
	// payment reference.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentRef string) error
}
