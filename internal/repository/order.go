package repository

import (
	"context"

	"ticketing/internal/domain"
)

// OrderRepository defines the persistence operations for payment orders.
// Orders are keyed by the gateway-assigned order id.
type OrderRepository interface {
	// Create persists a new payment order.
	Create(ctx context.Context, order *domain.PaymentOrder) error

	// GetByID retrieves an order by its gateway order id.
	GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error)

	// MarkAwaitingCallback transitions CREATED -> AWAITING_CALLBACK when the
	// payer is handed to checkout.
	MarkAwaitingCallback(ctx context.Context, id string) error

	// SettleVerified conditionally transitions a non-terminal order to
	// VERIFIED, recording the gateway payment id. Returns false without
	// error when the order was already in a terminal state, which is how
	// duplicate callbacks are detected.
	SettleVerified(ctx context.Context, id, paymentID string) (bool, error)

	// MarkFailed conditionally transitions a non-terminal order to FAILED.
	// Returns false when the order was already terminal.
	MarkFailed(ctx context.Context, id string) (bool, error)
}
