package domain

import "time"

// OrderStatus represents the lifecycle state of a payment order.
// Transitions: CREATED -> AWAITING_CALLBACK -> {VERIFIED | FAILED}.
// The terminal transition happens exactly once per order.
type OrderStatus string

const (
	OrderStatusCreated          OrderStatus = "CREATED"
	OrderStatusAwaitingCallback OrderStatus = "AWAITING_CALLBACK"
	OrderStatusVerified         OrderStatus = "VERIFIED"
	OrderStatusFailed           OrderStatus = "FAILED"
)

// EntityKind identifies the domain record a payment order funds.
type EntityKind string

const (
	EntityTicket  EntityKind = "TICKET"
	EntityChallan EntityKind = "CHALLAN"
)

// PaymentOrder tracks one payment attempt at the gateway. ID is the
// gateway-assigned order id; it is the idempotency key for callbacks.
type PaymentOrder struct {
	ID         string
	Amount     float64
	Currency   string
	EntityKind EntityKind
	EntityID   string
	Status     OrderStatus
	PaymentID  string // gateway payment id, set when the order is verified
	CreatedAt  time.Time
}
