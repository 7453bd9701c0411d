package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"ticketing/internal/domain"
	"ticketing/internal/redis"
	"ticketing/internal/repository"
	"ticketing/internal/repository/postgres"
)

// Gateway is the interface for the payment provider.
type Gateway interface {
	// CreateOrder mints an order at the gateway and returns its order id.
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error)

	// VerifySignature checks the callback signature the gateway computed
	// over the order and payment ids.
	VerifySignature(orderID, paymentID, signature string) bool
}

// SettlementStore atomically records a verified settlement: the order's
// terminal transition and the linked entity's PAID status in one write.
// Settle returns false when the order was already in a terminal state.
type SettlementStore interface {
	Settle(ctx context.Context, order *domain.PaymentOrder, paymentID string) (bool, error)
}

// Ensure TxSettlementStore implements SettlementStore.
var _ SettlementStore = (*TxSettlementStore)(nil)

// orderLockTTL bounds how long a callback can hold the per-order lock.
const orderLockTTL = 10 * time.Second

// PaymentService orchestrates the payment-order lifecycle:
// CREATED -> AWAITING_CALLBACK -> {VERIFIED | FAILED}.
type PaymentService struct {
	gateway   Gateway
	orderRepo repository.OrderRepository
	settler   SettlementStore
	lockStore redis.LockStoreInterface
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	gateway Gateway,
	orderRepo repository.OrderRepository,
	settler SettlementStore,
	lockStore redis.LockStoreInterface,
) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		orderRepo: orderRepo,
		settler:   settler,
		lockStore: lockStore,
	}
}

// CreateOrderRequest contains the parameters for minting a gateway order.
type CreateOrderRequest struct {
	Amount     float64
	Currency   string
	EntityKind domain.EntityKind
	EntityID   string
}

// CreateOrder mints an order at the gateway and tracks it. Invalid amounts
// are rejected locally and never reach the gateway.
func (s *PaymentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.PaymentOrder, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	orderID, err := s.gateway.CreateOrder(ctx, req.Amount, currency, req.EntityID)
	if err != nil {
		return nil, err
	}

	order := &domain.PaymentOrder{
		ID:         orderID,
		Amount:     req.Amount,
		Currency:   currency,
		EntityKind: req.EntityKind,
		EntityID:   req.EntityID,
		Status:     domain.OrderStatusCreated,
		CreatedAt:  time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// BeginCheckout marks the order as awaiting its gateway callback, called
// when the payer is handed off to the checkout page.
func (s *PaymentService) BeginCheckout(ctx context.Context, orderID string) error {
	if orderID == "" {
		return ErrInvalidOrderID
	}
	return s.orderRepo.MarkAwaitingCallback(ctx, orderID)
}

// GetOrder retrieves a payment order by its gateway order id.
func (s *PaymentService) GetOrder(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return s.orderRepo.GetByID(ctx, orderID)
}

// CallbackResult is the outcome of a verified callback. AlreadySettled is
// true when this callback was a duplicate of an earlier settlement.
type CallbackResult struct {
	Order          *domain.PaymentOrder
	AlreadySettled bool
}

// HandleCallback verifies the gateway's callback signature and, on a match,
// settles the order: the order transitions to VERIFIED and the linked ticket
// or challan is marked PAID with the gateway payment id as audit reference,
// atomically. Idempotent per order id: a repeated callback for a verified
// order returns the original settlement without a second credit. Callbacks
// for unknown or failed orders are rejected. A signature mismatch is fatal
// for the order; no retry is issued.
func (s *PaymentService) HandleCallback(ctx context.Context, paymentID, orderID, signature string) (*CallbackResult, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case domain.OrderStatusVerified:
		return &CallbackResult{Order: order, AlreadySettled: true}, nil
	case domain.OrderStatusFailed:
		return nil, ErrOrderAlreadyFailed
	}

	// Serialize concurrent callbacks for this order. Best effort: the
	// conditional settlement write below is the binding guarantee.
	if s.lockStore != nil {
		acquired, lockErr := s.lockStore.AcquireOrderLock(ctx, orderID, orderLockTTL)
		if lockErr == nil && acquired {
			defer func() {
				_ = s.lockStore.ReleaseOrderLock(ctx, orderID)
			}()
		}
	}

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		logrus.WithFields(logrus.Fields{
			"order_id":   orderID,
			"payment_id": paymentID,
		}).Warn("payment callback signature mismatch")

		if _, failErr := s.orderRepo.MarkFailed(ctx, orderID); failErr != nil {
			logrus.WithError(failErr).WithField("order_id", orderID).
				Error("could not mark order failed after signature mismatch")
		}
		return nil, ErrVerificationFailed
	}

	settled, err := s.settler.Settle(ctx, order, paymentID)
	if err != nil {
		// Verified at the gateway but not persisted: the order stays
		// AWAITING_CALLBACK so a redelivered callback or a reconciliation
		// pass can complete the settlement.
		logrus.WithError(err).WithField("order_id", orderID).
			Error("settlement write failed after gateway verification")
		return nil, ErrPersistenceFailure
	}

	if !settled {
		// Lost the race to another callback. Report whatever terminal
		// state that callback produced.
		current, readErr := s.orderRepo.GetByID(ctx, orderID)
		if readErr != nil {
			return nil, readErr
		}
		switch current.Status {
		case domain.OrderStatusVerified:
			return &CallbackResult{Order: current, AlreadySettled: true}, nil
		case domain.OrderStatusFailed:
			return nil, ErrOrderAlreadyFailed
		default:
			return nil, ErrOrderNotSettleable
		}
	}

	order.Status = domain.OrderStatusVerified
	order.PaymentID = paymentID

	logrus.WithFields(logrus.Fields{
		"order_id":    orderID,
		"payment_id":  paymentID,
		"entity_kind": order.EntityKind,
		"entity_id":   order.EntityID,
	}).Info("payment settled")

	return &CallbackResult{Order: order}, nil
}

// TxSettlementStore applies settlements in a single SQL transaction.
type TxSettlementStore struct {
	db *sql.DB
}

// NewTxSettlementStore creates a transaction-backed settlement store.
func NewTxSettlementStore(db *sql.DB) *TxSettlementStore {
	return &TxSettlementStore{db: db}
}

// Settle transitions the order to VERIFIED and marks the linked entity PAID
// in one transaction. The conditional order update returns false when the
// order is already terminal, leaving the entity untouched. Any failure rolls
// the whole transaction back, so the order remains AWAITING_CALLBACK.
func (s *TxSettlementStore) Settle(ctx context.Context, order *domain.PaymentOrder, paymentID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txOrderRepo := postgres.NewOrderRepositoryWithTx(tx)

	var updated bool
	updated, err = txOrderRepo.SettleVerified(ctx, order.ID, paymentID)
	if err != nil {
		return false, err
	}
	if !updated {
		_ = tx.Rollback()
		return false, nil
	}

	switch order.EntityKind {
	case domain.EntityTicket:
		txTicketRepo := postgres.NewTicketRepositoryWithTx(tx)
		err = txTicketRepo.UpdatePaymentStatus(ctx, order.EntityID, domain.PaymentStatusPaid, paymentID)
	case domain.EntityChallan:
		txChallanRepo := postgres.NewChallanRepositoryWithTx(tx)
		err = txChallanRepo.UpdatePaymentStatus(ctx, order.EntityID, domain.PaymentStatusPaid, paymentID)
	}
	if err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}
