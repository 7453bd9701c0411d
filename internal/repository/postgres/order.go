package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ticketing/internal/domain"
	"ticketing/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Create persists a new payment order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (id, amount, currency, entity_kind, entity_id, status, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.Amount,
		order.Currency,
		order.EntityKind,
		order.EntityID,
		order.Status,
		order.PaymentID,
		order.CreatedAt,
	)

	return err
}

// GetByID retrieves an order by its gateway order id.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	query := `
		SELECT id, amount, currency, entity_kind, entity_id, status, payment_id, created_at
		FROM payment_orders WHERE id = $1
	`

	var order domain.PaymentOrder
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Amount,
		&order.Currency,
		&order.EntityKind,
		&order.EntityID,
		&order.Status,
		&order.PaymentID,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

// MarkAwaitingCallback transitions CREATED -> AWAITING_CALLBACK.
func (r *OrderRepository) MarkAwaitingCallback(ctx context.Context, id string) error {
	query := `UPDATE payment_orders SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query,
		domain.OrderStatusAwaitingCallback, id, domain.OrderStatusCreated)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SettleVerified conditionally transitions a non-terminal order to VERIFIED.
// The status guard makes the terminal transition happen at most once even
// under duplicate webhook delivery.
func (r *OrderRepository) SettleVerified(ctx context.Context, id, paymentID string) (bool, error) {
	query := `
		UPDATE payment_orders SET status = $1, payment_id = $2
		WHERE id = $3 AND status IN ($4, $5)
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.OrderStatusVerified, paymentID, id,
		domain.OrderStatusCreated, domain.OrderStatusAwaitingCallback)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// MarkFailed conditionally transitions a non-terminal order to FAILED.
func (r *OrderRepository) MarkFailed(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE payment_orders SET status = $1
		WHERE id = $2 AND status IN ($3, $4)
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.OrderStatusFailed, id,
		domain.OrderStatusCreated, domain.OrderStatusAwaitingCallback)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
