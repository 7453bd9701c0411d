package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ticketing/internal/domain"
	"ticketing/internal/repository"
)

// ChallanRepository is a PostgreSQL implementation of repository.ChallanRepository.
type ChallanRepository struct {
	q Querier
}

// NewChallanRepository creates a new PostgreSQL challan repository.
func NewChallanRepository(db *sql.DB) *ChallanRepository {
	return &ChallanRepository{q: db}
}

// NewChallanRepositoryWithTx creates a challan repository using a transaction.
func NewChallanRepositoryWithTx(tx *sql.Tx) *ChallanRepository {
	return &ChallanRepository{q: tx}
}

// Create persists a new challan.
func (r *ChallanRepository) Create(ctx context.Context, challan *domain.Challan) error {
	query := `
		INSERT INTO challans (id, ticket_id, user_id, reason, fine_amount, status, payment_ref, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		challan.ID,
		challan.TicketID,
		challan.UserID,
		challan.Reason,
		challan.FineAmount,
		challan.Status,
		challan.PaymentRef,
		challan.IssuedAt,
	)

	return err
}

// GetByID retrieves a challan by ID.
func (r *ChallanRepository) GetByID(ctx context.Context, id string) (*domain.Challan, error) {
	query := `
		SELECT id, ticket_id, user_id, reason, fine_amount, status, payment_ref, issued_at
		FROM challans WHERE id = $1
	`

	var challan domain.Challan
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&challan.ID,
		&challan.TicketID,
		&challan.UserID,
		&challan.Reason,
		&challan.FineAmount,
		&challan.Status,
		&challan.PaymentRef,
		&challan.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &challan, nil
}

// GetByUser retrieves all challans issued against a phone number.
func (r *ChallanRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Challan, error) {
	query := `
		SELECT id, ticket_id, user_id, reason, fine_amount, status, payment_ref, issued_at
		FROM challans WHERE user_id = $1
		ORDER BY issued_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challans []*domain.Challan
	for rows.Next() {
		var challan domain.Challan
		if err := rows.Scan(
			&challan.ID,
			&challan.TicketID,
			&challan.UserID,
			&challan.Reason,
			&challan.FineAmount,
			&challan.Status,
			&challan.PaymentRef,
			&challan.IssuedAt,
		); err != nil {
			return nil, err
		}
		challans = append(challans, &challan)
	}

	return challans, rows.Err()
}

// UpdatePaymentStatus records a settlement outcome with its payment reference.
func (r *ChallanRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentRef string) error {
	query := `UPDATE challans SET status = $1, payment_ref = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, paymentRef, id)
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
