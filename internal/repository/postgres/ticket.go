package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ticketing/internal/domain"
	"ticketing/internal/repository"
)

// TicketRepository is a PostgreSQL implementation of repository.TicketRepository.
type TicketRepository struct {
	q Querier
}

// NewTicketRepository creates a new PostgreSQL ticket repository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{q: db}
}

// NewTicketRepositoryWithTx creates a ticket repository using a transaction.
func NewTicketRepositoryWithTx(tx *sql.Tx) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create persists a new ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, user_id, from_station, to_station, journey_date,
			fare_class, passenger_class, validity, fare, status, payment_ref, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.FromStation,
		ticket.ToStation,
		ticket.JourneyDate,
		ticket.FareClass,
		ticket.PassengerClass,
		ticket.Validity,
		ticket.Fare,
		ticket.Status,
		ticket.PaymentRef,
		ticket.IssuedAt,
	)

	return err
}

// GetByID retrieves a ticket by ID.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `
		SELECT id, user_id, from_station, to_station, journey_date,
			fare_class, passenger_class, validity, fare, status, payment_ref, issued_at
		FROM tickets WHERE id = $1
	`

	var ticket domain.Ticket
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.FromStation,
		&ticket.ToStation,
		&ticket.JourneyDate,
		&ticket.FareClass,
		&ticket.PassengerClass,
		&ticket.Validity,
		&ticket.Fare,
		&ticket.Status,
		&ticket.PaymentRef,
		&ticket.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

// GetByUser retrieves all tickets owned by a phone number, newest first.
func (r *TicketRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	query := `
		SELECT id, user_id, from_station, to_station, journey_date,
			fare_class, passenger_class, validity, fare, status, payment_ref, issued_at
		FROM tickets WHERE user_id = $1
		ORDER BY issued_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.FromStation,
			&ticket.ToStation,
			&ticket.JourneyDate,
			&ticket.FareClass,
			&ticket.PassengerClass,
			&ticket.Validity,
			&ticket.Fare,
			&ticket.Status,
			&ticket.PaymentRef,
			&ticket.IssuedAt,
		); err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, rows.Err()
}

// UpdatePaymentStatus records a settlement outcome with its payment reference.
func (r *TicketRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentRef string) error {
	query := `UPDATE tickets SET status = $1, payment_ref = $2 WHERE id = $3`

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
