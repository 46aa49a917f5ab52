package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
)

// PaymentRepository persists payment records and owns the enrollment
// transaction.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByUser returns a user's payments, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, email string) ([]models.Payment, error) {
	const query = `SELECT id, user_email, class_id, class_title, amount, transaction_ref, created_at FROM payments WHERE user_email = $1 ORDER BY created_at DESC`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, email); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// CompleteEnrollment converts a pending selection plus a confirmed payment
// into a durable payment record inside a single database transaction:
//
//  1. the referenced selection is removed (best-effort: an already consumed
//     selection does not fail the enrollment),
//  2. one seat is taken and the enrollment counter bumped via a conditional
//     update that only matches while available_seats > 0. The row-level
//     compare-and-swap serializes concurrent enrollments on the same class
//     and keeps the seat count from ever going negative,
//  3. the payment record is inserted.
//
// Any failure rolls back every step. Returns ErrNotFound when the class does
// not exist and ErrCapacityExceeded when its seats are exhausted.
func (r *PaymentRepository) CompleteEnrollment(ctx context.Context, payment *models.Payment, selectionID string) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if selectionID != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM selections WHERE id = $1`, selectionID); err != nil {
			return fmt.Errorf("consume selection: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE classes SET available_seats = available_seats - 1, total_enroll = total_enroll + 1, updated_at = $2 WHERE id = $1 AND available_seats > 0`,
		payment.ClassID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("take seat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("take seat rows affected: %w", err)
	}
	if affected == 0 {
		// Either the class is gone or its seats ran out; probe to tell.
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, payment.ClassID); err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("probe class: %w", err)
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "no seats available for this class")
	}

	const insert = `INSERT INTO payments (id, user_email, class_id, class_title, amount, transaction_ref, created_at)
VALUES (:id, :user_email, :class_id, :class_title, :amount, :transaction_ref, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, payment); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment tx: %w", err)
	}
	return nil
}
