package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kids-academy-api/internal/models"
)

// SelectionRepository handles persistence of pending class selections.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository constructs the repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Create inserts a selection snapshot. Duplicate selections for the same
// user and class are allowed.
func (r *SelectionRepository) Create(ctx context.Context, sel *models.Selection) error {
	if sel.ID == "" {
		sel.ID = uuid.NewString()
	}
	if sel.CreatedAt.IsZero() {
		sel.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO selections (id, user_email, class_id, class_title, price, created_at)
VALUES (:id, :user_email, :class_id, :class_title, :price, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sel); err != nil {
		return fmt.Errorf("create selection: %w", err)
	}
	return nil
}

// ListByUser returns a user's pending selections, newest first.
func (r *SelectionRepository) ListByUser(ctx context.Context, email string) ([]models.Selection, error) {
	const query = `SELECT id, user_email, class_id, class_title, price, created_at FROM selections WHERE user_email = $1 ORDER BY created_at DESC`
	var selections []models.Selection
	if err := r.db.SelectContext(ctx, &selections, query, email); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return selections, nil
}

// FindByID returns a selection by identifier.
func (r *SelectionRepository) FindByID(ctx context.Context, id string) (*models.Selection, error) {
	const query = `SELECT id, user_email, class_id, class_title, price, created_at FROM selections WHERE id = $1 LIMIT 1`
	var sel models.Selection
	if err := r.db.GetContext(ctx, &sel, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find selection by id: %w", err)
	}
	return &sel, nil
}

// Delete removes a selection. Callers are responsible for the ownership
// check; this is plain row removal.
func (r *SelectionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM selections WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete selection rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
