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

const classColumns = `id, instructor_email, instructor_name, title, image_url, price, status, feedback, available_seats, total_enroll, created_at, updated_at`

// ClassRepository handles persistence of class offerings.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts a new class offering. Status is forced to pending; approval
// is an admin decision.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassOffering) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	class.Status = models.ClassStatusPending
	class.TotalEnroll = 0
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, instructor_email, instructor_name, title, image_url, price, status, feedback, available_seats, total_enroll, created_at, updated_at)
VALUES (:id, :instructor_email, :instructor_name, :title, :image_url, :price, :status, :feedback, :available_seats, :total_enroll, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// FindByID returns a class offering by identifier.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE id = $1 LIMIT 1`, classColumns)
	var class models.ClassOffering
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// ListApproved returns approved offerings ordered by enrollment count
// descending. Ties fall back to storage order, which is unspecified.
func (r *ClassRepository) ListApproved(ctx context.Context) ([]models.ClassOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE status = $1 ORDER BY total_enroll DESC`, classColumns)
	var classes []models.ClassOffering
	if err := r.db.SelectContext(ctx, &classes, query, models.ClassStatusApproved); err != nil {
		return nil, fmt.Errorf("list approved classes: %w", err)
	}
	return classes, nil
}

// ListAll returns every class offering regardless of status, newest first.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.ClassOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes ORDER BY created_at DESC`, classColumns)
	var classes []models.ClassOffering
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListByInstructor returns the offerings authored by one instructor.
func (r *ClassRepository) ListByInstructor(ctx context.Context, email string) ([]models.ClassOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE instructor_email = $1 ORDER BY created_at DESC`, classColumns)
	var classes []models.ClassOffering
	if err := r.db.SelectContext(ctx, &classes, query, email); err != nil {
		return nil, fmt.Errorf("list classes by instructor: %w", err)
	}
	return classes, nil
}

// SetStatus updates the approval status of an existing offering. Returns
// sql.ErrNoRows when the id is unknown; a status change never fabricates a
// placeholder record.
func (r *ClassRepository) SetStatus(ctx context.Context, id string, status models.ClassStatus) error {
	const query = `UPDATE classes SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set class status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set class status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetFeedback attaches admin feedback to an existing offering. Returns
// sql.ErrNoRows when the id is unknown.
func (r *ClassRepository) SetFeedback(ctx context.Context, id, feedback string) error {
	const query = `UPDATE classes SET feedback = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, feedback, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set class feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set class feedback rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
