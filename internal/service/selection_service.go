package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
)

type selectionRepository interface {
	Create(ctx context.Context, sel *models.Selection) error
	ListByUser(ctx context.Context, email string) ([]models.Selection, error)
	FindByID(ctx context.Context, id string) (*models.Selection, error)
	Delete(ctx context.Context, id string) error
}

type classReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassOffering, error)
}

// AddSelectionRequest references the class being put in the cart.
type AddSelectionRequest struct {
	ClassID string `json:"class_id" validate:"required"`
}

// SelectionService implements the pending-selection cart.
type SelectionService struct {
	repo      selectionRepository
	classes   classReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(repo selectionRepository, classes classReader, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SelectionService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// Add snapshots the referenced class into the caller's pending selections.
// Repeated adds create duplicate selections; the enrollment transaction
// consumes one per payment, so duplicates stay harmless cart noise.
func (s *SelectionService) Add(ctx context.Context, userEmail string, req AddSelectionRequest) (*models.Selection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	sel := &models.Selection{
		UserEmail:  userEmail,
		ClassID:    class.ID,
		ClassTitle: class.Title,
		Price:      class.Price,
	}
	if err := s.repo.Create(ctx, sel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add selection")
	}
	return sel, nil
}

// ListForUser returns the caller's pending selections.
func (s *SelectionService) ListForUser(ctx context.Context, email string) ([]models.Selection, error) {
	selections, err := s.repo.ListByUser(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list selections")
	}
	return selections, nil
}

// Get returns one selection, restricted to its owner.
func (s *SelectionService) Get(ctx context.Context, id, callerEmail string) (*models.Selection, error) {
	sel, err := s.load(ctx, id, callerEmail)
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// Remove deletes a selection after verifying the caller owns it.
func (s *SelectionService) Remove(ctx context.Context, id, callerEmail string) error {
	if _, err := s.load(ctx, id, callerEmail); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "selection not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove selection")
	}
	return nil
}

func (s *SelectionService) load(ctx context.Context, id, callerEmail string) (*models.Selection, error) {
	sel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "selection not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selection")
	}
	if sel.UserEmail != callerEmail {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "selection belongs to another user")
	}
	return sel, nil
}
