package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
)

// popularClassesCacheKey holds the cached approved listing. The catalog:*
// prefix is what invalidation sweeps.
const popularClassesCacheKey = "catalog:popular"

type classRepository interface {
	Create(ctx context.Context, class *models.ClassOffering) error
	FindByID(ctx context.Context, id string) (*models.ClassOffering, error)
	ListApproved(ctx context.Context) ([]models.ClassOffering, error)
	ListAll(ctx context.Context) ([]models.ClassOffering, error)
	ListByInstructor(ctx context.Context, email string) ([]models.ClassOffering, error)
	SetStatus(ctx context.Context, id string, status models.ClassStatus) error
	SetFeedback(ctx context.Context, id, feedback string) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateClassRequest is the instructor's new-class payload.
type CreateClassRequest struct {
	Title          string  `json:"title" validate:"required"`
	ImageURL       string  `json:"image_url"`
	Price          float64 `json:"price" validate:"gte=0"`
	AvailableSeats int     `json:"available_seats" validate:"gt=0"`
	InstructorName string  `json:"instructor_name" validate:"required"`
}

// SetStatusRequest carries an approval decision.
type SetStatusRequest struct {
	Status models.ClassStatus `json:"status" validate:"required"`
}

// SetFeedbackRequest carries admin feedback text.
type SetFeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// ClassService implements the catalog approval workflow and listings.
type ClassService struct {
	repo      classRepository
	cache     catalogCache
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, cache catalogCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ClassService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// Create inserts a pending offering authored by the verified instructor.
func (s *ClassService) Create(ctx context.Context, instructorEmail string, req CreateClassRequest) (*models.ClassOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.ClassOffering{
		InstructorEmail: instructorEmail,
		InstructorName:  req.InstructorName,
		Title:           req.Title,
		ImageURL:        req.ImageURL,
		Price:           req.Price,
		AvailableSeats:  req.AvailableSeats,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	s.invalidateCatalog(ctx)
	return class, nil
}

// ListPopular returns approved offerings ordered by enrollment count,
// served from cache when fresh.
func (s *ClassService) ListPopular(ctx context.Context) ([]models.ClassOffering, error) {
	if s.cache != nil {
		var cached []models.ClassOffering
		if err := s.cache.Get(ctx, popularClassesCacheKey, &cached); err == nil {
			return cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("popular class cache read failed", zap.Error(err))
		}
	}

	classes, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approved classes")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, popularClassesCacheKey, classes, s.cacheTTL); err != nil {
			s.logger.Warn("popular class cache write failed", zap.Error(err))
		}
	}
	return classes, nil
}

// ListAll returns every offering regardless of approval state.
func (s *ClassService) ListAll(ctx context.Context) ([]models.ClassOffering, error) {
	classes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// ListByInstructor returns the caller's own offerings.
func (s *ClassService) ListByInstructor(ctx context.Context, email string) ([]models.ClassOffering, error) {
	classes, err := s.repo.ListByInstructor(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructor classes")
	}
	return classes, nil
}

// SetStatus records an approval decision on an existing offering. A missing
// id is NotFound; status changes never fabricate placeholder records.
func (s *ClassService) SetStatus(ctx context.Context, id string, req SetStatusRequest) error {
	if !req.Status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown class status")
	}

	if err := s.repo.SetStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set class status")
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("class status set", zap.String("class_id", id), zap.String("status", string(req.Status)))
	return nil
}

// SetFeedback attaches admin feedback to an existing offering.
func (s *ClassService) SetFeedback(ctx context.Context, id string, req SetFeedbackRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	if err := s.repo.SetFeedback(ctx, id, req.Feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set class feedback")
	}

	s.invalidateCatalog(ctx)
	return nil
}

func (s *ClassService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "catalog:*"); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
