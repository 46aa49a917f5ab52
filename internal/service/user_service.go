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

type userRepository interface {
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	RoleByEmail(ctx context.Context, email string) (models.UserRole, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	SetRole(ctx context.Context, id string, role models.UserRole) error
	Delete(ctx context.Context, id string) error
}

// RegisterUserRequest is the first-sign-in payload.
type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	PhotoURL string `json:"photo_url"`
}

// RegisterResult reports whether the registration created a new record.
type RegisterResult struct {
	User          *models.User `json:"user,omitempty"`
	AlreadyExists bool         `json:"already_exists"`
	Message       string       `json:"message"`
}

// UserService covers registration, role grants and role lookups.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Register inserts the user if no record with that email exists. Idempotent:
// repeating the call leaves exactly one record and reports "already exists".
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*RegisterResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user := &models.User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     models.RoleStudent,
	}

	created, err := s.repo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register user")
	}
	if !created {
		return &RegisterResult{AlreadyExists: true, Message: "user already exists"}, nil
	}

	s.logger.Info("user registered", zap.String("email", user.Email))
	return &RegisterResult{User: user, Message: "user created"}, nil
}

// List returns users for the admin dashboard.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListInstructors returns every user carrying the instructor role.
func (s *UserService) ListInstructors(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleInstructor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return users, nil
}

// HasRole answers the self-check endpoints: does the target identity carry
// the role. When the caller asks about someone else the answer is a plain
// false, not an error. The frontend uses it to pick which dashboard to
// render, never to gate a mutation.
func (s *UserService) HasRole(ctx context.Context, callerEmail, targetEmail string, role models.UserRole) (bool, error) {
	if callerEmail != targetEmail {
		return false, nil
	}

	stored, err := s.repo.RoleByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check role")
	}
	return stored == role, nil
}

// GrantRole assigns a role to a user by id. Granting a role the user already
// carries is a no-op in effect.
func (s *UserService) GrantRole(ctx context.Context, id string, role models.UserRole) error {
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if err := s.repo.SetRole(ctx, id, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set role")
	}

	s.logger.Info("role granted", zap.String("user_id", id), zap.String("role", string(role)))
	return nil
}

// Delete removes a user record.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}
