package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/service"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
	"github.com/noah-isme/kids-academy-api/pkg/response"
)

type userService interface {
	Register(ctx context.Context, req service.RegisterUserRequest) (*service.RegisterResult, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error)
	ListInstructors(ctx context.Context) ([]models.User, error)
	HasRole(ctx context.Context, callerEmail, targetEmail string, role models.UserRole) (bool, error)
	GrantRole(ctx context.Context, id string, role models.UserRole) error
	Delete(ctx context.Context, id string) error
}

// UserHandler exposes user and role endpoints.
type UserHandler struct {
	users userService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users userService) *UserHandler {
	return &UserHandler{users: users}
}

// Register godoc
// @Summary Register user
// @Description Create the user record on first sign-in; idempotent per email
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.RegisterUserRequest true "User payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}

	res, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param role query string false "Filter by role"
// @Param search query string false "Search email or name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	users, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// ListInstructors godoc
// @Summary List instructors
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/instructors [get]
func (h *UserHandler) ListInstructors(c *gin.Context) {
	users, err := h.users.ListInstructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// IsAdmin godoc
// @Summary Check admin status
// @Description Answers whether the caller's own identity carries the admin role
// @Tags Users
// @Produce json
// @Param email path string true "Identity email"
// @Success 200 {object} response.Envelope
// @Router /users/admin/{email} [get]
func (h *UserHandler) IsAdmin(c *gin.Context) {
	h.roleCheck(c, models.RoleAdmin, "admin")
}

// IsInstructor godoc
// @Summary Check instructor status
// @Tags Users
// @Produce json
// @Param email path string true "Identity email"
// @Success 200 {object} response.Envelope
// @Router /users/instructor/{email} [get]
func (h *UserHandler) IsInstructor(c *gin.Context) {
	h.roleCheck(c, models.RoleInstructor, "instructor")
}

// roleCheck implements the self-check contract: asking about another
// identity yields a plain false, not an error.
func (h *UserHandler) roleCheck(c *gin.Context, role models.UserRole, field string) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	has, err := h.users.HasRole(c.Request.Context(), claims.Email, c.Param("email"), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{field: has}, nil)
}

// GrantAdmin godoc
// @Summary Grant admin role
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/admin/{id} [patch]
func (h *UserHandler) GrantAdmin(c *gin.Context) {
	if err := h.users.GrantRole(c.Request.Context(), c.Param("id"), models.RoleAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GrantInstructor godoc
// @Summary Grant instructor role
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/instructor/{id} [patch]
func (h *UserHandler) GrantInstructor(c *gin.Context) {
	if err := h.users.GrantRole(c.Request.Context(), c.Param("id"), models.RoleInstructor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/admin/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
