package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/service"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
	"github.com/noah-isme/kids-academy-api/pkg/response"
)

type classService interface {
	Create(ctx context.Context, instructorEmail string, req service.CreateClassRequest) (*models.ClassOffering, error)
	ListPopular(ctx context.Context) ([]models.ClassOffering, error)
	ListAll(ctx context.Context) ([]models.ClassOffering, error)
	ListByInstructor(ctx context.Context, email string) ([]models.ClassOffering, error)
	SetStatus(ctx context.Context, id string, req service.SetStatusRequest) error
	SetFeedback(ctx context.Context, id string, req service.SetFeedbackRequest) error
}

// ClassHandler exposes catalog endpoints.
type ClassHandler struct {
	classes classService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes classService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// Popular godoc
// @Summary List popular classes
// @Description Approved classes ordered by enrollment count descending
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /popularClass [get]
func (h *ClassHandler) Popular(c *gin.Context) {
	classes, err := h.classes.ListPopular(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// All godoc
// @Summary List all classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allClass [get]
func (h *ClassHandler) All(c *gin.Context) {
	classes, err := h.classes.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Own godoc
// @Summary List caller's classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allClass/instructor [get]
func (h *ClassHandler) Own(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	classes, err := h.classes.ListByInstructor(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Create godoc
// @Summary Create class
// @Description Insert a new offering pending admin approval
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.classes.Create(c.Request.Context(), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// SetStatus godoc
// @Summary Set class status
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class id"
// @Param payload body service.SetStatusRequest true "Status payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/status/{id} [patch]
func (h *ClassHandler) SetStatus(c *gin.Context) {
	var req service.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.classes.SetStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetFeedback godoc
// @Summary Set class feedback
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class id"
// @Param payload body service.SetFeedbackRequest true "Feedback payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/feedback/{id} [patch]
func (h *ClassHandler) SetFeedback(c *gin.Context) {
	var req service.SetFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	if err := h.classes.SetFeedback(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
