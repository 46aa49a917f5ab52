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

type selectionService interface {
	Add(ctx context.Context, userEmail string, req service.AddSelectionRequest) (*models.Selection, error)
	ListForUser(ctx context.Context, email string) ([]models.Selection, error)
	Get(ctx context.Context, id, callerEmail string) (*models.Selection, error)
	Remove(ctx context.Context, id, callerEmail string) error
}

// SelectionHandler exposes the pending-selection cart.
type SelectionHandler struct {
	selections selectionService
}

// NewSelectionHandler constructs SelectionHandler.
func NewSelectionHandler(selections selectionService) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

// List godoc
// @Summary List selected classes
// @Description Pending selections of the authenticated caller
// @Tags Selections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /selectedClass [get]
func (h *SelectionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	selections, err := h.selections.ListForUser(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, selections, nil)
}

// Get godoc
// @Summary Get one selected class
// @Tags Selections
// @Produce json
// @Param id path string true "Selection id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /selectedClass/{id} [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sel, err := h.selections.Get(c.Request.Context(), c.Param("id"), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sel, nil)
}

// Add godoc
// @Summary Select a class
// @Description Snapshot the class into the caller's cart
// @Tags Selections
// @Accept json
// @Produce json
// @Param payload body service.AddSelectionRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /selectedClass [post]
func (h *SelectionHandler) Add(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AddSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	sel, err := h.selections.Add(c.Request.Context(), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sel)
}

// Remove godoc
// @Summary Remove a selected class
// @Description Delete one of the caller's own selections
// @Tags Selections
// @Produce json
// @Param id path string true "Selection id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /selectedClass/{id} [delete]
func (h *SelectionHandler) Remove(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.selections.Remove(c.Request.Context(), c.Param("id"), claims.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
