package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kids-academy-api/internal/models"
	"github.com/noah-isme/kids-academy-api/internal/service"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
	"github.com/noah-isme/kids-academy-api/pkg/response"
)

type paymentService interface {
	CreateIntent(ctx context.Context, req service.CreateIntentRequest) (*service.IntentResponse, error)
	Enroll(ctx context.Context, callerEmail string, req service.EnrollRequest) (*service.EnrollResult, error)
	History(ctx context.Context, email string) ([]models.Payment, error)
	ExportStatement(ctx context.Context, email, format string) ([]byte, string, error)
}

// PaymentHandler exposes payment and enrollment endpoints.
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateIntent godoc
// @Summary Create payment intent
// @Description Obtain a gateway client secret for the given price
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.CreateIntentRequest true "Intent payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req service.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid intent payload"))
		return
	}

	res, err := h.payments.CreateIntent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Enroll godoc
// @Summary Finalize enrollment
// @Description Record the confirmed payment, consume the selection and take a seat atomically
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	res, err := h.payments.Enroll(c.Request.Context(), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// History godoc
// @Summary Payment history
// @Description The caller's payments, newest first
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /paymentHistory [get]
func (h *PaymentHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payments, err := h.payments.History(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}

// ExportHistory godoc
// @Summary Export payment history
// @Description Download the caller's payment statement as CSV or PDF
// @Tags Payments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /paymentHistory/export [get]
func (h *PaymentHandler) ExportHistory(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.payments.ExportStatement(c.Request.Context(), claims.Email, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("payment-statement-%s.%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
