package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kids-academy-api/internal/gateway"
	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
	"github.com/noah-isme/kids-academy-api/pkg/export"
)

type paymentRepository interface {
	ListByUser(ctx context.Context, email string) ([]models.Payment, error)
	CompleteEnrollment(ctx context.Context, payment *models.Payment, selectionID string) error
}

// CreateIntentRequest carries the display price to convert for the gateway.
type CreateIntentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// IntentResponse returns the gateway client secret.
type IntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

// EnrollRequest finalizes a gateway-confirmed payment into an enrollment.
type EnrollRequest struct {
	SelectedClassID string  `json:"selected_class_id"`
	ClassID         string  `json:"class_id" validate:"required"`
	ClassTitle      string  `json:"class_title" validate:"required"`
	Amount          float64 `json:"amount" validate:"gte=0"`
	TransactionRef  string  `json:"transaction_ref" validate:"required"`
}

// EnrollResult reports the inserted payment id.
type EnrollResult struct {
	PaymentID string `json:"payment_id"`
}

// PaymentService drives payment-intent creation and the enrollment
// transaction.
type PaymentService struct {
	payments  paymentRepository
	intents   gateway.IntentCreator
	cache     catalogCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	currency  string
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments paymentRepository, intents gateway.IntentCreator, cache catalogCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, currency string) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		payments:  payments,
		intents:   intents,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		currency:  currency,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// CreateIntent asks the gateway for a payment intent over the price in
// integer minor units.
func (s *PaymentService) CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intent payload")
	}

	secret, err := s.intents.CreateIntent(ctx, gateway.MinorUnits(req.Price), s.currency)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncPaymentIntent()
	}
	return &IntentResponse{ClientSecret: secret}, nil
}

// Enroll executes the enrollment transaction for the verified caller.
// Consuming the selection, taking a seat, and recording the payment
// either all happen or none do.
func (s *PaymentService) Enroll(ctx context.Context, callerEmail string, req EnrollRequest) (*EnrollResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	payment := &models.Payment{
		UserEmail:      callerEmail,
		ClassID:        req.ClassID,
		ClassTitle:     req.ClassTitle,
		Amount:         req.Amount,
		TransactionRef: req.TransactionRef,
	}

	if err := s.payments.CompleteEnrollment(ctx, payment, req.SelectedClassID); err != nil {
		if appErrors.Is(err, appErrors.ErrCapacityExceeded) && s.metrics != nil {
			s.metrics.IncCapacityRejection()
		}
		if appErrors.Is(err, appErrors.ErrNotFound) || appErrors.Is(err, appErrors.ErrCapacityExceeded) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enrollment failed")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "catalog:*"); err != nil {
			s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.IncEnrollment()
	}

	s.logger.Info("enrollment completed",
		zap.String("payment_id", payment.ID),
		zap.String("user", callerEmail),
		zap.String("class_id", payment.ClassID),
	)
	return &EnrollResult{PaymentID: payment.ID}, nil
}

// History returns the caller's payments, newest first.
func (s *PaymentService) History(ctx context.Context, email string) ([]models.Payment, error) {
	payments, err := s.payments.ListByUser(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// ExportStatement renders the caller's payment history as CSV or PDF and
// returns the bytes with their content type.
func (s *PaymentService) ExportStatement(ctx context.Context, email, format string) ([]byte, string, error) {
	payments, err := s.History(ctx, email)
	if err != nil {
		return nil, "", err
	}

	st := export.Statement{UserEmail: email, GeneratedAt: time.Now().UTC()}
	for _, p := range payments {
		st.Rows = append(st.Rows, export.StatementRow{
			ClassTitle:     p.ClassTitle,
			Amount:         p.Amount,
			Currency:       s.currency,
			TransactionRef: p.TransactionRef,
			PaidAt:         p.CreatedAt,
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		data, err := s.csv.Render(st)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render statement")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(st)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render statement")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
