package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
)

type fakePaymentRepo struct {
	mu        sync.Mutex
	seats     int
	payments  []*models.Payment
	enrollErr error
	history   []models.Payment
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, _ string) ([]models.Payment, error) {
	return f.history, nil
}

func (f *fakePaymentRepo) CompleteEnrollment(_ context.Context, payment *models.Payment, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enrollErr != nil {
		return f.enrollErr
	}
	if f.seats <= 0 {
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "no seats available for this class")
	}
	f.seats--
	if payment.ID == "" {
		payment.ID = "pay-generated"
	}
	f.payments = append(f.payments, payment)
	return nil
}

type fakeIntentCreator struct {
	lastAmount   int64
	lastCurrency string
	err          error
}

func (f *fakeIntentCreator) CreateIntent(_ context.Context, amountMinorUnits int64, currency string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastAmount = amountMinorUnits
	f.lastCurrency = currency
	return "pi_secret_123", nil
}

func TestPaymentServiceCreateIntentConvertsToMinorUnits(t *testing.T) {
	intents := &fakeIntentCreator{}
	svc := NewPaymentService(&fakePaymentRepo{}, intents, nil, nil, nil, nil, "usd")

	res, err := svc.CreateIntent(context.Background(), CreateIntentRequest{Price: 24.99})
	require.NoError(t, err)
	require.Equal(t, "pi_secret_123", res.ClientSecret)
	require.Equal(t, int64(2499), intents.lastAmount)
	require.Equal(t, "usd", intents.lastCurrency)
}

func TestPaymentServiceCreateIntentRejectsNonPositivePrice(t *testing.T) {
	svc := NewPaymentService(&fakePaymentRepo{}, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	_, err := svc.CreateIntent(context.Background(), CreateIntentRequest{Price: 0})
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestPaymentServiceCreateIntentGatewayFailure(t *testing.T) {
	intents := &fakeIntentCreator{err: appErrors.Clone(appErrors.ErrUpstream, "stripe unreachable")}
	svc := NewPaymentService(&fakePaymentRepo{}, intents, nil, nil, nil, nil, "usd")

	_, err := svc.CreateIntent(context.Background(), CreateIntentRequest{Price: 10})
	require.True(t, appErrors.Is(err, appErrors.ErrUpstream))
}

func TestPaymentServiceEnroll(t *testing.T) {
	repo := &fakePaymentRepo{seats: 3}
	cache := newFakeCache()
	cache.store["catalog:popular"] = []byte("[]")
	svc := NewPaymentService(repo, &fakeIntentCreator{}, cache, nil, nil, nil, "usd")

	res, err := svc.Enroll(context.Background(), "alice@example.com", EnrollRequest{
		SelectedClassID: "sel-1",
		ClassID:         "class-1",
		ClassTitle:      "Chess",
		Amount:          25,
		TransactionRef:  "pi_1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.PaymentID)
	require.Len(t, repo.payments, 1)
	require.Equal(t, "alice@example.com", repo.payments[0].UserEmail)
	require.Contains(t, cache.deleted, "catalog:*")
}

func TestPaymentServiceEnrollCapacityExceeded(t *testing.T) {
	repo := &fakePaymentRepo{seats: 0}
	svc := NewPaymentService(repo, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	_, err := svc.Enroll(context.Background(), "alice@example.com", EnrollRequest{
		ClassID:        "class-1",
		ClassTitle:     "Chess",
		TransactionRef: "pi_1",
	})
	require.True(t, appErrors.Is(err, appErrors.ErrCapacityExceeded))
}

func TestPaymentServiceEnrollUnknownClass(t *testing.T) {
	repo := &fakePaymentRepo{enrollErr: appErrors.Clone(appErrors.ErrNotFound, "class not found")}
	svc := NewPaymentService(repo, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	_, err := svc.Enroll(context.Background(), "alice@example.com", EnrollRequest{
		ClassID:        "missing",
		ClassTitle:     "Chess",
		TransactionRef: "pi_1",
	})
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestPaymentServiceEnrollRejectsMissingTransactionRef(t *testing.T) {
	svc := NewPaymentService(&fakePaymentRepo{seats: 1}, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	_, err := svc.Enroll(context.Background(), "alice@example.com", EnrollRequest{
		ClassID:    "class-1",
		ClassTitle: "Chess",
	})
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

// Two concurrent enrollments race for a single remaining seat. Exactly one
// succeeds; the other gets the capacity error.
func TestPaymentServiceConcurrentEnrollmentsSingleSeat(t *testing.T) {
	repo := &fakePaymentRepo{seats: 1}
	svc := NewPaymentService(repo, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(context.Background(), "alice@example.com", EnrollRequest{
				ClassID:        "class-1",
				ClassTitle:     "Chess",
				TransactionRef: "pi_1",
			})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if appErrors.Is(err, appErrors.ErrCapacityExceeded) {
			rejected++
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, rejected)
	require.Len(t, repo.payments, 1)
}

func TestPaymentServiceExportStatementCSV(t *testing.T) {
	repo := &fakePaymentRepo{history: []models.Payment{
		{ClassTitle: "Chess", Amount: 25, TransactionRef: "pi_1"},
	}}
	svc := NewPaymentService(repo, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	data, contentType, err := svc.ExportStatement(context.Background(), "alice@example.com", "csv")
	require.NoError(t, err)
	require.Equal(t, "text/csv", contentType)
	require.True(t, strings.Contains(string(data), "Chess"))
	require.True(t, strings.Contains(string(data), "pi_1"))
}

func TestPaymentServiceExportStatementPDF(t *testing.T) {
	repo := &fakePaymentRepo{history: []models.Payment{
		{ClassTitle: "Chess", Amount: 25, TransactionRef: "pi_1"},
	}}
	svc := NewPaymentService(repo, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	data, contentType, err := svc.ExportStatement(context.Background(), "alice@example.com", "pdf")
	require.NoError(t, err)
	require.Equal(t, "application/pdf", contentType)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestPaymentServiceExportStatementUnknownFormat(t *testing.T) {
	svc := NewPaymentService(&fakePaymentRepo{}, &fakeIntentCreator{}, nil, nil, nil, nil, "usd")

	_, _, err := svc.ExportStatement(context.Background(), "alice@example.com", "xlsx")
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
