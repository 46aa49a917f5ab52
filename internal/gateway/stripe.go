package gateway

import (
	"context"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
)

// IntentCreator is the payment gateway capability the service layer depends
// on: given an amount and currency, return a client-usable secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error)
}

// StripeGateway creates payment intents against the Stripe API.
type StripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeGateway constructs a gateway with its own API client.
func NewStripeGateway(secretKey string, logger *zap.Logger) *StripeGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, logger: logger}
}

// CreateIntent creates a card payment intent and returns its client secret.
func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error("stripe payment intent failed", zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "payment gateway unavailable")
	}

	return intent.ClientSecret, nil
}

// MinorUnits converts a display price to the integer minor units the
// gateway expects. Rounded, not truncated: 24.99 * 100 is not exactly 2499
// in floating point.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
