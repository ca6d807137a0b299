package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

type StripeProviderConfig struct {
	SecretKey string `mapstructure:"secret_key"`

	// Optional: defaults to usd.
	Currency string `mapstructure:"currency"`
}

// StripeProvider creates card payment intents through the Stripe API.
type StripeProvider struct {
	name     string
	api      *client.API
	currency string
}

func NewStripeProvider(name string, rawConfig map[string]any) (*StripeProvider, error) {
	var conf StripeProviderConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &conf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for stripe provider '%s': %w", name, err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config for stripe provider '%s': %w", name, err)
	}

	if conf.SecretKey == "" {
		return nil, fmt.Errorf("stripe provider '%s' missing 'secret_key'", name)
	}
	if conf.Currency == "" {
		conf.Currency = string(stripe.CurrencyUSD)
	}

	api := &client.API{}
	api.Init(conf.SecretKey, nil)

	return &StripeProvider{
		name:     name,
		api:      api,
		currency: conf.Currency,
	}, nil
}

func (s *StripeProvider) Name() string {
	return s.name
}

func (s *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("StripeProvider CreateIntent called for amount: %d", req.Amount)

	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	// retries of the same request must not create a second intent
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating stripe payment intent: %w", err)
	}

	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
