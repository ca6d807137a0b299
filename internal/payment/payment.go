package payment

import "context"

// IntentRequest describes a payment to be collected. Amount is in the
// smallest currency unit (cents for USD).
type IntentRequest struct {
	Amount   int64
	Currency string
}

// Intent is the created payment intent. ClientSecret is handed to the
// frontend to complete the payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider creates payment intents with an external payment processor.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
