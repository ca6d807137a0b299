package payment

import "fmt"

// NewFromConfig builds the configured payment provider.
func NewFromConfig(providerType, name string, rawConfig map[string]any) (Provider, error) {
	switch providerType {
	case "stub":
		return NewStubProvider(name), nil
	case "stripe":
		return NewStripeProvider(name, rawConfig)
	default:
		return nil, fmt.Errorf("unknown payment provider type %q", providerType)
	}
}
