package payment

import (
	"context"
	"testing"
)

func TestStubProvider_CreateIntent(t *testing.T) {
	t.Parallel()

	p := NewStubProvider("test")
	ctx := context.Background()

	first, err := p.CreateIntent(ctx, IntentRequest{Amount: 1999, Currency: "usd"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ClientSecret == "" {
		t.Error("client secret is empty")
	}

	second, err := p.CreateIntent(ctx, IntentRequest{Amount: 500, Currency: "usd"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Errorf("intent IDs not unique: %q", first.ID)
	}
	if len(p.Intents) != 2 {
		t.Errorf("recorded intents = %d, want 2", len(p.Intents))
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewFromConfig("stub", "default", nil); err != nil {
		t.Errorf("stub: %v", err)
	}
	if _, err := NewFromConfig("stripe", "default", map[string]any{}); err == nil {
		t.Error("stripe without secret_key: want error")
	}
	if _, err := NewFromConfig("paypal", "default", nil); err == nil {
		t.Error("unknown type: want error")
	}
}
