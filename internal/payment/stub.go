package payment

import (
	"context"
	"fmt"
	"sync"
)

// StubProvider returns deterministic intents without calling any
// external processor. Used in tests and local development.
type StubProvider struct {
	name string

	mu      sync.Mutex
	serial  int
	Intents []IntentRequest
}

func NewStubProvider(name string) *StubProvider {
	return &StubProvider{name: name}
}

func (s *StubProvider) Name() string {
	return s.name
}

func (s *StubProvider) CreateIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.serial++
	s.Intents = append(s.Intents, req)
	return &Intent{
		ID:           fmt.Sprintf("pi_stub_%d", s.serial),
		ClientSecret: fmt.Sprintf("pi_stub_%d_secret", s.serial),
	}, nil
}
