package api

import (
	"math"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mdshamim125/contest-hub-server/internal/api/middleware"
	"github.com/mdshamim125/contest-hub-server/internal/api/presenter"
	"github.com/mdshamim125/contest-hub-server/internal/payment"
)

type PaymentIntentPayload struct {
	// Price is the contest entry fee in whole currency units.
	Price float64 `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// handleCreatePaymentIntent creates a payment intent for a contest entry
// fee and returns the client secret the frontend needs to collect the
// payment.
func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	claims := middleware.ClaimsFromContext(ctx)

	var payload PaymentIntentPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode payment payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Price <= 0 {
		presenter.Error(w, r, "price must be positive", http.StatusBadRequest)
		return
	}

	// price is in whole units, the processor wants cents
	amount := int64(math.Round(payload.Price * 100))

	intent, err := s.payments.CreateIntent(ctx, payment.IntentRequest{Amount: amount})
	if err != nil {
		logger.Error().Err(err).Str("provider", s.payments.Name()).Msg("creating payment intent failed")
		presenter.Error(w, r, "failed to create payment intent", http.StatusInternalServerError)
		return
	}

	s.auditAction(ctx, "payment.intent", claims.Email, map[string]any{
		"amount":    amount,
		"intent_id": intent.ID,
	})

	presenter.JSON(w, r, PaymentIntentResponse{ClientSecret: intent.ClientSecret}, http.StatusOK)
}
