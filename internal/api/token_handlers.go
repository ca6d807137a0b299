package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdshamim125/contest-hub-server/internal/api/middleware"
	"github.com/mdshamim125/contest-hub-server/internal/api/presenter"
	"github.com/mdshamim125/contest-hub-server/internal/audit"
	"github.com/mdshamim125/contest-hub-server/internal/core"
)

type IssueTokenPayload struct {
	// Email is the only claim that ends up in the token.
	Email string `json:"email"`
}

type IssueTokenResponse struct {
	Token string `json:"token"`
}

// handleIssueToken mints a session token for the given email. Only the
// email is bound into the claims; extra fields in the payload are
// rejected. The token alone grants nothing, every gated route checks
// the stored user record.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	auditEntry := core.AuditEntry{
		ID:     middleware.CorrelationCtx(ctx),
		Time:   time.Now(),
		Action: "token.issue",
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log")
		}
	}()

	var payload IssueTokenPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode token request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		auditEntry.Error = "invalid request payload"
		return
	}
	if payload.Email == "" {
		presenter.Error(w, r, "email is required", http.StatusBadRequest)
		auditEntry.Error = "email is required"
		return
	}
	auditEntry.Subject = payload.Email

	token, err := s.issuer.Issue(payload.Email)
	if err != nil {
		logger.Error().Err(err).Msg("signing session token failed")
		presenter.Error(w, r, "token issuance failed", http.StatusInternalServerError)
		auditEntry.Error = "token issuance failed"
		return
	}
	auditEntry.Granted = true
	auditEntry.TokenFingerprint = audit.TokenFingerprint(token)

	logger.Info().Str("email", payload.Email).Msg("session token issued")
	presenter.JSON(w, r, IssueTokenResponse{Token: token}, http.StatusCreated)
}
