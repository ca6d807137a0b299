package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdshamim125/contest-hub-server/internal/api/middleware"
	"github.com/mdshamim125/contest-hub-server/internal/api/presenter"
	"github.com/mdshamim125/contest-hub-server/internal/core"
)

type SaveUserPayload struct {
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  core.Role `json:"role"`
}

// handleSaveUser stores the user on first contact. If a record with the
// same email already exists it is returned unchanged, so a repeated
// save cannot overwrite an admin-assigned role or status.
func (s *Server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var payload SaveUserPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode user payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Email == "" {
		presenter.Error(w, r, "email is required", http.StatusBadRequest)
		return
	}
	if !payload.Role.Valid() {
		presenter.Error(w, r, "invalid role", http.StatusBadRequest)
		return
	}

	user, err := s.users.SaveOrFetch(r.Context(), core.User{
		Email: payload.Email,
		Name:  payload.Name,
		Role:  payload.Role,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to save user")
		presenter.Error(w, r, "failed to save user", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, user, http.StatusOK)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	user, err := s.users.Get(r.Context(), email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			presenter.Error(w, r, "user not found", http.StatusNotFound)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to fetch user")
		presenter.Error(w, r, "failed to fetch user", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, user, http.StatusOK)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to list users")
		presenter.Error(w, r, "failed to list users", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, users, http.StatusOK)
}

type UpdateUserPayload struct {
	Name *string    `json:"name"`
	Role *core.Role `json:"role"`
}

// handleUpdateUser lets an admin change a user's name or role.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	email := r.PathValue("email")

	var payload UpdateUserPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode user update payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Role != nil && !payload.Role.Valid() {
		presenter.Error(w, r, "invalid role", http.StatusBadRequest)
		return
	}

	result, err := s.users.Update(ctx, email, core.UserUpdate{
		Name: payload.Name,
		Role: payload.Role,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to update user")
		presenter.Error(w, r, "failed to update user", http.StatusInternalServerError)
		return
	}

	metadata := map[string]any{}
	if payload.Role != nil {
		metadata["role"] = *payload.Role
	}
	s.auditAction(ctx, "user.update", email, metadata)

	presenter.JSON(w, r, result, http.StatusOK)
}

type UpdateStatusPayload struct {
	Status core.Status `json:"status"`
}

// handleUpdateUserStatus blocks or unblocks a user.
func (s *Server) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	email := r.PathValue("email")

	var payload UpdateStatusPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode status payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Status == "" || !payload.Status.Valid() {
		presenter.Error(w, r, "invalid status", http.StatusBadRequest)
		return
	}

	result, err := s.users.Update(ctx, email, core.UserUpdate{Status: &payload.Status})
	if err != nil {
		logger.Error().Err(err).Msg("failed to update user status")
		presenter.Error(w, r, "failed to update user status", http.StatusInternalServerError)
		return
	}

	s.auditAction(ctx, "user.status.update", email, map[string]any{
		"status": payload.Status,
	})

	presenter.JSON(w, r, result, http.StatusOK)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := r.PathValue("email")

	result, err := s.users.Delete(ctx, email)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to delete user")
		presenter.Error(w, r, "failed to delete user", http.StatusInternalServerError)
		return
	}

	s.auditAction(ctx, "user.delete", email, nil)

	presenter.JSON(w, r, result, http.StatusOK)
}

// auditAction records an admin or creator mutation with the caller's
// identity attached.
func (s *Server) auditAction(ctx context.Context, action, subject string, metadata map[string]any) {
	entry := core.AuditEntry{
		ID:       middleware.CorrelationCtx(ctx),
		Time:     time.Now(),
		Action:   action,
		Subject:  subject,
		Granted:  true,
		Metadata: metadata,
	}
	if identity := middleware.IdentityFromContext(ctx); identity != nil {
		entry.Actor = identity.Email
	}

	if err := s.auditor.Log(entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to write audit log")
	}
}
