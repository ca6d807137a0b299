package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdshamim125/contest-hub-server/internal/api/middleware"
	"github.com/mdshamim125/contest-hub-server/internal/api/presenter"
	"github.com/mdshamim125/contest-hub-server/internal/authz"
	"github.com/mdshamim125/contest-hub-server/internal/core"
)

type CreateContestPayload struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Prize       string    `json:"prize"`
	Price       float64   `json:"price"`
	Deadline    time.Time `json:"deadline"`
}

// handleCreateContest stores a new contest for the calling creator. The
// creator reference comes from the authenticated identity, not from the
// payload, and new contests always start out pending and unpublished.
func (s *Server) handleCreateContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	identity := middleware.IdentityFromContext(ctx)

	if identity.Status == core.StatusBlocked {
		presenter.Error(w, r, "blocked by the admin", http.StatusForbidden)
		return
	}

	var payload CreateContestPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode contest payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		presenter.Error(w, r, "name is required", http.StatusBadRequest)
		return
	}

	result, err := s.contests.Insert(ctx, core.Contest{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Image:       payload.Image,
		Prize:       payload.Prize,
		Price:       payload.Price,
		Deadline:    payload.Deadline,
		Status:      core.ContestPending,
		Published:   false,
		Creator: core.CreatorRef{
			Email: identity.Email,
			Name:  identity.Name,
		},
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to insert contest")
		presenter.Error(w, r, "failed to create contest", http.StatusInternalServerError)
		return
	}

	s.auditAction(ctx, "contest.create", result.InsertedID, map[string]any{
		"name": payload.Name,
	})

	presenter.JSON(w, r, result, http.StatusCreated)
}

// handleListContests returns every contest regardless of status, the way
// the moderation dashboard consumes it.
func (s *Server) handleListContests(w http.ResponseWriter, r *http.Request) {
	contests, err := s.contests.List(r.Context(), core.ContestFilter{})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to list contests")
		presenter.Error(w, r, "failed to list contests", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, contests, http.StatusOK)
}

// handlePublishedContests returns the public listing: confirmed contests
// only.
func (s *Server) handlePublishedContests(w http.ResponseWriter, r *http.Request) {
	contests, err := s.contests.List(r.Context(), core.ContestFilter{Status: core.ContestConfirmed})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to list contests")
		presenter.Error(w, r, "failed to list contests", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, contests, http.StatusOK)
}

// handleCreatorContests returns the contests owned by the creator in the
// path. Creators can only list their own contests.
func (s *Server) handleCreatorContests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.IdentityFromContext(ctx)
	email := r.PathValue("email")

	if err := s.engine.CanAccess(identity, authz.Resource{CreatorEmail: email}, authz.ActionContestListOwn); err != nil {
		presenter.Error(w, r, "forbidden access", http.StatusForbidden)
		return
	}

	contests, err := s.contests.List(ctx, core.ContestFilter{CreatorEmail: email})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list creator contests")
		presenter.Error(w, r, "failed to list contests", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, contests, http.StatusOK)
}

func (s *Server) handleGetContest(w http.ResponseWriter, r *http.Request) {
	contest, err := s.contests.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.contestError(w, r, err, "failed to fetch contest")
		return
	}

	presenter.JSON(w, r, contest, http.StatusOK)
}

type UpdateContestPayload struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Image       *string    `json:"image"`
	Prize       *string    `json:"prize"`
	Price       *float64   `json:"price"`
	Deadline    *time.Time `json:"deadline"`
}

// handleUpdateContest lets the owning creator change contest fields.
// Ownership is checked against the stored document, not the payload.
func (s *Server) handleUpdateContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	identity := middleware.IdentityFromContext(ctx)
	id := r.PathValue("id")

	contest, err := s.contests.Get(ctx, id)
	if err != nil {
		s.contestError(w, r, err, "failed to fetch contest")
		return
	}
	if err := s.engine.CanAccess(identity, authz.Resource{CreatorEmail: contest.Creator.Email}, authz.ActionContestUpdate); err != nil {
		presenter.Error(w, r, "forbidden access", http.StatusForbidden)
		return
	}

	var payload UpdateContestPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode contest update payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.contests.Update(ctx, id, core.ContestUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Image:       payload.Image,
		Prize:       payload.Prize,
		Price:       payload.Price,
		Deadline:    payload.Deadline,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to update contest")
		presenter.Error(w, r, "failed to update contest", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

func (s *Server) handleDeleteContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.IdentityFromContext(ctx)
	id := r.PathValue("id")

	contest, err := s.contests.Get(ctx, id)
	if err != nil {
		s.contestError(w, r, err, "failed to fetch contest")
		return
	}
	if err := s.engine.CanAccess(identity, authz.Resource{CreatorEmail: contest.Creator.Email}, authz.ActionContestDelete); err != nil {
		presenter.Error(w, r, "forbidden access", http.StatusForbidden)
		return
	}

	result, err := s.contests.Delete(ctx, id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to delete contest")
		presenter.Error(w, r, "failed to delete contest", http.StatusInternalServerError)
		return
	}

	s.auditAction(ctx, "contest.delete", id, nil)

	presenter.JSON(w, r, result, http.StatusOK)
}

// handleConfirmContest publishes a pending contest.
func (s *Server) handleConfirmContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	result, err := s.contests.Confirm(ctx, id)
	if err != nil {
		s.contestError(w, r, err, "failed to confirm contest")
		return
	}
	if result.MatchedCount == 0 {
		presenter.Error(w, r, "contest not found", http.StatusNotFound)
		return
	}

	s.auditAction(ctx, "contest.confirm", id, nil)

	presenter.JSON(w, r, result, http.StatusOK)
}

type CommentPayload struct {
	Comment string `json:"comment"`
}

func (s *Server) handleCommentContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	id := r.PathValue("id")

	var payload CommentPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode comment payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Comment == "" {
		presenter.Error(w, r, "comment is required", http.StatusBadRequest)
		return
	}

	result, err := s.contests.AddComment(ctx, id, payload.Comment)
	if err != nil {
		s.contestError(w, r, err, "failed to add comment")
		return
	}
	if result.MatchedCount == 0 {
		presenter.Error(w, r, "contest not found", http.StatusNotFound)
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

// handleRegisterContest registers the calling user as a participant. The
// participant identity comes from the verified token claims, so a caller
// cannot register someone else.
func (s *Server) handleRegisterContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)
	id := r.PathValue("id")

	user, err := s.users.Get(ctx, claims.Email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		log.Ctx(ctx).Error().Err(err).Msg("failed to fetch registering user")
		presenter.Error(w, r, "failed to register", http.StatusInternalServerError)
		return
	}

	participant := core.Participant{
		Email:    claims.Email,
		JoinedAt: time.Now(),
	}
	if user != nil {
		participant.Name = user.Name
	}

	result, err := s.contests.Register(ctx, id, participant)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAlreadyRegistered):
			presenter.Error(w, r, "already registered", http.StatusBadRequest)
		case errors.Is(err, core.ErrNotFound):
			presenter.Error(w, r, "contest not found", http.StatusNotFound)
		case errors.Is(err, core.ErrInvalidID):
			presenter.Error(w, r, "invalid contest id", http.StatusBadRequest)
		default:
			log.Ctx(ctx).Error().Err(err).Msg("failed to register participant")
			presenter.Error(w, r, "failed to register", http.StatusInternalServerError)
		}
		return
	}

	s.auditAction(ctx, "contest.register", id, map[string]any{
		"participant": claims.Email,
	})

	presenter.JSON(w, r, result, http.StatusOK)
}

// contestError maps store errors on contest lookups to HTTP responses.
func (s *Server) contestError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrInvalidID):
		presenter.Error(w, r, "invalid contest id", http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		presenter.Error(w, r, "contest not found", http.StatusNotFound)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg(msg)
		presenter.Error(w, r, msg, http.StatusInternalServerError)
	}
}
