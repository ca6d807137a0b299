package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/mdshamim125/contest-hub-server/internal/api/presenter"
)

const (
	defaultCreatorLimit = 3
	defaultContestLimit = 5
)

func rankingLimit(r *http.Request, fallback int) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 0, strconv.ErrSyntax
	}
	return limit, nil
}

// handlePopularCreators returns creators ranked by the summed participant
// count over all their contests.
func (s *Server) handlePopularCreators(w http.ResponseWriter, r *http.Request) {
	limit, err := rankingLimit(r, defaultCreatorLimit)
	if err != nil {
		presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
		return
	}

	ranks, err := s.contests.PopularCreators(r.Context(), limit)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to rank creators")
		presenter.Error(w, r, "failed to rank creators", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, ranks, http.StatusOK)
}

// handlePopularContests returns confirmed contests ranked by participant
// count.
func (s *Server) handlePopularContests(w http.ResponseWriter, r *http.Request) {
	limit, err := rankingLimit(r, defaultContestLimit)
	if err != nil {
		presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
		return
	}

	contests, err := s.contests.PopularContests(r.Context(), limit)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to rank contests")
		presenter.Error(w, r, "failed to rank contests", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, contests, http.StatusOK)
}
