package api

import (
	"net/http"

	"github.com/mdshamim125/contest-hub-server/internal/api/middleware"
	"github.com/mdshamim125/contest-hub-server/internal/audit"
	"github.com/mdshamim125/contest-hub-server/internal/auth"
	"github.com/mdshamim125/contest-hub-server/internal/authz"
	"github.com/mdshamim125/contest-hub-server/internal/core"
	"github.com/mdshamim125/contest-hub-server/internal/payment"
)

type Server struct {
	users    core.UserStore
	contests core.ContestStore
	issuer   *auth.Issuer
	verifier *auth.Verifier
	engine   *authz.Engine
	payments payment.Provider
	auditor  core.Auditor
}

func NewServer(
	users core.UserStore,
	contests core.ContestStore,
	issuer *auth.Issuer,
	verifier *auth.Verifier,
	engine *authz.Engine,
	payments payment.Provider,
	auditor core.Auditor,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	return &Server{
		users:    users,
		contests: contests,
		issuer:   issuer,
		verifier: verifier,
		engine:   engine,
		payments: payments,
		auditor:  auditor,
	}
}

func (s *Server) Routes(corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(s.verifier)
	admin := func(action authz.Action) func(http.Handler) http.Handler {
		gate := middleware.Authorize(s.users, s.engine, action)
		return func(next http.Handler) http.Handler {
			return authed(gate(next))
		}
	}
	creator := admin // same shape, creator-role actions

	handle := func(pattern string, mw func(http.Handler) http.Handler, h http.HandlerFunc) {
		mux.Handle(pattern, mw(h))
	}

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	mux.HandleFunc("POST "+IssueTokenRoute, s.handleIssueToken)
	mux.HandleFunc("PUT "+SaveUserRoute, s.handleSaveUser)
	mux.HandleFunc("GET "+GetUserRoute, s.handleGetUser)
	mux.HandleFunc("GET "+ListContestsRoute, s.handleListContests)
	mux.HandleFunc("GET "+AllContestsRoute, s.handlePublishedContests)
	mux.HandleFunc("POST "+CommentContestRoute, s.handleCommentContest)
	mux.HandleFunc("GET "+PopularCreatorsRoute, s.handlePopularCreators)
	mux.HandleFunc("GET "+PopularContestsRoute, s.handlePopularContests)

	// authenticated routes without a role requirement
	handle("GET "+GetContestRoute, authed, s.handleGetContest)
	handle("POST "+RegisterRoute, authed, s.handleRegisterContest)
	handle("POST "+PaymentIntentRoute, authed, s.handleCreatePaymentIntent)

	// admin routes
	handle("GET "+ListUsersRoute, admin(authz.ActionUserList), s.handleListUsers)
	handle("PATCH "+UpdateUserRoute, admin(authz.ActionUserUpdate), s.handleUpdateUser)
	handle("PATCH "+UpdateStatusRoute, admin(authz.ActionUserUpdate), s.handleUpdateUserStatus)
	handle("DELETE "+DeleteUserRoute, admin(authz.ActionUserDelete), s.handleDeleteUser)
	handle("PATCH "+ConfirmContestRoute, admin(authz.ActionContestConfirm), s.handleConfirmContest)

	// creator routes
	handle("POST "+CreateContestRoute, creator(authz.ActionContestCreate), s.handleCreateContest)
	handle("GET "+CreatorContestsRoute, creator(authz.ActionContestListOwn), s.handleCreatorContests)
	handle("PUT "+UpdateContestRoute, creator(authz.ActionContestUpdate), s.handleUpdateContest)
	handle("DELETE "+DeleteContestRoute, creator(authz.ActionContestDelete), s.handleDeleteContest)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				middleware.CORSMiddleware(corsOrigins)(
					mux))))
}
