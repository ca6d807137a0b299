package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdshamim125/contest-hub-server/internal/auth"
	"github.com/mdshamim125/contest-hub-server/internal/authz"
	"github.com/mdshamim125/contest-hub-server/internal/core"
	"github.com/mdshamim125/contest-hub-server/internal/store"
)

// recordingUsers counts store accesses so tests can prove that
// rejected requests never touch the store.
type recordingUsers struct {
	core.UserStore
	gets int
}

func (r *recordingUsers) Get(ctx context.Context, email string) (*core.User, error) {
	r.gets++
	return r.UserStore.Get(ctx, email)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	issuer := auth.NewIssuer(secret, 0)
	verifier := auth.NewVerifier(secret)

	token, err := issuer.Issue("a@example.com")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no token after scheme", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			RequireAuth(verifier)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthorize_MissingHeaderSkipsStore(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	verifier := auth.NewVerifier(secret)
	users := &recordingUsers{UserStore: store.NewMemory().Users}
	engine, err := authz.New(authz.DefaultRules())
	if err != nil {
		t.Fatal(err)
	}

	chain := RequireAuth(verifier)(Authorize(users, engine, authz.ActionUserList)(okHandler()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if users.gets != 0 {
		t.Errorf("store gets = %d, want 0", users.gets)
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	issuer := auth.NewIssuer(secret, 0)
	verifier := auth.NewVerifier(secret)
	engine, err := authz.New(authz.DefaultRules())
	if err != nil {
		t.Fatal(err)
	}

	mem := store.NewMemory().Users
	ctx := context.Background()
	seed := []core.User{
		{Email: "admin@example.com", Name: "Admin", Role: core.RoleAdmin},
		{Email: "creator@example.com", Name: "Creator", Role: core.RoleCreator},
		{Email: "user@example.com", Name: "User"},
	}
	for _, u := range seed {
		if _, err := mem.SaveOrFetch(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name       string
		email      string
		action     authz.Action
		wantStatus int
	}{
		{"admin may list users", "admin@example.com", authz.ActionUserList, http.StatusOK},
		{"creator may not list users", "creator@example.com", authz.ActionUserList, http.StatusForbidden},
		{"creator may create contests", "creator@example.com", authz.ActionContestCreate, http.StatusOK},
		{"plain user may not create contests", "user@example.com", authz.ActionContestCreate, http.StatusForbidden},
		{"token without user document", "ghost@example.com", authz.ActionUserList, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token, err := issuer.Issue(tt.email)
			if err != nil {
				t.Fatal(err)
			}

			chain := RequireAuth(verifier)(Authorize(mem, engine, tt.action)(okHandler()))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			chain.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
