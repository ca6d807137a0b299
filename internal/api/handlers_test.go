package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdshamim125/contest-hub-server/internal/audit"
	"github.com/mdshamim125/contest-hub-server/internal/auth"
	"github.com/mdshamim125/contest-hub-server/internal/authz"
	"github.com/mdshamim125/contest-hub-server/internal/core"
	"github.com/mdshamim125/contest-hub-server/internal/payment"
	"github.com/mdshamim125/contest-hub-server/internal/store"
)

type testEnv struct {
	server   *Server
	handler  http.Handler
	issuer   *auth.Issuer
	users    *store.MemoryUsers
	contests *store.MemoryContests
	payments *payment.StubProvider
	auditor  *audit.InMemoryAuditor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	secret := []byte("test-secret")
	engine, err := authz.New(authz.DefaultRules())
	if err != nil {
		t.Fatal(err)
	}

	mem := store.NewMemory()
	payments := payment.NewStubProvider("stub")
	auditor := audit.NewInMemoryAuditor()
	issuer := auth.NewIssuer(secret, 0)

	server := NewServer(mem.Users, mem.Contests, issuer, auth.NewVerifier(secret), engine, payments, auditor)
	return &testEnv{
		server:   server,
		handler:  server.Routes(nil),
		issuer:   issuer,
		users:    mem.Users,
		contests: mem.Contests,
		payments: payments,
		auditor:  auditor,
	}
}

func (e *testEnv) request(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedUser(t *testing.T, email string, role core.Role, status core.Status) string {
	t.Helper()

	rec := e.request(t, http.MethodPut, SaveUserRoute, "", map[string]any{
		"email": email,
		"name":  "Test " + email,
		"role":  string(role),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding %s: status = %d, body = %s", email, rec.Code, rec.Body)
	}
	if status == core.StatusBlocked {
		if _, err := e.users.Update(t.Context(), email, core.UserUpdate{Status: &status}); err != nil {
			t.Fatal(err)
		}
	}

	token, err := e.issuer.Issue(email)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body, err)
	}
	return out
}

func TestIssueToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, IssueTokenRoute, "", map[string]any{"email": "a@example.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	resp := decodeBody[IssueTokenResponse](t, rec)
	if resp.Token == "" {
		t.Error("token is empty")
	}

	// extra claim fields in the payload must be rejected
	rec = env.request(t, http.MethodPost, IssueTokenRoute, "", map[string]any{
		"email": "a@example.com",
		"role":  "admin",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = env.request(t, http.MethodPost, IssueTokenRoute, "", map[string]any{"email": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty email: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSaveUser_DoesNotOverwrite(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.seedUser(t, "c@example.com", core.RoleCreator, core.StatusActive)

	// a second save with a different role must return the stored record
	rec := env.request(t, http.MethodPut, SaveUserRoute, "", map[string]any{
		"email": "c@example.com",
		"name":  "Changed",
		"role":  "admin",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	user := decodeBody[core.User](t, rec)
	if user.Role != core.RoleCreator {
		t.Errorf("role = %q, want %q", user.Role, core.RoleCreator)
	}
}

func TestListUsers_Gated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	adminToken := env.seedUser(t, "admin@example.com", core.RoleAdmin, core.StatusActive)
	creatorToken := env.seedUser(t, "creator@example.com", core.RoleCreator, core.StatusActive)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"creator", creatorToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.request(t, http.MethodGet, ListUsersRoute, tt.token, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestUpdateUserStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	adminToken := env.seedUser(t, "admin@example.com", core.RoleAdmin, core.StatusActive)
	env.seedUser(t, "victim@example.com", core.RoleCreator, core.StatusActive)

	rec := env.request(t, http.MethodPatch, "/users/status/update/victim@example.com", adminToken,
		map[string]any{"status": "blocked"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	user, err := env.users.Get(t.Context(), "victim@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if user.Status != core.StatusBlocked {
		t.Errorf("status = %q, want %q", user.Status, core.StatusBlocked)
	}

	rec = env.request(t, http.MethodPatch, "/users/status/update/victim@example.com", adminToken,
		map[string]any{"status": "paused"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateContest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	creatorToken := env.seedUser(t, "creator@example.com", core.RoleCreator, core.StatusActive)
	blockedToken := env.seedUser(t, "blocked@example.com", core.RoleCreator, core.StatusBlocked)
	userToken := env.seedUser(t, "user@example.com", core.RoleNone, core.StatusActive)

	body := map[string]any{"name": "Logo Design", "price": 9.99}

	rec := env.request(t, http.MethodPost, CreateContestRoute, creatorToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creator: status = %d, body = %s", rec.Code, rec.Body)
	}
	ins := decodeBody[core.InsertResult](t, rec)

	// creator identity is stamped from the token, status starts pending
	contest, err := env.contests.Get(t.Context(), ins.InsertedID)
	if err != nil {
		t.Fatal(err)
	}
	if contest.Creator.Email != "creator@example.com" {
		t.Errorf("creator = %q, want %q", contest.Creator.Email, "creator@example.com")
	}
	if contest.Status != core.ContestPending {
		t.Errorf("status = %q, want %q", contest.Status, core.ContestPending)
	}
	if contest.Published {
		t.Error("published = true, want false")
	}

	rec = env.request(t, http.MethodPost, CreateContestRoute, blockedToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("blocked creator: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = env.request(t, http.MethodPost, CreateContestRoute, userToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("plain user: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestContestOwnership(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	ownerToken := env.seedUser(t, "owner@example.com", core.RoleCreator, core.StatusActive)
	otherToken := env.seedUser(t, "other@example.com", core.RoleCreator, core.StatusActive)

	rec := env.request(t, http.MethodPost, CreateContestRoute, ownerToken, map[string]any{"name": "Essay"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	id := decodeBody[core.InsertResult](t, rec).InsertedID

	update := map[string]any{"name": "Renamed"}

	rec = env.request(t, http.MethodPut, "/contest/update/"+id, otherToken, update)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign update: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	rec = env.request(t, http.MethodPut, "/contest/update/"+id, ownerToken, update)
	if rec.Code != http.StatusOK {
		t.Errorf("own update: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = env.request(t, http.MethodDelete, "/contests/"+id, otherToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign delete: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	rec = env.request(t, http.MethodDelete, "/contests/"+id, ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("own delete: status = %d, body = %s", rec.Code, rec.Body)
	}

	// listing another creator's contests is forbidden
	rec = env.request(t, http.MethodGet, "/contests/user/owner@example.com", otherToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign listing: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestConfirmAndPublicListing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	adminToken := env.seedUser(t, "admin@example.com", core.RoleAdmin, core.StatusActive)
	creatorToken := env.seedUser(t, "creator@example.com", core.RoleCreator, core.StatusActive)

	rec := env.request(t, http.MethodPost, CreateContestRoute, creatorToken, map[string]any{"name": "Photo"})
	id := decodeBody[core.InsertResult](t, rec).InsertedID

	// pending contests are invisible to the public listing but show up
	// in the unfiltered one
	rec = env.request(t, http.MethodGet, AllContestsRoute, "", nil)
	if got := decodeBody[[]core.Contest](t, rec); len(got) != 0 {
		t.Errorf("public listing before confirm = %d contests, want 0", len(got))
	}
	rec = env.request(t, http.MethodGet, ListContestsRoute, "", nil)
	if got := decodeBody[[]core.Contest](t, rec); len(got) != 1 {
		t.Errorf("unfiltered listing before confirm = %d contests, want 1", len(got))
	}

	rec = env.request(t, http.MethodPatch, "/contests/confirm/"+id, creatorToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("creator confirm: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = env.request(t, http.MethodPatch, "/contests/confirm/"+id, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin confirm: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = env.request(t, http.MethodGet, AllContestsRoute, "", nil)
	got := decodeBody[[]core.Contest](t, rec)
	if len(got) != 1 || got[0].Status != core.ContestConfirmed {
		t.Errorf("public listing after confirm = %+v, want one confirmed contest", got)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	creatorToken := env.seedUser(t, "creator@example.com", core.RoleCreator, core.StatusActive)
	userToken := env.seedUser(t, "user@example.com", core.RoleNone, core.StatusActive)

	rec := env.request(t, http.MethodPost, CreateContestRoute, creatorToken, map[string]any{"name": "Quiz"})
	id := decodeBody[core.InsertResult](t, rec).InsertedID

	rec = env.request(t, http.MethodPost, "/contests/register/"+id, userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = env.request(t, http.MethodPost, "/contests/register/"+id, userToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = env.request(t, http.MethodPost, "/contests/register/64b1f0c2a3d4e5f601234567", userToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing contest: status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = env.request(t, http.MethodPost, "/contests/register/nope", userToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	contest, err := env.contests.Get(t.Context(), id)
	if err != nil {
		t.Fatal(err)
	}
	if contest.ParticipantCount != 1 {
		t.Errorf("participantCount = %d, want 1", contest.ParticipantCount)
	}
	if contest.Participants[0].Email != "user@example.com" {
		t.Errorf("participant = %q, want token identity", contest.Participants[0].Email)
	}
}

func TestPopularCreators(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	adminToken := env.seedUser(t, "admin@example.com", core.RoleAdmin, core.StatusActive)

	// creators with contest participant totals 10, 7, 7, 3
	totals := map[string]int{"a": 10, "b": 7, "c": 7, "d": 3}
	for _, creator := range []string{"a", "b", "c", "d"} {
		email := creator + "@example.com"
		token := env.seedUser(t, email, core.RoleCreator, core.StatusActive)

		rec := env.request(t, http.MethodPost, CreateContestRoute, token, map[string]any{"name": creator})
		id := decodeBody[core.InsertResult](t, rec).InsertedID
		rec = env.request(t, http.MethodPatch, "/contests/confirm/"+id, adminToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("confirm: status = %d", rec.Code)
		}

		for i := 0; i < totals[creator]; i++ {
			participant := env.seedUser(t, fmt.Sprintf("p%s%d@example.com", creator, i), core.RoleNone, core.StatusActive)
			rec = env.request(t, http.MethodPost, "/contests/register/"+id, participant, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body)
			}
		}
	}

	rec := env.request(t, http.MethodGet, PopularCreatorsRoute+"?limit=3", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	ranks := decodeBody[[]core.CreatorRank](t, rec)
	if len(ranks) != 3 {
		t.Fatalf("len = %d, want 3", len(ranks))
	}
	wantTotals := []int64{10, 7, 7}
	for i, want := range wantTotals {
		if ranks[i].TotalParticipants != want {
			t.Errorf("ranks[%d].TotalParticipants = %d, want %d", i, ranks[i].TotalParticipants, want)
		}
	}

	rec = env.request(t, http.MethodGet, PopularCreatorsRoute+"?limit=zero", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	userToken := env.seedUser(t, "payer@example.com", core.RoleNone, core.StatusActive)

	rec := env.request(t, http.MethodPost, PaymentIntentRoute, userToken, map[string]any{"price": 19.99})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	resp := decodeBody[PaymentIntentResponse](t, rec)
	if resp.ClientSecret == "" {
		t.Error("clientSecret is empty")
	}
	if len(env.payments.Intents) != 1 || env.payments.Intents[0].Amount != 1999 {
		t.Errorf("recorded intents = %+v, want one with amount 1999", env.payments.Intents)
	}

	rec = env.request(t, http.MethodPost, PaymentIntentRoute, userToken, map[string]any{"price": 0})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero price: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = env.request(t, http.MethodPost, PaymentIntentRoute, "", map[string]any{"price": 5})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, IssueTokenRoute, "", map[string]any{"email": "a@example.com"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	entries, err := env.auditor.GetRecent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Action != "token.issue" || !entry.Granted {
		t.Errorf("entry = %+v, want granted token.issue", entry)
	}
	if entry.TokenFingerprint == "" {
		t.Error("token fingerprint is empty")
	}
}
