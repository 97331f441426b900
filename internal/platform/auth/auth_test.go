package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "admin123") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("abc"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret-0123456789-0123456789"
	id := uuid.New()

	token, err := IssueToken(secret, id, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got != id {
		t.Errorf("session id = %s, want %s", got, id)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken("secret-one-0123456789-0123456789", uuid.New(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("secret-two-0123456789-0123456789", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	secret := "test-secret-0123456789-0123456789"
	token, err := IssueToken(secret, uuid.New(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken(secret, token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestHasPrivilege(t *testing.T) {
	u := &SessionUser{Privileges: []string{PrivViewPatients, PrivCreateBills}}
	if !u.HasPrivilege(PrivViewPatients) {
		t.Error("expected VIEW_PATIENTS to be held")
	}
	if u.HasPrivilege(PrivDeleteUsers) {
		t.Error("expected DELETE_USERS to be absent")
	}
}

func TestUserContextRoundTrip(t *testing.T) {
	u := &SessionUser{ID: uuid.New(), Role: RoleDoctor}
	ctx := WithUser(context.Background(), u)

	if got := UserFromContext(ctx); got != u {
		t.Error("expected same user back from context")
	}
	if got := UserIDFromContext(ctx); got != u.ID {
		t.Errorf("user id = %s, want %s", got, u.ID)
	}
	if got := RoleFromContext(ctx); got != RoleDoctor {
		t.Errorf("role = %q, want %q", got, RoleDoctor)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if UserFromContext(context.Background()) != nil {
		t.Error("expected nil user on empty context")
	}
	if UserIDFromContext(context.Background()) != uuid.Nil {
		t.Error("expected uuid.Nil on empty context")
	}
}

func TestAllPrivilegesCount(t *testing.T) {
	all := AllPrivileges()
	if len(all) != 42 {
		t.Errorf("privilege count = %d, want 42", len(all))
	}
	seen := map[string]bool{}
	for _, p := range all {
		if seen[p] {
			t.Errorf("duplicate privilege %q", p)
		}
		seen[p] = true
	}
}

func TestDefaultRolePrivileges(t *testing.T) {
	if got := DefaultRolePrivileges(RoleAdmin); len(got) != 42 {
		t.Errorf("admin defaults = %d privileges, want all 42", len(got))
	}
	for _, role := range []string{RoleDoctor, RoleNurse, RoleReceptionist} {
		for _, p := range DefaultRolePrivileges(role) {
			if !IsValidPrivilege(p) {
				t.Errorf("role %s default contains unknown privilege %q", role, p)
			}
		}
	}
	if DefaultRolePrivileges("UNKNOWN") != nil {
		t.Error("expected nil for unknown role")
	}
}

type stubStore struct {
	sessions map[uuid.UUID]*Session
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[uuid.UUID]*Session)}
}

func (s *stubStore) Create(_ context.Context, sess *Session) error {
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	s.sessions[sess.ID] = sess
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return sess, nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.sessions, id)
	return nil
}

func (s *stubStore) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *stubStore) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type stubLoader struct {
	users map[uuid.UUID]*SessionUser
}

func (l *stubLoader) LoadSessionUser(_ context.Context, userID uuid.UUID) (*SessionUser, error) {
	u, ok := l.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func newAuthedRequest(t *testing.T, secret string, store SessionStore, userID uuid.UUID) *http.Request {
	t.Helper()
	sess := &Session{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Create(context.Background(), sess); err != nil {
		t.Fatalf("create session: %v", err)
	}
	token, err := IssueToken(secret, sess.ID, sess.ExpiresAt)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	return req
}

func TestSessionMiddleware(t *testing.T) {
	secret := "test-secret-0123456789-0123456789"
	store := newStubStore()
	userID := uuid.New()
	loader := &stubLoader{users: map[uuid.UUID]*SessionUser{
		userID: {ID: userID, Email: "doc@clinic.local", Role: RoleDoctor},
	}}
	logger := zerolog.New(os.Stderr)

	e := echo.New()
	var seen *SessionUser
	handler := SessionMiddleware(secret, store, loader, logger)(func(c echo.Context) error {
		seen = UserFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := newAuthedRequest(t, secret, store, userID)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if seen == nil || seen.ID != userID {
		t.Error("expected authenticated user on request context")
	}
}

func TestSessionMiddleware_NoCookie(t *testing.T) {
	secret := "test-secret-0123456789-0123456789"
	e := echo.New()
	handler := SessionMiddleware(secret, newStubStore(), &stubLoader{}, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := handler(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestSessionMiddleware_ExpiredSession(t *testing.T) {
	secret := "test-secret-0123456789-0123456789"
	store := newStubStore()
	sess := &Session{UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Create(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
	// Token itself is still valid; the server-side row has lapsed.
	token, err := IssueToken(secret, sess.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	handler := SessionMiddleware(secret, store, &stubLoader{}, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	err = handler(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
	if _, ok := store.sessions[sess.ID]; ok {
		t.Error("expected expired session row to be deleted")
	}
}

func TestSessionMiddleware_RevokedSession(t *testing.T) {
	secret := "test-secret-0123456789-0123456789"
	store := newStubStore()
	userID := uuid.New()
	req := newAuthedRequest(t, secret, store, userID)
	// Revoke everything before the request lands.
	_ = store.DeleteByUser(context.Background(), userID)

	e := echo.New()
	handler := SessionMiddleware(secret, store, &stubLoader{}, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func requireTestContext(user *SessionUser) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user != nil {
		req = req.WithContext(WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(RoleDoctor, RoleNurse)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, rec := requireTestContext(&SessionUser{Role: RoleDoctor})
	if err := handler(c); err != nil {
		t.Errorf("doctor should pass: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	c, _ = requireTestContext(&SessionUser{Role: RoleReceptionist})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("receptionist: expected 403, got %v", err)
	}

	c, _ = requireTestContext(nil)
	err = handler(c)
	he, ok = err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %v", err)
	}
}

func TestRequirePrivilege(t *testing.T) {
	handler := RequirePrivilege(PrivCreateBills)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, _ := requireTestContext(&SessionUser{Role: RoleReceptionist, Privileges: []string{PrivCreateBills}})
	if err := handler(c); err != nil {
		t.Errorf("holder should pass: %v", err)
	}

	// ADMIN passes without the explicit privilege.
	c, _ = requireTestContext(&SessionUser{Role: RoleAdmin})
	if err := handler(c); err != nil {
		t.Errorf("admin should pass: %v", err)
	}

	c, _ = requireTestContext(&SessionUser{Role: RoleNurse})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	handler := DevAuthMiddleware()(func(c echo.Context) error {
		u := UserFromContext(c.Request().Context())
		if u == nil || u.Role != RoleAdmin {
			t.Error("expected dev admin user on context")
		}
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler: %v", err)
	}
}
