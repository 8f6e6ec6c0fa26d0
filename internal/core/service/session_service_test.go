package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

type stubBackend struct {
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	meFn     func(ctx context.Context, token string) (*ports.Identity, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubBackend) Me(ctx context.Context, token string) (*ports.Identity, error) {
	return s.meFn(ctx, token)
}

func (s *stubBackend) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

// memorySession stands in for both the token store and the cookie mirror.
type memorySession struct {
	token     string
	cookie    string
	cookieErr error
}

func (m *memorySession) Token(context.Context) string { return m.token }

func (m *memorySession) SetToken(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *memorySession) ClearToken(context.Context) error {
	m.token = ""
	return nil
}

func (m *memorySession) SetCookie(_ context.Context, token string) error {
	if m.cookieErr != nil {
		return m.cookieErr
	}
	m.cookie = token
	return nil
}

func (m *memorySession) ClearCookie(context.Context) error {
	m.cookie = ""
	return nil
}

func (m *memorySession) state() ports.SessionState {
	return ports.SessionState{Tokens: m, Cookie: m}
}

type stubThrottle struct {
	allowed bool
	fails   int
	resets  int
}

func (s *stubThrottle) Allow(context.Context, string) (bool, error) { return s.allowed, nil }

func (s *stubThrottle) Fail(context.Context, string) error {
	s.fails++
	return nil
}

func (s *stubThrottle) Reset(context.Context, string) error {
	s.resets++
	return nil
}

type recordingAudit struct {
	events []domain.AccessEvent
}

func (r *recordingAudit) Record(event domain.AccessEvent) { r.events = append(r.events, event) }

func TestSessionBridge_Login_PersistsTokenAndCookie(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "root@kosalla.id" || password != "secret" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.LoginResult{Token: "tok-1", Role: "super-admin"}, nil
		},
	}
	audit := &recordingAudit{}
	bridge := NewSessionBridge(backend, nil, audit, zerolog.Nop())
	mem := &memorySession{}

	sess, err := bridge.Login(context.Background(), mem.state(), ports.LoginInput{Email: " root@kosalla.id ", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sess.Token != "tok-1" || sess.Role != domain.RoleSuperAdmin {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if mem.token != "tok-1" || mem.cookie != "tok-1" {
		t.Fatalf("expected token and cookie to be set, got %q / %q", mem.token, mem.cookie)
	}
	if len(audit.events) != 1 || audit.events[0].Kind != domain.AccessLoginSucceeded {
		t.Fatalf("expected login_succeeded audit event, got %+v", audit.events)
	}
}

func TestSessionBridge_Login_RoleFromJWTClaims(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "enduser"}).SignedString([]byte("x"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	backend := &stubBackend{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return &ports.LoginResult{Token: signed}, nil
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())

	sess, err := bridge.Login(context.Background(), (&memorySession{}).state(), ports.LoginInput{Email: "a@b.c", Password: "p"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sess.Role != domain.RoleEndUser {
		t.Fatalf("expected enduser role hint, got %q", sess.Role)
	}
}

func TestSessionBridge_Login_MissingFields(t *testing.T) {
	bridge := NewSessionBridge(&stubBackend{}, nil, nil, zerolog.Nop())

	_, err := bridge.Login(context.Background(), (&memorySession{}).state(), ports.LoginInput{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Fatalf("expected validation error with two fields, got %v", err)
	}
}

func TestSessionBridge_Login_BackendRejects(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.NewRequestError(422, "", "Login failed")
		},
	}
	throttle := &stubThrottle{allowed: true}
	bridge := NewSessionBridge(backend, throttle, nil, zerolog.Nop())
	mem := &memorySession{}

	_, err := bridge.Login(context.Background(), mem.state(), ports.LoginInput{Email: "a@b.c", Password: "bad"})
	var re *domain.RequestError
	if !errors.As(err, &re) || re.Message != "Login failed (422)" {
		t.Fatalf("expected Login failed (422), got %v", err)
	}
	if mem.token != "" || mem.cookie != "" {
		t.Fatalf("failed login must not store anything")
	}
	if throttle.fails != 1 {
		t.Fatalf("expected failure to be counted, got %d", throttle.fails)
	}
}

func TestSessionBridge_Login_Throttled(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("backend must not be called when throttled")
			return nil, nil
		},
	}
	bridge := NewSessionBridge(backend, &stubThrottle{allowed: false}, nil, zerolog.Nop())

	_, err := bridge.Login(context.Background(), (&memorySession{}).state(), ports.LoginInput{Email: "a@b.c", Password: "p"})
	if !errors.Is(err, domain.ErrLoginThrottled) {
		t.Fatalf("expected ErrLoginThrottled, got %v", err)
	}
}

func TestSessionBridge_Login_CookieMirrorFails(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return &ports.LoginResult{Token: "tok"}, nil
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())
	mem := &memorySession{cookieErr: errors.New("boom")}

	if _, err := bridge.Login(context.Background(), mem.state(), ports.LoginInput{Email: "a@b.c", Password: "p"}); err == nil {
		t.Fatalf("expected error when the cookie cannot be set")
	}
	if mem.token != "" {
		t.Fatalf("token must be rolled back, got %q", mem.token)
	}
}

func TestSessionBridge_CurrentUser_NoToken(t *testing.T) {
	bridge := NewSessionBridge(&stubBackend{}, nil, nil, zerolog.Nop())

	if _, err := bridge.CurrentUser(context.Background(), (&memorySession{}).state()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionBridge_CurrentUser_RejectedClearsSession(t *testing.T) {
	backend := &stubBackend{
		meFn: func(context.Context, string) (*ports.Identity, error) {
			return nil, domain.NewRequestError(401, "Unauthenticated.", "Me failed")
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())
	mem := &memorySession{token: "expired", cookie: "expired"}

	_, err := bridge.CurrentUser(context.Background(), mem.state())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if mem.token != "" || mem.cookie != "" {
		t.Fatalf("expected token and cookie cleared, got %q / %q", mem.token, mem.cookie)
	}
}

func TestSessionBridge_CurrentUser_ServerErrorAlsoClears(t *testing.T) {
	backend := &stubBackend{
		meFn: func(context.Context, string) (*ports.Identity, error) {
			return nil, domain.NewRequestError(500, "", "Me failed")
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())
	mem := &memorySession{token: "t", cookie: "t"}

	if _, err := bridge.CurrentUser(context.Background(), mem.state()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if mem.token != "" || mem.cookie != "" {
		t.Fatalf("expected session cleared")
	}
}

func TestSessionBridge_CurrentUser_NetworkErrorKeepsSession(t *testing.T) {
	backend := &stubBackend{
		meFn: func(context.Context, string) (*ports.Identity, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())
	mem := &memorySession{token: "t", cookie: "t"}

	_, err := bridge.CurrentUser(context.Background(), mem.state())
	if err == nil || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected a non-auth error, got %v", err)
	}
	if mem.token != "t" || mem.cookie != "t" {
		t.Fatalf("network failure must not clear the session")
	}
}

func TestSessionBridge_CurrentUser_Valid(t *testing.T) {
	backend := &stubBackend{
		meFn: func(_ context.Context, token string) (*ports.Identity, error) {
			if token != "good" {
				t.Fatalf("unexpected token %q", token)
			}
			return &ports.Identity{User: domain.User{ID: 7, Roles: domain.NewRoleSet("superadmin")}, Role: "superadmin"}, nil
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())

	id, err := bridge.CurrentUser(context.Background(), (&memorySession{token: "good"}).state())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.User.ID != 7 || !id.User.Roles.Has(domain.RoleSuperAdmin) {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestSessionBridge_Logout_ClearsEvenWhenRevokeFails(t *testing.T) {
	for name, revokeErr := range map[string]error{
		"network":  errors.New("connection reset"),
		"non-2xx":  domain.NewRequestError(500, "", "Logout failed"),
		"accepted": nil,
	} {
		t.Run(name, func(t *testing.T) {
			called := false
			backend := &stubBackend{
				logoutFn: func(_ context.Context, token string) error {
					called = true
					return revokeErr
				},
			}
			bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())
			mem := &memorySession{token: "t", cookie: "t"}

			if err := bridge.Logout(context.Background(), mem.state()); err != nil {
				t.Fatalf("logout returned error: %v", err)
			}
			if !called {
				t.Fatalf("expected revoke to be attempted")
			}
			if mem.token != "" || mem.cookie != "" {
				t.Fatalf("expected token and cookie cleared")
			}
		})
	}
}

func TestSessionBridge_Logout_WithoutToken(t *testing.T) {
	backend := &stubBackend{
		logoutFn: func(context.Context, string) error {
			t.Fatalf("revoke must be skipped without a token")
			return nil
		},
	}
	bridge := NewSessionBridge(backend, nil, nil, zerolog.Nop())
	mem := &memorySession{cookie: "stale"}

	if err := bridge.Logout(context.Background(), mem.state()); err != nil {
		t.Fatalf("logout returned error: %v", err)
	}
	if mem.cookie != "" {
		t.Fatalf("expected stale cookie cleared")
	}
}
