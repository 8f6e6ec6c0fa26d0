package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

func TestAuthHandler_Login_RedirectsByRole(t *testing.T) {
	tests := []struct {
		role string
		next string
		want string
	}{
		{domain.RoleSuperAdmin, "", "/admin"},
		{domain.RoleViriyaStaff, "", "/engineer"},
		{domain.RoleEndUser, "", "/portal"},
		{domain.RoleEndUser, "/portal/tickets", "/portal/tickets"},
		{domain.RoleSuperAdmin, "//evil.example.com", "/admin"},
		{domain.RoleSuperAdmin, "https://evil.example.com", "/admin"},
	}
	for _, tt := range tests {
		e := newTestEcho()
		stub := &stubSessions{
			loginFn: func(ctx context.Context, state ports.SessionState, in ports.LoginInput) (*domain.Session, error) {
				if in.Email != "alice@example.com" || in.Password != "secret" {
					t.Fatalf("unexpected credentials: %+v", in)
				}
				if in.RemoteIP == "" {
					t.Fatalf("expected remote ip to be passed")
				}
				return &domain.Session{Token: "tok", Role: tt.role}, nil
			},
		}
		h := NewAuthHandler(stub, websession.Cookies{}, zerolog.Nop())

		req := formRequest(http.MethodPost, "/login", url.Values{
			"email": {"alice@example.com"}, "password": {"secret"}, "next": {tt.next},
		})
		rec := httptest.NewRecorder()
		if err := h.Login(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if got := rec.Header().Get(echo.HeaderLocation); got != tt.want {
			t.Fatalf("role %s next %q: expected %s, got %s", tt.role, tt.next, tt.want, got)
		}
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"rejected", &domain.RequestError{Status: http.StatusUnprocessableEntity, Message: "The provided credentials are incorrect."}, http.StatusUnauthorized, "The provided credentials are incorrect."},
		{"invalid", domain.NewValidationError("password is required"), http.StatusUnprocessableEntity, "password is required"},
		{"throttled", domain.ErrLoginThrottled, http.StatusTooManyRequests, "Too many login attempts"},
		{"network", errors.New("dial tcp: connection refused"), http.StatusBadGateway, "could not be reached"},
	}
	for _, tt := range tests {
		e := newTestEcho()
		stub := &stubSessions{
			loginFn: func(ctx context.Context, state ports.SessionState, in ports.LoginInput) (*domain.Session, error) {
				return nil, tt.err
			},
		}
		h := NewAuthHandler(stub, websession.Cookies{}, zerolog.Nop())

		req := formRequest(http.MethodPost, "/login", url.Values{"email": {"alice@example.com"}, "password": {"x"}})
		rec := httptest.NewRecorder()
		if err := h.Login(e.NewContext(req, rec)); err != nil {
			t.Fatalf("%s: handler error: %v", tt.name, err)
		}

		if rec.Code != tt.status {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.status, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, tt.message) {
			t.Fatalf("%s: expected message %q in page", tt.name, tt.message)
		}
		if !strings.Contains(body, `value="alice@example.com"`) {
			t.Fatalf("%s: expected email to be kept in the form", tt.name)
		}
	}
}

func TestAuthHandler_LoginPage_SignedInGoesOn(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubSessions{}, websession.Cookies{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/login?next=/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	websession.SetIdentity(c, &ports.Identity{User: domain.User{Roles: domain.NewRoleSet(domain.RoleEndUser)}, Role: domain.RoleEndUser})

	if err := h.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/profile" {
		t.Fatalf("expected redirect to /profile, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestAuthHandler_LoginPage_KeepsSafeNext(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubSessions{}, websession.Cookies{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/login?next=%2Fadmin%2Fusers", nil)
	rec := httptest.NewRecorder()
	if err := h.LoginPage(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="next" value="/admin/users"`) {
		t.Fatalf("expected next to be carried in the form")
	}
}

func TestAuthHandler_Logout_AlwaysEndsOnLogin(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubSessions{
		logoutFn: func(ctx context.Context, state ports.SessionState) error {
			called = true
			if state.Tokens.Token(ctx) != "tok" {
				t.Fatalf("expected token from cookie, got %q", state.Tokens.Token(ctx))
			}
			return state.Cookie.ClearCookie(ctx)
		},
	}
	h := NewAuthHandler(stub, websession.Cookies{}, zerolog.Nop())

	req := withSession(httptest.NewRequest(http.MethodPost, "/logout", nil), "tok")
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !called {
		t.Fatalf("expected Logout to be called")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderSetCookie), "Max-Age=0") {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestAuthHandler_Unauthorized(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubSessions{}, websession.Cookies{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	if err := h.Unauthorized(e.NewContext(httptest.NewRequest(http.MethodGet, "/unauthorized", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
