package ports

import (
	"context"
	"encoding/json"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// TokenStore is the client-side copy of the bearer token.
type TokenStore interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// CookieMirror keeps the HTTP-only session cookie in step with the token
// store so server-side checks see the same session.
type CookieMirror interface {
	SetCookie(ctx context.Context, token string) error
	ClearCookie(ctx context.Context) error
}

// SessionState is passed explicitly into every session operation.
type SessionState struct {
	Tokens TokenStore
	Cookie CookieMirror
}

// LoginResult is what the backend hands back for valid credentials.
type LoginResult struct {
	Token string
	Role  string
	User  json.RawMessage
}

// Identity is a validated /api/auth/me answer.
type Identity struct {
	User domain.User
	Role string
	Raw  json.RawMessage
}

// AuthBackend is the backend's authentication surface.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
}

type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// SessionService exchanges credentials for a session and validates it.
type SessionService interface {
	Login(ctx context.Context, state SessionState, in LoginInput) (*domain.Session, error)
	CurrentUser(ctx context.Context, state SessionState) (*Identity, error)
	Logout(ctx context.Context, state SessionState) error
}

// LoginThrottle counts failed logins per key inside a sliding window.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
