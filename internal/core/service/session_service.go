package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// SessionBridge turns credentials into a session and keeps the client token
// and the session cookie consistent.
type SessionBridge struct {
	backend  ports.AuthBackend
	throttle ports.LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// NewSessionBridge wires the bridge. throttle and audit may be nil.
func NewSessionBridge(backend ports.AuthBackend, throttle ports.LoginThrottle, audit ports.AuditRecorder, log zerolog.Logger) *SessionBridge {
	return &SessionBridge{backend: backend, throttle: throttle, audit: audit, log: log}
}

func (s *SessionBridge) Login(ctx context.Context, state ports.SessionState, in ports.LoginInput) (*domain.Session, error) {
	email := strings.TrimSpace(in.Email)
	var missing []string
	if email == "" {
		missing = append(missing, "email is required")
	}
	if in.Password == "" {
		missing = append(missing, "password is required")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	key := throttleKey(email, in.RemoteIP)
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		case !allowed:
			s.record(domain.AccessEvent{Kind: domain.AccessLoginThrottled, Email: email, RemoteIP: in.RemoteIP})
			return nil, domain.ErrLoginThrottled
		}
	}

	res, err := s.backend.Login(ctx, email, in.Password)
	if err != nil {
		if domain.StatusOf(err) != 0 && s.throttle != nil {
			if ferr := s.throttle.Fail(ctx, key); ferr != nil {
				s.log.Warn().Err(ferr).Msg("failed to count login failure")
			}
		}
		s.record(domain.AccessEvent{Kind: domain.AccessLoginFailed, Email: email, RemoteIP: in.RemoteIP, Detail: err.Error()})
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := state.Tokens.SetToken(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("login: store token: %w", err)
	}
	if err := state.Cookie.SetCookie(ctx, res.Token); err != nil {
		// Leave no half-established session behind.
		_ = state.Tokens.ClearToken(ctx)
		return nil, fmt.Errorf("failed to set session cookie: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	role := res.Role
	if role == "" {
		role = roleFromToken(res.Token)
	}
	role = domain.NormalizeRole(role)

	s.record(domain.AccessEvent{Kind: domain.AccessLoginSucceeded, Email: email, RemoteIP: in.RemoteIP, Roles: []string{role}})
	s.log.Info().Str("email", email).Str("role", role).Msg("login succeeded")

	return &domain.Session{Token: res.Token, Role: role}, nil
}

// CurrentUser validates the stored token against the backend. A rejected
// token is removed from both the token store and the cookie.
func (s *SessionBridge) CurrentUser(ctx context.Context, state ports.SessionState) (*ports.Identity, error) {
	token := state.Tokens.Token(ctx)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	id, err := s.backend.Me(ctx, token)
	if err != nil {
		if domain.StatusOf(err) == 0 && !errors.Is(err, domain.ErrUnauthenticated) {
			return nil, fmt.Errorf("current user: %w", err)
		}
		if cerr := s.clear(ctx, state); cerr != nil {
			s.log.Warn().Err(cerr).Msg("failed to clear rejected session")
		}
		s.record(domain.AccessEvent{Kind: domain.AccessSessionRejected, Detail: err.Error()})
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return id, nil
}

// Logout revokes the token on a best-effort basis, then always clears the
// local session.
func (s *SessionBridge) Logout(ctx context.Context, state ports.SessionState) error {
	if token := state.Tokens.Token(ctx); token != "" {
		if err := s.backend.Logout(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("token revoke failed, clearing session anyway")
		}
	}
	s.record(domain.AccessEvent{Kind: domain.AccessLogout})
	return s.clear(ctx, state)
}

func (s *SessionBridge) clear(ctx context.Context, state ports.SessionState) error {
	return errors.Join(state.Tokens.ClearToken(ctx), state.Cookie.ClearCookie(ctx))
}

func (s *SessionBridge) record(event domain.AccessEvent) {
	if s.audit != nil {
		s.audit.Record(event)
	}
}

func throttleKey(email, remoteIP string) string {
	return strings.ToLower(email) + "|" + remoteIP
}

// roleFromToken reads a role hint out of a JWT-shaped token without verifying
// it. Opaque tokens yield "".
func roleFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, k := range []string{"role", "master_role"} {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	if roles, ok := claims["roles"].([]any); ok && len(roles) > 0 {
		if v, ok := roles[0].(string); ok {
			return v
		}
	}
	return ""
}
