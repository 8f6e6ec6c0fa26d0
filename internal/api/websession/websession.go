// Package websession adapts the session bridge to an HTTP request: the token
// store is scoped to the request and seeded from the session cookie, and the
// cookie mirror writes Set-Cookie headers on the response.
package websession

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

const (
	DefaultCookieName = "kosalla_token"
	DefaultTTL        = 7 * 24 * time.Hour

	tokenKey    = "websession.token"
	identityKey = "websession.identity"
)

// Cookies describes the session cookie.
type Cookies struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (k Cookies) name() string {
	if k.Name == "" {
		return DefaultCookieName
	}
	return k.Name
}

// Read returns the token carried by the request's session cookie.
func (k Cookies) Read(c echo.Context) string {
	ck, err := c.Cookie(k.name())
	if err != nil {
		return ""
	}
	return ck.Value
}

func (k Cookies) Set(c echo.Context, token string) {
	ttl := k.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.SetCookie(&http.Cookie{
		Name:     k.name(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie in the browser.
func (k Cookies) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     k.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// State builds the session state for one request.
func (k Cookies) State(c echo.Context) ports.SessionState {
	return ports.SessionState{
		Tokens: requestTokens{c: c, k: k},
		Cookie: responseCookie{c: c, k: k},
	}
}

// Session returns the token the current request acts with, preferring one
// set earlier in the same request over the incoming cookie.
func (k Cookies) Session(c echo.Context) domain.Session {
	s := domain.Session{Token: requestTokens{c: c, k: k}.Token(c.Request().Context())}
	if id := Identity(c); id != nil {
		s.Role = id.Role
	}
	return s
}

type requestTokens struct {
	c echo.Context
	k Cookies
}

func (t requestTokens) Token(context.Context) string {
	if v, ok := t.c.Get(tokenKey).(*string); ok {
		return *v
	}
	return t.k.Read(t.c)
}

func (t requestTokens) SetToken(_ context.Context, token string) error {
	t.c.Set(tokenKey, &token)
	return nil
}

func (t requestTokens) ClearToken(context.Context) error {
	empty := ""
	t.c.Set(tokenKey, &empty)
	t.c.Set(identityKey, nil)
	return nil
}

type responseCookie struct {
	c echo.Context
	k Cookies
}

func (r responseCookie) SetCookie(_ context.Context, token string) error {
	r.k.Set(r.c, token)
	return nil
}

func (r responseCookie) ClearCookie(context.Context) error {
	r.k.Clear(r.c)
	return nil
}

// SetIdentity stores the validated user for the rest of the request.
func SetIdentity(c echo.Context, id *ports.Identity) {
	c.Set(identityKey, id)
}

// Identity returns the user validated by the route guard, or nil on public
// and bypassed routes.
func Identity(c echo.Context) *ports.Identity {
	id, _ := c.Get(identityKey).(*ports.Identity)
	return id
}
