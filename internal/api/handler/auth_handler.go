package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/metrics"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// AuthHandler serves the public pages and the login/logout forms.
type AuthHandler struct {
	sessions ports.SessionService
	cookies  websession.Cookies
	log      zerolog.Logger
}

func NewAuthHandler(sessions ports.SessionService, cookies websession.Cookies, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookies: cookies, log: log}
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type loginData struct {
	Next  string
	Email string
}

func (h *AuthHandler) Home(c echo.Context) error {
	return render(c, "home", "Welcome", nil)
}

// LoginPage shows the sign-in form. A visitor who already holds a valid
// session goes straight on.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	next := domain.SafeNext(c.QueryParam("next"))
	if id := websession.Identity(c); id != nil {
		return c.Redirect(http.StatusFound, landing(next, id.Role))
	}
	return render(c, "login", "Sign in", loginData{Next: next})
}

// Login exchanges credentials for a session and redirects to next, or to the
// role's home page.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailed(c, form, domain.NewValidationError("the form could not be read"))
	}

	sess, err := h.sessions.Login(c.Request().Context(), h.cookies.State(c), ports.LoginInput{
		Email:    form.Email,
		Password: form.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		return h.loginFailed(c, form, err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, landing(domain.SafeNext(form.Next), sess.Role))
}

func (h *AuthHandler) loginFailed(c echo.Context, form loginForm, err error) error {
	var ve *domain.ValidationError
	status := http.StatusBadGateway
	result := "error"
	switch {
	case errors.As(err, &ve):
		status, result = http.StatusUnprocessableEntity, "invalid"
	case errors.Is(err, domain.ErrLoginThrottled):
		status, result = http.StatusTooManyRequests, "throttled"
	case domain.StatusOf(err) != 0:
		status, result = http.StatusUnauthorized, "rejected"
	default:
		h.log.Error().Err(err).Msg("login failed")
	}
	metrics.LoginsTotal.WithLabelValues(result).Inc()

	p := newPage(c, "Sign in", loginData{Next: domain.SafeNext(form.Next), Email: form.Email})
	p.Error = userMessage(err)
	return c.Render(status, "login", p)
}

// Logout always ends on the login page; a failed revoke is only logged.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), h.cookies.State(c)); err != nil {
		h.log.Warn().Err(err).Msg("logout did not clear every session copy")
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) Register(c echo.Context) error {
	return render(c, "register", "Request access", nil)
}

func (h *AuthHandler) Unauthorized(c echo.Context) error {
	return c.Render(http.StatusForbidden, "unauthorized", newPage(c, "Not allowed", nil))
}

func landing(next, role string) string {
	if next != "" {
		return next
	}
	return domain.HomePath(role)
}
