package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// SessionHandler exposes the session cookie to browser code that logged in
// against the backend directly.
type SessionHandler struct {
	sessions ports.SessionService
	cookies  websession.Cookies
	log      zerolog.Logger
}

func NewSessionHandler(sessions ports.SessionService, cookies websession.Cookies, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies, log: log}
}

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Role    string `json:"role,omitempty"`
	Me      any    `json:"me,omitempty"`
}

// Sync stores a token in the session cookie, or reports the current session
// when no token is posted.
//
// @Summary      Set or check the session cookie
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      sessionRequest   false  "Token to store; omit to check the current session"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  sessionResponse
// @Failure      502   {object}  sessionResponse
// @Router       /api/session [post]
func (h *SessionHandler) Sync(c echo.Context) error {
	var req sessionRequest
	// An empty or non-JSON body is a session check, not an error.
	_ = c.Bind(&req)

	if token := strings.TrimSpace(req.Token); token != "" {
		h.cookies.Set(c, token)
		return c.JSON(http.StatusOK, sessionResponse{OK: true})
	}

	if h.cookies.Read(c) == "" {
		return c.JSON(http.StatusUnauthorized, sessionResponse{Message: "No session"})
	}

	id, err := h.sessions.CurrentUser(c.Request().Context(), h.cookies.State(c))
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, sessionResponse{Message: "Session expired"})
	case err != nil:
		h.log.Error().Err(err).Msg("session check failed")
		return c.JSON(http.StatusBadGateway, sessionResponse{Message: userMessage(err)})
	}

	resp := sessionResponse{OK: true, Role: id.Role}
	if len(id.Raw) > 0 {
		resp.Me = id.Raw
	} else {
		resp.Me = id.User
	}
	return c.JSON(http.StatusOK, resp)
}

// Clear removes the session cookie.
//
// @Summary      Clear the session cookie
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [delete]
func (h *SessionHandler) Clear(c echo.Context) error {
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, sessionResponse{OK: true})
}
