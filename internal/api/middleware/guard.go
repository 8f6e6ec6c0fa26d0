package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/metrics"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// Guard authenticates every page request against the backend. Assets, API
// routes and operational endpoints pass untouched. Public pages pass too,
// but still get the identity when a valid session exists so the layout can
// show it. Everything else needs a session the backend accepts.
func Guard(sessions ports.SessionService, cookies websession.Cookies, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if domain.Bypassed(path) {
				metrics.GuardDecisionsTotal.WithLabelValues("bypass").Inc()
				return next(c)
			}

			token := cookies.Read(c)
			if domain.IsPublic(path) {
				metrics.GuardDecisionsTotal.WithLabelValues("public").Inc()
				if token != "" {
					if id, err := sessions.CurrentUser(c.Request().Context(), cookies.State(c)); err == nil {
						websession.SetIdentity(c, id)
					}
				}
				return next(c)
			}

			if token == "" {
				// next keeps the query so a filtered list reopens as it was.
				metrics.GuardDecisionsTotal.WithLabelValues("login_redirect").Inc()
				return c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			}

			id, err := sessions.CurrentUser(c.Request().Context(), cookies.State(c))
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				// CurrentUser already cleared the stale cookie.
				metrics.GuardDecisionsTotal.WithLabelValues("stale_session").Inc()
				return c.Redirect(http.StatusFound, "/login")
			case err != nil:
				metrics.GuardDecisionsTotal.WithLabelValues("backend_error").Inc()
				log.Error().Err(err).Str("path", path).Msg("session validation failed")
				return echo.NewHTTPError(http.StatusBadGateway, "The Kosalla backend is unavailable. Please try again shortly.").SetInternal(err)
			}

			websession.SetIdentity(c, id)
			return next(c)
		}
	}
}
