package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/viriyakhulung/kosalla-new/internal/api/metrics"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// RBAC applies the access table to requests the Guard has authenticated.
// Requests without an identity (bypassed or public) are left alone.
func RBAC(audit ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if domain.Bypassed(path) || domain.IsPublic(path) {
				return next(c)
			}
			id := websession.Identity(c)
			if id == nil {
				return next(c)
			}

			if !domain.Authorize(path, id.User.Roles) {
				metrics.GuardDecisionsTotal.WithLabelValues("forbidden").Inc()
				if audit != nil {
					audit.Record(domain.AccessEvent{
						Kind:      domain.AccessDenied,
						Email:     id.User.Email,
						Path:      path,
						Roles:     id.User.Roles.Slice(),
						RemoteIP:  c.RealIP(),
						RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
					})
				}
				return c.Redirect(http.StatusFound, "/unauthorized")
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
