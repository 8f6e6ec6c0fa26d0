package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/view"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// errorResponse is the error envelope for JSON routes.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type errorPage struct {
	Status  int
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Answers JSON under /api/ and renders the error page everywhere else.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, errorResponse{Message: msg})
			return
		}

		page := view.Page{
			Title: http.StatusText(code),
			User:  websession.Identity(c),
			Data:  errorPage{Status: code, Message: msg},
		}
		if rerr := c.Render(code, "error", page); rerr != nil {
			log.Error().Err(rerr).Msg("error page failed to render")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, CSRF, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Warn().Err(he.Internal).Str("path", c.Request().URL.Path).Int("status", he.Code).Msg("request failed")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var (
		re *domain.RequestError
		ve *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Your session has ended. Please sign in again."
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, ve.Error()
	case errors.As(err, &re):
		return http.StatusBadGateway, re.Message
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, "The Kosalla backend sent an unexpected response."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
