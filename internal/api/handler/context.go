package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/view"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// newPage fills the parts of view.Page every handler shares: the validated
// user, the CSRF token and any ?notice= / ?error= carried by a redirect.
func newPage(c echo.Context, title string, data any) view.Page {
	csrf, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return view.Page{
		Title:  title,
		User:   websession.Identity(c),
		CSRF:   csrf,
		Notice: c.QueryParam("notice"),
		Error:  c.QueryParam("error"),
		Data:   data,
	}
}

func render(c echo.Context, name, title string, data any) error {
	return c.Render(http.StatusOK, name, newPage(c, title, data))
}

// show renders a list page. A failed load becomes an inline error above an
// empty page, except when the session is gone.
func show(c echo.Context, cookies websession.Cookies, log zerolog.Logger, name, title string, data any, err error) error {
	if err == nil {
		return render(c, name, title, data)
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		return toLogin(c, cookies)
	}
	logFailure(c, log, err)
	p := newPage(c, title, data)
	p.Error = userMessage(err)
	return c.Render(http.StatusOK, name, p)
}

// afterMutation finishes a POST with a redirect back to the list page.
func afterMutation(c echo.Context, cookies websession.Cookies, log zerolog.Logger, back, notice string, err error) error {
	if err == nil {
		return redirectWith(c, back, "notice", notice)
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		return toLogin(c, cookies)
	}
	logFailure(c, log, err)
	return redirectWith(c, back, "error", userMessage(err))
}

// toLogin drops the session cookie and sends the browser to the login page.
func toLogin(c echo.Context, cookies websession.Cookies) error {
	cookies.Clear(c)
	return c.Redirect(http.StatusFound, "/login")
}

func redirectWith(c echo.Context, target, key, msg string) error {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return c.Redirect(http.StatusSeeOther, target+sep+key+"="+url.QueryEscape(msg))
}

type confirmData struct {
	Action  string
	Message string
	Cancel  string
}

// confirmDelete renders the confirmation step of a delete. The form posts
// back to the same URL.
func confirmDelete(c echo.Context, message, cancel string) error {
	return render(c, "confirm", "Confirm delete", confirmData{
		Action:  c.Request().URL.RequestURI(),
		Message: message,
		Cancel:  cancel,
	})
}

// bindForm reads a submitted form and applies its required-field checks.
func bindForm(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domain.NewValidationError("the form could not be read")
	}
	return c.Validate(dst)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

// queryID returns a positive id from the query string, or 0.
func queryID(c echo.Context, name string) int64 {
	id, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// userMessage turns an error into text that is safe to show on a page.
func userMessage(err error) string {
	var (
		ve *domain.ValidationError
		re *domain.RequestError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &re):
		return re.Message
	case errors.Is(err, domain.ErrLoginThrottled):
		return "Too many login attempts. Please wait a few minutes and try again."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The Kosalla backend sent an unexpected response."
	default:
		return "The Kosalla backend could not be reached. Please try again."
	}
}

func logFailure(c echo.Context, log zerolog.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return
	}
	ev := log.Warn()
	if domain.StatusOf(err) == 0 {
		ev = log.Error()
	}
	ev.Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("backend call failed")
}
