package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/viriyakhulung/kosalla-new/internal/api/view"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

var testRenderer = view.New()

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = testRenderer
	e.Validator = NewValidator()
	return e
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: websession.DefaultCookieName, Value: token})
	return req
}

type stubSessions struct {
	loginFn   func(ctx context.Context, state ports.SessionState, in ports.LoginInput) (*domain.Session, error)
	currentFn func(ctx context.Context, state ports.SessionState) (*ports.Identity, error)
	logoutFn  func(ctx context.Context, state ports.SessionState) error
}

func (s *stubSessions) Login(ctx context.Context, state ports.SessionState, in ports.LoginInput) (*domain.Session, error) {
	return s.loginFn(ctx, state, in)
}

func (s *stubSessions) CurrentUser(ctx context.Context, state ports.SessionState) (*ports.Identity, error) {
	return s.currentFn(ctx, state)
}

func (s *stubSessions) Logout(ctx context.Context, state ports.SessionState) error {
	return s.logoutFn(ctx, state)
}

type stubOrganizations struct {
	listFn   func(ctx context.Context, s domain.Session) ([]domain.Organization, error)
	createFn func(ctx context.Context, s domain.Session, in ports.OrganizationInput) error
	updateFn func(ctx context.Context, s domain.Session, id int64, in ports.OrganizationInput) error
	deleteFn func(ctx context.Context, s domain.Session, id int64) error
}

func (o *stubOrganizations) List(ctx context.Context, s domain.Session) ([]domain.Organization, error) {
	return o.listFn(ctx, s)
}

func (o *stubOrganizations) Create(ctx context.Context, s domain.Session, in ports.OrganizationInput) error {
	return o.createFn(ctx, s, in)
}

func (o *stubOrganizations) Update(ctx context.Context, s domain.Session, id int64, in ports.OrganizationInput) error {
	return o.updateFn(ctx, s, id, in)
}

func (o *stubOrganizations) Delete(ctx context.Context, s domain.Session, id int64) error {
	return o.deleteFn(ctx, s, id)
}

type stubLocations struct {
	listFn   func(ctx context.Context, s domain.Session, orgID int64) ([]domain.Location, error)
	createFn func(ctx context.Context, s domain.Session, orgID int64, in ports.LocationInput) error
}

func (l *stubLocations) List(ctx context.Context, s domain.Session, orgID int64) ([]domain.Location, error) {
	return l.listFn(ctx, s, orgID)
}

func (l *stubLocations) Create(ctx context.Context, s domain.Session, orgID int64, in ports.LocationInput) error {
	return l.createFn(ctx, s, orgID, in)
}

func (l *stubLocations) Update(ctx context.Context, s domain.Session, id int64, in ports.LocationInput) error {
	return nil
}

func (l *stubLocations) Delete(ctx context.Context, s domain.Session, id int64) error { return nil }

type stubTickets struct {
	listFn   func(ctx context.Context, s domain.Session) ([]domain.Ticket, error)
	createFn func(ctx context.Context, s domain.Session, in ports.TicketInput) error
}

func (t *stubTickets) List(ctx context.Context, s domain.Session) ([]domain.Ticket, error) {
	return t.listFn(ctx, s)
}

func (t *stubTickets) Create(ctx context.Context, s domain.Session, in ports.TicketInput) error {
	return t.createFn(ctx, s, in)
}

type stubTeamMembers struct {
	removeFn func(ctx context.Context, s domain.Session, groupID, userID int64) error
}

func (m *stubTeamMembers) List(ctx context.Context, s domain.Session, groupID int64) ([]domain.UserRef, error) {
	return nil, nil
}

func (m *stubTeamMembers) Assign(ctx context.Context, s domain.Session, groupID, userID int64) error {
	return nil
}

func (m *stubTeamMembers) Remove(ctx context.Context, s domain.Session, groupID, userID int64) error {
	return m.removeFn(ctx, s, groupID, userID)
}

type stubUsers struct {
	createFn func(ctx context.Context, s domain.Session, in ports.UserInput) error
}

func (u *stubUsers) List(ctx context.Context, s domain.Session) ([]domain.AdminUser, error) {
	return nil, nil
}

func (u *stubUsers) MasterRoles(ctx context.Context, s domain.Session) ([]domain.MasterRole, error) {
	return nil, nil
}

func (u *stubUsers) Create(ctx context.Context, s domain.Session, in ports.UserInput) error {
	return u.createFn(ctx, s, in)
}

func (u *stubUsers) Update(ctx context.Context, s domain.Session, id int64, in ports.UserInput) error {
	return nil
}

func (u *stubUsers) Delete(ctx context.Context, s domain.Session, id int64) error { return nil }
