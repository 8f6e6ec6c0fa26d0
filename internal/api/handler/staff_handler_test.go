package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

func TestStaffHandler_RemoveTeamMember(t *testing.T) {
	e := newTestEcho()
	members := &stubTeamMembers{
		removeFn: func(ctx context.Context, s domain.Session, groupID, userID int64) error {
			if groupID != 3 || userID != 12 {
				t.Fatalf("unexpected ids %d %d", groupID, userID)
			}
			return nil
		},
	}
	h := NewStaffHandler(StaffClients{TeamMembers: members}, websession.Cookies{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/admin/team-members/3/12/delete", url.Values{}), rec)
	c.SetParamNames("group", "user")
	c.SetParamValues("3", "12")
	if err := h.RemoveTeamMember(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); !strings.HasPrefix(loc, "/admin/team-members?team_group_id=3&notice=") {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestStaffHandler_CreateUser_OptionalLocation(t *testing.T) {
	e := newTestEcho()
	users := &stubUsers{
		createFn: func(ctx context.Context, s domain.Session, in ports.UserInput) error {
			if in.OrganizationID == nil || *in.OrganizationID != 4 {
				t.Fatalf("expected organization 4, got %v", in.OrganizationID)
			}
			if in.LocationID != nil {
				t.Fatalf("expected no location, got %d", *in.LocationID)
			}
			if in.MasterRoleID == nil || *in.MasterRoleID != 2 {
				t.Fatalf("expected master role 2")
			}
			return nil
		},
	}
	h := NewStaffHandler(StaffClients{Users: users}, websession.Cookies{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	req := formRequest(http.MethodPost, "/admin/users", url.Values{
		"name": {"Rina"}, "email": {"rina@example.com"}, "password": {"longenough"},
		"organization_id": {"4"}, "location_id": {""}, "master_role_id": {"2"},
	})
	if err := h.CreateUser(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); !strings.HasPrefix(loc, "/admin/users?notice=") {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestStaffHandler_CreateUser_ShortPassword(t *testing.T) {
	e := newTestEcho()
	users := &stubUsers{
		createFn: func(ctx context.Context, s domain.Session, in ports.UserInput) error {
			t.Fatalf("backend must not be called")
			return nil
		},
	}
	h := NewStaffHandler(StaffClients{Users: users}, websession.Cookies{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	req := formRequest(http.MethodPost, "/admin/users", url.Values{
		"name": {"Rina"}, "email": {"rina@example.com"}, "password": {"short"},
		"organization_id": {"4"}, "master_role_id": {"2"},
	})
	if err := h.CreateUser(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	loc, _ := url.Parse(rec.Header().Get(echo.HeaderLocation))
	if msg := loc.Query().Get("error"); msg != "password must be at least 8 characters" {
		t.Fatalf("unexpected error message %q", msg)
	}
}
