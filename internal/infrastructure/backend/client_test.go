package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

type captured struct {
	method string
	path   string
	query  string
	header http.Header
	body   string
}

// newBackend starts a fake backend that records each request and answers
// with the given status and body.
func newBackend(t *testing.T, status int, body string) (*Client, *[]captured) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, captured{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone(), body: string(b)})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/"}), &seen
}

func TestClient_HeadersWithoutBodyOrToken(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, `[]`)
	orgs := NewResources(c).Organizations

	_, err := orgs.List(context.Background(), domain.Session{})
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "application/json", req.header.Get("Accept"))
	assert.Empty(t, req.header.Get("Content-Type"))
	assert.Empty(t, req.header.Get("Authorization"))
	assert.Equal(t, "/api/admin/organizations", req.path)
}

func TestClient_HeadersWithBodyAndToken(t *testing.T) {
	c, seen := newBackend(t, http.StatusCreated, `{"data":{"id":9}}`)
	orgs := NewResources(c).Organizations

	err := orgs.Create(context.Background(), domain.Session{Token: "tok"}, ports.OrganizationInput{Name: "Acme", IsActive: true})
	require.NoError(t, err)

	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
	assert.Equal(t, "Bearer tok", req.header.Get("Authorization"))
	assert.JSONEq(t, `{"name":"Acme","is_active":true}`, req.body)
}

func TestClient_ErrorUsesBackendMessage(t *testing.T) {
	c, _ := newBackend(t, http.StatusUnprocessableEntity, `{"message":"The name field is required."}`)

	err := NewResources(c).TeamGroups.Create(context.Background(), domain.Session{Token: "t"}, ports.TeamGroupInput{})
	var re *domain.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	assert.Equal(t, "The name field is required.", re.Message)
}

func TestClient_ErrorFallbackMessage(t *testing.T) {
	c, _ := newBackend(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	err := NewResources(c).Contracts.Delete(context.Background(), domain.Session{Token: "t"}, 4)
	var re *domain.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Request failed (502)", re.Message)
}

func TestClient_UnauthorizedMatchesUnauthenticated(t *testing.T) {
	c, _ := newBackend(t, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)

	_, err := NewResources(c).Tickets.List(context.Background(), domain.Session{Token: "stale"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestClient_NonJSONListIsMalformed(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `not json`)

	_, err := NewResources(c).Users.List(context.Background(), domain.Session{Token: "t"})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClient_EmptyMutationBodyIsFine(t *testing.T) {
	c, _ := newBackend(t, http.StatusNoContent, ``)

	err := NewResources(c).Users.Delete(context.Background(), domain.Session{Token: "t"}, 3)
	assert.NoError(t, err)
}

func TestClient_NetworkErrorIsNotRequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Config{BaseURL: base, Timeout: time.Second})
	_, err := NewResources(c).Organizations.List(context.Background(), domain.Session{})
	require.Error(t, err)
	assert.Equal(t, 0, domain.StatusOf(err))
	assert.False(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestResources_Paths(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, `{"data":[]}`)
	r := NewResources(c)
	ctx := context.Background()
	s := domain.Session{Token: "t"}

	_, _ = r.Locations.List(ctx, s, 5)
	_ = r.Locations.Delete(ctx, s, 8)
	_, _ = r.InventoryItems.List(ctx, s, 5)
	_ = r.InventoryItems.Update(ctx, s, 2, ports.InventoryItemInput{Name: "Router"})
	_, _ = r.ProductTypes.List(ctx, s, 5)
	_, _ = r.ProductTypes.List(ctx, s, 0)
	_, _ = r.Engineers.Candidates(ctx, s)
	_ = r.TeamMembers.Assign(ctx, s, 3, 11)
	_ = r.TeamMembers.Remove(ctx, s, 3, 11)
	_, _ = r.Users.MasterRoles(ctx, s)

	want := []struct{ method, path, query string }{
		{http.MethodGet, "/api/admin/organizations/5/locations", ""},
		{http.MethodDelete, "/api/admin/locations/8", ""},
		{http.MethodGet, "/api/admin/organizations/5/inventory-items", ""},
		{http.MethodPut, "/api/admin/inventory-items/2", ""},
		{http.MethodGet, "/api/admin/product-types", "organization_id=5"},
		{http.MethodGet, "/api/admin/product-types", ""},
		{http.MethodGet, "/api/admin/engineers/candidates", ""},
		{http.MethodPost, "/api/admin/team-groups/3/members", ""},
		{http.MethodDelete, "/api/admin/team-groups/3/members/11", ""},
		{http.MethodGet, "/api/admin/master-roles", ""},
	}
	require.Len(t, *seen, len(want))
	for i, w := range want {
		got := (*seen)[i]
		assert.Equal(t, w.method, got.method, "request %d", i)
		assert.Equal(t, w.path, got.path, "request %d", i)
		assert.Equal(t, w.query, got.query, "request %d", i)
	}
	assert.JSONEq(t, `{"user_id":11}`, (*seen)[7].body)
}

func TestClient_ObserveUsesBoundedRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	var routes []string
	c := New(Config{BaseURL: srv.URL, Observe: func(method, route string, status int, _ time.Duration) {
		routes = append(routes, route)
	}})
	_ = NewResources(c).TeamMembers.Remove(context.Background(), domain.Session{}, 3, 11)

	assert.Equal(t, []string{"/api/admin/team-groups/:id/members/:id"}, routes)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/admin/product-types", routeLabel("/api/admin/product-types?organization_id=3"))
	assert.Equal(t, "/api/admin/organizations/:id/locations", routeLabel("/api/admin/organizations/12/locations"))
}
