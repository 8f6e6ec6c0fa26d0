package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/viriyakhulung/kosalla-new/docs"
	"github.com/viriyakhulung/kosalla-new/internal/api/handler"
	"github.com/viriyakhulung/kosalla-new/internal/api/middleware"
	"github.com/viriyakhulung/kosalla-new/internal/api/view"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// Clients are the backend resource clients the pages use.
type Clients struct {
	Organizations  ports.OrganizationClient
	Locations      ports.LocationClient
	Engineers      ports.EngineerClient
	Contracts      ports.ContractClient
	InventoryItems ports.InventoryItemClient
	ProductTypes   ports.ProductTypeClient
	TeamGroups     ports.TeamGroupClient
	TeamMembers    ports.TeamMemberClient
	Users          ports.UserClient
	Tickets        ports.TicketClient
}

// Deps is everything NewRouter wires together.
type Deps struct {
	Sessions ports.SessionService
	Cookies  websession.Cookies
	Clients  Clients
	// Audit may be nil.
	Audit ports.AuditRecorder
	// Checks feed /health/ready; the backend check is expected.
	Checks map[string]handler.Check
	// Registerer receives the echo request metrics; nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
	// PublicAPIURL is the backend origin browser code may call directly.
	PublicAPIURL string
	// TrustedProxies are the reverse proxies whose X-Forwarded-For is read
	// for the client address. Empty means the peer address is used as is.
	TrustedProxies []*net.IPNet
	Log            zerolog.Logger
}

// ipExtractor decides what c.RealIP() returns. The login throttle and the
// audit trail key on it, so forwarding headers count only when they come
// through a configured proxy.
func ipExtractor(proxies []*net.IPNet) echo.IPExtractor {
	if len(proxies) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range proxies {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func contentSecurityPolicy(publicAPIURL string) string {
	connect := "'self'"
	if publicAPIURL != "" {
		connect += " " + strings.TrimRight(publicAPIURL, "/")
	}
	return "default-src 'self'; style-src 'self'; img-src 'self' data:; script-src 'self'; " +
		"connect-src " + connect + "; form-action 'self'; frame-ancestors 'none'"
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(d.TrustedProxies)
	e.Renderer = view.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		Skipper:               prefixSkipper("/swagger/"),
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "same-origin",
		ContentSecurityPolicy: contentSecurityPolicy(d.PublicAPIURL),
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "kosalla_console",
		Skipper:    prefixSkipper("/metrics", "/health", "/static/"),
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		Skipper:        func(c echo.Context) bool { return domain.Bypassed(c.Request().URL.Path) },
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.Cookies.Secure,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(middleware.Guard(d.Sessions, d.Cookies, d.Log))
	e.Use(middleware.RBAC(d.Audit))

	// --- Operational endpoints (bypassed by the guard) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", view.Static())

	// --- Session cookie endpoint ---
	sessionHandler := handler.NewSessionHandler(d.Sessions, d.Cookies, d.Log)
	e.POST("/api/session", sessionHandler.Sync)
	e.DELETE("/api/session", sessionHandler.Clear)

	// --- Public pages ---
	authHandler := handler.NewAuthHandler(d.Sessions, d.Cookies, d.Log)
	e.GET("/", authHandler.Home)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/register", authHandler.Register)
	e.GET("/unauthorized", authHandler.Unauthorized)

	// --- Admin (superadmin) ---
	admin := e.Group("/admin")
	admin.GET("", handler.NewAdminHandler().Dashboard)

	orgs := handler.NewOrganizationHandler(d.Clients.Organizations, d.Clients.Locations,
		d.Clients.InventoryItems, d.Clients.ProductTypes, d.Cookies, d.Log)
	crud(admin, "/organizations", orgs.ListOrganizations, orgs.CreateOrganization,
		orgs.UpdateOrganization, orgs.ConfirmDeleteOrganization, orgs.DeleteOrganization)
	crud(admin, "/locations", orgs.ListLocations, orgs.CreateLocation,
		orgs.UpdateLocation, orgs.ConfirmDeleteLocation, orgs.DeleteLocation)
	crud(admin, "/inventory-items", orgs.ListInventoryItems, orgs.CreateInventoryItem,
		orgs.UpdateInventoryItem, orgs.ConfirmDeleteInventoryItem, orgs.DeleteInventoryItem)
	crud(admin, "/product-types", orgs.ListProductTypes, orgs.CreateProductType,
		orgs.UpdateProductType, orgs.ConfirmDeleteProductType, orgs.DeleteProductType)

	contracts := handler.NewContractHandler(d.Clients.Contracts, d.Clients.Organizations, d.Cookies, d.Log)
	crud(admin, "/contracts", contracts.List, contracts.Create, nil, contracts.ConfirmDelete, contracts.Delete)

	staff := handler.NewStaffHandler(handler.StaffClients{
		Engineers:     d.Clients.Engineers,
		TeamGroups:    d.Clients.TeamGroups,
		TeamMembers:   d.Clients.TeamMembers,
		Users:         d.Clients.Users,
		Organizations: d.Clients.Organizations,
		Locations:     d.Clients.Locations,
	}, d.Cookies, d.Log)
	crud(admin, "/engineers", staff.ListEngineers, staff.CreateEngineer, nil, staff.ConfirmDeleteEngineer, staff.DeleteEngineer)
	crud(admin, "/team-groups", staff.ListTeamGroups, staff.CreateTeamGroup, nil, staff.ConfirmDeleteTeamGroup, staff.DeleteTeamGroup)
	crud(admin, "/users", staff.ListUsers, staff.CreateUser, staff.UpdateUser, staff.ConfirmDeleteUser, staff.DeleteUser)
	admin.GET("/team-members", staff.ListTeamMembers)
	admin.POST("/team-members", staff.AssignTeamMember)
	admin.GET("/team-members/:group/:user/delete", staff.ConfirmRemoveTeamMember)
	admin.POST("/team-members/:group/:user/delete", staff.RemoveTeamMember)

	// --- Engineer, portal and profile ---
	portal := handler.NewPortalHandler(d.Clients.Tickets, d.Cookies, d.Log)
	e.GET("/engineer", portal.Engineer)
	e.GET("/portal", portal.Portal)
	e.GET("/portal/tickets", portal.ListTickets)
	e.GET("/portal/tickets/new", portal.NewTicket)
	e.POST("/portal/tickets/new", portal.CreateTicket)
	e.GET("/profile", portal.Profile)

	return e
}

// crud registers the list page, create, optional update and the two-step
// delete of one resource.
func crud(g *echo.Group, path string, list, create, update, confirm, remove echo.HandlerFunc) {
	g.GET(path, list)
	g.POST(path, create)
	if update != nil {
		g.POST(path+"/:id", update)
	}
	g.GET(path+"/:id/delete", confirm)
	g.POST(path+"/:id/delete", remove)
}

func prefixSkipper(prefixes ...string) echomiddleware.Skipper {
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}

// requestLogger feeds echo's request logging into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      prefixSkipper("/health", "/metrics", "/static/"),
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
