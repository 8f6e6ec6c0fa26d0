package handler

import (
	"github.com/labstack/echo/v4"
)

type dashboardLink struct {
	Title       string
	Href        string
	Description string
}

var adminLinks = []dashboardLink{
	{Title: "Organizations", Href: "/admin/organizations", Description: "Customer organizations and their contacts."},
	{Title: "Locations", Href: "/admin/locations", Description: "Sites that belong to an organization."},
	{Title: "Contracts", Href: "/admin/contracts", Description: "Support contracts and renewal reminders."},
	{Title: "Inventory", Href: "/admin/inventory-items", Description: "Equipment registered per organization."},
	{Title: "Product types", Href: "/admin/product-types", Description: "Catalogue used by inventory items."},
	{Title: "Engineers", Href: "/admin/engineers", Description: "The field engineer roster."},
	{Title: "Team groups", Href: "/admin/team-groups", Description: "Groups that tickets can be routed to."},
	{Title: "Team members", Href: "/admin/team-members", Description: "Who belongs to which team group."},
	{Title: "Users", Href: "/admin/users", Description: "Accounts and their master roles."},
}

// AdminHandler serves the superadmin landing page.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	return render(c, "dashboard", "Administration", adminLinks)
}
