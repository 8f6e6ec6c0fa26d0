package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// Resources bundles one client per backend resource, all sharing a Client.
type Resources struct {
	Organizations  *Organizations
	Locations      *Locations
	Engineers      *Engineers
	Contracts      *Contracts
	InventoryItems *InventoryItems
	ProductTypes   *ProductTypes
	TeamGroups     *TeamGroups
	TeamMembers    *TeamMembers
	Users          *Users
	Tickets        *Tickets
}

func NewResources(c *Client) *Resources {
	return &Resources{
		Organizations:  &Organizations{c: c},
		Locations:      &Locations{c: c},
		Engineers:      &Engineers{c: c},
		Contracts:      &Contracts{c: c},
		InventoryItems: &InventoryItems{c: c},
		ProductTypes:   &ProductTypes{c: c},
		TeamGroups:     &TeamGroups{c: c},
		TeamMembers:    &TeamMembers{c: c},
		Users:          &Users{c: c},
		Tickets:        &Tickets{c: c},
	}
}

var (
	_ ports.OrganizationClient  = (*Organizations)(nil)
	_ ports.LocationClient      = (*Locations)(nil)
	_ ports.EngineerClient      = (*Engineers)(nil)
	_ ports.ContractClient      = (*Contracts)(nil)
	_ ports.InventoryItemClient = (*InventoryItems)(nil)
	_ ports.ProductTypeClient   = (*ProductTypes)(nil)
	_ ports.TeamGroupClient     = (*TeamGroups)(nil)
	_ ports.TeamMemberClient    = (*TeamMembers)(nil)
	_ ports.UserClient          = (*Users)(nil)
	_ ports.TicketClient        = (*Tickets)(nil)
	_ ports.AuthBackend         = (*AuthAPI)(nil)
)

// --- organizations ---

const organizationsPath = "/api/admin/organizations"

type Organizations struct{ c *Client }

func (r *Organizations) List(ctx context.Context, s domain.Session) ([]domain.Organization, error) {
	return list[domain.Organization](ctx, r.c, s, organizationsPath)
}

func (r *Organizations) Create(ctx context.Context, s domain.Session, in ports.OrganizationInput) error {
	return r.c.exec(ctx, s, http.MethodPost, organizationsPath, in)
}

func (r *Organizations) Update(ctx context.Context, s domain.Session, id int64, in ports.OrganizationInput) error {
	return r.c.exec(ctx, s, http.MethodPut, byID(organizationsPath, id), in)
}

func (r *Organizations) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(organizationsPath, id), nil)
}

// --- locations (nested under an organization for list/create) ---

const locationsPath = "/api/admin/locations"

type Locations struct{ c *Client }

func orgLocationsPath(orgID int64) string {
	return fmt.Sprintf("%s/%d/locations", organizationsPath, orgID)
}

func (r *Locations) List(ctx context.Context, s domain.Session, orgID int64) ([]domain.Location, error) {
	return list[domain.Location](ctx, r.c, s, orgLocationsPath(orgID))
}

func (r *Locations) Create(ctx context.Context, s domain.Session, orgID int64, in ports.LocationInput) error {
	return r.c.exec(ctx, s, http.MethodPost, orgLocationsPath(orgID), in)
}

func (r *Locations) Update(ctx context.Context, s domain.Session, id int64, in ports.LocationInput) error {
	return r.c.exec(ctx, s, http.MethodPut, byID(locationsPath, id), in)
}

func (r *Locations) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(locationsPath, id), nil)
}

// --- engineers ---

const engineersPath = "/api/admin/engineers"

type Engineers struct{ c *Client }

func (r *Engineers) List(ctx context.Context, s domain.Session) ([]domain.Engineer, error) {
	return list[domain.Engineer](ctx, r.c, s, engineersPath)
}

// Candidates lists users that can still be registered as engineers.
func (r *Engineers) Candidates(ctx context.Context, s domain.Session) ([]domain.UserRef, error) {
	return list[domain.UserRef](ctx, r.c, s, engineersPath+"/candidates")
}

func (r *Engineers) Create(ctx context.Context, s domain.Session, in ports.EngineerInput) error {
	return r.c.exec(ctx, s, http.MethodPost, engineersPath, in)
}

func (r *Engineers) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(engineersPath, id), nil)
}

// --- contracts ---

const contractsPath = "/api/admin/contracts"

type Contracts struct{ c *Client }

func (r *Contracts) List(ctx context.Context, s domain.Session) ([]domain.Contract, error) {
	return list[domain.Contract](ctx, r.c, s, contractsPath)
}

func (r *Contracts) Create(ctx context.Context, s domain.Session, in ports.ContractInput) error {
	return r.c.exec(ctx, s, http.MethodPost, contractsPath, in)
}

func (r *Contracts) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(contractsPath, id), nil)
}

// --- inventory items (nested under an organization for list/create) ---

const inventoryItemsPath = "/api/admin/inventory-items"

type InventoryItems struct{ c *Client }

func orgInventoryPath(orgID int64) string {
	return fmt.Sprintf("%s/%d/inventory-items", organizationsPath, orgID)
}

func (r *InventoryItems) List(ctx context.Context, s domain.Session, orgID int64) ([]domain.InventoryItem, error) {
	return list[domain.InventoryItem](ctx, r.c, s, orgInventoryPath(orgID))
}

func (r *InventoryItems) Create(ctx context.Context, s domain.Session, orgID int64, in ports.InventoryItemInput) error {
	return r.c.exec(ctx, s, http.MethodPost, orgInventoryPath(orgID), in)
}

func (r *InventoryItems) Update(ctx context.Context, s domain.Session, id int64, in ports.InventoryItemInput) error {
	return r.c.exec(ctx, s, http.MethodPut, byID(inventoryItemsPath, id), in)
}

func (r *InventoryItems) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(inventoryItemsPath, id), nil)
}

// --- product types ---

const productTypesPath = "/api/admin/product-types"

type ProductTypes struct{ c *Client }

func (r *ProductTypes) List(ctx context.Context, s domain.Session, orgID int64) ([]domain.ProductType, error) {
	path := productTypesPath
	if orgID > 0 {
		path += "?" + url.Values{"organization_id": {strconv.FormatInt(orgID, 10)}}.Encode()
	}
	return list[domain.ProductType](ctx, r.c, s, path)
}

func (r *ProductTypes) Create(ctx context.Context, s domain.Session, in ports.ProductTypeInput) error {
	return r.c.exec(ctx, s, http.MethodPost, productTypesPath, in)
}

func (r *ProductTypes) Update(ctx context.Context, s domain.Session, id int64, in ports.ProductTypeInput) error {
	return r.c.exec(ctx, s, http.MethodPut, byID(productTypesPath, id), in)
}

func (r *ProductTypes) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(productTypesPath, id), nil)
}

// --- team groups and their members ---

const teamGroupsPath = "/api/admin/team-groups"

type TeamGroups struct{ c *Client }

func (r *TeamGroups) List(ctx context.Context, s domain.Session) ([]domain.TeamGroup, error) {
	return list[domain.TeamGroup](ctx, r.c, s, teamGroupsPath)
}

func (r *TeamGroups) Create(ctx context.Context, s domain.Session, in ports.TeamGroupInput) error {
	return r.c.exec(ctx, s, http.MethodPost, teamGroupsPath, in)
}

func (r *TeamGroups) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(teamGroupsPath, id), nil)
}

type TeamMembers struct{ c *Client }

func membersPath(groupID int64) string {
	return fmt.Sprintf("%s/%d/members", teamGroupsPath, groupID)
}

func (r *TeamMembers) List(ctx context.Context, s domain.Session, groupID int64) ([]domain.UserRef, error) {
	return list[domain.UserRef](ctx, r.c, s, membersPath(groupID))
}

func (r *TeamMembers) Assign(ctx context.Context, s domain.Session, groupID, userID int64) error {
	body := struct {
		UserID int64 `json:"user_id"`
	}{UserID: userID}
	return r.c.exec(ctx, s, http.MethodPost, membersPath(groupID), body)
}

func (r *TeamMembers) Remove(ctx context.Context, s domain.Session, groupID, userID int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(membersPath(groupID), userID), nil)
}

// --- users ---

const (
	usersPath       = "/api/admin/users"
	masterRolesPath = "/api/admin/master-roles"
)

type Users struct{ c *Client }

func (r *Users) List(ctx context.Context, s domain.Session) ([]domain.AdminUser, error) {
	return list[domain.AdminUser](ctx, r.c, s, usersPath)
}

func (r *Users) MasterRoles(ctx context.Context, s domain.Session) ([]domain.MasterRole, error) {
	return list[domain.MasterRole](ctx, r.c, s, masterRolesPath)
}

func (r *Users) Create(ctx context.Context, s domain.Session, in ports.UserInput) error {
	return r.c.exec(ctx, s, http.MethodPost, usersPath, in)
}

func (r *Users) Update(ctx context.Context, s domain.Session, id int64, in ports.UserInput) error {
	return r.c.exec(ctx, s, http.MethodPut, byID(usersPath, id), in)
}

func (r *Users) Delete(ctx context.Context, s domain.Session, id int64) error {
	return r.c.exec(ctx, s, http.MethodDelete, byID(usersPath, id), nil)
}

// --- portal tickets ---

const ticketsPath = "/api/portal/tickets"

type Tickets struct{ c *Client }

func (r *Tickets) List(ctx context.Context, s domain.Session) ([]domain.Ticket, error) {
	return list[domain.Ticket](ctx, r.c, s, ticketsPath)
}

func (r *Tickets) Create(ctx context.Context, s domain.Session, in ports.TicketInput) error {
	return r.c.exec(ctx, s, http.MethodPost, ticketsPath, in)
}

func byID(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
