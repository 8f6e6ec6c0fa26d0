package handler

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// OrganizationHandler serves organizations and the records that hang off a
// single organization: locations, inventory items and product types.
type OrganizationHandler struct {
	orgs         ports.OrganizationClient
	locations    ports.LocationClient
	inventory    ports.InventoryItemClient
	productTypes ports.ProductTypeClient
	cookies      websession.Cookies
	log          zerolog.Logger
}

func NewOrganizationHandler(
	orgs ports.OrganizationClient,
	locations ports.LocationClient,
	inventory ports.InventoryItemClient,
	productTypes ports.ProductTypeClient,
	cookies websession.Cookies,
	log zerolog.Logger,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgs:         orgs,
		locations:    locations,
		inventory:    inventory,
		productTypes: productTypes,
		cookies:      cookies,
		log:          log,
	}
}

// --- organizations ---

type organizationForm struct {
	Name         string `form:"name" validate:"notblank"`
	Slug         string `form:"slug"`
	ContactEmail string `form:"contact_email"`
	Phone        string `form:"phone"`
	Address      string `form:"address"`
	IsActive     bool   `form:"is_active"`
}

func (f organizationForm) input() ports.OrganizationInput {
	return ports.OrganizationInput{
		Name:         strings.TrimSpace(f.Name),
		Slug:         strings.TrimSpace(f.Slug),
		ContactEmail: strings.TrimSpace(f.ContactEmail),
		Phone:        strings.TrimSpace(f.Phone),
		Address:      strings.TrimSpace(f.Address),
		IsActive:     f.IsActive,
	}
}

type organizationsData struct {
	Items []domain.Organization
}

const organizationsPath = "/admin/organizations"

func (h *OrganizationHandler) ListOrganizations(c echo.Context) error {
	items, err := h.orgs.List(c.Request().Context(), h.cookies.Session(c))
	return show(c, h.cookies, h.log, "organizations", "Organizations", organizationsData{Items: items}, err)
}

func (h *OrganizationHandler) CreateOrganization(c echo.Context) error {
	var form organizationForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.orgs.Create(c.Request().Context(), h.cookies.Session(c), form.input())
	}
	return afterMutation(c, h.cookies, h.log, organizationsPath, "Organization created.", err)
}

// UpdateOrganization saves a full organization record; the list page uses it
// to flip the active flag.
func (h *OrganizationHandler) UpdateOrganization(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form organizationForm
	err = bindForm(c, &form)
	if err == nil {
		err = h.orgs.Update(c.Request().Context(), h.cookies.Session(c), id, form.input())
	}
	return afterMutation(c, h.cookies, h.log, organizationsPath, "Organization updated.", err)
}

func (h *OrganizationHandler) ConfirmDeleteOrganization(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this organization? Its locations and inventory go with it.", organizationsPath)
}

func (h *OrganizationHandler) DeleteOrganization(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.orgs.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, organizationsPath, "Organization deleted.", err)
}

// --- locations ---

type locationForm struct {
	OrganizationID int64  `form:"organization_id" validate:"required"`
	Name           string `form:"name" validate:"notblank"`
	Address        string `form:"address"`
	IsActive       bool   `form:"is_active"`
}

func (f locationForm) input() ports.LocationInput {
	return ports.LocationInput{
		Name:     strings.TrimSpace(f.Name),
		Address:  strings.TrimSpace(f.Address),
		IsActive: f.IsActive,
	}
}

type scopedData[T any] struct {
	Organizations []domain.Organization
	OrgID         int64
	Items         []T
}

func scopedPath(base string, orgID int64) string {
	if orgID <= 0 {
		return base
	}
	return fmt.Sprintf("%s?organization_id=%d", base, orgID)
}

const locationsPath = "/admin/locations"

func (h *OrganizationHandler) ListLocations(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	data := scopedData[domain.Location]{OrgID: queryID(c, "organization_id")}

	orgs, err := h.orgs.List(ctx, s)
	data.Organizations = orgs
	if err == nil && data.OrgID > 0 {
		data.Items, err = h.locations.List(ctx, s, data.OrgID)
	}
	return show(c, h.cookies, h.log, "locations", "Locations", data, err)
}

func (h *OrganizationHandler) CreateLocation(c echo.Context) error {
	var form locationForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.locations.Create(c.Request().Context(), h.cookies.Session(c), form.OrganizationID, form.input())
	}
	return afterMutation(c, h.cookies, h.log, scopedPath(locationsPath, form.OrganizationID), "Location created.", err)
}

func (h *OrganizationHandler) UpdateLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form locationForm
	err = bindForm(c, &form)
	if err == nil {
		err = h.locations.Update(c.Request().Context(), h.cookies.Session(c), id, form.input())
	}
	return afterMutation(c, h.cookies, h.log, scopedPath(locationsPath, form.OrganizationID), "Location updated.", err)
}

func (h *OrganizationHandler) ConfirmDeleteLocation(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this location?", scopedPath(locationsPath, queryID(c, "organization_id")))
}

func (h *OrganizationHandler) DeleteLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.locations.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, scopedPath(locationsPath, queryID(c, "organization_id")), "Location deleted.", err)
}

// --- inventory items ---

type inventoryItemForm struct {
	OrganizationID int64  `form:"organization_id" validate:"required"`
	Name           string `form:"name" validate:"notblank"`
	ProductType    string `form:"product_type" validate:"notblank"`
	IsActive       bool   `form:"is_active"`
}

func (f inventoryItemForm) input() ports.InventoryItemInput {
	return ports.InventoryItemInput{
		Name:        strings.TrimSpace(f.Name),
		ProductType: strings.TrimSpace(f.ProductType),
		IsActive:    f.IsActive,
	}
}

type inventoryData struct {
	scopedData[domain.InventoryItem]
	ProductTypes []domain.ProductType
}

const inventoryPath = "/admin/inventory-items"

func (h *OrganizationHandler) ListInventoryItems(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	data := inventoryData{scopedData: scopedData[domain.InventoryItem]{OrgID: queryID(c, "organization_id")}}

	orgs, err := h.orgs.List(ctx, s)
	data.Organizations = orgs
	if err == nil && data.OrgID > 0 {
		data.Items, err = h.inventory.List(ctx, s, data.OrgID)
	}
	if err == nil && data.OrgID > 0 {
		data.ProductTypes, err = h.productTypes.List(ctx, s, data.OrgID)
	}
	return show(c, h.cookies, h.log, "inventory_items", "Inventory items", data, err)
}

func (h *OrganizationHandler) CreateInventoryItem(c echo.Context) error {
	var form inventoryItemForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.inventory.Create(c.Request().Context(), h.cookies.Session(c), form.OrganizationID, form.input())
	}
	return afterMutation(c, h.cookies, h.log, scopedPath(inventoryPath, form.OrganizationID), "Inventory item created.", err)
}

func (h *OrganizationHandler) UpdateInventoryItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form inventoryItemForm
	err = bindForm(c, &form)
	if err == nil {
		err = h.inventory.Update(c.Request().Context(), h.cookies.Session(c), id, form.input())
	}
	return afterMutation(c, h.cookies, h.log, scopedPath(inventoryPath, form.OrganizationID), "Inventory item updated.", err)
}

func (h *OrganizationHandler) ConfirmDeleteInventoryItem(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this inventory item?", scopedPath(inventoryPath, queryID(c, "organization_id")))
}

func (h *OrganizationHandler) DeleteInventoryItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.inventory.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, scopedPath(inventoryPath, queryID(c, "organization_id")), "Inventory item deleted.", err)
}

// --- product types ---

type productTypeForm struct {
	OrganizationID int64  `form:"organization_id" validate:"required"`
	Name           string `form:"name" validate:"notblank"`
	Code           string `form:"code" validate:"notblank"`
	Description    string `form:"description"`
	IsActive       bool   `form:"is_active"`
}

func (f productTypeForm) input() ports.ProductTypeInput {
	return ports.ProductTypeInput{
		OrganizationID: f.OrganizationID,
		Name:           strings.TrimSpace(f.Name),
		Code:           strings.TrimSpace(f.Code),
		Description:    strings.TrimSpace(f.Description),
		IsActive:       f.IsActive,
	}
}

const productTypesPath = "/admin/product-types"

// ListProductTypes shows every product type, or one organization's when
// ?organization_id= is set.
func (h *OrganizationHandler) ListProductTypes(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	data := scopedData[domain.ProductType]{OrgID: queryID(c, "organization_id")}

	orgs, err := h.orgs.List(ctx, s)
	data.Organizations = orgs
	if err == nil {
		data.Items, err = h.productTypes.List(ctx, s, data.OrgID)
	}
	return show(c, h.cookies, h.log, "product_types", "Product types", data, err)
}

func (h *OrganizationHandler) CreateProductType(c echo.Context) error {
	var form productTypeForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.productTypes.Create(c.Request().Context(), h.cookies.Session(c), form.input())
	}
	return afterMutation(c, h.cookies, h.log, scopedPath(productTypesPath, form.OrganizationID), "Product type created.", err)
}

func (h *OrganizationHandler) UpdateProductType(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form productTypeForm
	err = bindForm(c, &form)
	if err == nil {
		err = h.productTypes.Update(c.Request().Context(), h.cookies.Session(c), id, form.input())
	}
	return afterMutation(c, h.cookies, h.log, scopedPath(productTypesPath, form.OrganizationID), "Product type updated.", err)
}

func (h *OrganizationHandler) ConfirmDeleteProductType(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this product type? Inventory items that use it keep their code.", productTypesPath)
}

func (h *OrganizationHandler) DeleteProductType(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.productTypes.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, productTypesPath, "Product type deleted.", err)
}
