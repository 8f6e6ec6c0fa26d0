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

// StaffHandler serves the people side of administration: engineers, team
// groups with their members, and user accounts.
type StaffHandler struct {
	engineers ports.EngineerClient
	groups    ports.TeamGroupClient
	members   ports.TeamMemberClient
	users     ports.UserClient
	orgs      ports.OrganizationClient
	locations ports.LocationClient
	cookies   websession.Cookies
	log       zerolog.Logger
}

// StaffClients groups the backend clients StaffHandler needs.
type StaffClients struct {
	Engineers     ports.EngineerClient
	TeamGroups    ports.TeamGroupClient
	TeamMembers   ports.TeamMemberClient
	Users         ports.UserClient
	Organizations ports.OrganizationClient
	Locations     ports.LocationClient
}

func NewStaffHandler(clients StaffClients, cookies websession.Cookies, log zerolog.Logger) *StaffHandler {
	return &StaffHandler{
		engineers: clients.Engineers,
		groups:    clients.TeamGroups,
		members:   clients.TeamMembers,
		users:     clients.Users,
		orgs:      clients.Organizations,
		locations: clients.Locations,
		cookies:   cookies,
		log:       log,
	}
}

// --- engineers ---

type engineerForm struct {
	UserID   int64  `form:"user_id" validate:"required"`
	Title    string `form:"title"`
	Level    string `form:"level"`
	Phone    string `form:"phone"`
	IsActive bool   `form:"is_active"`
}

type engineersData struct {
	Items      []domain.Engineer
	Candidates []domain.UserRef
}

const engineersPath = "/admin/engineers"

func (h *StaffHandler) ListEngineers(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	var data engineersData
	var err error
	data.Items, err = h.engineers.List(ctx, s)
	if err == nil {
		data.Candidates, err = h.engineers.Candidates(ctx, s)
	}
	return show(c, h.cookies, h.log, "engineers", "Engineers", data, err)
}

func (h *StaffHandler) CreateEngineer(c echo.Context) error {
	var form engineerForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.engineers.Create(c.Request().Context(), h.cookies.Session(c), ports.EngineerInput{
			UserID:   form.UserID,
			Title:    strings.TrimSpace(form.Title),
			Level:    form.Level,
			Phone:    strings.TrimSpace(form.Phone),
			IsActive: form.IsActive,
		})
	}
	return afterMutation(c, h.cookies, h.log, engineersPath, "Engineer registered.", err)
}

func (h *StaffHandler) ConfirmDeleteEngineer(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Remove this engineer from the roster? The user account stays.", engineersPath)
}

func (h *StaffHandler) DeleteEngineer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.engineers.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, engineersPath, "Engineer removed.", err)
}

// --- team groups ---

type teamGroupForm struct {
	Name     string `form:"name" validate:"notblank"`
	Code     string `form:"code" validate:"notblank"`
	IsActive bool   `form:"is_active"`
}

type teamGroupsData struct {
	Items []domain.TeamGroup
}

const teamGroupsPath = "/admin/team-groups"

func (h *StaffHandler) ListTeamGroups(c echo.Context) error {
	items, err := h.groups.List(c.Request().Context(), h.cookies.Session(c))
	return show(c, h.cookies, h.log, "team_groups", "Team groups", teamGroupsData{Items: items}, err)
}

func (h *StaffHandler) CreateTeamGroup(c echo.Context) error {
	var form teamGroupForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.groups.Create(c.Request().Context(), h.cookies.Session(c), ports.TeamGroupInput{
			Name:     strings.TrimSpace(form.Name),
			Code:     strings.TrimSpace(form.Code),
			IsActive: form.IsActive,
		})
	}
	return afterMutation(c, h.cookies, h.log, teamGroupsPath, "Team group created.", err)
}

func (h *StaffHandler) ConfirmDeleteTeamGroup(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this team group?", teamGroupsPath)
}

func (h *StaffHandler) DeleteTeamGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.groups.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, teamGroupsPath, "Team group deleted.", err)
}

// --- team members ---

type teamMemberForm struct {
	TeamGroupID int64 `form:"team_group_id" validate:"required"`
	UserID      int64 `form:"user_id" validate:"required"`
}

type teamMembersData struct {
	Groups  []domain.TeamGroup
	GroupID int64
	Members []domain.UserRef
	Users   []domain.AdminUser
}

func teamMembersPath(groupID int64) string {
	if groupID <= 0 {
		return "/admin/team-members"
	}
	return fmt.Sprintf("/admin/team-members?team_group_id=%d", groupID)
}

func (h *StaffHandler) ListTeamMembers(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	data := teamMembersData{GroupID: queryID(c, "team_group_id")}

	var err error
	data.Groups, err = h.groups.List(ctx, s)
	if err == nil && data.GroupID > 0 {
		data.Members, err = h.members.List(ctx, s, data.GroupID)
	}
	if err == nil && data.GroupID > 0 {
		data.Users, err = h.users.List(ctx, s)
	}
	return show(c, h.cookies, h.log, "team_members", "Team members", data, err)
}

func (h *StaffHandler) AssignTeamMember(c echo.Context) error {
	var form teamMemberForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.members.Assign(c.Request().Context(), h.cookies.Session(c), form.TeamGroupID, form.UserID)
	}
	return afterMutation(c, h.cookies, h.log, teamMembersPath(form.TeamGroupID), "Member assigned.", err)
}

func (h *StaffHandler) ConfirmRemoveTeamMember(c echo.Context) error {
	groupID, err := pathID(c, "group")
	if err != nil {
		return err
	}
	if _, err := pathID(c, "user"); err != nil {
		return err
	}
	return confirmDelete(c, "Remove this member from the team group?", teamMembersPath(groupID))
}

func (h *StaffHandler) RemoveTeamMember(c echo.Context) error {
	groupID, err := pathID(c, "group")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user")
	if err != nil {
		return err
	}
	err = h.members.Remove(c.Request().Context(), h.cookies.Session(c), groupID, userID)
	return afterMutation(c, h.cookies, h.log, teamMembersPath(groupID), "Member removed.", err)
}

// --- users ---

type userForm struct {
	Name           string `form:"name" validate:"notblank"`
	Email          string `form:"email" validate:"notblank"`
	Password       string `form:"password" validate:"required,min=8"`
	OrganizationID int64  `form:"organization_id" validate:"required"`
	LocationID     int64  `form:"location_id"`
	MasterRoleID   int64  `form:"master_role_id" validate:"required"`
}

type usersData struct {
	Items         []domain.AdminUser
	Organizations []domain.Organization
	OrgID         int64
	Locations     []domain.Location
	MasterRoles   []domain.MasterRole
}

const usersPath = "/admin/users"

// ListUsers also loads the locations of ?organization_id= so the create
// form can offer them.
func (h *StaffHandler) ListUsers(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	data := usersData{OrgID: queryID(c, "organization_id")}

	var err error
	data.Items, err = h.users.List(ctx, s)
	if err == nil {
		data.Organizations, err = h.orgs.List(ctx, s)
	}
	if err == nil {
		data.MasterRoles, err = h.users.MasterRoles(ctx, s)
	}
	if err == nil && data.OrgID > 0 {
		data.Locations, err = h.locations.List(ctx, s, data.OrgID)
	}
	return show(c, h.cookies, h.log, "users", "Users", data, err)
}

func (h *StaffHandler) CreateUser(c echo.Context) error {
	var form userForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.users.Create(c.Request().Context(), h.cookies.Session(c), ports.UserInput{
			Name:           strings.TrimSpace(form.Name),
			Email:          strings.TrimSpace(form.Email),
			Password:       form.Password,
			OrganizationID: optionalID(form.OrganizationID),
			LocationID:     optionalID(form.LocationID),
			MasterRoleID:   optionalID(form.MasterRoleID),
		})
	}
	return afterMutation(c, h.cookies, h.log, usersPath, "User created.", err)
}

type userUpdateForm struct {
	Name           string `form:"name" validate:"notblank"`
	Email          string `form:"email" validate:"notblank"`
	OrganizationID int64  `form:"organization_id"`
	LocationID     int64  `form:"location_id"`
	MasterRoleID   int64  `form:"master_role_id" validate:"required"`
}

// UpdateUser saves an account without touching its password; the list page
// uses it to change a user's master role.
func (h *StaffHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form userUpdateForm
	err = bindForm(c, &form)
	if err == nil {
		err = h.users.Update(c.Request().Context(), h.cookies.Session(c), id, ports.UserInput{
			Name:           strings.TrimSpace(form.Name),
			Email:          strings.TrimSpace(form.Email),
			OrganizationID: optionalID(form.OrganizationID),
			LocationID:     optionalID(form.LocationID),
			MasterRoleID:   optionalID(form.MasterRoleID),
		})
	}
	return afterMutation(c, h.cookies, h.log, usersPath, "User updated.", err)
}

func (h *StaffHandler) ConfirmDeleteUser(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this user account?", usersPath)
}

func (h *StaffHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.users.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, usersPath, "User deleted.", err)
}
