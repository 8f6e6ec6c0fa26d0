package ports

import (
	"context"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// Every resource call takes the caller's session explicitly; clients never
// look a token up on their own.

type OrganizationInput struct {
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	IsActive     bool   `json:"is_active"`
}

type OrganizationClient interface {
	List(ctx context.Context, s domain.Session) ([]domain.Organization, error)
	Create(ctx context.Context, s domain.Session, in OrganizationInput) error
	Update(ctx context.Context, s domain.Session, id int64, in OrganizationInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type LocationInput struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	IsActive bool   `json:"is_active"`
}

type LocationClient interface {
	List(ctx context.Context, s domain.Session, orgID int64) ([]domain.Location, error)
	Create(ctx context.Context, s domain.Session, orgID int64, in LocationInput) error
	Update(ctx context.Context, s domain.Session, id int64, in LocationInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type EngineerInput struct {
	UserID   int64  `json:"user_id"`
	Title    string `json:"title,omitempty"`
	Level    string `json:"level,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

type EngineerClient interface {
	List(ctx context.Context, s domain.Session) ([]domain.Engineer, error)
	Candidates(ctx context.Context, s domain.Session) ([]domain.UserRef, error)
	Create(ctx context.Context, s domain.Session, in EngineerInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type ContractInput struct {
	OrganizationID        int64  `json:"organization_id"`
	ContractNumber        string `json:"contract_number"`
	StartDate             string `json:"start_date"`
	EndDate               string `json:"end_date"`
	Status                string `json:"status,omitempty"`
	ReminderDaysBeforeEnd int    `json:"reminder_days_before_end"`
	Notes                 string `json:"notes,omitempty"`
}

type ContractClient interface {
	List(ctx context.Context, s domain.Session) ([]domain.Contract, error)
	Create(ctx context.Context, s domain.Session, in ContractInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type InventoryItemInput struct {
	Name        string `json:"name"`
	ProductType string `json:"product_type"`
	IsActive    bool   `json:"is_active"`
}

type InventoryItemClient interface {
	List(ctx context.Context, s domain.Session, orgID int64) ([]domain.InventoryItem, error)
	Create(ctx context.Context, s domain.Session, orgID int64, in InventoryItemInput) error
	Update(ctx context.Context, s domain.Session, id int64, in InventoryItemInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type ProductTypeInput struct {
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Description    string `json:"description,omitempty"`
	IsActive       bool   `json:"is_active"`
}

type ProductTypeClient interface {
	// List filters by organization when orgID > 0.
	List(ctx context.Context, s domain.Session, orgID int64) ([]domain.ProductType, error)
	Create(ctx context.Context, s domain.Session, in ProductTypeInput) error
	Update(ctx context.Context, s domain.Session, id int64, in ProductTypeInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type TeamGroupInput struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

type TeamGroupClient interface {
	List(ctx context.Context, s domain.Session) ([]domain.TeamGroup, error)
	Create(ctx context.Context, s domain.Session, in TeamGroupInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type TeamMemberClient interface {
	List(ctx context.Context, s domain.Session, groupID int64) ([]domain.UserRef, error)
	Assign(ctx context.Context, s domain.Session, groupID, userID int64) error
	Remove(ctx context.Context, s domain.Session, groupID, userID int64) error
}

type UserInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	OrganizationID *int64 `json:"organization_id"`
	LocationID     *int64 `json:"location_id"`
	MasterRoleID   *int64 `json:"master_role_id"`
}

type UserClient interface {
	List(ctx context.Context, s domain.Session) ([]domain.AdminUser, error)
	MasterRoles(ctx context.Context, s domain.Session) ([]domain.MasterRole, error)
	Create(ctx context.Context, s domain.Session, in UserInput) error
	Update(ctx context.Context, s domain.Session, id int64, in UserInput) error
	Delete(ctx context.Context, s domain.Session, id int64) error
}

type TicketInput struct {
	Subject                 string `json:"subject"`
	Description             string `json:"description"`
	Priority                string `json:"priority,omitempty"`
	ActionNumber            string `json:"action_number,omitempty"`
	RequestedResolutionDate string `json:"requested_resolution_date,omitempty"`
	ExpectedDate            string `json:"expected_date,omitempty"`
}

type TicketClient interface {
	List(ctx context.Context, s domain.Session) ([]domain.Ticket, error)
	Create(ctx context.Context, s domain.Session, in TicketInput) error
}
