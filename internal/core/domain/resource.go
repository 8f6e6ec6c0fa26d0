package domain

// The records below are owned by the backend. The console only holds them for
// the duration of one render, so every field mirrors the backend's JSON.

type Organization struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	IsActive     Flag   `json:"is_active"`
}

type Location struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	IsActive       Flag   `json:"is_active"`
}

// UserRef is the short user shape embedded in other records.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	EngineerLevelJunior = "junior"
	EngineerLevelMid    = "mid"
	EngineerLevelSenior = "senior"
	EngineerLevelLead   = "lead"
)

var EngineerLevels = []string{EngineerLevelJunior, EngineerLevelMid, EngineerLevelSenior, EngineerLevelLead}

type Engineer struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"user_id"`
	Title    string   `json:"title,omitempty"`
	Level    string   `json:"level,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	IsActive Flag     `json:"is_active"`
	User     *UserRef `json:"user,omitempty"`
}

const (
	ContractActive     = "active"
	ContractExpired    = "expired"
	ContractTerminated = "terminated"
)

var ContractStatuses = []string{ContractActive, ContractExpired, ContractTerminated}

type Contract struct {
	ID                    int64         `json:"id"`
	OrganizationID        int64         `json:"organization_id"`
	ContractNumber        string        `json:"contract_number"`
	StartDate             string        `json:"start_date"`
	EndDate               string        `json:"end_date"`
	Status                string        `json:"status"`
	ReminderDaysBeforeEnd int           `json:"reminder_days_before_end"`
	Notes                 string        `json:"notes,omitempty"`
	Organization          *Organization `json:"organization,omitempty"`
}

type InventoryItem struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	ProductType    string `json:"product_type"`
	IsActive       Flag   `json:"is_active"`
}

type ProductType struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Description    string `json:"description,omitempty"`
	IsActive       Flag   `json:"is_active"`
}

type TeamGroup struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive Flag   `json:"is_active"`
}

type MasterRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AdminUser struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	OrganizationID *int64        `json:"organization_id"`
	LocationID     *int64        `json:"location_id"`
	MasterRoleID   *int64        `json:"master_role_id"`
	Organization   *Organization `json:"organization,omitempty"`
	Location       *Location     `json:"location,omitempty"`
	MasterRole     *MasterRole   `json:"master_role,omitempty"`
}

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

var TicketPriorities = []string{PriorityLow, PriorityNormal, PriorityHigh}

type Ticket struct {
	ID                      int64  `json:"id"`
	Code                    string `json:"code,omitempty"`
	Subject                 string `json:"subject"`
	Description             string `json:"description"`
	Priority                string `json:"priority"`
	Status                  string `json:"status,omitempty"`
	ActionNumber            string `json:"action_number,omitempty"`
	RequestedResolutionDate string `json:"requested_resolution_date,omitempty"`
	ExpectedDate            string `json:"expected_date,omitempty"`
	CreatedAt               string `json:"created_at,omitempty"`
}
