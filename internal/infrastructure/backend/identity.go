package backend

import (
	"encoding/json"
	"fmt"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// pickRole finds a role hint in a login or me payload. The first non-empty
// candidate wins:
//
//	role, user.role, master_role, user.master_role, roles[0], user.roles[0]
func pickRole(data json.RawMessage) string {
	var top map[string]json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &top) != nil {
		return ""
	}
	var user map[string]json.RawMessage
	if raw, ok := top["user"]; ok {
		_ = json.Unmarshal(raw, &user)
	}

	candidates := []json.RawMessage{
		top["role"], user["role"],
		top["master_role"], user["master_role"],
		firstOf(top["roles"]), firstOf(user["roles"]),
	}
	for _, c := range candidates {
		if name := roleName(c); name != "" {
			return name
		}
	}
	return ""
}

// roleName accepts either "name" or {"name": "..."}.
func roleName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Name
	}
	return ""
}

func firstOf(raw json.RawMessage) json.RawMessage {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || len(items) == 0 {
		return nil
	}
	return items[0]
}

type mePayload struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	OrganizationID *int64            `json:"organization_id"`
	Role           json.RawMessage   `json:"role"`
	MasterRole     json.RawMessage   `json:"master_role"`
	Roles          []json.RawMessage `json:"roles"`
}

// parseUser reads the authenticated user out of /api/auth/me. The user may be
// the payload itself or nested under "user" or "data". Its roles array and
// master role are merged into one set.
func parseUser(data json.RawMessage) (domain.User, error) {
	var wrapper struct {
		User json.RawMessage `json:"user"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	body := data
	switch {
	case isObject(wrapper.User):
		body = wrapper.User
	case isObject(wrapper.Data):
		body = wrapper.Data
	}

	var p mePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	roles := domain.NewRoleSet()
	for _, r := range p.Roles {
		roles.Add(roleName(r))
	}
	roles.Add(roleName(p.MasterRole))
	roles.Add(roleName(p.Role))

	return domain.User{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		OrganizationID: p.OrganizationID,
		Roles:          roles,
	}, nil
}

func isObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
