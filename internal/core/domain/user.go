package domain

import (
	"sort"
	"strings"
)

const (
	RoleSuperAdmin  = "superadmin"
	RoleViriyaStaff = "viriyastaff"
	RoleCustStaff   = "custstaff"
	RoleEndUser     = "enduser"
)

// roleAliases maps the spellings the backend has used over time onto the
// canonical tags used by the access table.
var roleAliases = map[string]string{
	"super-admin":      RoleSuperAdmin,
	"super_admin":      RoleSuperAdmin,
	"admin":            RoleSuperAdmin,
	"engineer-manager": RoleViriyaStaff,
	"engineer-staff":   RoleViriyaStaff,
	"end-user":         RoleEndUser,
}

// NormalizeRole lower-cases a role tag and resolves known aliases.
// Unknown tags are kept as-is so new backend roles can still be matched.
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if canonical, ok := roleAliases[r]; ok {
		return canonical
	}
	return r
}

// RoleSet is the single representation of a user's roles.
type RoleSet map[string]struct{}

func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set.Add(r)
	}
	return set
}

func (s RoleSet) Add(role string) {
	if r := NormalizeRole(role); r != "" {
		s[r] = struct{}{}
	}
}

func (s RoleSet) Has(role string) bool {
	_, ok := s[NormalizeRole(role)]
	return ok
}

// HasAny reports whether the set intersects roles.
func (s RoleSet) HasAny(roles []string) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// User is the authenticated principal as reported by /api/auth/me.
type User struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	OrganizationID *int64  `json:"organization_id,omitempty"`
	Roles          RoleSet `json:"-"`
}

// PrimaryRole picks one role for display and post-login routing.
func (u *User) PrimaryRole() string {
	for _, r := range []string{RoleSuperAdmin, RoleViriyaStaff, RoleCustStaff, RoleEndUser} {
		if u.Roles.Has(r) {
			return r
		}
	}
	if roles := u.Roles.Slice(); len(roles) > 0 {
		return roles[0]
	}
	return ""
}

// HomePath is where a user lands after login when no safe next path was given.
func HomePath(role string) string {
	switch NormalizeRole(role) {
	case RoleSuperAdmin:
		return "/admin"
	case RoleViriyaStaff:
		return "/engineer"
	default:
		return "/portal"
	}
}

// Session is the client-side view of a login: the opaque bearer token plus a
// best-effort role hint. The role is never used for authorization.
type Session struct {
	Token string
	Role  string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool { return s.Token != "" }
