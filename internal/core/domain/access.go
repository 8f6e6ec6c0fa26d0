package domain

import "strings"

// AccessRule grants a path prefix to a set of roles.
type AccessRule struct {
	Prefix string
	Roles  []string
}

var allStaff = []string{RoleSuperAdmin, RoleViriyaStaff, RoleCustStaff, RoleEndUser}

// AccessRules is evaluated top to bottom; the first matching prefix decides.
var AccessRules = []AccessRule{
	{Prefix: "/admin", Roles: []string{RoleSuperAdmin}},
	{Prefix: "/engineers", Roles: []string{RoleSuperAdmin, RoleViriyaStaff}},
	{Prefix: "/engineer", Roles: []string{RoleSuperAdmin, RoleViriyaStaff}},
	{Prefix: "/portal", Roles: allStaff},
	{Prefix: "/profile", Roles: allStaff},
}

// PublicPaths need no session at all.
var PublicPaths = map[string]struct{}{
	"/":             {},
	"/login":        {},
	"/register":     {},
	"/unauthorized": {},
}

var bypassPrefixes = []string{"/static/", "/api/", "/swagger/"}

// bypassRoots cover the exact path and anything below it, never a sibling
// like "/healthcare".
var bypassRoots = []string{"/health", "/metrics"}

// Bypassed reports whether the guard should ignore path entirely: static
// assets, API routes and operational endpoints.
func Bypassed(path string) bool {
	for _, p := range bypassPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	for _, p := range bypassRoots {
		if covers(p, path) {
			return true
		}
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

func IsPublic(path string) bool {
	_, ok := PublicPaths[path]
	return ok
}

// MatchRule returns the first rule whose prefix covers path. A prefix covers
// the exact path and anything below it, never a sibling like "/administrator".
func MatchRule(path string) (AccessRule, bool) {
	for _, rule := range AccessRules {
		if covers(rule.Prefix, path) {
			return rule, true
		}
	}
	return AccessRule{}, false
}

func covers(prefix, path string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Authorize reports whether roles may open path. Paths without a rule are open
// to any authenticated user.
func Authorize(path string, roles RoleSet) bool {
	rule, ok := MatchRule(path)
	if !ok {
		return true
	}
	return roles.HasAny(rule.Roles)
}

// SafeNext returns next when it is a local absolute path, otherwise "".
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}
