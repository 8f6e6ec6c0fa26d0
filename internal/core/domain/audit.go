package domain

import "time"

type AccessEventKind string

const (
	AccessLoginSucceeded  AccessEventKind = "login_succeeded"
	AccessLoginFailed     AccessEventKind = "login_failed"
	AccessLoginThrottled  AccessEventKind = "login_throttled"
	AccessLogout          AccessEventKind = "logout"
	AccessSessionRejected AccessEventKind = "session_rejected"
	AccessDenied          AccessEventKind = "access_denied"
)

// AccessEvent is one entry of the console's access audit trail.
type AccessEvent struct {
	ID        string
	Kind      AccessEventKind
	Email     string
	Path      string
	Roles     []string
	RemoteIP  string
	RequestID string
	Detail    string
	At        time.Time
}
