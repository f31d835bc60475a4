package domain

import "time"

// Audit actions recorded for every mutating operation.
const (
	AuditTaskCreate       = "task.create"
	AuditTaskUpdate       = "task.update"
	AuditTaskDelete       = "task.delete"
	AuditUserRoleChange   = "user.role_change"
	AuditUserStatusToggle = "user.status_toggle"
	AuditUserDelete       = "user.delete"
)

// AuditEntry records one administrative or task mutation for the audit trail.
type AuditEntry struct {
	ID     string
	Actor  string // subject id of the acting user
	Action string
	Target string // task id or target subject id
	Detail string
	At     time.Time
}
