package domain

import "time"

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Permission strings derived from a user's role. Fine-grained capabilities
// are never stored; they are always recomputed from the role.
const (
	PermReadOwnTasks   = "read:own-tasks"
	PermReadAllTasks   = "read:all-tasks"
	PermCreateTasks    = "create:tasks"
	PermUpdateAllTasks = "update:all-tasks"
	PermDeleteAllTasks = "delete:all-tasks"
	PermManageUsers    = "manage:users"
)

// rolePermissions is the single source of truth for the role → permission
// mapping. Roles absent from this table carry no permissions at all.
var rolePermissions = map[string][]string{
	RoleUser:    {PermReadOwnTasks, PermCreateTasks},
	RoleManager: {PermReadAllTasks, PermCreateTasks, PermUpdateAllTasks},
	RoleAdmin:   {PermReadAllTasks, PermCreateTasks, PermUpdateAllTasks, PermDeleteAllTasks, PermManageUsers},
}

// ValidRole reports whether role is one of the three enumerated roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleManager || role == RoleAdmin
}

// PermissionsFor returns the permission set derived from role. Unknown roles
// yield an empty set (fail-closed). The returned slice is a copy.
func PermissionsFor(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the given role carries the permission.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Profile is the optional free-form sub-record attached to a user.
type Profile struct {
	Avatar      string
	Department  string
	PhoneNumber string
}

// User models one authenticated principal. SubjectID is the stable subject
// identifier issued by the external identity provider and is immutable after
// creation.
type User struct {
	ID          string
	SubjectID   string
	Email       string
	DisplayName string
	Role        string
	Active      bool
	LastLogin   time.Time
	Profile     *Profile
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Identity is the verified result of an identity-provider token check.
// ExpiresAt is zero when the token carries no expiry claim.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}
