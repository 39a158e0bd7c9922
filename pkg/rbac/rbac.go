// Package rbac holds the static role to permission table and the checks
// built on it.
package rbac

import (
	"strings"

	"github.com/aussiebroadwan/permits/pkg/apperr"
)

// Role is a user's role.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
	RoleBilling     Role = "BILLING"
	RoleContractor  Role = "CONTRACTOR"
	RoleInspector   Role = "INSPECTOR"
)

// Wildcard grants every permission.
const Wildcard = "*"

// Permission names.
const (
	PermitsRead      = "permits:read"
	PermitsWrite     = "permits:write"
	JobsRead         = "jobs:read"
	JobsWrite        = "jobs:write"
	DocumentsRead    = "documents:read"
	DocumentsWrite   = "documents:write"
	TasksRead        = "tasks:read"
	TasksWrite       = "tasks:write"
	InvoicesRead     = "invoices:read"
	InvoicesWrite    = "invoices:write"
	InspectionsRead  = "inspections:read"
	InspectionsWrite = "inspections:write"
	AuditRead        = "audit:read"
)

var rolePermissions = map[Role][]string{
	RoleAdmin: {Wildcard},
	RoleCoordinator: {
		PermitsRead, PermitsWrite,
		JobsRead, JobsWrite,
		DocumentsRead, DocumentsWrite,
		TasksRead, TasksWrite,
	},
	RoleBilling: {
		PermitsRead,
		JobsRead,
		DocumentsRead,
		InvoicesRead, InvoicesWrite,
	},
	RoleContractor: {
		PermitsRead, PermitsWrite,
		JobsRead,
		DocumentsRead, DocumentsWrite,
		InspectionsRead,
	},
	RoleInspector: {
		PermitsRead,
		DocumentsRead,
		InspectionsRead, InspectionsWrite,
	},
}

// Roles returns every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleCoordinator, RoleBilling, RoleContractor, RoleInspector}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) String() string { return string(r) }

// ParseRole maps s onto a known role, ignoring case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Permissions returns a copy of the permissions granted to role.
func Permissions(role Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether role grants perm. A permission matches only
// by exact string or through the wildcard; "permits:*" is not a pattern.
func HasPermission(role Role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == Wildcard || p == perm {
			return true
		}
	}
	return false
}

// RequirePermission returns an authorization error when role lacks perm.
func RequirePermission(role Role, perm string) error {
	if !HasPermission(role, perm) {
		return apperr.Authorization("Insufficient permissions")
	}
	return nil
}
