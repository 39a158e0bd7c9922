package rbac

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role Role
		perm string
		want bool
	}{
		{RoleAdmin, PermitsWrite, true},
		{RoleAdmin, "anything:at-all", true},
		{RoleCoordinator, DocumentsWrite, true},
		{RoleCoordinator, InvoicesWrite, false},
		{RoleBilling, PermitsRead, true},
		{RoleBilling, PermitsWrite, false},
		{RoleBilling, InvoicesWrite, true},
		{RoleContractor, DocumentsWrite, true},
		{RoleContractor, AuditRead, false},
		{RoleInspector, InspectionsWrite, true},
		{RoleInspector, DocumentsWrite, false},
		{Role("GHOST"), PermitsRead, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.perm, func(t *testing.T) {
			require.Equal(t, tt.want, HasPermission(tt.role, tt.perm))
		})
	}
}

func TestHasPermissionNoPrefixMatching(t *testing.T) {
	require.False(t, HasPermission(RoleCoordinator, "permits"))
	require.False(t, HasPermission(RoleCoordinator, "permits:*"))
	require.False(t, HasPermission(RoleCoordinator, "permits:read:all"))
}

func TestRequirePermission(t *testing.T) {
	require.NoError(t, RequirePermission(RoleAdmin, PermitsWrite))

	err := RequirePermission(RoleBilling, PermitsWrite)
	require.ErrorIs(t, err, apperr.ErrAuthorization)
	e, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, e.Status)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" coordinator ")
	require.True(t, ok)
	require.Equal(t, RoleCoordinator, r)

	_, ok = ParseRole("root")
	require.False(t, ok)
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := Permissions(RoleBilling)
	perms[0] = Wildcard
	require.False(t, HasPermission(RoleBilling, "invoices:delete"))
}

func TestEveryRoleIsValid(t *testing.T) {
	for _, r := range Roles() {
		require.True(t, r.Valid(), r)
	}
}
