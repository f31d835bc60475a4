package domain

import "testing"

func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		role string
		want []string
	}{
		{RoleUser, []string{PermReadOwnTasks, PermCreateTasks}},
		{RoleManager, []string{PermReadAllTasks, PermCreateTasks, PermUpdateAllTasks}},
		{RoleAdmin, []string{PermReadAllTasks, PermCreateTasks, PermUpdateAllTasks, PermDeleteAllTasks, PermManageUsers}},
		{"superuser", []string{}}, // unknown role carries nothing
		{"", []string{}},
	}

	for _, tt := range tests {
		got := PermissionsFor(tt.role)
		if len(got) != len(tt.want) {
			t.Errorf("PermissionsFor(%q) = %v, want %v", tt.role, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("PermissionsFor(%q)[%d] = %q, want %q", tt.role, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleUser)
	perms[0] = "tampered"

	if got := PermissionsFor(RoleUser)[0]; got != PermReadOwnTasks {
		t.Errorf("mutating a returned slice leaked into the table: got %q", got)
	}
}

func TestHasPermission(t *testing.T) {
	if !HasPermission(RoleAdmin, PermManageUsers) {
		t.Error("admin should carry manage:users")
	}
	if HasPermission(RoleManager, PermManageUsers) {
		t.Error("manager should not carry manage:users")
	}
	if HasPermission(RoleUser, PermReadAllTasks) {
		t.Error("user should not carry read:all-tasks")
	}
	if HasPermission("superuser", PermCreateTasks) {
		t.Error("unknown role should carry nothing")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleManager, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "superuser", "Admin", "ADMIN"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}
