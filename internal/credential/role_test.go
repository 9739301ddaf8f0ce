// ABOUTME: Tests for role predicates including nil-identity safety
// ABOUTME: Verifies admin/manager visibility gating rules

package credential

import "testing"

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		name        string
		identity    *Identity
		wantAdmin   bool
		wantManager bool
	}{
		{name: "nil identity", identity: nil, wantAdmin: false, wantManager: false},
		{name: "user", identity: &Identity{Role: RoleUser}, wantAdmin: false, wantManager: false},
		{name: "manager", identity: &Identity{Role: RoleManager}, wantAdmin: false, wantManager: true},
		{name: "admin", identity: &Identity{Role: RoleAdmin}, wantAdmin: true, wantManager: true},
		{name: "unknown role", identity: &Identity{Role: Role("AUDITOR")}, wantAdmin: false, wantManager: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.IsAdmin(); got != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.wantAdmin)
			}
			if got := tt.identity.IsManager(); got != tt.wantManager {
				t.Errorf("IsManager() = %v, want %v", got, tt.wantManager)
			}
		})
	}
}
