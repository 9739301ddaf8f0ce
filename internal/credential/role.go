// ABOUTME: Role constants and display-only permission predicates
// ABOUTME: Visibility gating for console views, not a security boundary

package credential

// Role is the access level carried in a credential or login response.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// IsAdmin reports whether the identity carries the admin role.
// Safe to call on a nil Identity (anonymous session).
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}

// IsManager reports whether the identity carries manager-level access.
// Admins are managers. Safe to call on a nil Identity.
func (id *Identity) IsManager() bool {
	return id != nil && (id.Role == RoleManager || id.Role == RoleAdmin)
}
