package accounts

// Role is a user's role
type Role = string

const (
	// RoleUser is the only role login issues
	RoleUser Role = "USER"
	// RoleAdmin is reserved; no code path mints admin tokens yet
	RoleAdmin Role = "ADMIN"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}
