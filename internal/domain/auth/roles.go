package auth

import "strings"

const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var Roles = []string{RoleEmployee, RoleAdmin, RoleSuperAdmin}

// IsAdmin reports whether role carries admin-equivalent rights.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// NormalizeRole maps anything that is not an explicit admin role to employee.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSuperAdmin, "superadmin", "super-admin":
		return RoleSuperAdmin
	default:
		return RoleEmployee
	}
}

type UserContext struct {
	UserID    string
	Email     string
	Role      string
	SessionID string
}

func (u UserContext) IsAdmin() bool {
	return IsAdmin(u.Role)
}
