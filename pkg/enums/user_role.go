package enums

import "fmt"

// UserRole represents the account-level permissions role.
type UserRole string

const (
	UserRoleUser     UserRole = "USER"
	UserRoleEmployee UserRole = "EMPLOYEE"
	UserRoleAdmin    UserRole = "ADMIN"
)

var validUserRoles = []UserRole{
	UserRoleUser,
	UserRoleEmployee,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role may manage orders.
func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleEmployee
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
