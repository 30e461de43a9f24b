package enums

import "fmt"

// UserRole is the primary role carried in access tokens minted by the
// identity service.
type UserRole string

const (
	UserRoleCustomer         UserRole = "customer"
	UserRoleVendor           UserRole = "vendor"
	UserRoleCourier          UserRole = "courier"
	UserRoleWarehouseManager UserRole = "warehouse_manager"
	UserRoleStaff            UserRole = "staff"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleVendor,
	UserRoleCourier,
	UserRoleWarehouseManager,
	UserRoleStaff,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
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
