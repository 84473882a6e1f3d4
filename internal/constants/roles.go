package constants

// User roles
const (
	RoleCustomer = "CUSTOMER"
	RoleVendor   = "VENDOR"
	RoleAdmin    = "ADMIN"
)

// ValidRoles lists every role a user record may carry.
var ValidRoles = []string{RoleCustomer, RoleVendor, RoleAdmin}

// StaffRoles are roles allowed through the staff-facing authorization variant.
var StaffRoles = []string{RoleAdmin, RoleVendor}

// IsValidRole reports whether role is one of the enumerated roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
