package enums

import "fmt"

// DashboardRole is the audience role carried in access token claims.
type DashboardRole string

const (
	// DashboardRoleAdmin covers agency/admin operators with portfolio-wide access.
	DashboardRoleAdmin DashboardRole = "admin"
	// DashboardRoleBrand covers brand owners scoped to their claim brands.
	DashboardRoleBrand DashboardRole = "brand"
	// DashboardRoleCreator covers individual content creators.
	DashboardRoleCreator DashboardRole = "creator"
)

var validDashboardRoles = []DashboardRole{
	DashboardRoleAdmin,
	DashboardRoleBrand,
	DashboardRoleCreator,
}

// String implements fmt.Stringer.
func (r DashboardRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known DashboardRole.
func (r DashboardRole) IsValid() bool {
	for _, candidate := range validDashboardRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseDashboardRole converts raw input into a DashboardRole.
func ParseDashboardRole(value string) (DashboardRole, error) {
	for _, candidate := range validDashboardRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dashboard role %q", value)
}
