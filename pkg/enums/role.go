package enums

import "fmt"

// Role is the account type. The Spanish values are the wire/storage format
// the frontend has always used.
type Role string

const (
	RoleAdoptante Role = "Adoptante"
	RoleRefugio   Role = "Refugio"
	RoleAdmin     Role = "Admin"
)

var validRoles = []Role{
	RoleAdoptante,
	RoleRefugio,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// RequiresUsername reports whether accounts of this role carry a username.
// Shelters never do.
func (r Role) RequiresUsername() bool {
	return r == RoleAdoptante || r == RoleAdmin
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
