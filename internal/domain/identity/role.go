package identity

import (
	"strings"

	"github.com/shop/storefront/internal/domain/shared"
)

// Role is a fixed application role
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleCustomer Role = "Customer"
)

// AllRoles lists roles in display order
var AllRoles = []Role{RoleAdmin, RoleManager, RoleCustomer}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCustomer:
		return true
	}
	return false
}

// CanManageStore reports whether the role grants access to the admin area
func (r Role) CanManageStore() bool {
	return r == RoleAdmin || r == RoleManager
}

// ParseRole resolves a role name case-insensitively
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+s)
}

// RoleNames converts roles to plain strings, e.g. for JWT claims
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
