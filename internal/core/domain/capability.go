package domain

import "slices"

// Role is a role claim issued by the identity provider.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOwner       Role = "OWNER"
	RoleTenantAdmin Role = "TENANT_ADMIN"
	RoleClient      Role = "CLIENT"
)

// Capability is what the caller is allowed to do, derived from a verified
// token by the transport layer. The credit core never looks roles up itself.
type Capability struct {
	ActorID string
	Roles   []Role
}

// HasRole reports whether the capability carries role r.
func (c Capability) HasRole(r Role) bool {
	return slices.Contains(c.Roles, r)
}

// CanManageCredit is true for platform admins and tenant owners/admins.
func (c Capability) CanManageCredit() bool {
	return c.HasRole(RoleAdmin) || c.HasRole(RoleOwner) || c.HasRole(RoleTenantAdmin)
}

// CanAccessClient allows managers, and clients acting on their own account.
func (c Capability) CanAccessClient(clientID string) bool {
	if c.CanManageCredit() {
		return true
	}
	return c.ActorID != "" && c.ActorID == clientID
}
