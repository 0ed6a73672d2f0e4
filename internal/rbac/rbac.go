package rbac

// Role is an actor role as stored on the users table.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleModerator    Role = "moderator"
	RoleSupport      Role = "support"
	RoleCollaborator Role = "collaborator"
	RoleCraftsman    Role = "craftsman"
	RoleUser         Role = "user"
)

// Capability is a named back-office permission.
type Capability string

const (
	CapViewUsers     Capability = "view_users"
	CapEditUsers     Capability = "edit_users"
	CapViewCraftsmen Capability = "view_craftsmen"
	CapEditCraftsmen Capability = "edit_craftsmen"
	CapViewContent   Capability = "view_content"
	CapEditContent   Capability = "edit_content"
	CapViewAnalytics Capability = "view_analytics"
	CapViewLogs      Capability = "view_logs"
	CapManageTeam    Capability = "manage_team"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyInsufficientRole
)

// registry is the static role → capability matrix, fixed at deployment time.
// Two tiers: the admin tier holds everything including team management and
// log access; collaborator covers the colaborator back office (craftsmen
// moderation, content, user status) but can never manage staff accounts or
// read the audit trail. Craftsmen and regular users hold no back-office
// capability at all.
var registry = map[Role]map[Capability]bool{
	RoleSuperAdmin: allCapabilities(),
	RoleAdmin:      allCapabilities(),
	RoleModerator: {
		CapViewUsers:     true,
		CapViewCraftsmen: true,
		CapEditCraftsmen: true,
		CapViewContent:   true,
		CapEditContent:   true,
	},
	RoleSupport: {
		CapViewUsers:     true,
		CapViewCraftsmen: true,
		CapViewContent:   true,
	},
	RoleCollaborator: {
		CapViewUsers:     true,
		CapEditUsers:     true,
		CapViewCraftsmen: true,
		CapEditCraftsmen: true,
		CapViewContent:   true,
		CapEditContent:   true,
		CapViewAnalytics: true,
	},
}

func allCapabilities() map[Capability]bool {
	return map[Capability]bool{
		CapViewUsers:     true,
		CapEditUsers:     true,
		CapViewCraftsmen: true,
		CapEditCraftsmen: true,
		CapViewContent:   true,
		CapEditContent:   true,
		CapViewAnalytics: true,
		CapViewLogs:      true,
		CapManageTeam:    true,
	}
}

// CapabilitiesFor returns the capability set of a role. Unknown roles get an
// empty set (fail closed).
func CapabilitiesFor(role Role) map[Capability]bool {
	caps, ok := registry[role]
	if !ok {
		return map[Capability]bool{}
	}
	// Copy so callers cannot mutate the registry.
	out := make(map[Capability]bool, len(caps))
	for c, v := range caps {
		out[c] = v
	}
	return out
}

// Authorize is the access guard: pure, stateless. An empty role means the
// session resolver produced no actor.
func Authorize(role Role, required Capability) Decision {
	if role == "" {
		return DenyUnauthenticated
	}
	if registry[role][required] {
		return Allow
	}
	return DenyInsufficientRole
}

// IsStaff reports whether a role belongs to the back office at all.
func IsStaff(role Role) bool {
	_, ok := registry[role]
	return ok
}

// IsAdminTier reports whether a role is in the superuser tier. Restricted
// staff may never alter the status of an admin-tier account.
func IsAdminTier(role Role) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// ValidRole reports whether a role string is one of the enumerated roles,
// including the non-staff ones.
func ValidRole(role Role) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleModerator, RoleSupport,
		RoleCollaborator, RoleCraftsman, RoleUser:
		return true
	}
	return false
}

// StaffRoles lists the roles assignable through team management.
func StaffRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleSupport, RoleCollaborator}
}
