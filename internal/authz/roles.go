package authz

// Role tiers, ordered. Termination requires an admin-tier caller and a
// target strictly below the caller's tier.
const (
	RoleEmployee = 10
	RoleLead     = 20
	RoleCCO      = 30
	RoleCOO      = 31
	RoleCEO      = 40
	RoleAdmin    = 50
)

// IsManagerial reports whether the role may create, publish and review tasks.
func IsManagerial(roleID int) bool {
	return roleID >= RoleLead
}

// IsExecutive reports whether the role is a department-level executive tier.
func IsExecutive(roleID int) bool {
	return roleID == RoleCCO || roleID == RoleCOO || roleID == RoleCEO
}

// IsAdmin reports whether the role may onboard and terminate users.
func IsAdmin(roleID int) bool {
	return roleID == RoleAdmin
}

// CanTerminate reports whether callerRole may terminate targetRole. A peer
// or superior tier is protected.
func CanTerminate(callerRole, targetRole int) bool {
	return IsAdmin(callerRole) && targetRole < callerRole
}

// OnboardableRoles lists the tiers an admin may create through onboarding.
// Executive and admin accounts are provisioned out of band.
var OnboardableRoles = map[int]bool{
	RoleEmployee: true,
	RoleLead:     true,
}
