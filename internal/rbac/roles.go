package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleOwner      = "owner"   // restaurant owner, full portal access
	RoleStaff      = "staff"   // front-of-house staff, read access
	RoleAnalyst    = "analyst" // reporting-only access for bookkeepers
	RoleSuperAdmin = "super_admin"
	RoleSupport    = "support" // hidden internal support role
)

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

func IsHiddenRole(role string) bool { return role == RoleSupport }
