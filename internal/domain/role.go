package domain

// Role represents a portal user's role
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleLawyer Role = "LAWYER"
	RoleAdmin  Role = "ADMIN"
)

// AllRoles contains all valid roles
var AllRoles = []Role{RoleClient, RoleLawyer, RoleAdmin}

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// LandingPath returns the default destination for a signed-in user. Lawyers
// and admins land on the operator dashboard, everyone else on the client
// portal.
func (r Role) LandingPath() string {
	switch r {
	case RoleLawyer, RoleAdmin:
		return "/dashboard"
	default:
		return "/client"
	}
}
