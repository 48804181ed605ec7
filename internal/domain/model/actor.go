package model

// Role classifies the caller of an order operation.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

// Actor identifies who requests an operation.
type Actor struct {
	UserID string
	Role   Role
}

// SystemActor performs automated transitions.
var SystemActor = Actor{UserID: "system", Role: RoleSystem}

// Privileged reports whether the actor bypasses party checks.
func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}
