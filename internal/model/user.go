package model

import "time"

// Roles a user can hold.  New users start as RoleDefault unless their email
// is a configured admin; after that the role only changes through the role
// update endpoint.
const (
	RoleDefault    = "default"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleDefault, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account.  Email is unique across users.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
