// Package domain contains the core types shared across feature packages.
package domain

import "time"

// Role is the access level carried by a user account and embedded in tokens.
type Role string

// Known roles.
const (
	RoleRootAdmin Role = "root-admin"
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
)

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleRootAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// User represents a registered account. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
