package domain

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	return r == RoleStudent || r == RoleAdmin
}

// User is the domain model for anyone who can sign in: students who submit
// complaints and administrators who triage them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Department   string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserRef is the public subset of a user embedded in complaint payloads.
type UserRef struct {
	ID    string
	Name  string
	Email string
}
