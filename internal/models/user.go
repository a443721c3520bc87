package models

// Known user roles.
const (
	RoleAdmin  = "admin"
	RolePublic = "public"
)

// User represents a user account in the system.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose this to the client
	Role         string `json:"role"`
}
