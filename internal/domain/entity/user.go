package entity

import "time"

// Roles for the admin surface.
const (
	RoleAdmin = "admin"
	RoleOps   = "ops"
)

// User is an operator of the admin API.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
