package dto

import "time"

// LoginRequest credentials for the admin API.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse an operator, without the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse JWT plus the authenticated operator.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
