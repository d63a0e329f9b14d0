package domain

import "time"

// User is a registered account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest is the body of POST /api/auth/user/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body of POST /api/auth/user/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is what a successful login or registration produces.
type AuthResult struct {
	User        *User
	AccessToken string
	ExpiresAt   int64
}

// AuthResponse is the auth endpoints' body. The HTTP status is always 200;
// Code carries the outcome.
type AuthResponse struct {
	Code        int       `json:"code"`
	Msg         string    `json:"msg"`
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   int64     `json:"expiresAt,omitempty"`
	User        *AuthUser `json:"user,omitempty"`
}

// AuthUser is the public view of a User.
type AuthUser struct {
	UniqueID string `json:"uniqueId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// ToAuthUser converts a User to its public view.
func (u *User) ToAuthUser() *AuthUser {
	return &AuthUser{
		UniqueID: u.ID,
		Name:     u.Name,
		Email:    u.Email,
	}
}
