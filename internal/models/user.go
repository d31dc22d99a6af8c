package models

import (
	"errors"
	"strings"
	"time"
)

// Role defines a user's access role
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account holder
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	OwnerName    string    `json:"owner_name" db:"owner_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Locked       bool      `json:"locked" db:"locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserRegistration represents registration input
type UserRegistration struct {
	Username  string `json:"username"`
	OwnerName string `json:"owner_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate validates registration data
func (u *UserRegistration) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username must not be blank")
	}
	if strings.TrimSpace(u.OwnerName) == "" {
		return errors.New("owner name must not be blank")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email address")
	}
	if len(u.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// UserLogin represents login input
type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse represents a user as presented to clients
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	OwnerName string `json:"owner_name"`
	Role      Role   `json:"role"`
}

// ToResponse converts a User to its client representation
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		OwnerName: u.OwnerName,
		Role:      u.Role,
	}
}

// UserPage is a single page of user responses
type UserPage struct {
	Items    []*UserResponse `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
}
