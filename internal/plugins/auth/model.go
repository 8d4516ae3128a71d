// Package auth handles admin authentication and session management. It
// provides login, logout, session validation, and first-run provisioning of
// the single admin account. There is no open registration: the blog has one
// author, created from configuration on first startup.
//
// Sessions are random tokens stored in Redis with a TTL; the token travels in
// an HttpOnly cookie.
package auth

import (
	"time"
)

// User represents the blog's admin account. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use this
// struct directly.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	IsAdmin      bool       `json:"isAdmin"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the credentials submitted to POST /login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// --- Session ---

// Session represents an authenticated session stored in Redis.
// The session token is the key, and this struct is the value (JSON-encoded).
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
