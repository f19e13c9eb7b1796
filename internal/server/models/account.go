package models

import (
	"strings"
	"time"
)

// Account roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account is a dashboard login. PasswordHash never leaves the server.
type Account struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	FirstName      string     `json:"firstName,omitempty"`
	LastName       string     `json:"lastName,omitempty"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"isActive"`
	FailedAttempts int        `json:"-"`
	LockUntil      *time.Time `json:"-"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// IsLocked reports whether login attempts are refused at the given time.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// FullName joins the optional name parts.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
