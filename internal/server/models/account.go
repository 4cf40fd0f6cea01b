// Package models defines server-side data models persisted in the database.
package models

import "time"

const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
)

const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// Account is a registered identity. Email and PasswordHash are empty for
// accounts created through an external identity provider.
type Account struct {
	ID                 string
	Email              string
	PasswordHash       string
	Name               string
	VerificationStatus string
	// VerificationCode is the pending email code; empty once verified.
	VerificationCode string
	Role             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a *Account) IsVerified() bool {
	return a.VerificationStatus == VerificationVerified
}
