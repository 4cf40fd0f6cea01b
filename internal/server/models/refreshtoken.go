package models

import "time"

// RefreshToken is the single trusted refresh token of an account.
type RefreshToken struct {
	AccountID string
	Token     string
	ExpiresAt time.Time
	UpdatedAt time.Time
}
