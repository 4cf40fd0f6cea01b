package models

import "time"

// Profile holds the mutable display attributes of an account.
type Profile struct {
	AccountID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields returns the audited attributes of the profile.
func (p *Profile) Fields() Fields {
	return Fields{"name": p.Name}
}
