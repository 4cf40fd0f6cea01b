package services

import (
	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

// Actor is the authenticated caller of a mutation.
type Actor struct {
	AccountID string
	Role      string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Policy decides whether actor may mutate a record owned by ownerID.
// Every mutation runs exactly one policy before writing.
type Policy interface {
	Authorize(actor Actor, ownerID string) error
}

// OwnerPolicy admits only the owner of the record.
type OwnerPolicy struct{}

func (OwnerPolicy) Authorize(actor Actor, ownerID string) error {
	if actor.AccountID == "" || actor.AccountID != ownerID {
		return common.ErrForbidden
	}
	return nil
}

// AdminPolicy admits administrators regardless of ownership.
type AdminPolicy struct{}

func (AdminPolicy) Authorize(actor Actor, _ string) error {
	if !actor.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}
