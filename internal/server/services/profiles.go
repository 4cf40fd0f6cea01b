package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// ProfilePatch is a partial profile update; nil fields are left alone.
type ProfilePatch struct {
	Name *string `json:"name"`
}

func (p ProfilePatch) Validate() error {
	if p.Name == nil {
		return validation.Errors{"name": errors.New("cannot be blank")}
	}
	return validation.Errors{
		"name": validation.Validate(strings.TrimSpace(*p.Name), validation.Required),
	}.Filter()
}

func (p ProfilePatch) fields() models.Fields {
	f := models.Fields{}
	if p.Name != nil {
		f["name"] = strings.TrimSpace(*p.Name)
	}
	return f
}

// ProfileUpdate is the outcome of an audited profile update.
type ProfileUpdate struct {
	Profile *models.Profile
	Changes []*models.ChangeRecord
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recorder    *HistoryRecorder
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, recorder *HistoryRecorder) *ProfileService {
	return &ProfileService{db: db, repomanager: m, recorder: recorder}
}

func (s *ProfileService) Get(ctx context.Context, accountID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).GetByAccountID(ctx, accountID)
}

// Update applies patch to the actor's own profile and records every changed field.
func (s *ProfileService) Update(ctx context.Context, actor Actor, patch ProfilePatch) (*ProfileUpdate, error) {
	if err := patch.Validate(); err != nil {
		return nil, common.NewValidationError(err)
	}

	res, err := s.recorder.ApplyWithHistory(ctx, profileTarget{repomanager: s.repomanager}, actor.AccountID, patch.fields(), OwnerPolicy{}, actor)
	if err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx, res.OwnerID)
	if err != nil {
		return nil, err
	}

	return &ProfileUpdate{Profile: profile, Changes: res.Records}, nil
}
