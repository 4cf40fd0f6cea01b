package httpapi

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/services"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	ownerID    = "0c3c7d0e-5a4c-4a55-9c7e-1f5b1c0b2a01"
	adminID    = "6f1d9a63-04f5-4bd3-8f39-3f1bb54e1b02"
	resumeID   = "9b2e1c4d-7a10-4f0e-8a2b-5c3d6e7f8a03"
	ownerToken = "owner-token"
	adminToken = "admin-token"
)

type fakeTokens struct {
	refreshed string
}

func (f *fakeTokens) VerifyAccess(token string) (string, error) {
	switch token {
	case ownerToken:
		return ownerID, nil
	case adminToken:
		return adminID, nil
	}
	return "", common.ErrInvalidToken
}

func (f *fakeTokens) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	if token == "" {
		return nil, common.ErrMissingToken
	}
	if token != "good-refresh" {
		return nil, common.ErrInvalidToken
	}
	f.refreshed = token
	return &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

type fakeAccounts struct {
	registered  *services.RegisterInput
	adminSecret string
	signedOut   string
	verifyErr   error
}

func (f *fakeAccounts) Register(_ context.Context, in services.RegisterInput) (*models.Account, error) {
	if in.Password != in.ConfirmPassword {
		return nil, common.NewValidationError(errValidationFields("confirmPassword"))
	}
	f.registered = &in
	return &models.Account{ID: ownerID, Email: in.Email, Name: in.Name, Role: models.RoleStandard,
		VerificationStatus: models.VerificationUnverified, PasswordHash: "hash", VerificationCode: "123456"}, nil
}

func (f *fakeAccounts) VerifyEmail(_ context.Context, email, code string) error {
	return f.verifyErr
}

func (f *fakeAccounts) RegisterAdmin(_ context.Context, in services.RegisterInput, secret string) (*models.Account, error) {
	f.adminSecret = secret
	if secret != "root" {
		return nil, common.ErrForbidden
	}
	return &models.Account{ID: adminID, Email: in.Email, Role: models.RoleAdmin}, nil
}

func (f *fakeAccounts) SignIn(_ context.Context, email, password string) (*services.TokenPair, error) {
	if email != "ann@example.com" {
		return nil, common.ErrUnknownEmail
	}
	if password != "secret1" {
		return nil, common.ErrBadCredentials
	}
	return &services.TokenPair{AccessToken: "a1", RefreshToken: "r1"}, nil
}

func (f *fakeAccounts) SignOut(_ context.Context, accountID string) error {
	f.signedOut = accountID
	return nil
}

func (f *fakeAccounts) Get(_ context.Context, accountID string) (*services.AccountView, error) {
	account := &models.Account{ID: accountID, Email: "ann@example.com", Name: "Ann", Role: models.RoleStandard, PasswordHash: "hash"}
	if accountID == adminID {
		account.Role = models.RoleAdmin
		account.VerificationStatus = models.VerificationVerified
	}
	return &services.AccountView{
		Account: account,
		Profile: &models.Profile{AccountID: accountID, Name: "Ann"},
	}, nil
}

func (f *fakeAccounts) Actor(_ context.Context, accountID string) (services.Actor, error) {
	if accountID == adminID {
		return services.Actor{AccountID: adminID, Role: models.RoleAdmin}, nil
	}
	return services.Actor{AccountID: accountID, Role: models.RoleStandard}, nil
}

func (f *fakeAccounts) History(_ context.Context, accountID string) ([]*models.ChangeRecord, error) {
	return []*models.ChangeRecord{{ID: 1, AccountID: accountID, Target: models.TargetProfile, TargetID: accountID, Field: "name", OldValue: "A", NewValue: "B"}}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) Update(_ context.Context, actor services.Actor, patch services.ProfilePatch) (*services.ProfileUpdate, error) {
	if err := patch.Validate(); err != nil {
		return nil, common.NewValidationError(err)
	}
	return &services.ProfileUpdate{
		Profile: &models.Profile{AccountID: actor.AccountID, Name: *patch.Name},
		Changes: []*models.ChangeRecord{{ID: 7, Field: "name", OldValue: "Ann", NewValue: *patch.Name}},
	}, nil
}

type fakeResumes struct {
	lastOrder models.ResumeOrder
	lastActor services.Actor
	failWith  error
}

func (f *fakeResumes) resume() *models.Resume {
	return &models.Resume{ID: resumeID, AccountID: ownerID, Title: "CV", Content: "c", Status: "draft", AttachmentKey: "k"}
}

func (f *fakeResumes) Create(_ context.Context, actor services.Actor, in services.ResumeInput) (*models.Resume, error) {
	f.lastActor = actor
	return &models.Resume{ID: resumeID, AccountID: actor.AccountID, Title: in.Title, Content: in.Content, Status: models.ResumeStatusDraft}, nil
}

func (f *fakeResumes) List(_ context.Context, order models.ResumeOrder) ([]*models.Resume, error) {
	f.lastOrder = order
	return []*models.Resume{f.resume()}, nil
}

func (f *fakeResumes) Get(_ context.Context, id string) (*models.Resume, error) {
	if id != resumeID {
		return nil, common.ErrNotFound
	}
	return f.resume(), nil
}

func (f *fakeResumes) authorize(actor services.Actor, admin bool) error {
	f.lastActor = actor
	if f.failWith != nil {
		return f.failWith
	}
	if admin && !actor.IsAdmin() {
		return common.ErrForbidden
	}
	if !admin && actor.AccountID != ownerID {
		return common.ErrForbidden
	}
	return nil
}

func (f *fakeResumes) Update(_ context.Context, actor services.Actor, id string, patch services.ResumePatch) (*services.ResumeUpdate, error) {
	if err := f.authorize(actor, false); err != nil {
		return nil, err
	}
	r := f.resume()
	r.Title = *patch.Title
	return &services.ResumeUpdate{Resume: r, Changes: []*models.ChangeRecord{{Field: "title", OldValue: "CV", NewValue: r.Title}}}, nil
}

func (f *fakeResumes) AdminUpdate(ctx context.Context, actor services.Actor, id string, patch services.ResumePatch) (*services.ResumeUpdate, error) {
	if err := f.authorize(actor, true); err != nil {
		return nil, err
	}
	r := f.resume()
	r.Title = *patch.Title
	return &services.ResumeUpdate{Resume: r}, nil
}

func (f *fakeResumes) Delete(_ context.Context, actor services.Actor, id string) (*models.Resume, error) {
	if err := f.authorize(actor, false); err != nil {
		return nil, err
	}
	return f.resume(), nil
}

func (f *fakeResumes) AdminDelete(_ context.Context, actor services.Actor, id string) (*models.Resume, error) {
	if err := f.authorize(actor, true); err != nil {
		return nil, err
	}
	return f.resume(), nil
}

func (f *fakeResumes) AttachmentUploadURL(_ context.Context, actor services.Actor, id string) (*services.Attachment, error) {
	if err := f.authorize(actor, false); err != nil {
		return nil, err
	}
	return &services.Attachment{Key: "k", URL: "https://s3.local/put/k"}, nil
}

func (f *fakeResumes) AttachmentDownloadURL(_ context.Context, id string) (*services.Attachment, error) {
	return &services.Attachment{Key: "k", URL: "https://s3.local/get/k"}, nil
}

func errValidationFields(names ...string) error {
	errs := validation.Errors{}
	for _, n := range names {
		errs[n] = errors.New("invalid")
	}
	return errs
}
