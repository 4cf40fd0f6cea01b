package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/changes"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/resumes"
	"github.com/google/uuid"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memStore backs every fake repository. Writes are not transactional:
// tests that expect a rollback assert that nothing was written in the
// first place.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	profiles map[string]*models.Profile
	resumes  map[string]*models.Resume
	changes  []*models.ChangeRecord
	tokens   map[string]*models.RefreshToken
	nextID   int64

	getEmailErr     error
	createAcctErr   error
	createChangeErr error
	updateErr       error
	saveTokenErr    error
	getTokenErr     error
	rotateTokenErr  error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]*models.Account{},
		profiles: map[string]*models.Profile{},
		resumes:  map[string]*models.Resume{},
		tokens:   map[string]*models.RefreshToken{},
	}
}

func (s *memStore) changeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.changes)
}

type fakeRepoManager struct {
	store *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return &fakeAccounts{m.store} }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return &fakeProfiles{m.store} }
func (m *fakeRepoManager) Resumes(dbx.DBTX) resumes.Repository          { return &fakeResumes{m.store} }
func (m *fakeRepoManager) Changes(dbx.DBTX) changes.Repository          { return &fakeChanges{m.store} }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &fakeRefreshTokens{m.store}
}

type fakeAccounts struct{ s *memStore }

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createAcctErr != nil {
		return nil, f.s.createAcctErr
	}
	for _, other := range f.s.accounts {
		if a.Email != "" && other.Email == a.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	cp := *a
	f.s.accounts[a.ID] = &cp
	return a, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getEmailErr != nil {
		return nil, f.s.getEmailErr
	}
	for _, a := range f.s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) MarkVerified(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.accounts[id]
	if !ok {
		return common.ErrNotFound
	}
	a.VerificationStatus = models.VerificationVerified
	a.VerificationCode = ""
	return nil
}

type fakeProfiles struct{ s *memStore }

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *p
	f.s.profiles[p.AccountID] = &cp
	return nil
}

func (f *fakeProfiles) GetByAccountID(_ context.Context, id string) (*models.Profile, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByAccountIDForUpdate(ctx context.Context, id string) (*models.Profile, error) {
	return f.GetByAccountID(ctx, id)
}

func (f *fakeProfiles) UpdateFields(_ context.Context, id string, fields models.Fields) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.updateErr != nil {
		return f.s.updateErr
	}
	p, ok := f.s.profiles[id]
	if !ok {
		return common.ErrNotFound
	}
	for k, v := range fields {
		if k != "name" {
			return errors.New("column not updatable")
		}
		p.Name = v
	}
	return nil
}

type fakeResumes struct{ s *memStore }

func (f *fakeResumes) Create(_ context.Context, r *models.Resume) (*models.Resume, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt, r.UpdatedAt = time.Now(), time.Now()
	cp := *r
	f.s.resumes[r.ID] = &cp
	return r, nil
}

func (f *fakeResumes) withAuthor(r *models.Resume) *models.Resume {
	cp := *r
	if p, ok := f.s.profiles[r.AccountID]; ok {
		cp.AuthorName = p.Name
	}
	return &cp
}

func (f *fakeResumes) GetByID(_ context.Context, id string) (*models.Resume, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.resumes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return f.withAuthor(r), nil
}

func (f *fakeResumes) GetByIDForUpdate(_ context.Context, id string) (*models.Resume, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.resumes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResumes) List(_ context.Context, order models.ResumeOrder) ([]*models.Resume, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*models.Resume, 0, len(f.s.resumes))
	for _, r := range f.s.resumes {
		out = append(out, f.withAuthor(r))
	}
	sort.Slice(out, func(i, j int) bool {
		less := out[i].Title < out[j].Title
		if order.Desc {
			return !less
		}
		return less
	})
	return out, nil
}

func (f *fakeResumes) UpdateFields(_ context.Context, id string, fields models.Fields) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.updateErr != nil {
		return f.s.updateErr
	}
	r, ok := f.s.resumes[id]
	if !ok {
		return common.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			r.Title = v
		case "content":
			r.Content = v
		case "status":
			r.Status = v
		case "attachment_key":
			r.AttachmentKey = v
		default:
			return errors.New("column not updatable")
		}
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeResumes) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.resumes[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.s.resumes, id)
	return nil
}

type fakeChanges struct{ s *memStore }

func (f *fakeChanges) Create(_ context.Context, c *models.ChangeRecord) (*models.ChangeRecord, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createChangeErr != nil {
		return nil, f.s.createChangeErr
	}
	f.s.nextID++
	c.ID = f.s.nextID
	c.ChangedAt = time.Now()
	cp := *c
	f.s.changes = append(f.s.changes, &cp)
	return c, nil
}

func (f *fakeChanges) ListByAccount(_ context.Context, accountID string) ([]*models.ChangeRecord, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.ChangeRecord
	for i := len(f.s.changes) - 1; i >= 0; i-- {
		if f.s.changes[i].AccountID == accountID {
			out = append(out, f.s.changes[i])
		}
	}
	return out, nil
}

type fakeRefreshTokens struct{ s *memStore }

func (f *fakeRefreshTokens) Save(_ context.Context, accountID, token string, validity time.Duration) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.saveTokenErr != nil {
		return f.s.saveTokenErr
	}
	f.s.tokens[accountID] = &models.RefreshToken{AccountID: accountID, Token: token, ExpiresAt: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshTokens) Get(_ context.Context, accountID string) (*models.RefreshToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getTokenErr != nil {
		return nil, f.s.getTokenErr
	}
	t, ok := f.s.tokens[accountID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRefreshTokens) Rotate(_ context.Context, accountID, current, next string, validity time.Duration) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.rotateTokenErr != nil {
		return f.s.rotateTokenErr
	}
	t, ok := f.s.tokens[accountID]
	if !ok || t.Token != current {
		return common.ErrNotFound
	}
	t.Token = next
	t.ExpiresAt = time.Now().Add(validity)
	return nil
}

func (f *fakeRefreshTokens) Delete(_ context.Context, accountID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.tokens, accountID)
	return nil
}

// seedAccount stores a verified account with a profile and returns its id.
func seedAccount(s *memStore, role, name string) string {
	id := uuid.NewString()
	s.accounts[id] = &models.Account{ID: id, Email: id + "@x.com", Name: name, Role: role, VerificationStatus: models.VerificationVerified}
	s.profiles[id] = &models.Profile{AccountID: id, Name: name}
	return id
}

func seedResume(s *memStore, ownerID, title string) string {
	id := uuid.NewString()
	s.resumes[id] = &models.Resume{ID: id, AccountID: ownerID, Title: title, Content: "content", Status: "draft"}
	return id
}

type recordingDispatcher struct {
	mu    sync.Mutex
	sent  map[string]string
	calls int
}

func (d *recordingDispatcher) DispatchVerification(_ context.Context, email, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sent == nil {
		d.sent = map[string]string{}
	}
	d.sent[email] = code
	d.calls++
}

func strPtr(s string) *string { return &s }

type fakeStorage struct {
	putErr  error
	putKeys []string
}

func (f *fakeStorage) PresignPut(_ context.Context, key string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKeys = append(f.putKeys, key)
	return "https://s3.local/put/" + key, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.local/get/" + key, nil
}
