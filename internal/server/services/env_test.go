package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/resumehub/internal/logging"
	"github.com/dmitrijs2005/resumehub/internal/server/auth"
	"github.com/dmitrijs2005/resumehub/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

const testAdminSecret = "admin-secret"

type testEnv struct {
	db         *sql.DB
	mock       sqlmock.Sqlmock
	store      *memStore
	cfg        *config.Config
	tokens     *TokenService
	accounts   *AccountService
	profiles   *ProfileService
	resumes    *ResumeService
	dispatcher *recordingDispatcher
	storage    *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock := newSQLMockDB(t)
	store := newMemStore()
	m := &fakeRepoManager{store: store}

	cfg := &config.Config{
		AccessTokenSecret:            "access-secret",
		RefreshTokenSecret:           "refresh-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}

	env := &testEnv{
		db:         db,
		mock:       mock,
		store:      store,
		cfg:        cfg,
		dispatcher: &recordingDispatcher{},
		storage:    &fakeStorage{},
	}
	logger := logging.Discard()
	recorder := NewHistoryRecorder(db, m)
	env.tokens = NewTokenService(db, m, cfg)
	env.accounts = NewAccountService(db, m, env.tokens, auth.NewBcryptHasher(bcrypt.MinCost), env.dispatcher, testAdminSecret, logger)
	env.profiles = NewProfileService(db, m, recorder)
	env.resumes = NewResumeService(db, m, recorder, env.storage, logger)
	return env
}

func (e *testEnv) expectTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) expectRollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func (e *testEnv) assertExpectations(t *testing.T) {
	t.Helper()
	if err := e.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
