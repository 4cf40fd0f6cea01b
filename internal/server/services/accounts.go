package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/dbx"
	"github.com/dmitrijs2005/resumehub/internal/logging"
	"github.com/dmitrijs2005/resumehub/internal/server/auth"
	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// VerificationDispatcher sends verification codes in the background.
type VerificationDispatcher interface {
	DispatchVerification(ctx context.Context, email, code string)
}

// RegisterInput is the payload of self and admin registration.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

func (in *RegisterInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, notBlank),
		validation.Field(&in.Password, validation.Required, notBlank, validation.Length(MinPasswordLength, 0), maxBytes(MaxPasswordBytes)),
		validation.Field(
			&in.ConfirmPassword,
			validation.Required,
			validation.By(stringEquals(in.Password)),
		),
		validation.Field(&in.Name, validation.Required, notBlank),
	)
}

// AccountView is an account together with its profile.
type AccountView struct {
	Account *models.Account
	Profile *models.Profile
}

// AccountService covers the account lifecycle: registration, email
// verification, admin bootstrap, sign-in and sign-out.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	hasher      auth.PasswordHasher
	dispatcher  VerificationDispatcher
	adminSecret string
	logger      logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, hasher auth.PasswordHasher,
	dispatcher VerificationDispatcher, adminSecret string, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		dispatcher:  dispatcher,
		adminSecret: adminSecret,
		logger:      logger.With("module", "accounts"),
	}
}

// Register creates an unverified account with a pending 6-digit code and its
// profile, then sends the code by email after the transaction commits.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, common.NewValidationError(err)
	}

	code, err := common.GenerateNumericCode(common.VerificationCodeDigits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	account, err := s.create(ctx, in, models.RoleStandard, models.VerificationUnverified, code)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	s.dispatcher.DispatchVerification(ctx, account.Email, code)

	return account, nil
}

// VerifyEmail marks the account verified when code equals its pending code.
// On any failure the account is left untouched.
func (s *AccountService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	errs := validation.Errors{
		"email": validation.Validate(email, validation.Required),
		"code":  validation.Validate(code, validation.Required),
	}
	if err := errs.Filter(); err != nil {
		return common.NewValidationError(err)
	}

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnknownEmail
		}
		return fmt.Errorf("error searching account: %w", err)
	}

	if account.VerificationCode == "" {
		return common.ErrNoPendingCode
	}
	if subtle.ConstantTimeCompare([]byte(account.VerificationCode), []byte(code)) != 1 {
		return common.ErrCodeMismatch
	}

	if err := repo.MarkVerified(ctx, account.ID); err != nil {
		return fmt.Errorf("error verifying account: %w", err)
	}

	s.logger.Info(ctx, "account verified", "account_id", account.ID)
	return nil
}

// RegisterAdmin creates a verified admin account when secret matches the
// configured admin secret. With no secret configured it always refuses.
func (s *AccountService) RegisterAdmin(ctx context.Context, in RegisterInput, secret string) (*models.Account, error) {
	if s.adminSecret == "" || subtle.ConstantTimeCompare([]byte(s.adminSecret), []byte(secret)) != 1 {
		return nil, common.ErrForbidden
	}

	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, common.NewValidationError(err)
	}

	account, err := s.create(ctx, in, models.RoleAdmin, models.VerificationVerified, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "admin registered", "account_id", account.ID)
	return account, nil
}

// SignIn checks the credentials and issues a token pair.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownEmail
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	// accounts from an external identity provider have no password
	if account.PasswordHash == "" {
		return nil, common.ErrBadCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, err
	}

	return s.tokens.Issue(ctx, account.ID)
}

// SignOut revokes the account's refresh token.
func (s *AccountService) SignOut(ctx context.Context, accountID string) error {
	return s.tokens.Revoke(ctx, accountID)
}

// Get returns the account and its profile.
func (s *AccountService) Get(ctx context.Context, accountID string) (*AccountView, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repomanager.Profiles(s.db).GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &AccountView{Account: account, Profile: profile}, nil
}

// Actor loads the caller identity used for authorization. A token whose
// account no longer exists is reported as common.ErrInvalidToken.
func (s *AccountService) Actor(ctx context.Context, accountID string) (Actor, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Actor{}, common.ErrInvalidToken
		}
		return Actor{}, err
	}
	return Actor{AccountID: account.ID, Role: account.Role}, nil
}

// History lists the account's change records, newest first.
func (s *AccountService) History(ctx context.Context, accountID string) ([]*models.ChangeRecord, error) {
	return s.repomanager.Changes(s.db).ListByAccount(ctx, accountID)
}

func (s *AccountService) create(ctx context.Context, in RegisterInput, role, status, code string) (*models.Account, error) {
	_, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	account := &models.Account{
		Email:              in.Email,
		PasswordHash:       hash,
		Name:               in.Name,
		VerificationStatus: status,
		VerificationCode:   code,
		Role:               role,
	}

	// the unique index still guards against a concurrent registration
	err = dbx.WithTx(ctx, s.db, dbx.ReadCommitted(), func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Accounts(tx).Create(ctx, account); err != nil {
			return err
		}
		return s.repomanager.Profiles(tx).Create(ctx, &models.Profile{AccountID: account.ID, Name: account.Name})
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && common.IsBlank(s) {
		return errors.New("cannot be blank")
	}
	return nil
})

// maxBytes limits the encoded length of a string, unlike validation.Length
// which counts runes.
func maxBytes(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	})
}

// stringEquals checks that the validated value equals str.
func stringEquals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}
