// Package services contains server-side business logic. This file implements
// TokenService, which issues access/refresh JWT pairs and keeps the single
// trusted refresh token of every account.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/auth"
	"github.com/dmitrijs2005/resumehub/internal/server/config"
	"github.com/dmitrijs2005/resumehub/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService mints and rotates token pairs. Access and refresh tokens are
// signed with different secrets, so one can never stand in for the other.
type TokenService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Issue mints a new pair for accountID and stores its refresh token,
// superseding any earlier one.
func (s *TokenService) Issue(ctx context.Context, accountID string) (*TokenPair, error) {
	pair, err := s.mint(accountID)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.RefreshTokens(s.db).Save(ctx, accountID, pair.RefreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// be the one currently stored for its account; a superseded (replayed) token
// yields common.ErrInvalidToken. Rotation is a compare-and-swap, so of two
// concurrent refreshes with the same token only one succeeds.
func (s *TokenService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, common.ErrMissingToken
	}

	accountID, err := auth.ParseToken(presented, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.RefreshTokens(s.db)

	stored, err := repo.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored.Token), []byte(presented)) != 1 {
		return nil, common.ErrInvalidToken
	}

	pair, err := s.mint(accountID)
	if err != nil {
		return nil, err
	}

	if err := repo.Rotate(ctx, accountID, presented, pair.RefreshToken, s.refreshTokenValidityDuration); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}

	return pair, nil
}

// VerifyAccess returns the account id carried by a valid access token.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	return auth.ParseToken(token, s.accessSecret)
}

// Revoke forgets the account's refresh token; outstanding access tokens
// stay valid until they expire.
func (s *TokenService) Revoke(ctx context.Context, accountID string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, accountID); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) mint(accountID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(accountID, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	refresh, err := auth.GenerateToken(accountID, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
