// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, login, and resolving bearer
// tokens to active accounts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthsync/healthsync/internal/common"
	"github.com/healthsync/healthsync/internal/server/auth"
	"github.com/healthsync/healthsync/internal/server/config"
	"github.com/healthsync/healthsync/internal/server/models"
	"github.com/healthsync/healthsync/internal/server/repositories/repomanager"
)

// AccountService provides account-related operations:
// - Register: create accounts with hashed credentials
// - Login: verify credentials and mint an access token
// - ResolveToken: map a bearer token to an active account
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// RegisterParams carries validated registration input. Email is normalized
// to lowercase inside Register, so callers may pass it as received.
type RegisterParams struct {
	Email     string
	Password  string
	BirthDate *time.Time
	Timezone  string
}

// NormalizeEmail lowercases and trims an email address so that uniqueness
// checks and lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. A duplicate (case-insensitively equal)
// email yields common.ErrorAlreadyExists. The uniqueness constraint in the
// store backs this check up against concurrent registrations.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (*models.Account, error) {
	email := NormalizeEmail(p.Email)
	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	tz := p.Timezone
	if tz == "" {
		tz = "UTC"
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		BirthDate:    p.BirthDate,
		Timezone:     tz,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return created, nil
}

// Login verifies the credentials and mints an access token. An unknown
// email and a wrong password collapse into the same ErrorUnauthorized
// outcome so callers cannot enumerate registered addresses.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, account.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// ResolveToken verifies a bearer token and loads the active account it
// identifies. Invalid tokens, unknown subjects, and inactive accounts all
// map to ErrorUnauthorized with no further distinction.
func (s *AccountService) ResolveToken(ctx context.Context, token string) (*models.Account, error) {
	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	account, err := s.GetActive(ctx, subject)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetActive loads an account by id, requiring it to be active. Unknown ids
// and deactivated accounts both come back as ErrorUnauthorized.
func (s *AccountService) GetActive(ctx context.Context, id string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !account.IsActive {
		return nil, common.ErrorUnauthorized
	}

	return account, nil
}
