package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/cryptox"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/auth"
	"github.com/dmitrijs2005/campjournal/internal/server/config"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
)

const (
	minPasswordLength = 6
	signOutTimeout    = 5 * time.Second
)

type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	passwordParams               cryptox.Params
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		log:                          log.With("module", "auth"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		passwordParams:               cryptox.DefaultParams,
	}
}

// SignUp creates an account. Email and username must both be unused.
func (s *AuthService) SignUp(ctx context.Context, email, password, username, fullName string) (*models.Profile, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}

	p := &models.Profile{
		Email:        email,
		Username:     username,
		PasswordHash: cryptox.HashPassword(password, s.passwordParams),
	}
	if fn := strings.TrimSpace(fullName); fn != "" {
		p.FullName = &fn
	}

	p, err := s.repomanager.Profiles(s.db).Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	s.log.Info(ctx, "profile created", "user_id", p.ID)
	return p, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.TokenPair, error) {
	p, err := s.repomanager.Profiles(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	ok, err := cryptox.VerifyPassword(password, p.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "stored password hash is unreadable", "user_id", p.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, s.repomanager.RefreshTokens(s.db), p.ID)
}

// Refresh rotates a refresh token: the presented token is consumed and a new
// pair is issued in the same transaction.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var pair *models.TokenPair

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}

		if token.Expired(time.Now()) {
			return common.ErrRefreshTokenExpired
		}

		pair, err = s.generateTokenPair(ctx, repo, token.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// SignOut revokes a refresh token. Unknown tokens are not an error.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, signOutTimeout)
	defer cancel()

	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to the user id it was issued for.
func (s *AuthService) Authenticate(accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

// PruneRefreshTokens removes every expired refresh token.
func (s *AuthService) PruneRefreshTokens(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("error pruning refresh tokens: %w", err)
	}
	return n, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, repo refreshtokens.Repository, userID string) (*models.TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		s.log.Error(ctx, "error storing refresh token", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
