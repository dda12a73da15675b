package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/server/cache"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
)

const defaultSearchLimit = 20

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Profiles
}

// NewProfileService builds the service; a nil cache disables caching.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Profiles) *ProfileService {
	return &ProfileService{db: db, repomanager: m, cache: c}
}

func (s *ProfileService) profiles() profiles.Repository {
	return s.cache.Wrap(s.repomanager.Profiles(s.db))
}

func (s *ProfileService) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.profiles().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	p, err := s.profiles().GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: empty profile update", common.ErrorValidation)
	}
	if patch.Username != nil {
		u := strings.TrimSpace(*patch.Username)
		if u == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", common.ErrorValidation)
		}
		patch.Username = &u
	}

	p, err := s.profiles().Update(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return p, nil
}

// SearchUsers matches query against usernames and full names, case
// insensitively. A blank query yields no results.
func (s *ProfileService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Profile{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	res, err := s.profiles().Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching profiles: %w", err)
	}
	return res, nil
}

func (s *ProfileService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	st, err := s.profiles().Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user stats: %w", err)
	}
	return st, nil
}
