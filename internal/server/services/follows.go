package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
)

type FollowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFollowService(db *sql.DB, m repomanager.RepositoryManager) *FollowService {
	return &FollowService{db: db, repomanager: m}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	if followerID == followingID {
		return nil, fmt.Errorf("%w: cannot follow yourself", common.ErrorValidation)
	}

	f, err := s.repomanager.Follows(s.db).Create(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("error creating follow: %w", err)
	}
	return f, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if err := s.repomanager.Follows(s.db).Delete(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("error deleting follow: %w", err)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	ok, err := s.repomanager.Follows(s.db).Exists(ctx, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("error checking follow: %w", err)
	}
	return ok, nil
}

func (s *FollowService) GetFollowStats(ctx context.Context, userID string) (*models.FollowStats, error) {
	st, err := s.repomanager.Follows(s.db).Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading follow stats: %w", err)
	}
	return st, nil
}
