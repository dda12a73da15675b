// Package follows persists the directed follow graph between users.
package follows

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

type Repository interface {
	// Create adds follower -> following. An existing edge yields
	// common.ErrorAlreadyExists, a self-follow common.ErrorValidation.
	Create(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	// Delete removes the edge; a missing edge is not an error.
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	// ListFollowing returns the ids the user follows.
	ListFollowing(ctx context.Context, followerID string) ([]string, error)
	Stats(ctx context.Context, userID string) (*models.FollowStats, error)
}
