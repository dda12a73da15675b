// Package profiles declares and implements persistence for user profiles.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

// Repository defines operations on the profiles table.
type Repository interface {
	// Create inserts a profile and fills its ID and timestamps. A taken email
	// or username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)

	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Profile, error)

	// Update applies the non-nil fields of patch and returns the stored row.
	Update(ctx context.Context, id string, patch *models.ProfilePatch) (*models.Profile, error)

	// Search matches username or full name case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]*models.Profile, error)

	// ListCampgroundVisitors returns distinct authors of published entries
	// at the campground.
	ListCampgroundVisitors(ctx context.Context, campgroundID string) ([]*models.Profile, error)

	Stats(ctx context.Context, userID string) (*models.UserStats, error)
}
