// Package campgrounds persists canonical campground records keyed by their
// Google place id.
package campgrounds

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

type Repository interface {
	// Create inserts c. A second row for the same place id yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, c *models.Campground) (*models.Campground, error)
	GetByID(ctx context.Context, id string) (*models.Campground, error)
	GetByPlaceID(ctx context.Context, placeID string) (*models.Campground, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Campground, error)
	// List returns the newest campgrounds first.
	List(ctx context.Context, limit int) ([]*models.Campground, error)
	ListMissingCoordinates(ctx context.Context) ([]*models.Campground, error)
	UpdateCoordinates(ctx context.Context, id string, lat, lng float64) (*models.Campground, error)
	Stats(ctx context.Context, id string) (*models.CampgroundStats, error)
	// ListVisitedByUser aggregates the user's published entries per
	// campground, skipping campgrounds without coordinates.
	ListVisitedByUser(ctx context.Context, userID string) ([]*models.VisitedLocation, error)
}
