// Package photos persists photo records. The image bytes live in object
// storage; a row only references them by storage path.
package photos

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Photo) (*models.Photo, error)
	// ListByEntry returns the entry's photos, oldest first.
	ListByEntry(ctx context.Context, entryID string) ([]*models.Photo, error)
	ListByEntries(ctx context.Context, entryIDs []string) ([]*models.Photo, error)
	// DeleteByEntry removes every photo row of an entry and returns them.
	DeleteByEntry(ctx context.Context, entryID string) ([]*models.Photo, error)
	// Delete removes one photo owned by userID and returns it.
	Delete(ctx context.Context, id, userID string) (*models.Photo, error)
	// CountByStoragePath reports how many rows still reference an object.
	CountByStoragePath(ctx context.Context, path string) (int, error)
}
