// Package entries persists journal entries, including the draft copies
// created when one user shares an entry with another.
package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

// DraftKey identifies a pending share: one draft per recipient, campground,
// sharer and date range.
type DraftKey struct {
	RecipientID  string
	CampgroundID string
	SharerID     string
	StartDate    time.Time
	EndDate      time.Time
}

type Repository interface {
	// Create inserts e and fills its ID and timestamps. A duplicate pending
	// draft yields common.ErrorAlreadyExists; a bad date range yields
	// common.ErrorValidation.
	Create(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error)
	GetByID(ctx context.Context, id string) (*models.JournalEntry, error)
	// Update applies the non-nil fields of patch to an entry owned by userID.
	Update(ctx context.Context, id, userID string, patch *models.EntryPatch) (*models.JournalEntry, error)
	// Delete removes an entry owned by userID.
	Delete(ctx context.Context, id, userID string) error

	PendingDraftExists(ctx context.Context, key DraftKey) (bool, error)
	// MarkShared records recipientID on the original and sets
	// shared_accepted to false.
	MarkShared(ctx context.Context, id, recipientID string) error
	SetSharedAccepted(ctx context.Context, id string, accepted bool) error
	// PublishDraft flips a draft owned by userID to published.
	PublishDraft(ctx context.Context, id, userID string) (*models.JournalEntry, error)
	// DeleteDraft removes a draft owned by userID.
	DeleteDraft(ctx context.Context, id, userID string) error

	ListByUser(ctx context.Context, userID string, includeDrafts bool) ([]*models.JournalEntry, error)
	ListDrafts(ctx context.Context, userID string) ([]*models.JournalEntry, error)
	ListByUserAndCampground(ctx context.Context, userID, campgroundID string) ([]*models.JournalEntry, error)
	// ListPublishedByCampground returns every user's published entries.
	ListPublishedByCampground(ctx context.Context, campgroundID string) ([]*models.JournalEntry, error)
	// ListFeed returns published entries authored by userIDs, newest first.
	ListFeed(ctx context.Context, userIDs []string, limit int) ([]*models.JournalEntry, error)
}
