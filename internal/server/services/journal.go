package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
)

const feedLimit = 50

// EntryInput carries the fields of a new journal entry.
type EntryInput struct {
	CampgroundID string    `json:"campground_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Notes        *string   `json:"notes,omitempty"`
	VideoURL     *string   `json:"video_url,omitempty"`
	IsFavorite   bool      `json:"is_favorite"`
	Status       string    `json:"status,omitempty"`
}

type JournalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	campgrounds *CampgroundService
	storage     *StorageService
	log         logging.Logger
}

func NewJournalService(db *sql.DB, m repomanager.RepositoryManager, cg *CampgroundService, st *StorageService, log logging.Logger) *JournalService {
	return &JournalService{
		db:          db,
		repomanager: m,
		campgrounds: cg,
		storage:     st,
		log:         log.With("module", "journal"),
	}
}

func validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", common.ErrorValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date is before start date", common.ErrorValidation)
	}
	return nil
}

func (s *JournalService) CreateEntry(ctx context.Context, userID string, in *EntryInput) (*models.JournalEntry, error) {
	if strings.TrimSpace(in.CampgroundID) == "" {
		return nil, fmt.Errorf("%w: campground is required", common.ErrorValidation)
	}
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	status := in.Status
	switch status {
	case "":
		status = common.StatusPublished
	case common.StatusPublished, common.StatusDraft:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	e, err := s.repomanager.Entries(s.db).Create(ctx, &models.JournalEntry{
		UserID:       userID,
		CampgroundID: in.CampgroundID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Notes:        in.Notes,
		VideoURL:     in.VideoURL,
		IsFavorite:   in.IsFavorite,
		Status:       status,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}
	return e, nil
}

// GetEntry returns an entry with its campground and photos.
func (s *JournalService) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	e, err := s.repomanager.Entries(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading entry: %w", err)
	}

	if err := s.hydrate(ctx, []*models.JournalEntry{e}, false); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry applies patch to one of the user's entries. Someone else's
// entry is reported as not found.
func (s *JournalService) UpdateEntry(ctx context.Context, userID, id string, patch *models.EntryPatch) (*models.JournalEntry, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: empty entry update", common.ErrorValidation)
	}

	repo := s.repomanager.Entries(s.db)

	if patch.StartDate != nil || patch.EndDate != nil {
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading entry: %w", err)
		}
		if cur.UserID != userID {
			return nil, common.ErrorNotFound
		}

		start, end := cur.StartDate, cur.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		if err := validateDates(start, end); err != nil {
			return nil, err
		}
	}

	e, err := repo.Update(ctx, id, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("error updating entry: %w", err)
	}
	return e, nil
}

// DeleteEntry removes one of the user's entries and its photo rows in one
// transaction. Storage objects left without any referencing row are then
// deleted on a best effort basis.
func (s *JournalService) DeleteEntry(ctx context.Context, userID, id string) error {
	var removed []*models.Photo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		removed, err = s.repomanager.Photos(tx).DeleteByEntry(ctx, id)
		if err != nil {
			return fmt.Errorf("error deleting photos: %w", err)
		}

		if err := s.repomanager.Entries(tx).Delete(ctx, id, userID); err != nil {
			return fmt.Errorf("error deleting entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.storage.releaseObjects(ctx, removed)
	return nil
}

// ListUserEntries returns the user's entries, most recent trip first.
func (s *JournalService) ListUserEntries(ctx context.Context, userID string, includeDrafts bool) ([]*models.JournalEntry, error) {
	res, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID, includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	if err := s.hydrate(ctx, res, false); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *JournalService) ListEntriesForCampground(ctx context.Context, userID, campgroundID string) ([]*models.JournalEntry, error) {
	res, err := s.repomanager.Entries(s.db).ListByUserAndCampground(ctx, userID, campgroundID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	if err := s.hydrate(ctx, res, false); err != nil {
		return nil, err
	}
	return res, nil
}

// GetFeed returns the newest published entries of the users userID follows.
func (s *JournalService) GetFeed(ctx context.Context, userID string) ([]*models.JournalEntry, error) {
	following, err := s.repomanager.Follows(s.db).ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing followed users: %w", err)
	}
	if len(following) == 0 {
		return []*models.JournalEntry{}, nil
	}

	res, err := s.repomanager.Entries(s.db).ListFeed(ctx, following, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading feed: %w", err)
	}
	if err := s.hydrate(ctx, res, true); err != nil {
		return nil, err
	}
	return res, nil
}

// ListVisitedLocations returns one map pin per campground the user has a
// published entry at, provided the campground has coordinates.
func (s *JournalService) ListVisitedLocations(ctx context.Context, userID string) ([]*models.VisitedLocation, error) {
	res, err := s.repomanager.Campgrounds(s.db).ListVisitedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing visited locations: %w", err)
	}
	return res, nil
}

func (s *JournalService) hydrate(ctx context.Context, entries []*models.JournalEntry, withAuthors bool) error {
	if err := attachCampgrounds(ctx, s.repomanager.Campgrounds(s.db), entries); err != nil {
		return err
	}
	if err := attachPhotos(ctx, s.repomanager.Photos(s.db), entries); err != nil {
		return err
	}
	if withAuthors {
		return attachAuthors(ctx, s.repomanager.Profiles(s.db), entries)
	}
	return nil
}
