package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/metrics"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/entries"
)

// ShareEntry copies one of the sharer's entries into the recipient's journal
// as a draft. The draft keeps the dates, notes and video link, is never a
// favorite, and points back at the original. Photo rows are duplicated for
// the recipient and reference the same storage objects. The original is
// marked as shared with the recipient, pending acceptance.
//
// Everything happens in one transaction. A pending draft for the same
// recipient, campground, sharer and dates fails with ErrAlreadyShared.
func (s *JournalService) ShareEntry(ctx context.Context, entryID, recipientID, sharerID string) (*models.JournalEntry, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient is required", common.ErrorValidation)
	}
	if recipientID == sharerID {
		return nil, fmt.Errorf("%w: cannot share an entry with yourself", common.ErrorValidation)
	}

	var draft *models.JournalEntry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entryRepo := s.repomanager.Entries(tx)
		photoRepo := s.repomanager.Photos(tx)

		src, err := entryRepo.GetByID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("error loading entry: %w", err)
		}
		if src.UserID != sharerID {
			return common.ErrorNotFound
		}

		exists, err := entryRepo.PendingDraftExists(ctx, entries.DraftKey{
			RecipientID:  recipientID,
			CampgroundID: src.CampgroundID,
			SharerID:     sharerID,
			StartDate:    src.StartDate,
			EndDate:      src.EndDate,
		})
		if err != nil {
			return fmt.Errorf("error checking pending drafts: %w", err)
		}
		if exists {
			return common.ErrAlreadyShared
		}

		draft, err = entryRepo.Create(ctx, &models.JournalEntry{
			UserID:           recipientID,
			CampgroundID:     src.CampgroundID,
			StartDate:        src.StartDate,
			EndDate:          src.EndDate,
			Notes:            src.Notes,
			VideoURL:         src.VideoURL,
			IsFavorite:       false,
			Status:           common.StatusDraft,
			SharedFromUserID: &sharerID,
			OriginalEntryID:  &src.ID,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrAlreadyShared
			}
			return fmt.Errorf("error creating draft: %w", err)
		}

		srcPhotos, err := photoRepo.ListByEntry(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("error loading photos: %w", err)
		}

		for _, p := range srcPhotos {
			cp, err := photoRepo.Create(ctx, &models.Photo{
				UserID:         recipientID,
				CampgroundID:   p.CampgroundID,
				JournalEntryID: &draft.ID,
				StoragePath:    p.StoragePath,
				PublicURL:      p.PublicURL,
				Caption:        p.Caption,
			})
			if err != nil {
				return fmt.Errorf("error copying photo: %w", err)
			}
			draft.Photos = append(draft.Photos, cp)
		}

		if err := entryRepo.MarkShared(ctx, src.ID, recipientID); err != nil {
			return fmt.Errorf("error marking entry shared: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SharesTotal.Inc()
	s.log.Info(ctx, "entry shared", "entry_id", entryID, "draft_id", draft.ID, "recipient_id", recipientID)
	return draft, nil
}

// AcceptDraft publishes one of the recipient's drafts. Flagging the original
// entry as accepted is best effort: a failure there is logged and the accept
// still succeeds.
func (s *JournalService) AcceptDraft(ctx context.Context, draftID, recipientID string) (*models.JournalEntry, error) {
	repo := s.repomanager.Entries(s.db)

	e, err := repo.PublishDraft(ctx, draftID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("error publishing draft: %w", err)
	}

	if e.OriginalEntryID != nil {
		if err := repo.SetSharedAccepted(ctx, *e.OriginalEntryID, true); err != nil {
			s.log.Warn(ctx, "error marking original entry accepted",
				"draft_id", draftID, "original_entry_id", *e.OriginalEntryID, "error", err)
		}
	}

	metrics.DraftsAccepted.Inc()
	return e, nil
}

// RejectDraft deletes one of the recipient's drafts with its photo rows.
// Storage objects are released only once no other row references them, so
// the original entry keeps its photos.
func (s *JournalService) RejectDraft(ctx context.Context, draftID, recipientID string) error {
	var removed []*models.Photo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		removed, err = s.repomanager.Photos(tx).DeleteByEntry(ctx, draftID)
		if err != nil {
			return fmt.Errorf("error deleting draft photos: %w", err)
		}
		if err := s.repomanager.Entries(tx).DeleteDraft(ctx, draftID, recipientID); err != nil {
			return fmt.Errorf("error deleting draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.storage.releaseObjects(ctx, removed)
	metrics.DraftsRejected.Inc()
	return nil
}

// ListDrafts returns the drafts waiting in the user's journal.
func (s *JournalService) ListDrafts(ctx context.Context, userID string) ([]*models.JournalEntry, error) {
	res, err := s.repomanager.Entries(s.db).ListDrafts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing drafts: %w", err)
	}
	if err := s.hydrate(ctx, res, false); err != nil {
		return nil, err
	}
	return res, nil
}
