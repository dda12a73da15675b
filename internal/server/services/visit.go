package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

// PhotoUpload is one image attached to a visit.
type PhotoUpload struct {
	Filename string  `json:"filename"`
	Data     []byte  `json:"data"`
	Caption  *string `json:"caption,omitempty"`
}

// VisitInput describes a stay at a campground identified by its place id.
// Campground carries the place fields used when the campground is new.
type VisitInput struct {
	PlaceID    string             `json:"place_id"`
	Campground *models.Campground `json:"campground,omitempty"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	Notes      *string            `json:"notes,omitempty"`
	VideoURL   *string            `json:"video_url,omitempty"`
	IsFavorite bool               `json:"is_favorite"`
	Photos     []PhotoUpload      `json:"photos,omitempty"`
	ShareWith  []string           `json:"share_with,omitempty"`
}

// VisitResult reports what LogVisit stored. Photos that could not be stored
// and shares that failed are listed rather than failing the visit.
type VisitResult struct {
	Entry         *models.JournalEntry `json:"entry"`
	SkippedPhotos []string             `json:"skipped_photos,omitempty"`
	ShareErrors   map[string]string    `json:"share_errors,omitempty"`
}

// LogVisit records a visit end to end: the campground is looked up or
// created, the entry is created, photos are uploaded one by one and the
// entry is shared with each requested user.
func (s *JournalService) LogVisit(ctx context.Context, userID string, in *VisitInput) (*VisitResult, error) {
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	cg, err := s.campgrounds.GetOrCreateCampground(ctx, in.PlaceID, in.Campground)
	if err != nil {
		return nil, err
	}

	e, err := s.CreateEntry(ctx, userID, &EntryInput{
		CampgroundID: cg.ID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Notes:        in.Notes,
		VideoURL:     in.VideoURL,
		IsFavorite:   in.IsFavorite,
	})
	if err != nil {
		return nil, err
	}
	e.Campground = cg

	res := &VisitResult{Entry: e}

	for _, up := range in.Photos {
		p, err := s.storePhoto(ctx, userID, e, up)
		if err != nil {
			s.log.Warn(ctx, "photo skipped", "entry_id", e.ID, "filename", up.Filename, "error", err)
			res.SkippedPhotos = append(res.SkippedPhotos, up.Filename)
			continue
		}
		e.Photos = append(e.Photos, p)
	}

	for _, recipientID := range in.ShareWith {
		if _, err := s.ShareEntry(ctx, e.ID, recipientID, userID); err != nil {
			s.log.Warn(ctx, "share failed", "entry_id", e.ID, "recipient_id", recipientID, "error", err)
			if res.ShareErrors == nil {
				res.ShareErrors = make(map[string]string)
			}
			res.ShareErrors[recipientID] = err.Error()
		}
	}

	return res, nil
}

func (s *JournalService) storePhoto(ctx context.Context, userID string, e *models.JournalEntry, up PhotoUpload) (*models.Photo, error) {
	obj, err := s.storage.UploadPhoto(ctx, userID, e.CampgroundID, up.Filename, up.Data)
	if err != nil {
		return nil, err
	}

	p, err := s.storage.SavePhotoRecord(ctx, &models.Photo{
		UserID:         userID,
		CampgroundID:   e.CampgroundID,
		JournalEntryID: &e.ID,
		StoragePath:    obj.Path,
		PublicURL:      obj.PublicURL,
		Caption:        up.Caption,
	})
	if err != nil {
		if derr := s.storage.DeletePhotoObject(ctx, obj.Path); derr != nil {
			s.log.Warn(ctx, "error removing orphaned photo object", "path", obj.Path, "error", derr)
		}
		return nil, fmt.Errorf("error saving photo record: %w", err)
	}
	return p, nil
}
