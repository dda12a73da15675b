package models

import (
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
)

// JournalEntry is one visit in a user's journal.
//
// SharedAccepted is tri-state: nil when the entry was never shared, false
// while the recipient's draft is pending, true once it was accepted.
type JournalEntry struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CampgroundID     string    `json:"campground_id"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Notes            *string   `json:"notes,omitempty"`
	VideoURL         *string   `json:"video_url,omitempty"`
	IsFavorite       bool      `json:"is_favorite"`
	Status           string    `json:"status"`
	SharedFromUserID *string   `json:"shared_from_user_id,omitempty"`
	SharedWithUserID *string   `json:"shared_with_user_id,omitempty"`
	OriginalEntryID  *string   `json:"original_entry_id,omitempty"`
	SharedAccepted   *bool     `json:"shared_accepted,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Populated by the services, not stored on the row.
	Campground *Campground `json:"campground,omitempty"`
	Author     *Profile    `json:"author,omitempty"`
	Photos     []*Photo    `json:"photos,omitempty"`
}

// IsDraft reports whether the entry is an unconfirmed shared copy.
func (e *JournalEntry) IsDraft() bool {
	return e.Status == common.StatusDraft
}

// EntryPatch lists the fields an owner may edit; nil means unchanged.
type EntryPatch struct {
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	VideoURL   *string    `json:"video_url,omitempty"`
	IsFavorite *bool      `json:"is_favorite,omitempty"`
}
