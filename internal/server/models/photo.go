package models

import "time"

// Photo references an object in the photo bucket. Shared copies point at the
// same StoragePath as the original.
type Photo struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CampgroundID   string    `json:"campground_id"`
	JournalEntryID *string   `json:"journal_entry_id,omitempty"`
	StoragePath    string    `json:"storage_path"`
	PublicURL      string    `json:"public_url"`
	Caption        *string   `json:"caption,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
