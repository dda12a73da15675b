package models

import "time"

// Profile is a user account. PasswordHash never leaves the server.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Username     string    `json:"username"`
	FullName     *string   `json:"full_name,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Website      *string   `json:"website,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfilePatch lists the editable profile fields; nil means unchanged.
type ProfilePatch struct {
	Username  *string `json:"username,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Website   *string `json:"website,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserStats aggregates a user's journal activity.
type UserStats struct {
	TotalEntries int `json:"total_entries"`
	TotalPhotos  int `json:"total_photos"`
}
