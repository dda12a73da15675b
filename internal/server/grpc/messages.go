package grpc

import (
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/places"
)

// Empty is used by calls that take or return nothing.
type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// GetProfileRequest selects a profile by id or username; both empty means
// the caller.
type GetProfileRequest struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

type SearchUsersRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type ProfilesResponse struct {
	Profiles []*models.Profile `json:"profiles"`
}

// UserRequest names another user; empty means the caller where allowed.
type UserRequest struct {
	UserID string `json:"user_id,omitempty"`
}

type IsFollowingResponse struct {
	Following bool `json:"following"`
}

type SearchPlacesRequest struct {
	Query string `json:"query"`
}

type PlacesResponse struct {
	Places []places.Place `json:"places"`
}

type PlaceRequest struct {
	PlaceID string `json:"place_id"`
}

type GetOrCreateCampgroundRequest struct {
	PlaceID    string             `json:"place_id"`
	Campground *models.Campground `json:"campground,omitempty"`
}

// GetCampgroundRequest selects a campground by id or by place id.
type GetCampgroundRequest struct {
	ID      string `json:"id,omitempty"`
	PlaceID string `json:"place_id,omitempty"`
}

type ListCampgroundsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type CampgroundsResponse struct {
	Campgrounds []*models.Campground `json:"campgrounds"`
}

type CampgroundRequest struct {
	CampgroundID string `json:"campground_id"`
}

type EntryRequest struct {
	ID string `json:"id"`
}

type UpdateEntryRequest struct {
	ID    string            `json:"id"`
	Patch models.EntryPatch `json:"patch"`
}

type ListUserEntriesRequest struct {
	UserID        string `json:"user_id,omitempty"`
	IncludeDrafts bool   `json:"include_drafts,omitempty"`
}

type EntriesResponse struct {
	Entries []*models.JournalEntry `json:"entries"`
}

type VisitedLocationsResponse struct {
	Locations []*models.VisitedLocation `json:"locations"`
}

type ShareEntryRequest struct {
	EntryID     string `json:"entry_id"`
	RecipientID string `json:"recipient_id"`
}

type DraftRequest struct {
	DraftID string `json:"draft_id"`
}

type UploadPhotoRequest struct {
	CampgroundID string `json:"campground_id"`
	Filename     string `json:"filename"`
	Data         []byte `json:"data"`
}

type UploadAvatarRequest struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

type SavePhotoRequest struct {
	CampgroundID   string  `json:"campground_id"`
	JournalEntryID *string `json:"journal_entry_id,omitempty"`
	StoragePath    string  `json:"storage_path"`
	PublicURL      string  `json:"public_url"`
	Caption        *string `json:"caption,omitempty"`
}

type PhotosResponse struct {
	Photos []*models.Photo `json:"photos"`
}

type PhotoRequest struct {
	ID string `json:"id"`
}

type PresignPhotoURLRequest struct {
	Path string `json:"path"`
}

type PresignPhotoURLResponse struct {
	URL string `json:"url"`
}
