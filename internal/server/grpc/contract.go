package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/places"
	"github.com/dmitrijs2005/campjournal/internal/server/services"
)

// The interfaces below list what the transport needs from each service.
// They are satisfied by the types in package services.

type AuthService interface {
	SignUp(ctx context.Context, email, password, username, fullName string) (*models.Profile, error)
	SignIn(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	Authenticate(accessToken string) (string, error)
}

type ProfileService interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.Profile, error)
	GetUserStats(ctx context.Context, userID string) (*models.UserStats, error)
}

type FollowService interface {
	Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowStats(ctx context.Context, userID string) (*models.FollowStats, error)
}

type CampgroundService interface {
	GetOrCreateCampground(ctx context.Context, placeID string, fields *models.Campground) (*models.Campground, error)
	GetCampground(ctx context.Context, id string) (*models.Campground, error)
	GetCampgroundByPlaceID(ctx context.Context, placeID string) (*models.Campground, error)
	ListCampgrounds(ctx context.Context, limit int) ([]*models.Campground, error)
	GetCampgroundStats(ctx context.Context, id string) (*models.CampgroundStats, error)
	GetCampgroundVisitors(ctx context.Context, id string) ([]*models.Profile, error)
	GetCampgroundEntries(ctx context.Context, id string) ([]*models.JournalEntry, error)
	SearchPlaces(ctx context.Context, query string) ([]places.Place, error)
	ImportPlace(ctx context.Context, placeID string) (*models.Campground, error)
}

type JournalService interface {
	CreateEntry(ctx context.Context, userID string, in *services.EntryInput) (*models.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*models.JournalEntry, error)
	UpdateEntry(ctx context.Context, userID, id string, patch *models.EntryPatch) (*models.JournalEntry, error)
	DeleteEntry(ctx context.Context, userID, id string) error
	ListUserEntries(ctx context.Context, userID string, includeDrafts bool) ([]*models.JournalEntry, error)
	ListEntriesForCampground(ctx context.Context, userID, campgroundID string) ([]*models.JournalEntry, error)
	GetFeed(ctx context.Context, userID string) ([]*models.JournalEntry, error)
	ListVisitedLocations(ctx context.Context, userID string) ([]*models.VisitedLocation, error)
	LogVisit(ctx context.Context, userID string, in *services.VisitInput) (*services.VisitResult, error)
	ShareEntry(ctx context.Context, entryID, recipientID, sharerID string) (*models.JournalEntry, error)
	AcceptDraft(ctx context.Context, draftID, recipientID string) (*models.JournalEntry, error)
	RejectDraft(ctx context.Context, draftID, recipientID string) error
	ListDrafts(ctx context.Context, userID string) ([]*models.JournalEntry, error)
}

type StorageService interface {
	UploadPhoto(ctx context.Context, userID, campgroundID, filename string, data []byte) (*services.UploadedObject, error)
	UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*services.UploadedObject, error)
	SavePhotoRecord(ctx context.Context, p *models.Photo) (*models.Photo, error)
	GetPhotosForEntry(ctx context.Context, entryID string) ([]*models.Photo, error)
	DeletePhotoRecord(ctx context.Context, userID, photoID string) error
	PresignPhotoURL(ctx context.Context, storagePath string) (string, error)
}

// Services bundles the collaborators of the gRPC server.
type Services struct {
	Auth        AuthService
	Profiles    ProfileService
	Follows     FollowService
	Campgrounds CampgroundService
	Journal     JournalService
	Storage     StorageService
}

var (
	_ AuthService       = (*services.AuthService)(nil)
	_ ProfileService    = (*services.ProfileService)(nil)
	_ FollowService     = (*services.FollowService)(nil)
	_ CampgroundService = (*services.CampgroundService)(nil)
	_ JournalService    = (*services.JournalService)(nil)
	_ StorageService    = (*services.StorageService)(nil)
)
