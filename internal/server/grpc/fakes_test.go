package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/config"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/services"
)

type fakeAuth struct {
	AuthService

	tokens map[string]string
	pair   *models.TokenPair
}

func (f *fakeAuth) Authenticate(token string) (string, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	if token == "expired" {
		return "", common.ErrTokenExpired
	}
	return "", common.ErrInvalidToken
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (*models.TokenPair, error) {
	if email == "alice@example.com" && password == "secret1" {
		return f.pair, nil
	}
	return nil, common.ErrorUnauthorized
}

type fakeProfiles struct {
	ProfileService

	byID    map[string]*models.Profile
	patches []*models.ProfilePatch
}

func (f *fakeProfiles) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetProfileByUsername(_ context.Context, username string) (*models.Profile, error) {
	for _, p := range f.byID {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error) {
	f.patches = append(f.patches, patch)
	return f.GetProfileByID(context.Background(), userID)
}

type fakeJournal struct {
	JournalService

	entries    map[string]*models.JournalEntry
	listTarget string
	listDrafts bool
	shareCalls [][3]string
	shareErr   error
}

func (f *fakeJournal) GetEntry(_ context.Context, id string) (*models.JournalEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeJournal) ListUserEntries(_ context.Context, userID string, includeDrafts bool) ([]*models.JournalEntry, error) {
	f.listTarget, f.listDrafts = userID, includeDrafts
	return []*models.JournalEntry{}, nil
}

func (f *fakeJournal) ShareEntry(_ context.Context, entryID, recipientID, sharerID string) (*models.JournalEntry, error) {
	f.shareCalls = append(f.shareCalls, [3]string{entryID, recipientID, sharerID})
	if f.shareErr != nil {
		return nil, f.shareErr
	}
	return &models.JournalEntry{ID: "draft-1", UserID: recipientID, Status: common.StatusDraft}, nil
}

type fakeStorage struct {
	StorageService

	saved []*models.Photo
}

func (f *fakeStorage) UploadAvatar(_ context.Context, userID, filename string, _ []byte) (*services.UploadedObject, error) {
	return &services.UploadedObject{Path: userID + "/avatar.png", PublicURL: "https://cdn.example/" + userID + "/avatar.png"}, nil
}

func (f *fakeStorage) SavePhotoRecord(_ context.Context, p *models.Photo) (*models.Photo, error) {
	f.saved = append(f.saved, p)
	cp := *p
	cp.ID = "ph-1"
	return &cp, nil
}

type testDeps struct {
	auth     *fakeAuth
	profiles *fakeProfiles
	journal  *fakeJournal
	storage  *fakeStorage
}

func newTestDeps() *testDeps {
	return &testDeps{
		auth: &fakeAuth{
			tokens: map[string]string{"alice-token": "alice", "bob-token": "bob"},
			pair:   &models.TokenPair{AccessToken: "alice-token", RefreshToken: "r1"},
		},
		profiles: &fakeProfiles{byID: map[string]*models.Profile{
			"alice": {ID: "alice", Username: "alice", Email: "alice@example.com"},
			"bob":   {ID: "bob", Username: "bob", Email: "bob@example.com"},
		}},
		journal: &fakeJournal{entries: map[string]*models.JournalEntry{
			"pub":   {ID: "pub", UserID: "alice", Status: common.StatusPublished},
			"draft": {ID: "draft", UserID: "bob", Status: common.StatusDraft},
		}},
		storage: &fakeStorage{},
	}
}

func (d *testDeps) services() Services {
	return Services{Auth: d.auth, Profiles: d.profiles, Journal: d.journal, Storage: d.storage}
}

func newTestServer(d *testDeps, cfg *config.Config) *GRPCServer {
	if cfg == nil {
		cfg = &config.Config{EndpointAddrGRPC: "127.0.0.1:0"}
	}
	return NewGRPCServer(cfg, logging.Nop(), d.services())
}

func asUser(id string) context.Context {
	return context.WithValue(context.Background(), userIDKey, id)
}
