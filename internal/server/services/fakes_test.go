package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/campgrounds"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/follows"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/photos"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

var (
	errBoom          = errors.New("boom")
	errNotFound      = common.ErrorNotFound
	errAlreadyExists = common.ErrorAlreadyExists
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeRepoManager hands out the same fake repositories for every handle,
// transactional or not.
type fakeRepoManager struct {
	profiles      *fakeProfiles
	refreshTokens *fakeRefreshTokens
	campgrounds   *fakeCampgrounds
	entries       *fakeEntries
	photos        *fakePhotos
	follows       *fakeFollows
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return m.profiles }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}
func (m *fakeRepoManager) Campgrounds(dbx.DBTX) campgrounds.Repository { return m.campgrounds }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository         { return m.entries }
func (m *fakeRepoManager) Photos(dbx.DBTX) photos.Repository           { return m.photos }
func (m *fakeRepoManager) Follows(dbx.DBTX) follows.Repository         { return m.follows }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

type fakeProfiles struct {
	profiles.Repository

	createFn        func(*models.Profile) (*models.Profile, error)
	byID            map[string]*models.Profile
	byEmailFn       func(string) (*models.Profile, error)
	updateFn        func(string, *models.ProfilePatch) (*models.Profile, error)
	searchFn        func(string, int) ([]*models.Profile, error)
	visitorsFn      func(string) ([]*models.Profile, error)
	statsFn         func(string) (*models.UserStats, error)
	listByIDsCalled int
	getByIDCalls    int
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) (*models.Profile, error) {
	return f.createFn(p)
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	f.getByIDCalls++
	p, ok := f.byID[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	return f.byEmailFn(email)
}

func (f *fakeProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	for _, p := range f.byID {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeProfiles) ListByIDs(_ context.Context, ids []string) ([]*models.Profile, error) {
	f.listByIDsCalled++
	var res []*models.Profile
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (f *fakeProfiles) Update(_ context.Context, id string, patch *models.ProfilePatch) (*models.Profile, error) {
	return f.updateFn(id, patch)
}

func (f *fakeProfiles) Search(_ context.Context, q string, limit int) ([]*models.Profile, error) {
	return f.searchFn(q, limit)
}

func (f *fakeProfiles) ListCampgroundVisitors(_ context.Context, id string) ([]*models.Profile, error) {
	return f.visitorsFn(id)
}

func (f *fakeProfiles) Stats(_ context.Context, id string) (*models.UserStats, error) {
	return f.statsFn(id)
}

type fakeRefreshTokens struct {
	refreshtokens.Repository

	created    []string
	createErr  error
	consumeOut *models.RefreshToken
	consumeErr error
	deleted    []string
	deleteErr  error
	pruned     int64
}

func (f *fakeRefreshTokens) Create(_ context.Context, userID, token string, _ time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, userID+":"+token)
	return nil
}

func (f *fakeRefreshTokens) Consume(_ context.Context, _ string) (*models.RefreshToken, error) {
	return f.consumeOut, f.consumeErr
}

func (f *fakeRefreshTokens) Delete(ctx context.Context, token string) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	f.deleted = append(f.deleted, token)
	return f.deleteErr
}

func (f *fakeRefreshTokens) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return f.pruned, nil
}

// fakeCampgrounds keeps rows keyed by place id.
type fakeCampgrounds struct {
	campgrounds.Repository

	rows        map[string]*models.Campground
	createErr   error
	onCreate    func(*models.Campground)
	getCalls    int
	updateCalls int
	statsFn     func(string) (*models.CampgroundStats, error)
	visited     []*models.VisitedLocation
}

func newFakeCampgrounds(rows ...*models.Campground) *fakeCampgrounds {
	f := &fakeCampgrounds{rows: map[string]*models.Campground{}}
	for _, r := range rows {
		f.rows[r.GooglePlaceID] = r
	}
	return f
}

func (f *fakeCampgrounds) Create(_ context.Context, c *models.Campground) (*models.Campground, error) {
	if f.onCreate != nil {
		f.onCreate(c)
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.rows[c.GooglePlaceID]; ok {
		return nil, errAlreadyExists
	}
	cp := *c
	cp.ID = "cg-" + c.GooglePlaceID
	f.rows[c.GooglePlaceID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCampgrounds) GetByID(_ context.Context, id string) (*models.Campground, error) {
	for _, c := range f.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeCampgrounds) GetByPlaceID(_ context.Context, placeID string) (*models.Campground, error) {
	f.getCalls++
	c, ok := f.rows[placeID]
	if !ok {
		return nil, errNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampgrounds) ListByIDs(_ context.Context, ids []string) ([]*models.Campground, error) {
	var res []*models.Campground
	for _, id := range ids {
		for _, c := range f.rows {
			if c.ID == id {
				res = append(res, c)
			}
		}
	}
	return res, nil
}

func (f *fakeCampgrounds) List(_ context.Context, limit int) ([]*models.Campground, error) {
	res := make([]*models.Campground, 0, limit)
	for _, c := range f.rows {
		if len(res) == limit {
			break
		}
		res = append(res, c)
	}
	return res, nil
}

func (f *fakeCampgrounds) ListMissingCoordinates(context.Context) ([]*models.Campground, error) {
	var res []*models.Campground
	for _, c := range f.rows {
		if !c.HasCoordinates() {
			res = append(res, c)
		}
	}
	return res, nil
}

func (f *fakeCampgrounds) UpdateCoordinates(_ context.Context, id string, lat, lng float64) (*models.Campground, error) {
	f.updateCalls++
	for _, c := range f.rows {
		if c.ID == id {
			c.Latitude, c.Longitude = &lat, &lng
			cp := *c
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeCampgrounds) Stats(_ context.Context, id string) (*models.CampgroundStats, error) {
	return f.statsFn(id)
}

func (f *fakeCampgrounds) ListVisitedByUser(context.Context, string) ([]*models.VisitedLocation, error) {
	return f.visited, nil
}

// fakeEntries is an in-memory journal with the same ownership and status
// rules as the SQL repository.
type fakeEntries struct {
	entries.Repository

	rows      map[string]*models.JournalEntry
	seq       int
	createErr error
	markErr   error
	acceptErr error
	feedIDs   []string
	feedLimit int
}

func newFakeEntries(rows ...*models.JournalEntry) *fakeEntries {
	f := &fakeEntries{rows: map[string]*models.JournalEntry{}}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeEntries) Create(_ context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	cp := *e
	cp.ID = fmt.Sprintf("e-new-%d", f.seq)
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeEntries) GetByID(_ context.Context, id string) (*models.JournalEntry, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEntries) Update(_ context.Context, id, userID string, patch *models.EntryPatch) (*models.JournalEntry, error) {
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return nil, errNotFound
	}
	if patch.StartDate != nil {
		e.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		e.EndDate = *patch.EndDate
	}
	if patch.Notes != nil {
		e.Notes = patch.Notes
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEntries) Delete(_ context.Context, id, userID string) error {
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return errNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeEntries) PendingDraftExists(_ context.Context, k entries.DraftKey) (bool, error) {
	for _, e := range f.rows {
		if e.IsDraft() && e.UserID == k.RecipientID && e.CampgroundID == k.CampgroundID &&
			e.SharedFromUserID != nil && *e.SharedFromUserID == k.SharerID &&
			e.StartDate.Equal(k.StartDate) && e.EndDate.Equal(k.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEntries) MarkShared(_ context.Context, id, recipientID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	e, ok := f.rows[id]
	if !ok {
		return errNotFound
	}
	accepted := false
	e.SharedWithUserID = &recipientID
	e.SharedAccepted = &accepted
	return nil
}

func (f *fakeEntries) SetSharedAccepted(_ context.Context, id string, accepted bool) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	e, ok := f.rows[id]
	if !ok {
		return errNotFound
	}
	e.SharedAccepted = &accepted
	return nil
}

func (f *fakeEntries) PublishDraft(_ context.Context, id, userID string) (*models.JournalEntry, error) {
	e, ok := f.rows[id]
	if !ok || e.UserID != userID || !e.IsDraft() {
		return nil, errNotFound
	}
	e.Status = "published"
	cp := *e
	return &cp, nil
}

func (f *fakeEntries) DeleteDraft(_ context.Context, id, userID string) error {
	e, ok := f.rows[id]
	if !ok || e.UserID != userID || !e.IsDraft() {
		return errNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeEntries) ListByUser(_ context.Context, userID string, includeDrafts bool) ([]*models.JournalEntry, error) {
	var res []*models.JournalEntry
	for _, e := range f.rows {
		if e.UserID == userID && (includeDrafts || !e.IsDraft()) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (f *fakeEntries) ListDrafts(_ context.Context, userID string) ([]*models.JournalEntry, error) {
	var res []*models.JournalEntry
	for _, e := range f.rows {
		if e.UserID == userID && e.IsDraft() {
			res = append(res, e)
		}
	}
	return res, nil
}

func (f *fakeEntries) ListPublishedByCampground(_ context.Context, campgroundID string) ([]*models.JournalEntry, error) {
	var res []*models.JournalEntry
	for _, e := range f.rows {
		if e.CampgroundID == campgroundID && !e.IsDraft() {
			res = append(res, e)
		}
	}
	return res, nil
}

func (f *fakeEntries) ListFeed(_ context.Context, userIDs []string, limit int) ([]*models.JournalEntry, error) {
	f.feedIDs, f.feedLimit = userIDs, limit
	var res []*models.JournalEntry
	for _, e := range f.rows {
		for _, id := range userIDs {
			if e.UserID == id && !e.IsDraft() {
				res = append(res, e)
			}
		}
	}
	return res, nil
}

type fakePhotos struct {
	photos.Repository

	rows      []*models.Photo
	seq       int
	createErr error
	refs      map[string]int
}

func (f *fakePhotos) Create(_ context.Context, p *models.Photo) (*models.Photo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	cp := *p
	cp.ID = fmt.Sprintf("ph-new-%d", f.seq)
	f.rows = append(f.rows, &cp)
	out := cp
	return &out, nil
}

func (f *fakePhotos) ListByEntry(_ context.Context, entryID string) ([]*models.Photo, error) {
	var res []*models.Photo
	for _, p := range f.rows {
		if p.JournalEntryID != nil && *p.JournalEntryID == entryID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (f *fakePhotos) ListByEntries(_ context.Context, ids []string) ([]*models.Photo, error) {
	var res []*models.Photo
	for _, id := range ids {
		ps, _ := f.ListByEntry(context.Background(), id)
		res = append(res, ps...)
	}
	return res, nil
}

func (f *fakePhotos) DeleteByEntry(_ context.Context, entryID string) ([]*models.Photo, error) {
	var kept, removed []*models.Photo
	for _, p := range f.rows {
		if p.JournalEntryID != nil && *p.JournalEntryID == entryID {
			removed = append(removed, p)
		} else {
			kept = append(kept, p)
		}
	}
	f.rows = kept
	return removed, nil
}

func (f *fakePhotos) Delete(_ context.Context, id, userID string) (*models.Photo, error) {
	for i, p := range f.rows {
		if p.ID == id && p.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return p, nil
		}
	}
	return nil, errNotFound
}

func (f *fakePhotos) CountByStoragePath(_ context.Context, path string) (int, error) {
	if f.refs != nil {
		if n, ok := f.refs[path]; ok {
			return n, nil
		}
	}
	n := 0
	for _, p := range f.rows {
		if p.StoragePath == path {
			n++
		}
	}
	return n, nil
}

type fakeFollows struct {
	follows.Repository

	following map[string][]string
	createErr error
	deleted   [][2]string
}

func (f *fakeFollows) Create(_ context.Context, followerID, followingID string) (*models.Follow, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Follow{ID: "f-1", FollowerID: followerID, FollowingID: followingID}, nil
}

func (f *fakeFollows) Delete(_ context.Context, followerID, followingID string) error {
	f.deleted = append(f.deleted, [2]string{followerID, followingID})
	return nil
}

func (f *fakeFollows) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	for _, id := range f.following[followerID] {
		if id == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollows) ListFollowing(_ context.Context, followerID string) ([]string, error) {
	return f.following[followerID], nil
}

func (f *fakeFollows) Stats(_ context.Context, userID string) (*models.FollowStats, error) {
	st := &models.FollowStats{Following: len(f.following[userID])}
	for _, ids := range f.following {
		for _, id := range ids {
			if id == userID {
				st.Followers++
			}
		}
	}
	return st, nil
}

// fakeStore records object operations.
type fakeStore struct {
	puts      map[string]string
	deletes   []string
	putErr    error
	deleteErr error
}

func newFakeStore() *fakeStore { return &fakeStore{puts: map[string]string{}} }

func (s *fakeStore) Put(_ context.Context, bucket, key string, _ []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts[bucket+"/"+key] = contentType
	return nil
}

func (s *fakeStore) Delete(_ context.Context, bucket, key string) error {
	s.deletes = append(s.deletes, bucket+"/"+key)
	return s.deleteErr
}

func (s *fakeStore) PresignGet(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + bucket + "/" + key + "?ttl=" + ttl.String(), nil
}

func (s *fakeStore) PublicURL(bucket, key string) string {
	return "https://public.example/" + bucket + "/" + key
}
