package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/cache"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/places"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlaces struct {
	mu      sync.Mutex
	details map[string]*places.Place
	search  []places.Place
	queries []string
}

func (f *fakePlaces) SearchCampgrounds(_ context.Context, q string) ([]places.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.search, nil
}

func (f *fakePlaces) GetPlaceDetails(_ context.Context, id string) (*places.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.details[id]
	if !ok {
		return nil, places.ErrStatus
	}
	return p, nil
}

func newCampgroundService(t *testing.T, fc *fakeCampgrounds, fp *fakePlaces) *CampgroundService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	rm := &fakeRepoManager{
		campgrounds: fc,
		entries:     newFakeEntries(),
		profiles:    &fakeProfiles{byID: map[string]*models.Profile{}},
	}
	return NewCampgroundService(db, rm, nil, fp, time.Millisecond, logging.Nop())
}

func coords(lat, lng float64) (*float64, *float64) { return &lat, &lng }

func TestGetOrCreateCampground_Creates(t *testing.T) {
	fc := newFakeCampgrounds()
	s := newCampgroundService(t, fc, &fakePlaces{})

	cg, err := s.GetOrCreateCampground(context.Background(), "p1", &models.Campground{Name: "Pines"})
	require.NoError(t, err)
	assert.Equal(t, "cg-p1", cg.ID)
	assert.Equal(t, "p1", cg.GooglePlaceID)

	again, err := s.GetOrCreateCampground(context.Background(), "p1", &models.Campground{Name: "Other name"})
	require.NoError(t, err)
	assert.Equal(t, cg.ID, again.ID)
	assert.Equal(t, "Pines", again.Name)
	assert.Len(t, fc.rows, 1)
}

func TestGetOrCreateCampground_FillsMissingCoordinates(t *testing.T) {
	fc := newFakeCampgrounds(&models.Campground{ID: "cg-p1", GooglePlaceID: "p1", Name: "Pines"})
	s := newCampgroundService(t, fc, &fakePlaces{})

	lat, lng := coords(1.5, 2.5)
	cg, err := s.GetOrCreateCampground(context.Background(), "p1", &models.Campground{Name: "Pines", Latitude: lat, Longitude: lng})
	require.NoError(t, err)
	assert.Equal(t, 1.5, *cg.Latitude)
	assert.Equal(t, 1, fc.updateCalls)

	// known coordinates are not overwritten
	lat, lng = coords(9, 9)
	cg, err = s.GetOrCreateCampground(context.Background(), "p1", &models.Campground{Name: "Pines", Latitude: lat, Longitude: lng})
	require.NoError(t, err)
	assert.Equal(t, 1.5, *cg.Latitude)
	assert.Equal(t, 1, fc.updateCalls)
}

func TestGetOrCreateCampground_LostRaceReturnsWinner(t *testing.T) {
	fc := newFakeCampgrounds()
	// another creator inserts between our lookup and our insert
	fc.onCreate = func(c *models.Campground) {
		fc.rows[c.GooglePlaceID] = &models.Campground{ID: "cg-winner", GooglePlaceID: c.GooglePlaceID, Name: "Winner"}
	}
	s := newCampgroundService(t, fc, &fakePlaces{})

	cg, err := s.GetOrCreateCampground(context.Background(), "p1", &models.Campground{Name: "Loser"})
	require.NoError(t, err)
	assert.Equal(t, "cg-winner", cg.ID)
	assert.Equal(t, 2, fc.getCalls)
}

func TestGetOrCreateCampground_Validation(t *testing.T) {
	s := newCampgroundService(t, newFakeCampgrounds(), &fakePlaces{})

	_, err := s.GetOrCreateCampground(context.Background(), " ", &models.Campground{Name: "x"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.GetOrCreateCampground(context.Background(), "p1", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestGetOrCreateCampground_UsesCache(t *testing.T) {
	fc := newFakeCampgrounds(&models.Campground{ID: "cg-p1", GooglePlaceID: "p1", Name: "Pines"})
	s := newCampgroundService(t, fc, &fakePlaces{})
	s.cache = cache.NewCampgrounds(16, time.Minute)

	for range 3 {
		_, err := s.GetOrCreateCampground(context.Background(), "p1", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fc.getCalls)

	cg, err := s.GetCampground(context.Background(), "cg-p1")
	require.NoError(t, err)
	assert.Equal(t, "Pines", cg.Name)
}

func TestListCampgrounds_DefaultLimit(t *testing.T) {
	fc := newFakeCampgrounds(
		&models.Campground{ID: "a", GooglePlaceID: "a"},
		&models.Campground{ID: "b", GooglePlaceID: "b"},
	)
	s := newCampgroundService(t, fc, &fakePlaces{})

	res, err := s.ListCampgrounds(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = s.ListCampgrounds(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestGetCampgroundEntries_WithAuthors(t *testing.T) {
	fc := newFakeCampgrounds(&models.Campground{ID: "cg-1", GooglePlaceID: "p1"})
	s := newCampgroundService(t, fc, &fakePlaces{})
	rm := s.repomanager.(*fakeRepoManager)
	rm.profiles.byID["alice"] = &models.Profile{ID: "alice", Username: "alice"}
	rm.entries.rows["e1"] = &models.JournalEntry{ID: "e1", UserID: "alice", CampgroundID: "cg-1", Status: common.StatusPublished}
	rm.entries.rows["e2"] = &models.JournalEntry{ID: "e2", UserID: "alice", CampgroundID: "cg-1", Status: common.StatusDraft}

	res, err := s.GetCampgroundEntries(context.Background(), "cg-1")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "alice", res[0].Author.Username)
}

func TestCampgroundStatsAndVisitors(t *testing.T) {
	fc := newFakeCampgrounds()
	fc.statsFn = func(string) (*models.CampgroundStats, error) {
		return &models.CampgroundStats{TotalVisits: 3, UniqueVisitors: 2, TotalPhotos: 5}, nil
	}
	s := newCampgroundService(t, fc, &fakePlaces{})
	rm := s.repomanager.(*fakeRepoManager)
	rm.profiles.visitorsFn = func(string) ([]*models.Profile, error) {
		return []*models.Profile{{ID: "alice"}, {ID: "bob"}}, nil
	}

	st, err := s.GetCampgroundStats(context.Background(), "cg-1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.UniqueVisitors)

	v, err := s.GetCampgroundVisitors(context.Background(), "cg-1")
	require.NoError(t, err)
	assert.Len(t, v, 2)
}

func TestSearchPlaces(t *testing.T) {
	fp := &fakePlaces{search: []places.Place{{PlaceID: "p1", Name: "Pines"}}}
	s := newCampgroundService(t, newFakeCampgrounds(), fp)

	_, err := s.SearchPlaces(context.Background(), "  ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	res, err := s.SearchPlaces(context.Background(), " yosemite ")
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, []string{"yosemite"}, fp.queries)
}

func TestImportPlace(t *testing.T) {
	fp := &fakePlaces{details: map[string]*places.Place{
		"p1": {
			PlaceID:          "p1",
			Name:             "Upper Pines",
			FormattedAddress: "Yosemite Valley, CA, USA",
			Geometry:         &places.Geometry{Location: &places.Location{Lat: 37.7, Lng: -119.5}},
		},
	}}
	fc := newFakeCampgrounds()
	s := newCampgroundService(t, fc, fp)

	cg, err := s.ImportPlace(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Upper Pines", cg.Name)
	assert.True(t, cg.HasCoordinates())

	_, err = s.ImportPlace(context.Background(), "missing")
	assert.ErrorIs(t, err, places.ErrStatus)
}

func TestBackfillCoordinates(t *testing.T) {
	lat, lng := coords(1, 1)
	fc := newFakeCampgrounds(
		&models.Campground{ID: "a", GooglePlaceID: "pa"},
		&models.Campground{ID: "b", GooglePlaceID: "pb"},
		&models.Campground{ID: "c", GooglePlaceID: "pc"},
		&models.Campground{ID: "d", GooglePlaceID: "pd", Latitude: lat, Longitude: lng},
	)
	fp := &fakePlaces{details: map[string]*places.Place{
		"pa": {PlaceID: "pa", Geometry: &places.Geometry{Location: &places.Location{Lat: 10, Lng: 20}}},
		"pb": {PlaceID: "pb"},
	}}
	s := newCampgroundService(t, fc, fp)

	n, err := s.BackfillCoordinates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 10.0, *fc.rows["pa"].Latitude)
	assert.False(t, fc.rows["pb"].HasCoordinates())
	assert.False(t, fc.rows["pc"].HasCoordinates())
}

func TestBackfillCoordinates_StopsOnCancel(t *testing.T) {
	fc := newFakeCampgrounds(&models.Campground{ID: "a", GooglePlaceID: "pa"})
	s := newCampgroundService(t, fc, &fakePlaces{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.BackfillCoordinates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
