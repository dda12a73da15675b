package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/metrics"
	"github.com/dmitrijs2005/campjournal/internal/server/cache"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/places"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/campgrounds"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
	"golang.org/x/time/rate"
)

const defaultCampgroundListLimit = 50

type CampgroundService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	cache            *cache.Campgrounds
	places           places.Lookup
	backfillInterval time.Duration
	log              logging.Logger
}

// NewCampgroundService builds the service; a nil cache disables caching.
func NewCampgroundService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Campgrounds, p places.Lookup, backfillInterval time.Duration, log logging.Logger) *CampgroundService {
	return &CampgroundService{
		db:               db,
		repomanager:      m,
		cache:            c,
		places:           p,
		backfillInterval: backfillInterval,
		log:              log.With("module", "campgrounds"),
	}
}

func (s *CampgroundService) campgrounds() campgrounds.Repository {
	return s.cache.Wrap(s.repomanager.Campgrounds(s.db))
}

// GetOrCreateCampground returns the single campground row for placeID,
// creating it from fields when missing. Coordinates carried by fields fill
// in a stored row that lacks them. A concurrent creator winning the insert
// is resolved by reading its row back.
func (s *CampgroundService) GetOrCreateCampground(ctx context.Context, placeID string, fields *models.Campground) (*models.Campground, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, fmt.Errorf("%w: place id is required", common.ErrorValidation)
	}

	repo := s.campgrounds()

	cg, err := repo.GetByPlaceID(ctx, placeID)
	if err == nil {
		if !cg.HasCoordinates() && fields != nil && fields.HasCoordinates() {
			cg, err = repo.UpdateCoordinates(ctx, cg.ID, *fields.Latitude, *fields.Longitude)
			if err != nil {
				return nil, fmt.Errorf("error updating campground coordinates: %w", err)
			}
		}
		return cg, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading campground: %w", err)
	}

	in := &models.Campground{}
	if fields != nil {
		cp := *fields
		in = &cp
	}
	in.GooglePlaceID = placeID
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: campground name is required", common.ErrorValidation)
	}

	cg, err = repo.Create(ctx, in)
	if errors.Is(err, common.ErrorAlreadyExists) {
		s.log.Debug(ctx, "campground created concurrently, fetching winner", "place_id", placeID)
		cg, err = repo.GetByPlaceID(ctx, placeID)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating campground: %w", err)
	}

	return cg, nil
}

func (s *CampgroundService) GetCampground(ctx context.Context, id string) (*models.Campground, error) {
	cg, err := s.campgrounds().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading campground: %w", err)
	}
	return cg, nil
}

func (s *CampgroundService) GetCampgroundByPlaceID(ctx context.Context, placeID string) (*models.Campground, error) {
	cg, err := s.campgrounds().GetByPlaceID(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("error loading campground: %w", err)
	}
	return cg, nil
}

// ListCampgrounds returns the newest campgrounds first.
func (s *CampgroundService) ListCampgrounds(ctx context.Context, limit int) ([]*models.Campground, error) {
	if limit <= 0 {
		limit = defaultCampgroundListLimit
	}
	res, err := s.campgrounds().List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing campgrounds: %w", err)
	}
	return res, nil
}

func (s *CampgroundService) GetCampgroundStats(ctx context.Context, id string) (*models.CampgroundStats, error) {
	st, err := s.campgrounds().Stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading campground stats: %w", err)
	}
	return st, nil
}

// GetCampgroundVisitors lists users with a published entry at the campground.
func (s *CampgroundService) GetCampgroundVisitors(ctx context.Context, id string) ([]*models.Profile, error) {
	res, err := s.repomanager.Profiles(s.db).ListCampgroundVisitors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing visitors: %w", err)
	}
	return res, nil
}

// GetCampgroundEntries lists published entries at the campground together
// with their authors.
func (s *CampgroundService) GetCampgroundEntries(ctx context.Context, id string) ([]*models.JournalEntry, error) {
	res, err := s.repomanager.Entries(s.db).ListPublishedByCampground(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing campground entries: %w", err)
	}

	if err := attachAuthors(ctx, s.repomanager.Profiles(s.db), res); err != nil {
		return nil, err
	}
	return res, nil
}

// SearchPlaces runs a campground text search against the places API.
func (s *CampgroundService) SearchPlaces(ctx context.Context, query string) ([]places.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", common.ErrorValidation)
	}

	res, err := s.places.SearchCampgrounds(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching places: %w", err)
	}
	return res, nil
}

// ImportPlace fetches place details and stores the campground.
func (s *CampgroundService) ImportPlace(ctx context.Context, placeID string) (*models.Campground, error) {
	p, err := s.places.GetPlaceDetails(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("error loading place details: %w", err)
	}
	return s.GetOrCreateCampground(ctx, placeID, p.Campground())
}

// BackfillCoordinates looks up coordinates for every campground stored
// without them. Requests are paced by the backfill interval; a campground
// that cannot be resolved is logged and skipped. It returns the number of
// campgrounds updated.
func (s *CampgroundService) BackfillCoordinates(ctx context.Context) (int, error) {
	repo := s.campgrounds()

	missing, err := repo.ListMissingCoordinates(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing campgrounds without coordinates: %w", err)
	}

	s.log.Info(ctx, "backfilling coordinates", "count", len(missing))

	limiter := rate.NewLimiter(rate.Every(s.backfillInterval), 1)
	updated := 0

	for _, cg := range missing {
		if err := limiter.Wait(ctx); err != nil {
			return updated, err
		}

		p, err := s.places.GetPlaceDetails(ctx, cg.GooglePlaceID)
		if err != nil {
			s.log.Warn(ctx, "place details lookup failed", "campground_id", cg.ID, "error", err)
			metrics.BackfillCampgrounds.WithLabelValues("failed").Inc()
			continue
		}
		if p.Geometry == nil || p.Geometry.Location == nil {
			s.log.Warn(ctx, "place has no location", "campground_id", cg.ID)
			metrics.BackfillCampgrounds.WithLabelValues("skipped").Inc()
			continue
		}

		if _, err := repo.UpdateCoordinates(ctx, cg.ID, p.Geometry.Location.Lat, p.Geometry.Location.Lng); err != nil {
			s.log.Warn(ctx, "error updating coordinates", "campground_id", cg.ID, "error", err)
			metrics.BackfillCampgrounds.WithLabelValues("failed").Inc()
			continue
		}

		metrics.BackfillCampgrounds.WithLabelValues("updated").Inc()
		updated++
	}

	s.log.Info(ctx, "backfill finished", "updated", updated, "total", len(missing))
	return updated, nil
}
