package cache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/campgrounds"
)

type CacheableCampground struct {
	*models.Campground
}

func (c *CacheableCampground) CacheKeys() []string {
	return []string{campgroundIDKey(c.ID), campgroundPlaceKey(c.GooglePlaceID)}
}

func campgroundIDKey(id string) string       { return "id:" + id }
func campgroundPlaceKey(place string) string { return "place:" + place }

// Campgrounds is a shared cache of campground rows.
type Campgrounds struct {
	cache *MultiIndexCache[*CacheableCampground]
}

func NewCampgrounds(size int, ttl time.Duration) *Campgrounds {
	return &Campgrounds{cache: NewMultiIndexCache[*CacheableCampground]("campgrounds", size, ttl)}
}

// Wrap decorates backend with read-through lookups by id and place id.
func (c *Campgrounds) Wrap(backend campgrounds.Repository) campgrounds.Repository {
	if c == nil {
		return backend
	}
	return &CampgroundRepository{Repository: backend, cache: c.cache}
}

// CampgroundRepository implements campgrounds.Repository; methods it does
// not override go straight to the embedded backend.
type CampgroundRepository struct {
	campgrounds.Repository
	cache *MultiIndexCache[*CacheableCampground]
}

func (r *CampgroundRepository) lookup(key string, load func() (*models.Campground, error)) (*models.Campground, error) {
	if v, ok := r.cache.Get(key); ok {
		cp := *v.Campground
		return &cp, nil
	}

	cg, err := load()
	if err != nil {
		return nil, err
	}

	cp := *cg
	r.cache.Add(&CacheableCampground{&cp})
	return cg, nil
}

func (r *CampgroundRepository) GetByID(ctx context.Context, id string) (*models.Campground, error) {
	return r.lookup(campgroundIDKey(id), func() (*models.Campground, error) {
		return r.Repository.GetByID(ctx, id)
	})
}

func (r *CampgroundRepository) GetByPlaceID(ctx context.Context, placeID string) (*models.Campground, error) {
	return r.lookup(campgroundPlaceKey(placeID), func() (*models.Campground, error) {
		return r.Repository.GetByPlaceID(ctx, placeID)
	})
}

func (r *CampgroundRepository) Create(ctx context.Context, cg *models.Campground) (*models.Campground, error) {
	defer r.cache.Remove(campgroundPlaceKey(cg.GooglePlaceID))

	return r.Repository.Create(ctx, cg)
}

// UpdateCoordinates evicts the row under both of its keys. The place key is
// dropped on its own as well, since the id key may already have expired.
func (r *CampgroundRepository) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) (*models.Campground, error) {
	defer r.cache.Remove(campgroundIDKey(id))

	cg, err := r.Repository.UpdateCoordinates(ctx, id, lat, lng)
	if err != nil {
		return nil, err
	}
	r.cache.Remove(campgroundPlaceKey(cg.GooglePlaceID))
	return cg, nil
}

var _ campgrounds.Repository = &CampgroundRepository{}
