package cache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/profiles"
)

type CacheableProfile struct {
	*models.Profile
}

func (p *CacheableProfile) CacheKeys() []string {
	return []string{profileIDKey(p.ID), profileUsernameKey(p.Username)}
}

func profileIDKey(id string) string      { return "id:" + id }
func profileUsernameKey(u string) string { return "username:" + u }

// Profiles is a shared cache of profile rows.
type Profiles struct {
	cache *MultiIndexCache[*CacheableProfile]
}

func NewProfiles(size int, ttl time.Duration) *Profiles {
	return &Profiles{cache: NewMultiIndexCache[*CacheableProfile]("profiles", size, ttl)}
}

// Wrap decorates backend with read-through lookups by id and username.
func (c *Profiles) Wrap(backend profiles.Repository) profiles.Repository {
	if c == nil {
		return backend
	}
	return &ProfileRepository{Repository: backend, cache: c.cache}
}

type ProfileRepository struct {
	profiles.Repository
	cache *MultiIndexCache[*CacheableProfile]
}

func (r *ProfileRepository) lookup(key string, load func() (*models.Profile, error)) (*models.Profile, error) {
	if v, ok := r.cache.Get(key); ok {
		cp := *v.Profile
		return &cp, nil
	}

	p, err := load()
	if err != nil {
		return nil, err
	}

	cp := *p
	r.cache.Add(&CacheableProfile{&cp})
	return p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.lookup(profileIDKey(id), func() (*models.Profile, error) {
		return r.Repository.GetByID(ctx, id)
	})
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.lookup(profileUsernameKey(username), func() (*models.Profile, error) {
		return r.Repository.GetByUsername(ctx, username)
	})
}

func (r *ProfileRepository) Update(ctx context.Context, id string, patch *models.ProfilePatch) (*models.Profile, error) {
	defer r.cache.Remove(profileIDKey(id))

	return r.Repository.Update(ctx, id, patch)
}

var _ profiles.Repository = &ProfileRepository{}
