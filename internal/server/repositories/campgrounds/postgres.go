package campgrounds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

const columns = `id, google_place_id, name, address, city, state, country, latitude, longitude,
	phone, website, google_rating, google_maps_url, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInto(s scanner, c *models.Campground, extra ...any) error {
	dest := []any{&c.ID, &c.GooglePlaceID, &c.Name, &c.Address, &c.City, &c.State, &c.Country,
		&c.Latitude, &c.Longitude, &c.Phone, &c.Website, &c.GoogleRating, &c.GoogleMapsURL,
		&c.CreatedAt, &c.UpdatedAt}
	return s.Scan(append(dest, extra...)...)
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Campground) (*models.Campground, error) {
	query := `
		INSERT INTO campgrounds (google_place_id, name, address, city, state, country, latitude, longitude,
			phone, website, google_rating, google_maps_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.GooglePlaceID, c.Name, c.Address, c.City, c.State, c.Country, c.Latitude, c.Longitude,
		c.Phone, c.Website, c.GoogleRating, c.GoogleMapsURL,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, dbx.DBError(err)
	}
	return c, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Campground, error) {
	c := &models.Campground{}
	if err := scanInto(r.db.QueryRowContext(ctx, query, args...), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.DBError(err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Campground, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM campgrounds WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByPlaceID(ctx context.Context, placeID string) (*models.Campground, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM campgrounds WHERE google_place_id = $1`, placeID)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Campground, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := dbx.InList(1, ids)
	return r.list(ctx, `SELECT `+columns+` FROM campgrounds WHERE id IN (`+in+`)`, args...)
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.Campground, error) {
	return r.list(ctx, `SELECT `+columns+` FROM campgrounds ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *PostgresRepository) ListMissingCoordinates(ctx context.Context) ([]*models.Campground, error) {
	return r.list(ctx, `SELECT `+columns+` FROM campgrounds WHERE latitude IS NULL OR longitude IS NULL ORDER BY created_at`)
}

func (r *PostgresRepository) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) (*models.Campground, error) {
	query := `
		UPDATE campgrounds SET latitude = $2, longitude = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	return r.getOne(ctx, query, id, lat, lng)
}

func (r *PostgresRepository) Stats(ctx context.Context, id string) (*models.CampgroundStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM journal_entries WHERE campground_id = $1 AND status = 'published'),
			(SELECT count(DISTINCT user_id) FROM journal_entries WHERE campground_id = $1 AND status = 'published'),
			(SELECT count(*) FROM photos WHERE campground_id = $1)
	`
	s := &models.CampgroundStats{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&s.TotalVisits, &s.UniqueVisitors, &s.TotalPhotos); err != nil {
		return nil, dbx.DBError(err)
	}
	return s, nil
}

func (r *PostgresRepository) ListVisitedByUser(ctx context.Context, userID string) ([]*models.VisitedLocation, error) {
	query := `
		SELECT c.id, c.google_place_id, c.name, c.address, c.city, c.state, c.country, c.latitude, c.longitude,
			c.phone, c.website, c.google_rating, c.google_maps_url, c.created_at, c.updated_at,
			count(e.id), max(e.start_date)
		FROM journal_entries e
		JOIN campgrounds c ON c.id = e.campground_id
		WHERE e.user_id = $1 AND e.status = 'published'
			AND c.latitude IS NOT NULL AND c.longitude IS NOT NULL
		GROUP BY c.id
		ORDER BY max(e.start_date) DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select visited locations: %w", err)
	}
	defer rows.Close()

	var result []*models.VisitedLocation
	for rows.Next() {
		v := &models.VisitedLocation{Campground: &models.Campground{}}
		if err := scanInto(rows, v.Campground, &v.VisitCount, &v.LastVisit); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Campground, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select campgrounds: %w", err)
	}
	defer rows.Close()

	var result []*models.Campground
	for rows.Next() {
		c := &models.Campground{}
		if err := scanInto(rows, c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
