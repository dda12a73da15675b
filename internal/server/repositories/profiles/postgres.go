package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

const columns = `id, email, username, full_name, avatar_url, bio, website, password_hash, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.Scan(&p.ID, &p.Email, &p.Username, &p.FullName, &p.AvatarURL, &p.Bio, &p.Website,
		&p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (email, username, full_name, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.Email, p.Username, p.FullName, p.PasswordHash).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, dbx.DBError(err)
	}

	return p, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Profile, error) {
	query := `SELECT ` + columns + ` FROM profiles WHERE ` + where

	p, err := scan(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.DBError(err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getOne(ctx, `lower(email) = lower($1)`, email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.getOne(ctx, `username = $1`, username)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := dbx.InList(1, ids)
	query := `SELECT ` + columns + ` FROM profiles WHERE id IN (` + in + `)`
	return r.list(ctx, query, args...)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch *models.ProfilePatch) (*models.Profile, error) {
	query := `
		UPDATE profiles SET
			username   = COALESCE($2, username),
			full_name  = COALESCE($3, full_name),
			bio        = COALESCE($4, bio),
			website    = COALESCE($5, website),
			avatar_url = COALESCE($6, avatar_url),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	p, err := scan(r.db.QueryRowContext(ctx, query, id,
		patch.Username, patch.FullName, patch.Bio, patch.Website, patch.AvatarURL))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		}
		return nil, dbx.DBError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Search(ctx context.Context, query string, limit int) ([]*models.Profile, error) {
	q := `SELECT ` + columns + ` FROM profiles
		WHERE username ILIKE $1 OR full_name ILIKE $1
		ORDER BY username
		LIMIT $2`
	return r.list(ctx, q, "%"+query+"%", limit)
}

func (r *PostgresRepository) ListCampgroundVisitors(ctx context.Context, campgroundID string) ([]*models.Profile, error) {
	query := `SELECT ` + columns + ` FROM profiles
		WHERE id IN (
			SELECT DISTINCT user_id FROM journal_entries
			WHERE campground_id = $1 AND status = 'published'
		)
		ORDER BY username`
	return r.list(ctx, query, campgroundID)
}

func (r *PostgresRepository) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM journal_entries WHERE user_id = $1 AND status = 'published'),
			(SELECT count(*) FROM photos WHERE user_id = $1)
	`
	stats := &models.UserStats{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.TotalEntries, &stats.TotalPhotos); err != nil {
		return nil, dbx.DBError(err)
	}
	return stats, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
