package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

const columns = `id, user_id, campground_id, journal_entry_id, storage_path, public_url, caption, created_at`

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

func scan(s scanner) (*models.Photo, error) {
	p := &models.Photo{}
	if err := s.Scan(&p.ID, &p.UserID, &p.CampgroundID, &p.JournalEntryID, &p.StoragePath, &p.PublicURL,
		&p.Caption, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	query := `
		INSERT INTO photos (user_id, campground_id, journal_entry_id, storage_path, public_url, caption)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.CampgroundID, p.JournalEntryID, p.StoragePath, p.PublicURL, p.Caption,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrorNotFound, err)
		}
		return nil, dbx.DBError(err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Photo, error) {
	return r.list(ctx, `SELECT `+columns+` FROM photos WHERE journal_entry_id = $1 ORDER BY created_at ASC`, entryID)
}

func (r *PostgresRepository) ListByEntries(ctx context.Context, entryIDs []string) ([]*models.Photo, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	in, args := dbx.InList(1, entryIDs)
	return r.list(ctx, `SELECT `+columns+` FROM photos WHERE journal_entry_id IN (`+in+`) ORDER BY created_at ASC`, args...)
}

func (r *PostgresRepository) DeleteByEntry(ctx context.Context, entryID string) ([]*models.Photo, error) {
	return r.list(ctx, `DELETE FROM photos WHERE journal_entry_id = $1 RETURNING `+columns, entryID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) (*models.Photo, error) {
	p, err := scan(r.db.QueryRowContext(ctx,
		`DELETE FROM photos WHERE id = $1 AND user_id = $2 RETURNING `+columns, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.DBError(err)
	}
	return p, nil
}

func (r *PostgresRepository) CountByStoragePath(ctx context.Context, path string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM photos WHERE storage_path = $1`, path).Scan(&n); err != nil {
		return 0, dbx.DBError(err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
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
