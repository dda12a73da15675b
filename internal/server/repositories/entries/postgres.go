package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

const columns = `id, user_id, campground_id, start_date, end_date, notes, video_url, is_favorite, status,
	shared_from_user_id, shared_with_user_id, original_entry_id, shared_accepted, created_at, updated_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
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

func scan(s scanner) (*models.JournalEntry, error) {
	e := &models.JournalEntry{}
	err := s.Scan(&e.ID, &e.UserID, &e.CampgroundID, &e.StartDate, &e.EndDate, &e.Notes, &e.VideoURL,
		&e.IsFavorite, &e.Status, &e.SharedFromUserID, &e.SharedWithUserID, &e.OriginalEntryID,
		&e.SharedAccepted, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// translate maps driver errors onto the shared sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	case dbx.IsCheckViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	case dbx.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorNotFound, err)
	}
	return dbx.DBError(err)
}

// Create inserts a new entry. Status defaults to published when empty.
func (r *PostgresRepository) Create(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	if e.Status == "" {
		e.Status = common.StatusPublished
	}
	query := `
		INSERT INTO journal_entries (user_id, campground_id, start_date, end_date, notes, video_url,
			is_favorite, status, shared_from_user_id, original_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.CampgroundID, e.StartDate, e.EndDate, e.Notes, e.VideoURL,
		e.IsFavorite, e.Status, e.SharedFromUserID, e.OriginalEntryID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	e, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM journal_entries WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, userID string, patch *models.EntryPatch) (*models.JournalEntry, error) {
	query := `
		UPDATE journal_entries SET
			start_date  = COALESCE($3, start_date),
			end_date    = COALESCE($4, end_date),
			notes       = COALESCE($5, notes),
			video_url   = COALESCE($6, video_url),
			is_favorite = COALESCE($7, is_favorite),
			updated_at  = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + columns

	e, err := scan(r.db.QueryRowContext(ctx, query, id, userID,
		patch.StartDate, patch.EndDate, patch.Notes, patch.VideoURL, patch.IsFavorite))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// execOne runs a statement expected to touch exactly one row; zero rows is
// reported as common.ErrorNotFound.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	return r.execOne(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresRepository) PendingDraftExists(ctx context.Context, key DraftKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE user_id = $1 AND campground_id = $2 AND shared_from_user_id = $3
				AND start_date = $4 AND end_date = $5 AND status = 'draft'
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		key.RecipientID, key.CampgroundID, key.SharerID, key.StartDate, key.EndDate).Scan(&exists)
	if err != nil {
		return false, dbx.DBError(err)
	}
	return exists, nil
}

func (r *PostgresRepository) MarkShared(ctx context.Context, id, recipientID string) error {
	return r.execOne(ctx, `
		UPDATE journal_entries SET shared_with_user_id = $2, shared_accepted = false, updated_at = now()
		WHERE id = $1`, id, recipientID)
}

func (r *PostgresRepository) SetSharedAccepted(ctx context.Context, id string, accepted bool) error {
	return r.execOne(ctx, `
		UPDATE journal_entries SET shared_accepted = $2, updated_at = now()
		WHERE id = $1`, id, accepted)
}

func (r *PostgresRepository) PublishDraft(ctx context.Context, id, userID string) (*models.JournalEntry, error) {
	query := `
		UPDATE journal_entries SET status = 'published', updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status = 'draft'
		RETURNING ` + columns
	e, err := scan(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *PostgresRepository) DeleteDraft(ctx context.Context, id, userID string) error {
	return r.execOne(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2 AND status = 'draft'`, id, userID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, includeDrafts bool) ([]*models.JournalEntry, error) {
	query := `SELECT ` + columns + ` FROM journal_entries
		WHERE user_id = $1 AND ($2 OR status = 'published')
		ORDER BY start_date DESC`
	return r.list(ctx, query, userID, includeDrafts)
}

func (r *PostgresRepository) ListDrafts(ctx context.Context, userID string) ([]*models.JournalEntry, error) {
	query := `SELECT ` + columns + ` FROM journal_entries
		WHERE user_id = $1 AND status = 'draft'
		ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListByUserAndCampground(ctx context.Context, userID, campgroundID string) ([]*models.JournalEntry, error) {
	query := `SELECT ` + columns + ` FROM journal_entries
		WHERE user_id = $1 AND campground_id = $2
		ORDER BY start_date DESC`
	return r.list(ctx, query, userID, campgroundID)
}

func (r *PostgresRepository) ListPublishedByCampground(ctx context.Context, campgroundID string) ([]*models.JournalEntry, error) {
	query := `SELECT ` + columns + ` FROM journal_entries
		WHERE campground_id = $1 AND status = 'published'
		ORDER BY start_date DESC`
	return r.list(ctx, query, campgroundID)
}

func (r *PostgresRepository) ListFeed(ctx context.Context, userIDs []string, limit int) ([]*models.JournalEntry, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	in, args := dbx.InList(1, userIDs)
	query := fmt.Sprintf(`SELECT `+columns+` FROM journal_entries
		WHERE user_id IN (%s) AND status = 'published'
		ORDER BY created_at DESC
		LIMIT $%d`, in, len(userIDs)+1)
	return r.list(ctx, query, append(args, limit)...)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.JournalEntry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
