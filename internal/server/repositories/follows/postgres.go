package follows

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	f := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.QueryRowContext(ctx, query, followerID, followingID).Scan(&f.ID, &f.CreatedAt); err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsCheckViolation(err):
			return nil, fmt.Errorf("%w: cannot follow yourself", common.ErrorValidation)
		case dbx.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("%w: %v", common.ErrorNotFound, err)
		}
		return nil, dbx.DBError(err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, followerID, followingID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	if _, err := r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		return dbx.DBError(err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followingID).Scan(&ok); err != nil {
		return false, dbx.DBError(err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT following_id FROM follows WHERE follower_id = $1`, followerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select follows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, userID string) (*models.FollowStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM follows WHERE following_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1)
	`
	s := &models.FollowStats{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.Followers, &s.Following); err != nil {
		return nil, dbx.DBError(err)
	}
	return s, nil
}
