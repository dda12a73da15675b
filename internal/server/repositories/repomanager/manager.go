package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/campjournal/internal/dbx"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/campgrounds"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/follows"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/photos"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Campgrounds(db dbx.DBTX) campgrounds.Repository
	Entries(db dbx.DBTX) entries.Repository
	Photos(db dbx.DBTX) photos.Repository
	Follows(db dbx.DBTX) follows.Repository
}
