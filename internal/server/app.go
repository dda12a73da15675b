// Package server wires configuration, storage backends and services
// together and runs the gRPC and metrics listeners.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/cache"
	"github.com/dmitrijs2005/campjournal/internal/server/config"
	"github.com/dmitrijs2005/campjournal/internal/server/monitor"
	"github.com/dmitrijs2005/campjournal/internal/server/places"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campjournal/internal/server/services"
	"github.com/dmitrijs2005/campjournal/internal/server/storage"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/campjournal/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	auth        *services.AuthService
	campgrounds *services.CampgroundService
	services    gs.Services
}

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newObjectStore = func(ctx context.Context, c *config.Config) (storage.ObjectStore, error) {
		return storage.NewS3Store(ctx, c)
	}
)

// NewApp builds every component without touching the network; the database
// is first contacted by Migrate or Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	placesURL, err := url.Parse(c.PlacesBaseURL)
	if err != nil {
		return nil, fmt.Errorf("places base url: %w", err)
	}

	store, err := newObjectStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	pl := places.New(places.WithAPIKey(c.PlacesAPIKey), places.WithBaseURL(placesURL))

	auth := services.NewAuthService(db, m, c, logger)
	profiles := services.NewProfileService(db, m, cache.NewProfiles(c.CacheSize, c.CacheTTL))
	follows := services.NewFollowService(db, m)
	st := services.NewStorageService(db, m, store, c, logger)
	cg := services.NewCampgroundService(db, m, cache.NewCampgrounds(c.CacheSize, c.CacheTTL), pl, c.BackfillInterval, logger)
	journal := services.NewJournalService(db, m, cg, st, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: m,
		auth:        auth,
		campgrounds: cg,
		services: gs.Services{
			Auth:        auth,
			Profiles:    profiles,
			Follows:     follows,
			Campgrounds: cg,
			Journal:     journal,
			Storage:     st,
		},
	}, nil
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

// Migrate applies the embedded schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// BackfillCoordinates fills in missing campground coordinates from Places.
func (app *App) BackfillCoordinates(ctx context.Context) (int, error) {
	return app.campgrounds.BackfillCoordinates(ctx)
}

// PruneRefreshTokens removes expired refresh tokens.
func (app *App) PruneRefreshTokens(ctx context.Context) (int64, error) {
	return app.auth.PruneRefreshTokens(ctx)
}

// Run migrates the schema and serves gRPC and metrics until ctx is canceled
// or one of the listeners fails.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	grpcServer := gs.NewGRPCServer(app.config, app.logger, app.services)
	g.Go(func() error {
		return grpcServer.Run(ctx)
	})

	metricsServer := monitor.NewServer(app.config.EndpointAddrMetrics, app.logger)
	g.Go(func() error {
		return metricsServer.Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) Close() error {
	return app.db.Close()
}
