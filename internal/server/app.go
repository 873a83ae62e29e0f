// Package server wires configuration, storage, services and the HTTP API
// into a runnable backend.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/server/config"
	"github.com/dmitrijs2005/gophadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophadmin/internal/server/services"
	"github.com/dmitrijs2005/gophadmin/internal/server/storage"
	"github.com/dmitrijs2005/gophadmin/internal/server/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	router   *httpapi.Router
	server   *http.Server
	shutdown telemetry.ShutdownFunc
}

// OpenDB opens and pings the PostgreSQL pool behind dsn.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func newBlobStore(ctx context.Context, c config.S3Config) (storage.BlobStore, error) {
	if c.Bucket == "" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewS3Store(ctx, storage.S3Options{
		Bucket:       c.Bucket,
		Region:       c.Region,
		BaseEndpoint: c.BaseEndpoint,
		AccessKey:    c.AccessKey,
		SecretKey:    c.SecretKey,
	})
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	shutdown, err := telemetry.Setup(ctx, c.Telemetry)
	if err != nil {
		logger.Warn(ctx, "tracing disabled", "error", err)
	}

	db, err := OpenDB(ctx, c.Database.DSN)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, c.S3)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("blob store init: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	router := httpapi.NewRouter(httpapi.Deps{
		Auth:            services.NewAuthService(db, rm, c.Auth.SecretKey, c.Auth.TokenTTL, logger),
		Users:           services.NewUserService(db, rm, logger),
		Profiles:        services.NewProfileService(db, rm, logger),
		Permissions:     services.NewPermissionService(db, rm, logger),
		Files:           services.NewFileService(db, rm, blobs, logger),
		Metrics:         httpapi.NewMetrics(),
		Log:             logger,
		SignInPerMinute: c.RateLimit.SignInPerMinute,
		SignInBurst:     c.RateLimit.Burst,
		MaxUploadSize:   c.Server.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:         c.Addr(),
		Handler:      otelhttp.NewHandler(router, c.Telemetry.ServiceName),
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
	}

	return &App{config: c, logger: logger, db: db, router: router, server: srv, shutdown: shutdown}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.router.RunMaintenance(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "server starting", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		runErr = err
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	cancel()
	wg.Wait()

	if err := app.shutdown(shutdownCtx); err != nil {
		app.logger.Warn(shutdownCtx, "tracer shutdown", "error", err)
	}
	if err := app.db.Close(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
