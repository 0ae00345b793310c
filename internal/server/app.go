// Package server wires the Bookkeeper server together: configuration,
// store, services, the HTTP API and the gRPC health endpoint, and runs them
// until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/api"
	"github.com/dmitrijs2005/bookkeeper/internal/server/auth"
	"github.com/dmitrijs2005/bookkeeper/internal/server/config"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/observability"
	"github.com/dmitrijs2005/bookkeeper/internal/server/policy"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookkeeper/internal/server/services"
	"github.com/dmitrijs2005/bookkeeper/internal/server/storage"

	gs "github.com/dmitrijs2005/bookkeeper/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

var newCoverStore = func(ctx context.Context, cfg storage.Config) (storage.CoverStore, error) {
	return storage.NewS3Presigner(ctx, cfg)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	handler http.Handler
	grpc    *gs.GRPCServer
}

// NewApp opens the store, applies migrations and builds the services and
// transports. The caller owns the returned App and must call Run or Close.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	return newApp(ctx, cfg, logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repomanager.New(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	bookRepo, err := repos.Books(models.KindBook)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	profileRepo, err := repos.Books(models.KindProfileBook)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	metrics := observability.NewMetrics()

	opts := []services.Option{
		services.WithSyncFailureHook(func(k models.Kind, op string) { metrics.SyncFailed(string(k), op) }),
	}
	if cfg.S3Bucket != "" {
		covers, err := newCoverStore(ctx, storage.Config{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
			URLValidity:  cfg.CoverURLValidity,
		})
		if err != nil {
			logger.Warn(ctx, "cover storage disabled", "error", err)
		} else {
			opts = append(opts, services.WithCoverStore(covers))
		}
	}

	handler := api.NewRouter(api.Deps{
		Users:        services.NewUserService(repos.Users(), tokens, logger),
		Books:        services.NewBookService(models.KindBook, policy.Private, bookRepo, repos.Users(), logger, opts...),
		ProfileBooks: services.NewBookService(models.KindProfileBook, policy.Shared, profileRepo, repos.Users(), logger, opts...),
		Tokens:       tokens,
		Metrics:      metrics,
		Store:        repos,
		Log:          logger,
	})

	var grpcServer *gs.GRPCServer
	if cfg.EndpointAddrGRPC != "" {
		grpcServer = gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, repos)
	}

	return &App{config: cfg, logger: logger, repos: repos, handler: handler, grpc: grpcServer}, nil
}

// Handler returns the HTTP handler serving the API.
func (app *App) Handler() http.Handler { return app.handler }

// Close releases the store.
func (app *App) Close() error { return app.repos.Close() }

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, lis net.Listener) {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "HTTP server listening", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP (and gRPC when configured) until ctx is cancelled or a
// server fails, then shuts both down and closes the store.
func (app *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		_ = app.Close()
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddrHTTP, err)
	}
	return app.serve(ctx, lis)
}

func (app *App) serve(ctx context.Context, lis net.Listener) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, lis)
	}()

	if app.grpc != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")

	return app.Close()
}
