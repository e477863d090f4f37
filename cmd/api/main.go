package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamehub/internal/config"
	"gamehub/internal/game"
	"gamehub/internal/library"
	"gamehub/internal/logging"
	"gamehub/internal/review"
	"gamehub/internal/seed"
	"gamehub/internal/store"
	"gamehub/internal/user"
)

const demoCatalogSize = 200

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.Logging)

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(ctx, cfg, repos),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	if cfg.Driver == config.DriverMemory {
		repos, err := memoryRepositories(ctx, cfg)
		return repos, func() {}, err
	}

	db := store.New(cfg.DB)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.ConnectTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		// Start anyway; the pool connects lazily and /readyz reports the outage.
		logging.Warn().Err(err).Str("dsn", store.RedactDSN(cfg.DB.DSN)).Msg("database not reachable at startup")
	} else {
		logging.Info().Str("dsn", store.RedactDSN(cfg.DB.DSN)).Msg("database connection OK")
	}

	return repositories{
		games:     game.NewPostgresRepo(db),
		users:     user.NewPostgresRepo(db),
		library:   library.NewPostgresRepo(db),
		reviews:   review.NewPostgresRepo(db),
		readiness: db,
	}, db.Close, nil
}

// memoryRepositories backs the service with in-process maps filled with demo
// data. Nothing survives a restart.
func memoryRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	games := game.NewMemoryRepo()
	users := user.NewMemoryRepo()

	res, err := seed.Run(ctx, games, user.NewService(users), seed.Catalog(demoCatalogSize, 1))
	if err != nil {
		return repositories{}, err
	}
	tokens, err := seed.Tokens(cfg.Auth.JWTSecret, res.Users, 24*time.Hour)
	if err != nil {
		return repositories{}, err
	}
	for name, tok := range tokens {
		logging.Info().Str("user", name).Str("token", tok).Msg("demo token")
	}

	lib := library.NewMemoryRepo(games, users)
	revs := review.NewMemoryRepo(games, users)
	users.OnDelete(lib.DeleteUser, revs.DeleteUser)

	return repositories{
		games:     games,
		users:     users,
		library:   lib,
		reviews:   revs,
		readiness: pingFunc(func(context.Context) error { return nil }),
	}, nil
}
