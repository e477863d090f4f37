package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"gamehub/internal/config"
	"gamehub/internal/game"
	"gamehub/internal/logging"
	"gamehub/internal/seed"
	"gamehub/internal/store"
	"gamehub/internal/user"
)

func main() {
	var (
		count    = flag.Int("games", 10000, "Number of catalog entries to generate")
		rngSeed  = flag.Uint64("seed", 1, "Generator seed; the same seed yields the same catalog")
		tokenTTL = flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed demo tokens")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *count, *rngSeed, *tokenTTL); err != nil {
		logging.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, count int, rngSeed uint64, ttl time.Duration) error {
	if cfg.Driver != config.DriverPostgres {
		return fmt.Errorf("seeding needs DB_DRIVER=%s; the memory driver seeds itself", config.DriverPostgres)
	}

	db := store.New(cfg.DB)
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database %s: %w", store.RedactDSN(cfg.DB.DSN), err)
	}

	logging.Info().Int("games", count).Uint64("seed", rngSeed).Msg("generating catalog")
	res, err := seed.Run(ctx, game.NewPostgresRepo(db), user.NewService(user.NewPostgresRepo(db)), seed.Catalog(count, rngSeed))
	if err != nil {
		return err
	}

	tokens, err := seed.Tokens(cfg.Auth.JWTSecret, res.Users, ttl)
	if err != nil {
		return fmt.Errorf("sign tokens: %w", err)
	}
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s\t%s\n", name, tokens[name])
	}
	return nil
}
