package main

import (
	"context"
	"flag"
	"fmt"

	"gamehub/internal/logging"
	"gamehub/internal/store"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logging.Init(logging.DefaultConfig())

	if err := run(context.Background(), *command, *name); err != nil {
		logging.Fatal().Err(err).Str("command", *command).Msg("migrate failed")
	}
}

func run(ctx context.Context, command, name string) error {
	fsys, dir := migrationSource()

	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if fsys != nil {
			dir = "db/migrations"
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		logging.Info().Str("name", name).Str("dir", dir).Msg("migration created")
		return nil
	}

	cfg := dbConfig()
	pool, err := store.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect %s: %w", store.RedactDSN(cfg.DSN), err)
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logging.Info().Msg("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		logging.Info().Msg("migration rolled back")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
	return nil
}
