//go:build integration

package testutil

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"testing"
	"time"

	"gamehub/db"
	"gamehub/internal/game"
	"gamehub/internal/store"
	"gamehub/internal/user"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// SkipIfNoDocker skips the test when the Docker daemon is unreachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// NewPostgres starts a throwaway Postgres, applies the migrations and returns
// a store bound to it. The container is removed when the test ends.
func NewPostgres(t *testing.T) *store.DB {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "gamehub",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	cfg := store.DefaultConfig()
	cfg.DSN = fmt.Sprintf("postgres://postgres:postgres@%s:%s/gamehub?sslmode=disable", host, port.Port())
	cfg.ConnectTimeout = 10 * time.Second

	migrate(t, ctx, cfg)

	database := store.New(cfg)
	t.Cleanup(database.Close)
	if err := database.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return database
}

func migrate(t *testing.T, ctx context.Context, cfg store.Config) {
	t.Helper()

	pool, err := store.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect for migrations: %v", err)
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, mustSub(t))
	if err != nil {
		t.Fatalf("goose provider: %v", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func mustSub(t *testing.T) fs.FS {
	t.Helper()
	sub, err := fs.Sub(db.Migrations, db.MigrationsDir)
	if err != nil {
		t.Fatalf("migrations fs: %v", err)
	}
	return sub
}

// SeedFixtures writes Users and Games into database, replacing the fixture ids
// with the ones Postgres assigns.
func SeedFixtures(t *testing.T, database *store.DB) (users []user.User, games []game.Game) {
	t.Helper()
	ctx := context.Background()

	userRepo := user.NewPostgresRepo(database)
	for _, u := range Users() {
		if err := userRepo.Create(ctx, &u); err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
		users = append(users, u)
	}

	gameRepo := game.NewPostgresRepo(database)
	for i, g := range Games() {
		ext := int64(i + 1)
		g.ExternalID = &ext
		if err := gameRepo.Upsert(ctx, &g); err != nil {
			t.Fatalf("seed game %s: %v", g.Title, err)
		}
		games = append(games, g)
	}
	return users, games
}
