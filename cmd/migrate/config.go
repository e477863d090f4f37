package main

import (
	"io/fs"
	"os"

	"gamehub/db"
	"gamehub/internal/store"

	"github.com/joho/godotenv"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// migrationSource returns the filesystem goose reads and the directory within
// it. MIGRATIONS_DIR switches from the embedded set to files on disk, which is
// what `create` needs.
func migrationSource() (fs.FS, string) {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return nil, v
	}
	return db.Migrations, db.MigrationsDir
}

func dbConfig() store.Config {
	cfg := store.DefaultConfig()
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DSN = v
	}
	return cfg
}
