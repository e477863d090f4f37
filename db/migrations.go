// Package db holds the SQL schema migrations, embedded for cmd/migrate and
// integration tests.
package db

import "embed"

// Migrations contains migrations/*.sql in goose format.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"
