// migrate applies every .sql file under migrations/ in filename order,
// recording each in schema_migrations so reruns are no-ops. An advisory lock
// keeps concurrent migrators from stepping on each other.
//
// Usage: go run ./cmd/migrate
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mandi-billing/internal/config"
	"mandi-billing/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// migratorLockID is the advisory lock key shared by all migrator processes.
const migratorLockID = 5183204

func main() {
	_ = godotenv.Load()
	log := config.Logger()

	if err := run(context.Background(), log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.Info("all migrations processed")
}

func run(ctx context.Context, log *logrus.Logger) error {
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for lock: %w", err)
	}
	defer conn.Release()

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migratorLockID).Scan(&locked); err != nil {
		return fmt.Errorf("query advisory lock: %w", err)
	}
	if !locked {
		return errors.New("another migrator is currently running")
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	filenames, err := discoverMigrations()
	if err != nil {
		return err
	}

	for _, filename := range filenames {
		applied, err := applyMigration(ctx, pool, filename)
		if err != nil {
			return fmt.Errorf("apply %s: %w", filename, err)
		}
		if applied {
			log.WithField("migration", filename).Info("applied")
		} else {
			log.WithField("migration", filename).Info("already applied, skipping")
		}
	}
	return nil
}

// discoverMigrations lists migrations/*.sql sorted by filename, rejecting
// duplicate version prefixes.
func discoverMigrations() ([]string, error) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var filenames []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := extractVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if seen[version] {
			return nil, fmt.Errorf("duplicate migration version %s", version)
		}
		seen[version] = true
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames, nil
}

func extractVersion(filename string) (string, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid migration filename %q, expected NNN_description.sql", filename)
	}
	return parts[0], nil
}

// applyMigration runs one migration inside a transaction and records it.
// Reports false without error when the identical migration was already
// applied; a changed checksum for an applied version is an error.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, filename string) (bool, error) {
	version, err := extractVersion(filename)
	if err != nil {
		return false, err
	}
	sqlBytes, err := os.ReadFile(filepath.Join("migrations", filename))
	if err != nil {
		return false, fmt.Errorf("read migration file: %w", err)
	}
	sum := sha256.Sum256(sqlBytes)
	checksum := hex.EncodeToString(sum[:])

	var existing string
	err = pool.QueryRow(ctx,
		"SELECT checksum FROM schema_migrations WHERE version = $1", version,
	).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			return false, fmt.Errorf("checksum mismatch: recorded %s, file has %s", existing, checksum)
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Not yet applied.
	default:
		return false, fmt.Errorf("query schema_migrations: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return false, fmt.Errorf("execute migration: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
		version, filename, checksum,
	); err != nil {
		return false, fmt.Errorf("record migration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
