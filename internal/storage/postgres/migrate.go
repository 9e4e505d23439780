package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations, in file name order.
func (s *Storage) Migrate(ctx context.Context) ([]string, error) {
	const op = "storage.postgres.Migrate"

	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	if _, err = s.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`); err != nil {
		return nil, fmt.Errorf("%s: failed to create schema_migrations: %w", op, err)
	}

	var applied []string
	for _, f := range files {
		var done bool
		err = s.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, f).Scan(&done)
		if err != nil {
			return applied, fmt.Errorf("%s: %w", op, err)
		}
		if done {
			continue
		}

		body, err := migrations.ReadFile("migrations/" + f)
		if err != nil {
			return applied, fmt.Errorf("%s: %w", op, err)
		}

		tx, err := s.DB.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
		}

		if _, err = tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("%s: apply %s: %w", op, f, err)
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, f); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("%s: record %s: %w", op, f, err)
		}
		if err = tx.Commit(); err != nil {
			return applied, fmt.Errorf("%s: commit %s: %w", op, f, err)
		}

		applied = append(applied, f)
	}

	return applied, nil
}
