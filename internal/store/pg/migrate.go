package pg

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Migrations are embedded in the binary.
// File format: {version}_{name}.sql (e.g. 0001_researchers.sql)

// Migrator applies SQL migrations to the database.
type Migrator struct {
	migrationsFS  embed.FS
	migrationsDir string
}

// NewMigrator builds a Migrator over an embedded migrations directory.
func NewMigrator(migrationsFS embed.FS, migrationsDir string) *Migrator {
	return &Migrator{
		migrationsFS:  migrationsFS,
		migrationsDir: migrationsDir,
	}
}

// Migration is a single migration file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult reports what a Run did.
type MigrationResult struct {
	Applied  []int
	Skipped  []int
	Failed   *int
	Duration time.Duration
}

var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// ParseMigrations reads the embedded migration files, sorted by version.
func (m *Migrator) ParseMigrations() ([]Migration, error) {
	var migrations []Migration

	err := fs.WalkDir(m.migrationsFS, m.migrationsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		filename := filepath.Base(path)
		matches := migrationFilePattern.FindStringSubmatch(filename)
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		content, err := m.migrationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    matches[2],
			SQL:     string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Run applies pending migrations to the store's database.
func (m *Migrator) Run(ctx context.Context, s *Store) (*MigrationResult, error) {
	start := time.Now()
	result := &MigrationResult{}

	if err := m.ensureMigrationsTable(ctx, s); err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("creating migrations table: %w", err)
	}

	applied, err := m.getAppliedVersions(ctx, s)
	if err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("getting applied migrations: %w", err)
	}

	migrations, err := m.ParseMigrations()
	if err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("parsing migrations: %w", err)
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			result.Skipped = append(result.Skipped, mig.Version)
			continue
		}

		if err := m.applyMigration(ctx, s, mig); err != nil {
			v := mig.Version
			result.Failed = &v
			result.Duration = time.Since(start)
			return result, fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		result.Applied = append(result.Applied, mig.Version)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context, s *Store) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			version INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	return err
}

func (m *Migrator) getAppliedVersions(ctx context.Context, s *Store) (map[int]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT version FROM _migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) applyMigration(ctx context.Context, s *Store, mig Migration) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO _migrations (version, name) VALUES ($1, $2)`,
		mig.Version, mig.Name,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
