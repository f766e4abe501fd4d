package stores

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/vmforge/vmforge/pkg/engine"
	"github.com/vmforge/vmforge/pkg/templates"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists templates and family run history in SQLite. It
// implements templates.Store.
type SQLiteStore struct {
	db   *sql.DB
	path string

	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

var _ templates.Store = (*SQLiteStore)(nil)

// Config holds SQLite store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	return &SQLiteStore{
		path:            cfg.Path,
		maxOpenConns:    cfg.MaxOpenConns,
		maxIdleConns:    cfg.MaxIdleConns,
		connMaxLifetime: cfg.ConnMaxLifetime,
	}, nil
}

// Init opens the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxIdleConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs the embedded database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// SaveTemplate upserts a template row.
func (s *SQLiteStore) SaveTemplate(ctx context.Context, name string, spec engine.Specification, meta engine.TemplateMeta) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal template spec: %w", err)
	}
	tags := meta.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal template tags: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO templates (name, category, description, tags, spec, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			description = excluded.description,
			tags = excluded.tags,
			spec = excluded.spec,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		name, meta.Category, meta.Description, string(tagsJSON), string(specJSON), now, now,
	); err != nil {
		return fmt.Errorf("failed to save template %s: %w", name, err)
	}
	return nil
}

// DeleteTemplate removes a template row.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", name, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return engine.NewNotFoundError("template", name)
	}
	return nil
}

// LoadTemplates reads all persisted templates.
func (s *SQLiteStore) LoadTemplates(ctx context.Context) (map[string]templates.StoredTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, category, description, tags, spec
		FROM templates
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]templates.StoredTemplate)
	for rows.Next() {
		var name, category, description, tagsJSON, specJSON string
		if err := rows.Scan(&name, &category, &description, &tagsJSON, &specJSON); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}

		var spec engine.Specification
		if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template %s: %w", name, err)
		}
		var tags map[string]string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags of template %s: %w", name, err)
		}

		out[name] = templates.StoredTemplate{
			Spec: spec,
			Meta: engine.TemplateMeta{
				Category:    category,
				Description: description,
				Tags:        tags,
			},
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return out, nil
}

// RecordFamilyRun stores the outcome of one family construction attempt.
func (s *SQLiteStore) RecordFamilyRun(ctx context.Context, run *FamilyRun) error {
	resourcesJSON, err := json.Marshal(run.Resources)
	if err != nil {
		return fmt.Errorf("failed to marshal run resources: %w", err)
	}

	query := `
		INSERT INTO family_runs (id, provider, vm_class, region, state, error, resources, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		run.ID, run.Provider, run.VMClass, run.Region, run.State, run.Error,
		string(resourcesJSON), run.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to record family run: %w", err)
	}
	return nil
}

// ListFamilyRuns returns run history, newest first.
func (s *SQLiteStore) ListFamilyRuns(ctx context.Context, limit, offset int) ([]*FamilyRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, vm_class, region, state, error, resources, created_at
		FROM family_runs
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list family runs: %w", err)
	}
	defer rows.Close()

	runs := []*FamilyRun{}
	for rows.Next() {
		run := &FamilyRun{}
		var resourcesJSON string
		if err := rows.Scan(
			&run.ID, &run.Provider, &run.VMClass, &run.Region,
			&run.State, &run.Error, &resourcesJSON, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family run: %w", err)
		}
		if err := json.Unmarshal([]byte(resourcesJSON), &run.Resources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run resources: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate family runs: %w", err)
	}
	return runs, nil
}
