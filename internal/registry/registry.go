// Package registry stores built widget packages in a local SQLite database
// so generated output can be installed once and served or inspected later
// without regenerating.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// ErrNotInstalled is returned when a widget id is not present in the registry.
var ErrNotInstalled = errors.New("registry: widget not installed")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS widgets (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    version          TEXT NOT NULL,
    category         TEXT NOT NULL,
    spec_json        TEXT NOT NULL,
    spec_hash        TEXT NOT NULL,
    template_version TEXT NOT NULL,
    generated_at     INTEGER NOT NULL,
    installed_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS widget_files (
    widget_id TEXT NOT NULL REFERENCES widgets(id) ON DELETE CASCADE,
    path      TEXT NOT NULL,
    type      TEXT NOT NULL,
    content   BLOB NOT NULL,
    ord       INTEGER NOT NULL,
    PRIMARY KEY (widget_id, path)
);
`

// Entry is one installed widget as listed by the registry.
type Entry struct {
	ID              string
	Name            string
	Version         string
	Category        spec.Category
	SpecHash        string
	TemplateVersion string
	GeneratedAt     int64
	InstalledAt     time.Time
	FileCount       int
}

// Registry is a SQLite-backed widget package store.
type Registry struct {
	db *sql.DB
}

// Open opens (or creates) a registry database at dbPath, enables WAL mode
// and busy timeout, and creates the schema tables if they do not exist.
func Open(ctx context.Context, dbPath string) (*Registry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("registry: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; using
	// one connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup. WAL mode still benefits external
	// readers and provides crash-safe writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: create schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Install upserts a built package and all of its files in one transaction.
// Reinstalling the same widget id replaces the previous version.
func (r *Registry) Install(ctx context.Context, pkg *codegen.Package) error {
	specJSON, err := json.Marshal(pkg.Spec)
	if err != nil {
		return fmt.Errorf("registry: encode spec for %q: %w", pkg.ID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("registry: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const upsert = `
		INSERT INTO widgets (id, name, version, category, spec_json, spec_hash, template_version, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name             = excluded.name,
			version          = excluded.version,
			category         = excluded.category,
			spec_json        = excluded.spec_json,
			spec_hash        = excluded.spec_hash,
			template_version = excluded.template_version,
			generated_at     = excluded.generated_at,
			installed_at     = CURRENT_TIMESTAMP`
	if _, err := tx.ExecContext(ctx, upsert,
		pkg.ID, pkg.Spec.Name, pkg.Spec.Version, string(pkg.Spec.Category),
		string(specJSON), spec.Hash(pkg.Spec), pkg.TemplateVersion, pkg.GeneratedAt,
	); err != nil {
		return fmt.Errorf("registry: install %q: %w", pkg.ID, err)
	}

	// Replace the file set wholesale; a rebuilt package may drop files.
	if _, err := tx.ExecContext(ctx, "DELETE FROM widget_files WHERE widget_id = ?", pkg.ID); err != nil {
		return fmt.Errorf("registry: clear files for %q: %w", pkg.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO widget_files (widget_id, path, type, content, ord) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("registry: prepare file insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range pkg.Files {
		if _, err := stmt.ExecContext(ctx, pkg.ID, f.Path, string(f.Type), []byte(f.Content), i); err != nil {
			return fmt.Errorf("registry: insert file %q of %q: %w", f.Path, pkg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("registry: commit install of %q: %w", pkg.ID, err)
	}
	return nil
}

// Get reconstructs an installed package, files in their original order.
func (r *Registry) Get(ctx context.Context, id string) (*codegen.Package, error) {
	var (
		specJSON    string
		templateVer string
		generatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT spec_json, template_version, generated_at FROM widgets WHERE id = ?", id,
	).Scan(&specJSON, &templateVer, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("registry: %q: %w", id, ErrNotInstalled)
	}
	if err != nil {
		return nil, fmt.Errorf("registry: get %q: %w", id, err)
	}

	var s spec.WidgetSpec
	if err := json.Unmarshal([]byte(specJSON), &s); err != nil {
		return nil, fmt.Errorf("registry: decode stored spec for %q: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT path, type, content FROM widget_files WHERE widget_id = ? ORDER BY ord", id)
	if err != nil {
		return nil, fmt.Errorf("registry: list files for %q: %w", id, err)
	}
	defer rows.Close()

	var files []codegen.File
	for rows.Next() {
		var (
			path, ftype string
			content     []byte
		)
		if err := rows.Scan(&path, &ftype, &content); err != nil {
			return nil, fmt.Errorf("registry: scan file row for %q: %w", id, err)
		}
		files = append(files, codegen.File{Path: path, Type: codegen.FileType(ftype), Content: string(content)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: iterate files for %q: %w", id, err)
	}

	return &codegen.Package{
		ID:              id,
		Spec:            &s,
		Files:           files,
		GeneratedAt:     generatedAt,
		TemplateVersion: templateVer,
	}, nil
}

// List returns all installed widgets ordered by id.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	const q = `
		SELECT w.id, w.name, w.version, w.category, w.spec_hash, w.template_version,
		       w.generated_at, w.installed_at,
		       (SELECT COUNT(*) FROM widget_files f WHERE f.widget_id = w.id)
		FROM widgets w
		ORDER BY w.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			cat string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Version, &cat, &e.SpecHash,
			&e.TemplateVersion, &e.GeneratedAt, &e.InstalledAt, &e.FileCount); err != nil {
			return nil, fmt.Errorf("registry: scan entry: %w", err)
		}
		e.Category = spec.Category(cat)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: iterate entries: %w", err)
	}
	return entries, nil
}

// Remove deletes a widget and its files. Removing an id that is not
// installed returns ErrNotInstalled.
func (r *Registry) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM widgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("registry: remove %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("registry: remove %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("registry: %q: %w", id, ErrNotInstalled)
	}
	return nil
}
