package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/paperdex/internal/adapters/driven/storage"
	"github.com/custodia-labs/paperdex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// DBFile is the database file name inside an index directory.
const DBFile = "index.db"

// Meta values identifying the format.
const (
	formatName    = "paperdex-index-sqlite"
	formatVersion = 1
)

// Meta keys.
const (
	metaFormat    = "format"
	metaVersion   = "version"
	metaCount     = "count"
	metaDimension = "dimension"
	metaCreatedAt = "created_at"
)

// Store reads and writes SQLite index directories.
type Store struct{}

// NewStore creates a SQLite index store.
func NewStore() *Store {
	return &Store{}
}

// Format returns domain.IndexFormatSQLite.
func (s *Store) Format() domain.IndexFormat {
	return domain.IndexFormatSQLite
}

// Write builds a fresh database for snap and publishes it at path.
func (s *Store) Write(ctx context.Context, path string, snap *domain.IndexSnapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("sqlite: refusing to write snapshot: %w", err)
	}
	if err := snap.CheckPayloads(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return storage.WriteDirAtomic(path, func(dir string) error {
		return writeDB(ctx, filepath.Join(dir, DBFile), snap)
	})
}

// Read loads and validates the database at path.
func (s *Store) Read(ctx context.Context, path string) (*domain.IndexSnapshot, error) {
	dbPath := filepath.Join(path, DBFile)
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("sqlite index %s: %w", path, domain.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("sqlite: checking %s: %w", dbPath, err)
	}

	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, corrupt("reading meta: %v", err)
	}
	if meta[metaFormat] != formatName {
		return nil, corrupt("unknown format %q", meta[metaFormat])
	}
	if v, _ := strconv.Atoi(meta[metaVersion]); v != formatVersion {
		return nil, corrupt("unsupported version %q", meta[metaVersion])
	}
	count, err := strconv.Atoi(meta[metaCount])
	if err != nil || count < 1 {
		return nil, corrupt("entry count %q", meta[metaCount])
	}
	dim, err := strconv.Atoi(meta[metaDimension])
	if err != nil || dim < 1 {
		return nil, corrupt("dimension %q", meta[metaDimension])
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, content, metadata, vector FROM index_entries ORDER BY position")
	if err != nil {
		return nil, corrupt("querying entries: %v", err)
	}
	defer rows.Close()

	snap := &domain.IndexSnapshot{Dimension: dim, Entries: make([]domain.IndexEntry, 0, count)}
	for rows.Next() {
		var (
			id, content, metaJSON string
			blob                  []byte
		)
		if err := rows.Scan(&id, &content, &metaJSON, &blob); err != nil {
			return nil, corrupt("scanning entry: %v", err)
		}
		if len(blob) != dim*4 {
			return nil, corrupt("entry %s has %d vector bytes, want %d", id, len(blob), dim*4)
		}
		vec, err := storage.DecodeFloat32s(blob)
		if err != nil {
			return nil, corrupt("%v", err)
		}
		metadata := map[string]string{}
		if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
			return nil, corrupt("entry %s metadata: %v", id, err)
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		snap.Entries = append(snap.Entries, domain.IndexEntry{
			ID:     id,
			Vector: vec,
			Chunk:  domain.Chunk{Content: content, Metadata: metadata},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, corrupt("iterating entries: %v", err)
	}
	if len(snap.Entries) != count {
		return nil, corrupt("found %d entries, meta says %d", len(snap.Entries), count)
	}
	return snap, nil
}

// Delete removes the index directory at path.
func (s *Store) Delete(_ context.Context, path string) error {
	if err := storage.RemoveDir(path, DBFile); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func writeDB(ctx context.Context, dbPath string, snap *domain.IndexSnapshot) error {
	db, err := open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		metaFormat:    formatName,
		metaVersion:   strconv.Itoa(formatVersion),
		metaCount:     strconv.Itoa(len(snap.Entries)),
		metaDimension: strconv.Itoa(snap.Dimension),
		metaCreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO index_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("writing meta %s: %w", k, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO index_entries (position, id, content, metadata, vector) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range snap.Entries {
		e := &snap.Entries[i]
		metaJSON, err := json.Marshal(e.Chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		blob := storage.AppendFloat32s(make([]byte, 0, len(e.Vector)*4), e.Vector)
		if _, err := stmt.ExecContext(ctx, i, e.ID, e.Chunk.Content, string(metaJSON), blob); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM index_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("sqlite: %w: %s", domain.ErrCorruptData, fmt.Sprintf(format, args...))
}
