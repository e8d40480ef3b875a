// Package sqlite persists a vector index snapshot as a single SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. An index saved to path lives in
// path/index.db and holds two tables:
//
//   - index_meta: format, version, entry count and dimension
//   - index_entries: one row per entry in insertion order, vector as a float32 blob
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory, applied in order when a database is written.
//
// # Durability
//
// The database is built in a temporary sibling directory which is then renamed
// over path, so a reader sees either the previous index or the complete new one.
package sqlite
