// Package bundle persists a vector index as a directory of three files:
//
//	header.toml    format, version, entry count, dimension, encoding
//	vectors.bin    row-major little-endian float32 matrix, count x dimension
//	payloads.json  chunk text and metadata, aligned with the matrix rows
//
// The header is validated against the other two files on load.
package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/paperdex/internal/adapters/driven/storage"
	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Format identification written to every header.
const (
	FormatName    = "paperdex-index"
	FormatVersion = 1
	DType         = "float32"
	ByteOrder     = "little-endian"
)

// File names inside a bundle directory.
const (
	HeaderFile   = "header.toml"
	VectorsFile  = "vectors.bin"
	PayloadsFile = "payloads.json"
)

type header struct {
	Format    string    `toml:"format"`
	Version   int       `toml:"version"`
	Count     int       `toml:"count"`
	Dimension int       `toml:"dimension"`
	DType     string    `toml:"dtype"`
	ByteOrder string    `toml:"byte_order"`
	CreatedAt time.Time `toml:"created_at"`
}

type payload struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Store reads and writes bundle directories.
type Store struct {
	now func() time.Time
}

// New creates a bundle store.
func New() *Store {
	return &Store{now: time.Now}
}

// Format returns domain.IndexFormatBundle.
func (s *Store) Format() domain.IndexFormat {
	return domain.IndexFormatBundle
}

// Write publishes snap as a bundle directory at path.
func (s *Store) Write(_ context.Context, path string, snap *domain.IndexSnapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("bundle: refusing to write snapshot: %w", err)
	}
	if err := snap.CheckPayloads(); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}

	vectors := make([]byte, 0, len(snap.Entries)*snap.Dimension*4)
	payloads := make([]payload, len(snap.Entries))
	for i := range snap.Entries {
		e := &snap.Entries[i]
		vectors = storage.AppendFloat32s(vectors, e.Vector)
		payloads[i] = payload{ID: e.ID, Content: e.Chunk.Content, Metadata: e.Chunk.Metadata}
	}

	payloadJSON, err := json.Marshal(payloads)
	if err != nil {
		return fmt.Errorf("bundle: marshalling payloads: %w", err)
	}

	hdr, err := toml.Marshal(header{
		Format:    FormatName,
		Version:   FormatVersion,
		Count:     len(snap.Entries),
		Dimension: snap.Dimension,
		DType:     DType,
		ByteOrder: ByteOrder,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	})
	if err != nil {
		return fmt.Errorf("bundle: marshalling header: %w", err)
	}

	return storage.WriteDirAtomic(path, func(dir string) error {
		if err := storage.WriteFileSync(filepath.Join(dir, VectorsFile), vectors, 0o644); err != nil {
			return fmt.Errorf("bundle: writing vectors: %w", err)
		}
		if err := storage.WriteFileSync(filepath.Join(dir, PayloadsFile), payloadJSON, 0o644); err != nil {
			return fmt.Errorf("bundle: writing payloads: %w", err)
		}
		// Header last: a directory without one is never treated as an index.
		if err := storage.WriteFileSync(filepath.Join(dir, HeaderFile), hdr, 0o644); err != nil {
			return fmt.Errorf("bundle: writing header: %w", err)
		}
		return nil
	})
}

// Read loads and validates the bundle at path.
func (s *Store) Read(_ context.Context, path string) (*domain.IndexSnapshot, error) {
	raw, err := os.ReadFile(filepath.Join(path, HeaderFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("bundle %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("bundle: reading header: %w", err)
	}

	var h header
	if err := toml.Unmarshal(raw, &h); err != nil {
		return nil, corrupt("parsing header: %v", err)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	vectors, err := os.ReadFile(filepath.Join(path, VectorsFile))
	if err != nil {
		return nil, corrupt("reading vectors: %v", err)
	}
	if want := h.Count * h.Dimension * 4; len(vectors) != want {
		return nil, corrupt("vectors.bin has %d bytes, header implies %d", len(vectors), want)
	}
	matrix, err := storage.DecodeFloat32s(vectors)
	if err != nil {
		return nil, corrupt("%v", err)
	}

	payloadJSON, err := os.ReadFile(filepath.Join(path, PayloadsFile))
	if err != nil {
		return nil, corrupt("reading payloads: %v", err)
	}
	var payloads []payload
	if err := json.Unmarshal(payloadJSON, &payloads); err != nil {
		return nil, corrupt("parsing payloads: %v", err)
	}
	if len(payloads) != h.Count {
		return nil, corrupt("payloads.json has %d entries, header says %d", len(payloads), h.Count)
	}

	snap := &domain.IndexSnapshot{
		Dimension: h.Dimension,
		Entries:   make([]domain.IndexEntry, h.Count),
	}
	for i := range payloads {
		meta := payloads[i].Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		snap.Entries[i] = domain.IndexEntry{
			ID:     payloads[i].ID,
			Vector: matrix[i*h.Dimension : (i+1)*h.Dimension : (i+1)*h.Dimension],
			Chunk:  domain.Chunk{Content: payloads[i].Content, Metadata: meta},
		}
	}
	return snap, nil
}

// Delete removes the bundle at path.
func (s *Store) Delete(_ context.Context, path string) error {
	if err := storage.RemoveDir(path, HeaderFile); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	return nil
}

func (h *header) validate() error {
	switch {
	case h.Format != FormatName:
		return corrupt("unknown format %q", h.Format)
	case h.Version != FormatVersion:
		return corrupt("unsupported version %d", h.Version)
	case h.DType != DType || h.ByteOrder != ByteOrder:
		return corrupt("unsupported encoding %s/%s", h.DType, h.ByteOrder)
	case h.Count < 1:
		return corrupt("entry count %d", h.Count)
	case h.Dimension < 1:
		return corrupt("dimension %d", h.Dimension)
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("bundle: %w: %s", domain.ErrCorruptData, fmt.Sprintf(format, args...))
}
