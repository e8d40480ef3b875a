package postprocessors

import (
	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
	"github.com/custodia-labs/paperdex/internal/postprocessors/chunker"
)

// Config keys understood by the built-in chunkers.
const (
	KeyChunkSize = "chunk_size"
	KeyOverlap   = "overlap"
)

// RegisterDefaults registers the built-in chunk strategies with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(string(domain.ChunkStrategyRecursive), buildRecursive)
	r.Register(string(domain.ChunkStrategyFixed), buildFixed)
}

// NewDefaultRegistry returns a registry with the built-in strategies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// BuildFromSettings creates the chunker described by chunking settings.
func BuildFromSettings(r *Registry, s domain.ChunkingSettings) (driven.Chunker, error) {
	return r.Build(s.Strategy.String(), map[string]any{
		KeyChunkSize: s.Size,
		KeyOverlap:   s.Overlap,
	})
}

// buildRecursive creates a recursive chunker from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
func buildRecursive(cfg map[string]any) (driven.Chunker, error) {
	return chunker.NewRecursive(chunkerOptions(cfg)...)
}

// buildFixed creates a fixed-window chunker from generic config.
// Supports the same keys as buildRecursive.
func buildFixed(cfg map[string]any) (driven.Chunker, error) {
	return chunker.NewFixed(chunkerOptions(cfg)...)
}

func chunkerOptions(cfg map[string]any) []chunker.Option {
	var opts []chunker.Option
	if size, ok := getIntFromConfig(cfg, KeyChunkSize); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, KeyOverlap); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return opts
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
