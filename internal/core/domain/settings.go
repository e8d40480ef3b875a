package domain

import "fmt"

const unknownDescription = "Unknown"

// Defaults for settings that are not present in the config file.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 3
	DefaultBatchSize    = 32
	DefaultIndexPath    = "data/paper_index"
)

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHash is the built-in offline feature-hashing embedder.
	AIProviderHash AIProvider = "hash"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHash, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHash
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHash:
		return "Hash (offline, built-in)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkStrategy selects the chunking algorithm.
type ChunkStrategy string

// Available chunk strategies.
const (
	// ChunkStrategyRecursive splits on paragraph, line, word and character boundaries.
	ChunkStrategyRecursive ChunkStrategy = "recursive"

	// ChunkStrategyFixed slides a fixed-size character window.
	ChunkStrategyFixed ChunkStrategy = "fixed"
)

// IsValid returns true if the strategy is recognised.
func (s ChunkStrategy) IsValid() bool {
	return s == ChunkStrategyRecursive || s == ChunkStrategyFixed
}

// String returns the string representation.
func (s ChunkStrategy) String() string {
	return string(s)
}

// IndexFormat selects the on-disk persistence format of the vector index.
type IndexFormat string

// Available index formats.
const (
	// IndexFormatBundle is a directory holding header.toml, vectors.bin and payloads.json.
	IndexFormatBundle IndexFormat = "bundle"

	// IndexFormatSQLite is a directory holding a single SQLite database.
	IndexFormatSQLite IndexFormat = "sqlite"
)

// IsValid returns true if the format is recognised.
func (f IndexFormat) IsValid() bool {
	return f == IndexFormatBundle || f == IndexFormatSQLite
}

// String returns the string representation.
func (f IndexFormat) String() string {
	return string(f)
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// Strategy is the chunking algorithm.
	Strategy ChunkStrategy

	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int

	// Mode chooses between section-aware and page chunking.
	Mode ChunkMode
}

// Validate returns ErrConfiguration for an unusable combination.
func (c ChunkingSettings) Validate() error {
	if !c.Strategy.IsValid() {
		return fmt.Errorf("%w: unknown chunk strategy %q", ErrConfiguration, c.Strategy)
	}
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: unknown chunk mode %q", ErrConfiguration, c.Mode)
	}
	return ValidateChunkParams(c.Size, c.Overlap)
}

// ValidateChunkParams checks chunk_size > 0 and 0 <= overlap < chunk_size.
func ValidateChunkParams(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfiguration, size)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrConfiguration, overlap)
	}
	if overlap >= size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrConfiguration, overlap, size)
	}
	return nil
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// TopK is the default number of results.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (Ollama, or an OpenAI-compatible server).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the provider's default vector size when positive.
	Dimensions int

	// BatchSize is the number of texts sent per EmbedBatch call.
	BatchSize int

	// RequestsPerSecond limits remote calls when positive.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds vector index persistence configuration.
type IndexSettings struct {
	// Path is the directory the index is saved to and loaded from.
	Path string

	// Format is the persistence format.
	Format IndexFormat
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunking  ChunkingSettings
	Search    SearchSettings
	Embedding EmbeddingSettings
	Index     IndexSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The hash provider needs no network, so a fresh install works offline.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			Strategy: ChunkStrategyRecursive,
			Size:     DefaultChunkSize,
			Overlap:  DefaultChunkOverlap,
			Mode:     ChunkModeSections,
		},
		Search: SearchSettings{
			TopK: DefaultTopK,
		},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderHash,
			Model:     DefaultEmbeddingModels()[AIProviderHash],
			BatchSize: DefaultBatchSize,
		},
		Index: IndexSettings{
			Path:   DefaultIndexPath,
			Format: IndexFormatBundle,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHash,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHash:   "hash-384",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns known vector sizes per embedding model.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hash-384":               384,
		"nomic-embed-text":       768,
		"all-minilm":             384,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
