// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/custodia-labs/paperdex/internal/adapters/driven/embedding"
	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "http://localhost:11434"
	DefaultModel     = "nomic-embed-text"
	DefaultTimeout   = 30 * time.Second
	DefaultBatchSize = domain.DefaultBatchSize
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size. Zero means look up the
	// model's known size, or learn it from the first response.
	Dimensions int

	// BatchSize is the number of texts sent per request.
	BatchSize int
}

// EmbeddingService generates embeddings through a langchaingo embedder
// backed by an Ollama server.
type EmbeddingService struct {
	client   *http.Client
	embedder embeddings.Embedder
	baseURL  string
	model    string

	mu         sync.Mutex
	dimensions int
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	cfg = withDefaults(cfg)

	httpClient := &http.Client{Timeout: cfg.Timeout}
	llm, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama: create client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithBatchSize(cfg.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("ollama: create embedder: %w", err)
	}

	return newWithEmbedder(cfg, httpClient, embedder), nil
}

// NewWithEmbedder builds a service around an existing embedder.
// Ping still talks to cfg.BaseURL.
func NewWithEmbedder(cfg Config, embedder embeddings.Embedder) *EmbeddingService {
	cfg = withDefaults(cfg)
	return newWithEmbedder(cfg, &http.Client{Timeout: cfg.Timeout}, embedder)
}

func newWithEmbedder(cfg Config, client *http.Client, embedder embeddings.Embedder) *EmbeddingService {
	dims := cfg.Dimensions
	if dims == 0 {
		dims = domain.EmbeddingDimensions()[cfg.Model]
	}
	return &EmbeddingService{
		client:     client,
		embedder:   embedder,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dimensions: dims,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return cfg
}

// Embed generates a unit-length vector for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("ollama: embed query: %w", err)
	}
	if err := s.observe([][]float32{vec}, 1); err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return embedding.Normalize(vec), nil
}

// EmbedBatch generates unit-length vectors for multiple texts, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vecs, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama: embed documents: %w", err)
	}
	if err := s.observe(vecs, len(texts)); err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	for _, v := range vecs {
		embedding.Normalize(v)
	}
	return vecs, nil
}

// observe checks a response against the known dimension, learning it on first use.
func (s *EmbeddingService) observe(vecs [][]float32, inputs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := embedding.CheckBatch(vecs, inputs, s.dimensions); err != nil {
		return err
	}
	if s.dimensions == 0 && len(vecs) > 0 {
		s.dimensions = len(vecs[0])
	}
	return nil
}

// Dimensions returns the embedding vector size, or 0 if not yet known.
func (s *EmbeddingService) Dimensions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
