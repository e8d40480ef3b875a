package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
	"github.com/custodia-labs/paperdex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkStrategy = "chunking.strategy"
	keyChunkSize     = "chunking.size"
	keyChunkOverlap  = "chunking.overlap"
	keyChunkMode     = "chunking.mode"
	keySearchTopK    = "search.top_k"
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"
	keyEmbedBatch    = "embedding.batch_size"
	keyEmbedRate     = "embedding.requests_per_second"
	keyIndexPath     = "index.path"
	keyIndexFormat   = "index.format"
)

// EnvOpenAIAPIKey is consulted when no API key is stored.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// SettingKeys lists every key accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		keyChunkStrategy, keyChunkSize, keyChunkOverlap, keyChunkMode,
		keySearchTopK,
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyEmbedDims, keyEmbedBatch, keyEmbedRate,
		keyIndexPath, keyIndexFormat,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.configStore.GetString(keyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := &domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			Strategy: domain.ChunkStrategy(s.getString(keyChunkStrategy, defaults.Chunking.Strategy.String())),
			Size:     s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap:  s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
			Mode:     domain.ChunkMode(s.getString(keyChunkMode, defaults.Chunking.Mode.String())),
		},
		Search: domain.SearchSettings{
			TopK: s.getInt(keySearchTopK, defaults.Search.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
			BatchSize:         s.getInt(keyEmbedBatch, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RequestsPerSecond),
		},
		Index: domain.IndexSettings{
			Path:   s.getString(keyIndexPath, defaults.Index.Path),
			Format: domain.IndexFormat(s.getString(keyIndexFormat, defaults.Index.Format.String())),
		},
	}

	if settings.Embedding.APIKey == "" && provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = s.getenv(EnvOpenAIAPIKey)
	}

	return settings, nil
}

// Save validates and persists application settings.
// An empty API key is not written so the environment fallback keeps working.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyChunkStrategy, settings.Chunking.Strategy.String()},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyChunkMode, settings.Chunking.Mode.String()},
		{keySearchTopK, settings.Search.TopK},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyEmbedBatch, settings.Embedding.BatchSize},
		{keyEmbedRate, settings.Embedding.RequestsPerSecond},
		{keyIndexPath, settings.Index.Path},
		{keyIndexFormat, settings.Index.Format.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.getenv(EnvOpenAIAPIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key, validates the resulting settings and stores it.
// An empty value removes the key so its default applies again.
func (s *SettingsService) Set(key, value string) error {
	if !slices.Contains(SettingKeys(), key) {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrConfiguration, key, strings.Join(SettingKeys(), ", "))
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return s.configStore.Delete(key)
	}

	parsed, err := parseSetting(key, value)
	if err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := applySetting(settings, key, parsed); err != nil {
		return err
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	return s.configStore.Set(key, parsed)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrConfiguration, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		apiKey = s.getenv(EnvOpenAIAPIKey)
		if apiKey == "" {
			return fmt.Errorf("%w: API key required for %s", domain.ErrConfiguration, provider)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	switch {
	case provider == domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	// A new model has its own vector size.
	settings.Embedding.Dimensions = 0
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

func validateSettings(settings *domain.AppSettings) error {
	if err := settings.Chunking.Validate(); err != nil {
		return err
	}
	if settings.Search.TopK < 1 {
		return fmt.Errorf("%w: search.top_k must be at least 1, got %d", domain.ErrConfiguration, settings.Search.TopK)
	}
	e := settings.Embedding
	if !e.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfiguration, e.Provider)
	}
	if e.Dimensions < 0 {
		return fmt.Errorf("%w: embedding.dimensions must not be negative", domain.ErrConfiguration)
	}
	if e.BatchSize < 1 {
		return fmt.Errorf("%w: embedding.batch_size must be at least 1", domain.ErrConfiguration)
	}
	if e.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: embedding.requests_per_second must not be negative", domain.ErrConfiguration)
	}
	if settings.Index.Path == "" {
		return fmt.Errorf("%w: index.path must not be empty", domain.ErrConfiguration)
	}
	if !settings.Index.Format.IsValid() {
		return fmt.Errorf("%w: unknown index format %q", domain.ErrConfiguration, settings.Index.Format)
	}
	return nil
}

// parseSetting converts a command-line value to the type stored for key.
func parseSetting(key, value string) (any, error) {
	switch key {
	case keyChunkSize, keyChunkOverlap, keySearchTopK, keyEmbedDims, keyEmbedBatch:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrConfiguration, key, value)
		}
		return n, nil
	case keyEmbedRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrConfiguration, key, value)
		}
		return f, nil
	default:
		return value, nil
	}
}

func applySetting(settings *domain.AppSettings, key string, value any) error {
	switch key {
	case keyChunkStrategy:
		settings.Chunking.Strategy = domain.ChunkStrategy(value.(string))
	case keyChunkSize:
		settings.Chunking.Size = value.(int)
	case keyChunkOverlap:
		settings.Chunking.Overlap = value.(int)
	case keyChunkMode:
		settings.Chunking.Mode = domain.ChunkMode(value.(string))
	case keySearchTopK:
		settings.Search.TopK = value.(int)
	case keyEmbedProvider:
		settings.Embedding.Provider = domain.AIProvider(value.(string))
	case keyEmbedModel:
		settings.Embedding.Model = value.(string)
	case keyEmbedBaseURL:
		settings.Embedding.BaseURL = value.(string)
	case keyEmbedAPIKey:
		settings.Embedding.APIKey = value.(string)
	case keyEmbedDims:
		settings.Embedding.Dimensions = value.(int)
	case keyEmbedBatch:
		settings.Embedding.BatchSize = value.(int)
	case keyEmbedRate:
		settings.Embedding.RequestsPerSecond = value.(float64)
	case keyIndexPath:
		settings.Index.Path = value.(string)
	case keyIndexFormat:
		settings.Index.Format = domain.IndexFormat(value.(string))
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrConfiguration, key)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt distinguishes an explicit zero from an unset key.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getProvider keeps unknown stored values so Validate can report them.
func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	return domain.AIProvider(val)
}
