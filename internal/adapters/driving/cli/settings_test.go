package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short key", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "sk-1234567890abcdef", expected: "sk-1...cdef"},
		{name: "Empty key", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{name: "Empty input returns default", input: "", maxVal: 3, defaultVal: 1, expected: 1},
		{name: "Valid choice within range", input: "2", maxVal: 3, defaultVal: 1, expected: 2},
		{name: "Choice above maximum returns default", input: "4", maxVal: 3, defaultVal: 1, expected: 1},
		{name: "Zero returns default", input: "0", maxVal: 3, defaultVal: 2, expected: 2},
		{name: "Invalid input returns default", input: "abc", maxVal: 3, defaultVal: 2, expected: 2},
		{name: "Maximum value is valid", input: "3", maxVal: 3, defaultVal: 1, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Strategy: recursive")
	assert.Contains(t, out, "Size: 1000")
	assert.Contains(t, out, "Overlap: 200")
	assert.Contains(t, out, "Top K: 3")
	assert.Contains(t, out, "Hash (offline, built-in)")
	assert.Contains(t, out, "Path: "+domain.DefaultIndexPath)
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_Set(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "settings", "set", "chunking.size", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Set chunking.size = 500")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 500, settings.Chunking.Size)

	out, err = execute(t, "settings", "set", "chunking.size", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset chunking.size to default")

	settings, err = settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChunkSize, settings.Chunking.Size)
}

func TestSettingsCmd_SetRejectsInvalid(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "overlap not below size", key: "chunking.overlap", value: "1000"},
		{name: "unknown key", key: "chunking.colour", value: "blue"},
		{name: "unknown format", key: "index.format", value: "parquet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "settings", "set", tt.key, tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestSettingsCmd_SetMasksAPIKey(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "settings", "set", "embedding.api_key", "sk-1234567890abcdef")

	require.NoError(t, err)
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
}

func TestSettingsCmd_EmbeddingInteractive(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetIn(strings.NewReader("1\n\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Select Embedding Provider")
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "Embedding provider configured: Hash (offline, built-in) (hash-384)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderHash, settings.Embedding.Provider)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	old := settingsService
	settingsService = nil
	defer func() { settingsService = old }()

	_, err := execute(t, "settings")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
