// Package cli implements the paperdex command line.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperdex/internal/adapters/driven/ai"
	"github.com/custodia-labs/paperdex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/paperdex/internal/adapters/driven/index/flat"
	"github.com/custodia-labs/paperdex/internal/adapters/driven/storage/bundle"
	"github.com/custodia-labs/paperdex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
	"github.com/custodia-labs/paperdex/internal/core/ports/driving"
	"github.com/custodia-labs/paperdex/internal/core/services"
	"github.com/custodia-labs/paperdex/internal/logger"
	"github.com/custodia-labs/paperdex/internal/normalisers/pdf"
	"github.com/custodia-labs/paperdex/internal/postprocessors"
	"github.com/custodia-labs/paperdex/internal/postprocessors/sections"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	verbose   bool
	configDir string
	indexPath string
)

// Services used by the commands. They are assigned by wireServices before
// any command runs, and replaced with test doubles in tests.
var (
	ingestService   driving.IngestService
	indexService    driving.IndexService
	searchService   driving.SearchService
	settingsService driving.SettingsService
)

// embedder is closed after the command completes.
var embedder driven.EmbeddingService

// wireErr records why the pipeline services could not be built. Settings
// commands still work so the configuration can be repaired.
var wireErr error

// wire builds the services. Tests swap it for a no-op.
var wire = wireServices

var rootCmd = &cobra.Command{
	Use:   "paperdex",
	Short: "Semantic search over research papers",
	Long: `paperdex ingests a research paper PDF, splits it into sections and
overlapping chunks, embeds the chunks and answers semantic queries
against a vector index saved on disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return wire()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if embedder != nil {
			if err := embedder.Close(); err != nil {
				logger.Warn("closing embedding service: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.paperdex)")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "index directory (overrides index.path)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// wireServices loads configuration and assembles the ingestion, index and
// search services.
func wireServices() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsSvc := services.NewSettingsService(store, ai.NewConfigValidator())
	settingsService = settingsSvc

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if indexPath != "" {
		settings.Index.Path = indexPath
	}
	if err := settingsSvc.Validate(); err != nil {
		wireErr = err
		logger.Debug("pipeline not wired: %v", err)
		return nil
	}

	chunker, err := postprocessors.BuildFromSettings(postprocessors.NewDefaultRegistry(), settings.Chunking)
	if err != nil {
		wireErr = err
		return nil
	}

	embedder, err = ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		wireErr = fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		return nil
	}
	if embedder != nil {
		logger.Debug("embedding with %s (%s)", settings.Embedding.Provider, embedder.ModelName())
	}

	indexStore := newIndexStore(settings.Index.Format)
	index := flat.New(indexStore)

	ingestService = services.NewIngestService(pdf.New(), sections.New(), chunker)
	indexService = services.NewIndexService(index, embedder, services.IndexConfig{
		Path:      settings.Index.Path,
		BatchSize: settings.Embedding.BatchSize,
		Store:     indexStore,
	})
	searchService = services.NewSearchService(index, embedder, settings.Search.TopK)
	return nil
}

func newIndexStore(format domain.IndexFormat) driven.IndexStore {
	if format == domain.IndexFormatSQLite {
		return sqlite.NewStore()
	}
	return bundle.New()
}

// notConfigured explains why a pipeline service is missing.
func notConfigured(name string) error {
	if wireErr != nil {
		return fmt.Errorf("%s service not configured: %w", name, wireErr)
	}
	return fmt.Errorf("%s service not configured", name)
}

