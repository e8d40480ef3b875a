package driving

import (
	"context"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// IngestService turns a paper into chunks ready for embedding.
type IngestService interface {
	// Process loads the document at path and processes its pages.
	Process(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestResult, error)

	// ProcessPages extracts metadata first, then segments and chunks the pages.
	ProcessPages(ctx context.Context, pages []domain.Page, opts domain.IngestOptions) (*domain.IngestResult, error)

	// Sections loads the document at path and segments it without chunking.
	Sections(ctx context.Context, path string) (*domain.Sections, error)
}
