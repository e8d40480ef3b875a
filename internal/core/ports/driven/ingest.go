package driven

import (
	"context"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// DocumentSource extracts page-level text from a document on disk.
type DocumentSource interface {
	// Load returns the pages of the document at path in order.
	// Returns ErrUnsupportedFormat for inputs the source cannot read.
	Load(ctx context.Context, path string) ([]domain.Page, error)
}

// Segmenter splits full paper text into heading-delimited sections.
type Segmenter interface {
	// Segment assigns every non-empty line to exactly one section.
	Segment(text string) *domain.Sections
}

// Chunker splits blocks into overlapping chunks.
// Configuration is validated when the chunker is built, never per call.
type Chunker interface {
	// Name returns the strategy name.
	Name() string

	// Chunk splits each block in order, copying block metadata onto its chunks.
	Chunk(blocks []domain.Block) ([]domain.Chunk, error)
}
