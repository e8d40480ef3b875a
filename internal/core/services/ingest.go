package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
	"github.com/custodia-labs/paperdex/internal/core/ports/driving"
	"github.com/custodia-labs/paperdex/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// pageSourceSection marks chunks produced in pages mode.
const pageSourceSection = "page"

// IngestService turns a paper into chunks. It has no algorithm of its own:
// metadata is taken first, then text is segmented and chunked.
type IngestService struct {
	source    driven.DocumentSource
	segmenter driven.Segmenter
	chunker   driven.Chunker
}

// NewIngestService creates a new ingestion orchestrator.
func NewIngestService(
	source driven.DocumentSource,
	segmenter driven.Segmenter,
	chunker driven.Chunker,
) *IngestService {
	return &IngestService{
		source:    source,
		segmenter: segmenter,
		chunker:   chunker,
	}
}

// Process loads the document at path and processes its pages.
func (s *IngestService) Process(
	ctx context.Context,
	path string,
	opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	logger.Section("Ingestion")

	pages, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.ProcessPages(ctx, pages, opts)
}

// ProcessPages extracts metadata from the first page, then chunks either
// per section or per page.
func (s *IngestService) ProcessPages(
	ctx context.Context,
	pages []domain.Page,
	opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	mode := opts.Mode
	if mode == "" {
		mode = domain.ChunkModeSections
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown chunk mode %q", domain.ErrConfiguration, mode)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.IngestResult{
		Metadata:  documentMetadata(pages),
		PageCount: len(pages),
	}

	var blocks []domain.Block
	switch mode {
	case domain.ChunkModeSections:
		result.Sections = s.segment(pages)
		blocks = sectionBlocks(result.Sections, result.Metadata)
	case domain.ChunkModePages:
		blocks = pageBlocks(pages)
	}

	done := logger.Timed("chunking")
	chunks, err := s.chunker.Chunk(blocks)
	done()
	if err != nil {
		return nil, fmt.Errorf("chunk %d blocks: %w", len(blocks), err)
	}
	result.Chunks = chunks

	logger.Debug("%d pages, %d blocks, %d chunks (%s, %s)",
		len(pages), len(blocks), len(chunks), mode, s.chunker.Name())
	return result, nil
}

// Sections loads the document at path and segments it without chunking.
func (s *IngestService) Sections(ctx context.Context, path string) (*domain.Sections, error) {
	pages, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.segment(pages), nil
}

func (s *IngestService) load(ctx context.Context, path string) ([]domain.Page, error) {
	done := logger.Timed("load " + path)
	defer done()

	pages, err := s.source.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("loaded %d pages from %s", len(pages), path)
	return pages, nil
}

// segment joins page text with newlines so page breaks stay line breaks.
func (s *IngestService) segment(pages []domain.Page) *domain.Sections {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	sections := s.segmenter.Segment(strings.Join(texts, "\n"))
	logger.Debug("sections: %s", strings.Join(sections.Names(), ", "))
	return sections
}

// documentMetadata returns a copy of the first page's metadata, or an empty map.
func documentMetadata(pages []domain.Page) map[string]string {
	if len(pages) == 0 {
		return map[string]string{}
	}
	return domain.CloneMetadata(pages[0].Metadata)
}

// sectionBlocks makes one block per non-empty section. The per-page number
// does not apply to a section, so it is dropped from the document metadata.
func sectionBlocks(sections *domain.Sections, meta map[string]string) []domain.Block {
	blocks := make([]domain.Block, 0, sections.Len())
	for _, sec := range sections.List() {
		if len(sec.Lines) == 0 {
			continue
		}
		md := domain.CloneMetadata(meta)
		delete(md, domain.MetaPage)
		md[domain.MetaSourceSection] = sec.Name
		blocks = append(blocks, domain.Block{Text: sec.Text(), Metadata: md})
	}
	return blocks
}

func pageBlocks(pages []domain.Page) []domain.Block {
	blocks := make([]domain.Block, 0, len(pages))
	for _, p := range pages {
		md := domain.CloneMetadata(p.Metadata)
		md[domain.MetaSourceSection] = pageSourceSection
		blocks = append(blocks, domain.Block{Text: p.Text, Metadata: md})
	}
	return blocks
}
