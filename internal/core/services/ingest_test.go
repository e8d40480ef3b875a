package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/postprocessors/chunker"
	"github.com/custodia-labs/paperdex/internal/postprocessors/sections"
)

func paperPages() []domain.Page {
	return []domain.Page{
		{
			Text:     "Abstract\nThis paper studies X.\n1. Introduction",
			Metadata: map[string]string{"page": "1", "total_pages": "2", "source": "paper.pdf"},
		},
		{
			Text:     "We propose Y.\n2. Results\nWe show Z.",
			Metadata: map[string]string{"page": "2", "total_pages": "2", "source": "paper.pdf"},
		},
	}
}

func newFixedIngest(t *testing.T, src *mockSource, size, overlap int) *IngestService {
	t.Helper()
	c, err := chunker.NewFixed(chunker.WithChunkSize(size), chunker.WithOverlap(overlap))
	require.NoError(t, err)
	return NewIngestService(src, sections.New(), c)
}

func TestIngestService_ProcessPages_Sections(t *testing.T) {
	svc := newFixedIngest(t, &mockSource{}, 50, 0)

	result, err := svc.ProcessPages(context.Background(), paperPages(), domain.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.PageCount)
	assert.Equal(t, map[string]string{"page": "1", "total_pages": "2", "source": "paper.pdf"}, result.Metadata)
	require.NotNil(t, result.Sections)
	assert.Equal(t, []string{"abstract", "introduction", "results"}, result.Sections.Names())

	require.Len(t, result.Chunks, 3)
	want := []struct{ content, section string }{
		{"This paper studies X.", "abstract"},
		{"We propose Y.", "introduction"},
		{"We show Z.", "results"},
	}
	for i, w := range want {
		c := result.Chunks[i]
		assert.Equal(t, w.content, c.Content)
		assert.Equal(t, w.section, c.Metadata[domain.MetaSourceSection])
		assert.Equal(t, "0", c.Metadata[domain.MetaChunkIndex])
		assert.Equal(t, "paper.pdf", c.Metadata[domain.MetaSource])
		assert.Equal(t, "2", c.Metadata[domain.MetaTotalPages])
		_, hasPage := c.Metadata[domain.MetaPage]
		assert.False(t, hasPage, "section chunks span pages")
		assert.LessOrEqual(t, len(c.Content), 50)
	}
}

func TestIngestService_ProcessPages_PagesMode(t *testing.T) {
	svc := newFixedIngest(t, &mockSource{}, 1000, 0)

	result, err := svc.ProcessPages(context.Background(), paperPages(), domain.IngestOptions{Mode: domain.ChunkModePages})
	require.NoError(t, err)

	assert.Nil(t, result.Sections)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "page", result.Chunks[0].Metadata[domain.MetaSourceSection])
	assert.Equal(t, "1", result.Chunks[0].Metadata[domain.MetaPage])
	assert.Equal(t, "2", result.Chunks[1].Metadata[domain.MetaPage])
	assert.Equal(t, paperPages()[1].Text, result.Chunks[1].Content)
}

func TestIngestService_ProcessPages_EmptySectionsSkipped(t *testing.T) {
	mc := &mockChunker{}
	svc := NewIngestService(&mockSource{}, sections.New(), mc)

	pages := []domain.Page{{Text: "Abstract\nIntroduction\nBody text."}}
	result, err := svc.ProcessPages(context.Background(), pages, domain.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"abstract", "introduction"}, result.Sections.Names())
	require.Len(t, mc.blocks, 1)
	assert.Equal(t, "introduction", mc.blocks[0].Metadata[domain.MetaSourceSection])
}

func TestIngestService_ProcessPages_NoPages(t *testing.T) {
	svc := newFixedIngest(t, &mockSource{}, 100, 10)

	result, err := svc.ProcessPages(context.Background(), nil, domain.IngestOptions{})
	require.NoError(t, err)

	assert.NotNil(t, result.Metadata)
	assert.Empty(t, result.Metadata)
	assert.Empty(t, result.Chunks)
	assert.Zero(t, result.PageCount)
}

func TestIngestService_ProcessPages_MissingMetadata(t *testing.T) {
	svc := newFixedIngest(t, &mockSource{}, 100, 10)

	result, err := svc.ProcessPages(context.Background(), []domain.Page{{Text: "just text"}}, domain.IngestOptions{})
	require.NoError(t, err)

	assert.NotNil(t, result.Metadata)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, domain.SectionUnknown, result.Chunks[0].Section())
}

func TestIngestService_ProcessPages_InvalidMode(t *testing.T) {
	svc := newFixedIngest(t, &mockSource{}, 100, 10)

	_, err := svc.ProcessPages(context.Background(), paperPages(), domain.IngestOptions{Mode: "chapters"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestIngestService_ProcessPages_ChunkerError(t *testing.T) {
	svc := NewIngestService(&mockSource{}, sections.New(), &mockChunker{err: errProvider})

	_, err := svc.ProcessPages(context.Background(), paperPages(), domain.IngestOptions{})
	assert.ErrorIs(t, err, errProvider)
}

func TestIngestService_ProcessPages_CancelledContext(t *testing.T) {
	mc := &mockChunker{}
	svc := NewIngestService(&mockSource{}, sections.New(), mc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ProcessPages(ctx, paperPages(), domain.IngestOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, mc.blocks)
}

func TestIngestService_Process(t *testing.T) {
	src := &mockSource{pages: paperPages()}
	svc := newFixedIngest(t, src, 50, 0)

	result, err := svc.Process(context.Background(), "paper.pdf", domain.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"paper.pdf"}, src.paths)
	assert.Len(t, result.Chunks, 3)
}

func TestIngestService_Process_SourceError(t *testing.T) {
	src := &mockSource{err: domain.ErrUnsupportedFormat}
	svc := newFixedIngest(t, src, 50, 0)

	_, err := svc.Process(context.Background(), "notes.txt", domain.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestIngestService_Sections(t *testing.T) {
	src := &mockSource{pages: paperPages()}
	svc := newFixedIngest(t, src, 50, 0)

	secs, err := svc.Sections(context.Background(), "paper.pdf")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"abstract":     "This paper studies X.",
		"introduction": "We propose Y.",
		"results":      "We show Z.",
	}, secs.Flatten())
}
