// Package chunker splits blocks of text into overlapping, size-bounded chunks.
//
// Two strategies are provided. Recursive prefers natural boundaries
// (paragraph, line, word, character). Fixed slides a character window.
// Both reject overlap >= size when they are built.
package chunker

import (
	"strconv"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Separators are the split boundaries tried by the recursive strategy, coarsest first.
var Separators = []string{"\n\n", "\n", " ", ""}

type config struct {
	chunkSize int
	overlap   int
}

// Option configures a chunker.
type Option func(*config)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *config) {
		c.overlap = overlap
	}
}

func newConfig(opts []Option) (config, error) {
	c := config{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if err := domain.ValidateChunkParams(c.chunkSize, c.overlap); err != nil {
		return config{}, err
	}
	return c, nil
}

// appendChunks turns the pieces of one block into chunks carrying the block
// metadata, a per-block chunk_index and a source_section.
func appendChunks(dst []domain.Chunk, block domain.Block, pieces []string) []domain.Chunk {
	index := 0
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		meta := domain.CloneMetadata(block.Metadata)
		if meta[domain.MetaSourceSection] == "" {
			meta[domain.MetaSourceSection] = domain.SectionUnknown
		}
		meta[domain.MetaChunkIndex] = strconv.Itoa(index)
		index++

		dst = append(dst, domain.Chunk{
			Content:  piece,
			Metadata: meta,
		})
	}
	return dst
}
