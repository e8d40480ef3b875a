package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Recursive implements the interface.
var _ driven.Chunker = (*Recursive)(nil)

// Recursive splits on the coarsest separator that yields pieces under the
// chunk size, merges neighbouring pieces back up to the chunk size and
// carries roughly overlap characters of trailing pieces into the next chunk.
type Recursive struct {
	chunkSize int
	overlap   int
	splitter  textsplitter.RecursiveCharacter
	window    *Fixed
}

// NewRecursive creates a recursive chunker.
// Returns domain.ErrConfiguration when overlap >= chunk size.
func NewRecursive(opts ...Option) (*Recursive, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Recursive{
		chunkSize: c.chunkSize,
		overlap:   c.overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(c.chunkSize),
			textsplitter.WithChunkOverlap(c.overlap),
			textsplitter.WithSeparators(Separators),
		),
		window: &Fixed{chunkSize: c.chunkSize, overlap: c.overlap},
	}, nil
}

// Name returns the strategy name.
func (r *Recursive) Name() string {
	return string(domain.ChunkStrategyRecursive)
}

// Chunk splits each block in order.
func (r *Recursive) Chunk(blocks []domain.Block) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for i, block := range blocks {
		pieces, err := r.splitter.SplitText(block.Text)
		if err != nil {
			return nil, fmt.Errorf("split block %d: %w", i, err)
		}
		chunks = appendChunks(chunks, block, r.bound(pieces))
	}
	return chunks, nil
}

// bound re-splits pieces the merge step left longer than the chunk size.
// The splitter can join one separator past the limit.
func (r *Recursive) bound(pieces []string) []string {
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if utf8.RuneCountInString(p) <= r.chunkSize {
			out = append(out, p)
			continue
		}
		out = append(out, r.window.split(p)...)
	}
	return out
}
