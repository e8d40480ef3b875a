package chunker

import (
	"strings"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Fixed implements the interface.
var _ driven.Chunker = (*Fixed)(nil)

// Fixed splits block text into fixed-size character windows.
// Consecutive chunks of a block share exactly overlap characters.
type Fixed struct {
	chunkSize int
	overlap   int
}

// NewFixed creates a fixed-window chunker.
// Returns domain.ErrConfiguration when overlap >= chunk size.
func NewFixed(opts ...Option) (*Fixed, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Fixed{chunkSize: c.chunkSize, overlap: c.overlap}, nil
}

// Name returns the strategy name.
func (f *Fixed) Name() string {
	return string(domain.ChunkStrategyFixed)
}

// Chunk splits each block into windows of chunk size runes.
func (f *Fixed) Chunk(blocks []domain.Block) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, block := range blocks {
		chunks = appendChunks(chunks, block, f.split(block.Text))
	}
	return chunks, nil
}

func (f *Fixed) split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := f.chunkSize - f.overlap
	pieces := make([]string, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := min(start+f.chunkSize, len(runes))
		pieces = append(pieces, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return pieces
}
