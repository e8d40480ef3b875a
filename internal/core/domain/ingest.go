package domain

// ChunkMode selects how raw pages become chunker blocks.
type ChunkMode string

// Available chunk modes.
const (
	// ChunkModeSections segments the paper by heading and chunks each section.
	ChunkModeSections ChunkMode = "sections"

	// ChunkModePages chunks each page directly.
	ChunkModePages ChunkMode = "pages"
)

// IsValid returns true if the chunk mode is recognised.
func (m ChunkMode) IsValid() bool {
	return m == ChunkModeSections || m == ChunkModePages
}

// String returns the string representation.
func (m ChunkMode) String() string {
	return string(m)
}

// IngestOptions controls a single ingestion run.
type IngestOptions struct {
	// Mode defaults to ChunkModeSections when empty.
	Mode ChunkMode
}

// IngestResult is the outcome of processing a document.
type IngestResult struct {
	// Chunks are ready for embedding, in document order.
	Chunks []Chunk

	// Metadata is the first page's metadata, empty when absent.
	Metadata map[string]string

	// Sections is nil in pages mode.
	Sections *Sections

	// PageCount is the number of pages processed.
	PageCount int
}
