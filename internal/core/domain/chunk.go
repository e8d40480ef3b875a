package domain

import (
	"maps"
	"unicode/utf8"
)

// Metadata keys written by the ingestion pipeline.
const (
	// MetaSourceSection names the logical section a chunk came from.
	MetaSourceSection = "source_section"

	// MetaChunkIndex is the position of a chunk within its parent block.
	MetaChunkIndex = "chunk_index"

	// MetaPage is the 1-based page number reported by the document source.
	MetaPage = "page"

	// MetaTotalPages is the page count reported by the document source.
	MetaTotalPages = "total_pages"

	// MetaSource is the path of the ingested file.
	MetaSource = "source"
)

// Page is one page of extracted text as produced by a document source.
type Page struct {
	// Text is the extracted page text.
	Text string

	// Metadata carries positional provenance (page number, source path).
	Metadata map[string]string
}

// Block is an ordered unit of text handed to the chunker.
// Blocks are either whole pages or whole sections.
type Block struct {
	// Text is the block content.
	Text string

	// Metadata is copied onto every chunk produced from this block.
	Metadata map[string]string
}

// Chunk is the atomic retrievable unit.
// Chunks are created once during ingestion and never mutated afterwards.
type Chunk struct {
	// Content is the non-empty chunk text.
	Content string

	// Metadata holds source_section, chunk_index and any provenance
	// keys passed through from the source document.
	Metadata map[string]string
}

// Clone returns a deep copy of the chunk.
func (c Chunk) Clone() Chunk {
	return Chunk{
		Content:  c.Content,
		Metadata: CloneMetadata(c.Metadata),
	}
}

// ValidUTF8 reports whether the content and every metadata key and value
// are valid UTF-8.
func (c Chunk) ValidUTF8() bool {
	if !utf8.ValidString(c.Content) {
		return false
	}
	for k, v := range c.Metadata {
		if !utf8.ValidString(k) || !utf8.ValidString(v) {
			return false
		}
	}
	return true
}

// Section returns the source_section of the chunk.
func (c Chunk) Section() string {
	return c.Metadata[MetaSourceSection]
}

// CloneMetadata copies a metadata map. A nil map yields an empty map.
func CloneMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}
