// Package domain defines the core entities for paperdex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: Text and metadata for one page of a source document
//   - Section: A named span of a paper delimited by a recognised heading
//   - Block: A unit of text handed to the chunker
//   - Chunk: The atomic retrievable unit
//   - IndexEntry: A vector plus its chunk payload inside the vector index
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
