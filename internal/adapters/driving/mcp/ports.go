package mcp

import (
	"github.com/custodia-labs/paperdex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic search.
	Search driving.SearchService

	// Index loads and describes the persisted index. When set, the server
	// loads the index before the first search.
	Index driving.IndexService

	// Ingest splits papers into sections for the sections tool.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Index and Ingest are optional
	return nil
}
