// Package mcp provides an MCP (Model Context Protocol) server adapter for paperdex.
// It lets AI assistants run semantic search over an indexed paper.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingIngestService is returned by the sections tool when no ingest service is wired.
var ErrMissingIngestService = errors.New("mcp: ingest service is not available")

// ErrMissingIndexService is returned by index tools when no index service is wired.
var ErrMissingIndexService = errors.New("mcp: index service is not available")
