package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to search the paper for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID       string            `json:"id"`
	Section  string            `json:"section"`
	Score    float64           `json:"score"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SectionsInput is the input schema for the sections tool.
type SectionsInput struct {
	Path string `json:"path" jsonschema:"path to a PDF file on the server"`
}

// SectionsOutput is the output schema for the sections tool.
type SectionsOutput struct {
	Names    []string          `json:"names"`
	Sections map[string]string `json:"sections"`
}

// IndexInfoInput is the (empty) input schema for the index_info tool.
type IndexInfoInput struct{}

// IndexInfoOutput is the output schema for the index_info tool.
type IndexInfoOutput struct {
	Ready     bool   `json:"ready"`
	Count     int    `json:"count"`
	Dimension int    `json:"dimension"`
	Path      string `json:"path"`
	Format    string `json:"format"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search over the indexed research paper",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_info",
		Description: "Describe the saved vector index",
	}, s.handleIndexInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sections",
		Description: "Split a PDF into its named sections",
	}, s.handleSections)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Search.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:       results[i].ID,
			Section:  results[i].Chunk.Section(),
			Score:    results[i].Score,
			Content:  results[i].Chunk.Content,
			Metadata: results[i].Chunk.Metadata,
		}
	}

	return nil, output, nil
}

// handleIndexInfo handles the index_info tool invocation.
func (s *Server) handleIndexInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IndexInfoInput,
) (*mcp.CallToolResult, IndexInfoOutput, error) {
	stats, err := s.indexStats(ctx)
	if err != nil {
		return nil, IndexInfoOutput{}, err
	}
	return nil, IndexInfoOutput(stats), nil
}

// handleSections handles the sections tool invocation.
func (s *Server) handleSections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SectionsInput,
) (*mcp.CallToolResult, SectionsOutput, error) {
	if s.ports.Ingest == nil {
		return nil, SectionsOutput{}, ErrMissingIngestService
	}

	secs, err := s.ports.Ingest.Sections(ctx, input.Path)
	if err != nil {
		return nil, SectionsOutput{}, err
	}

	return nil, SectionsOutput{
		Names:    secs.Names(),
		Sections: secs.Flatten(),
	}, nil
}

func (s *Server) indexStats(ctx context.Context) (domain.IndexStats, error) {
	if s.ports.Index == nil {
		return domain.IndexStats{}, ErrMissingIndexService
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.IndexStats{}, err
	}
	return s.ports.Index.Stats(), nil
}
