package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// snippetLength is the number of characters of chunk text shown per result.
const snippetLength = 200

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed paper",
	Long: `Embeds the query and returns the most similar chunks from the saved
vector index, ranked by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return notConfigured("search")
	}
	if indexService == nil {
		return notConfigured("index")
	}

	ctx := cmd.Context()
	if err := indexService.Load(ctx); err != nil {
		return fmt.Errorf("no index to search, run 'paperdex ingest' first: %w", err)
	}

	results, err := searchService.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	outputSearchResults(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchResults(cmd *cobra.Command, results []domain.ScoredChunk) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		section := r.Chunk.Section()
		if section == "" {
			section = domain.SectionUnknown
		}

		cmd.Printf("  [%d] %s %s\n", i+1,
			styles.Section.Render(section),
			styles.Score.Render(fmt.Sprintf("(%.4f)", r.Score)))
		if meta := formatMetadata(r.Chunk.Metadata); meta != "" {
			cmd.Printf("      %s\n", styles.Muted.Render(meta))
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content, snippetLength))
		cmd.Println()
	}
}

// formatMetadata renders provenance keys other than the section name.
func formatMetadata(meta map[string]string) string {
	parts := make([]string, 0, len(meta))
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		if k == domain.MetaSourceSection {
			continue
		}
		parts = append(parts, k+"="+meta[k])
	}
	return strings.Join(parts, " ")
}

// snippet collapses whitespace and truncates text to n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
