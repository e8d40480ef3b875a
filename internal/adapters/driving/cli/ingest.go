package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

var (
	ingestMode   string
	ingestAppend bool
	ingestJSON   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Index a research paper",
	Long: `Loads a PDF, splits it into sections, chunks each section, embeds the
chunks and saves the vector index to the configured index path.

By default the existing index is replaced. Use --append to add the paper
to the index already on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestMode, "mode", string(domain.ChunkModeSections),
		"chunking mode: sections or pages")
	ingestCmd.Flags().BoolVar(&ingestAppend, "append", false, "add to the existing index instead of replacing it")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output a summary as JSON")
	rootCmd.AddCommand(ingestCmd)
}

// ingestSummary is the JSON form of an ingestion run.
type ingestSummary struct {
	File     string            `json:"file"`
	Pages    int               `json:"pages"`
	Sections []string          `json:"sections,omitempty"`
	Chunks   int               `json:"chunks"`
	Indexed  int               `json:"indexed"`
	Metadata map[string]string `json:"metadata"`
	Index    domain.IndexStats `json:"index"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}
	if indexService == nil {
		return notConfigured("index")
	}
	ctx := cmd.Context()
	path := args[0]

	result, err := ingestService.Process(ctx, path, domain.IngestOptions{Mode: domain.ChunkMode(ingestMode)})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestAppend {
		if err := indexService.Load(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("loading existing index: %w", err)
		}
	} else {
		indexService.Clear()
	}

	indexed, err := indexService.Build(ctx, result.Chunks)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	if indexed > 0 {
		if err := indexService.Save(ctx); err != nil {
			return fmt.Errorf("saving index: %w", err)
		}
	}

	summary := ingestSummary{
		File:     path,
		Pages:    result.PageCount,
		Chunks:   len(result.Chunks),
		Indexed:  indexed,
		Metadata: result.Metadata,
		Index:    indexService.Stats(),
	}
	if result.Sections != nil {
		summary.Sections = result.Sections.Names()
	}

	if ingestJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputIngestSummary(cmd, &summary)
	return nil
}

func outputIngestSummary(cmd *cobra.Command, s *ingestSummary) {
	cmd.Println(styles.Title.Render("Ingested " + s.File))
	cmd.Println()

	if len(s.Metadata) > 0 {
		cmd.Println("Metadata:")
		for _, k := range slices.Sorted(maps.Keys(s.Metadata)) {
			cmd.Printf("  %s: %s\n", k, s.Metadata[k])
		}
		cmd.Println()
	}

	if len(s.Sections) > 0 {
		cmd.Println("Sections:")
		for _, name := range s.Sections {
			cmd.Printf("  - %s\n", styles.Section.Render(name))
		}
		cmd.Println()
	}

	cmd.Printf("Pages: %d\n", s.Pages)
	cmd.Printf("Chunks: %d\n", s.Chunks)
	if s.Indexed == 0 {
		cmd.Println(styles.Warning.Render("No text found; index not written."))
		return
	}
	cmd.Printf("Indexed: %d (index now holds %d, dimension %d)\n", s.Indexed, s.Index.Count, s.Index.Dimension)
	cmd.Println(styles.Muted.Render("Saved to " + s.Index.Path))
}
