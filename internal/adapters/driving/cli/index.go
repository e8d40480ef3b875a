package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect or remove the saved vector index",
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the saved index",
	Args:  cobra.NoArgs,
	RunE:  runIndexInfo,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved index",
	Args:  cobra.NoArgs,
	RunE:  runIndexClear,
}

func init() {
	indexInfoCmd.Flags().BoolVar(&indexJSON, "json", false, "output as JSON")
	indexCmd.AddCommand(indexInfoCmd)
	indexCmd.AddCommand(indexClearCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexInfo(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return notConfigured("index")
	}

	err := indexService.Load(cmd.Context())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to load index: %w", err)
	}
	stats := indexService.Stats()

	if indexJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(styles.Title.Render("Vector Index"))
	cmd.Printf("  Path: %s\n", stats.Path)
	cmd.Printf("  Format: %s\n", stats.Format)
	if !stats.Ready {
		cmd.Println(styles.Muted.Render("  No index saved. Run 'paperdex ingest <file.pdf>' to build one."))
		return nil
	}
	cmd.Printf("  Entries: %d\n", stats.Count)
	cmd.Printf("  Dimension: %d\n", stats.Dimension)
	return nil
}

func runIndexClear(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return notConfigured("index")
	}

	if err := indexService.Remove(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No index to remove.")
			return nil
		}
		return fmt.Errorf("failed to remove index: %w", err)
	}
	cmd.Printf("Removed index at %s\n", indexService.Stats().Path)
	return nil
}
