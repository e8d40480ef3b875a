package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

var sectionsJSON bool

var sectionsCmd = &cobra.Command{
	Use:   "sections [file.pdf]",
	Short: "Show the sections of a paper",
	Long: `Splits a PDF into sections at recognised headings such as Abstract,
Introduction, Methods, Results, Discussion and References, and prints
the text of each section. Text before the first heading is reported
under "unknown".`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "output sections as a JSON object")
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	secs, err := ingestService.Sections(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read sections: %w", err)
	}

	if sectionsJSON {
		data, err := json.MarshalIndent(secs.Flatten(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sections: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputSections(cmd, secs)
	return nil
}

func outputSections(cmd *cobra.Command, secs *domain.Sections) {
	if secs.Len() == 0 {
		cmd.Println("No sections found.")
		return
	}

	for _, sec := range secs.List() {
		cmd.Println(styles.Section.Render(sec.Name))
		text := sec.Text()
		if text == "" {
			cmd.Println(styles.Muted.Render("  (empty)"))
		} else {
			cmd.Println(text)
		}
		cmd.Println()
	}
}
