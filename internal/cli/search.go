package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"blogsearch/internal/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, store, err := newSearchService(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("vector store: %w", err)
	}
	results, err := svc.Query(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Metadata.Title
		if title == "" {
			title = results[i].ID
		}
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, title, results[i].Distance)
		if link := results[i].Metadata.AnchorLink; link != "" {
			cmd.Printf("      %s\n", link)
		}
		if excerpt := results[i].Metadata.Excerpt; excerpt != "" {
			cmd.Printf("      %s\n", excerpt)
		}
		cmd.Println()
	}
	return nil
}
