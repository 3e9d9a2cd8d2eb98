package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"blogsearch/internal/tui"
)

var tuiLimit int

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive search UI",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiLimit, "limit", "n", 10, "maximum number of results per query")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, store, err := newSearchService(cfg)
	if err != nil {
		return err
	}
	if err := store.EnsureCollection(cmd.Context()); err != nil {
		return fmt.Errorf("vector store: %w", err)
	}
	m := tui.New(svc, tuiLimit)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}
