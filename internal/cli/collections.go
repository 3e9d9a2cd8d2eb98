package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List vector store collections",
	RunE:  runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, args []string) error {
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	names, err := store.Collections(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing collections failed: %w", err)
	}
	if len(names) == 0 {
		cmd.Println("No collections found.")
		return nil
	}
	for _, name := range names {
		cmd.Println(name)
	}
	return nil
}
