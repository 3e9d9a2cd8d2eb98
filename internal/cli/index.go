package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	indexRoot  string
	indexForce bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the markdown corpus into the vector store",
	Long: `Walks the corpus root, splits every post into heading-scoped
sections and upserts one embedded chunk per section. Re-running over an
unchanged corpus is a no-op.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexRoot, "root", "", "corpus root (overrides config)")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-embed chunks even when the source is unchanged")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexRoot != "" {
		cfg.Corpus.Root = indexRoot
	}
	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	ix, err := newIndexer(cfg, indexForce, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := ix.Run(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	cmd.Printf("Indexed %d documents: %d chunks upserted, %d unchanged, %d skipped, %d failed\n",
		summary.Documents, summary.Chunks, summary.Unchanged, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d chunks or documents failed", summary.Failed)
	}
	return nil
}
