package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cxxscope/pkg/index"
)

var indexCmd = &cobra.Command{
	Use:   "index [directory]",
	Short: "Index the declarations of every source file below a directory",
	Long: `Parse every source file selected by the index include and exclude
patterns and store its declarations in the SQLite index. Files whose content
did not change since the last run are skipped and files that disappeared are
dropped. With --watch the index is kept current until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		store, err := openIndex(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		ix := &index.Indexer{
			Store:   store,
			Parser:  cfg.ParserOptions(logger),
			Workers: cfg.Workers,
			Include: cfg.Index.Include,
			Exclude: cfg.Index.Exclude,
			Log:     logger,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		start := time.Now()
		stats, err := ix.Run(ctx, root)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n", stats, time.Since(start).Round(time.Millisecond))

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", root)
			return ix.Watch(ctx, root, index.DefaultDebounce)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolP("watch", "w", false, "Keep the index current as files change")
	indexCmd.Flags().String("db", "", "Index database (default from configuration)")
	findCmd.Flags().String("db", "", "Index database (default from configuration)")
}

func openIndex(cmd *cobra.Command) (*index.Store, error) {
	path := cfg.Index.Path
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		path = db
	}
	return index.Open(path, logger)
}

