package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert files as they are dropped into a directory",
	Long: `Watch turns a directory into a drop target. Files written into it are
collected until the directory has been quiet for the settle interval, then
sent as one batch. Each batch starts from an empty selection. Results go to
<dir>/converted unless --out is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		dir := args[0]
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating drop directory: %w", err)
		}

		opts := outputOptions{}
		opts.dir, _ = cmd.Flags().GetString("out")
		if opts.dir == "" {
			opts.dir = filepath.Join(dir, "converted")
		}
		opts.overleaf, _ = cmd.Flags().GetBool("overleaf")
		settle, _ := cmd.Flags().GetDuration("settle")

		out := cmd.OutOrStdout()
		store := session.NewStore(intakeConfig(), logger)
		surface := intake.NewSurface(store, true, logger)
		sub := newSubmitter(logger)

		onDrop := func(ctx context.Context, paths []string) error {
			store.ClearAll()
			if err := surface.Drop(ctx, paths); err != nil {
				fmt.Fprintf(out, "Rejected drop: %v\n", err)
				return err
			}
			submitCtx, cancel := context.WithTimeout(ctx, viper.GetDuration("timeout"))
			defer cancel()
			if err := submitBatch(submitCtx, out, store, sub, opts, logger); err != nil {
				fmt.Fprintf(out, "Conversion failed: %v\n", err)
				return err
			}
			return nil
		}

		fmt.Fprintf(out, "Watching %s for resume files (Ctrl+C to stop)\n", dir)
		return intake.NewDropWatcher(dir, settle, onDrop, logger).Run(ctx)
	},
}

func init() {
	watchCmd.Flags().StringP("out", "o", "", "directory for .tex files (default <dir>/converted)")
	watchCmd.Flags().Bool("overleaf", false, "open each result in Overleaf")
	watchCmd.Flags().Duration("settle", intake.DefaultSettle, "quiet period before a drop is submitted")

	rootCmd.AddCommand(watchCmd)
}
