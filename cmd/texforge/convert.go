package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/session"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert resume files to LaTeX",
	Long: `Convert validates the given files locally, uploads them to the server for
ingest, then requests the LaTeX conversion. On success the result is written
to <first-file-name>.tex in the output directory.

With --single only the first file is used, replacing any earlier selection.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		single, _ := cmd.Flags().GetBool("single")
		store := session.NewStore(intakeConfig(), logger)
		surface := intake.NewSurface(store, !single, logger)

		if err := surface.Select(ctx, args); err != nil {
			return fmt.Errorf("selecting files: %w", err)
		}

		out := cmd.OutOrStdout()
		opts := outputOptions{}
		opts.dir, _ = cmd.Flags().GetString("out")
		opts.overleaf, _ = cmd.Flags().GetBool("overleaf")
		opts.print, _ = cmd.Flags().GetBool("print")
		return submitBatch(ctx, out, store, newSubmitter(logger), opts, logger)
	},
}

func init() {
	convertCmd.Flags().StringP("out", "o", ".", "directory for the .tex file")
	convertCmd.Flags().Bool("overleaf", false, "open the result in Overleaf")
	convertCmd.Flags().Bool("print", false, "also print the LaTeX source to stdout")
	convertCmd.Flags().Bool("single", false, "use only the first file")

	rootCmd.AddCommand(convertCmd)
}
