package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/present"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate files locally without uploading",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := intakeConfig()
		validator := intake.NewValidator(cfg)
		out := cmd.OutOrStdout()

		failed := 0
		for _, path := range args {
			c, err := intake.NewPathCandidate(path)
			if err != nil {
				fmt.Fprintf(out, "✗ %s: %s\n", path, intake.ReasonMissing)
				failed++
				continue
			}
			h := c.Header()
			if err := validator.Validate(c); err != nil {
				fmt.Fprintf(out, "✗ %s (%s): %v\n", h.Name, h.MIMEType, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "✓ %s (%s, %s)\n", h.Name, h.MIMEType, present.FormatKB(h.Size))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files rejected", failed, len(args))
		}
		fmt.Fprintln(out, present.ReadyLine(len(args)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
