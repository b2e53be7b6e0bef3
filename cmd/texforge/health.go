package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show the server's health report",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := newSubmitter(newLogger()).Health(cmd.Context())
		if doc != nil {
			data, _ := json.MarshalIndent(doc, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
