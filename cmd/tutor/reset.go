package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard a session so the next chat starts over",
	Long: `Discard a session so the next chat starts a new assessment.

Examples:
  tutor reset --session alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Tutor.Reset(cmd.Context(), sessionID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Session %s reset\n", sessionID)
		return nil
	},
}
