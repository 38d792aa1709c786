package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <event-id>",
	Short: "Acknowledge an event",
	Long: `Marks a NEW or CHANGED event as confirmed, signalling that its current
source state has been seen. Confirming an already confirmed event is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := apiClient.Confirm(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("confirming event: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ev)
		}
		printEvent(cmd.OutOrStdout(), ev)
		return nil
	},
}
