package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magoslab/calmirror/internal/client"
)

var (
	listStatus  string
	listArchive bool
	listYear    int
	listMonth   int
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Sync with the calendar and list mirrored events",
	Long: `Triggers a sync cycle against the Google Calendar source and prints the
resulting events. By default only active events are shown; use --archive for
cancelled, completed and missed events.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListEventsRequest{
			Archive: listArchive,
			Year:    listYear,
			Month:   listMonth,
			Limit:   listLimit,
		}
		if listStatus != "" {
			req.Status = strings.Split(listStatus, ",")
		}

		resp, err := apiClient.ListEvents(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp.Events)
		}
		return printEventList(cmd.OutOrStdout(), resp.Events)
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "comma-separated status filter (new,confirmed,changed,cancelled,completed,missed)")
	listCmd.Flags().BoolVar(&listArchive, "archive", false, "show archived events instead of active ones")
	listCmd.Flags().IntVar(&listYear, "year", 0, "restrict to a calendar month (requires --month)")
	listCmd.Flags().IntVar(&listMonth, "month", 0, "restrict to a calendar month 1-12 (requires --year)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of events to return (0 = no limit)")
}
