package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/magoslab/calmirror/internal/client"
	"github.com/magoslab/calmirror/internal/events"
	"github.com/magoslab/calmirror/internal/model"
	"github.com/magoslab/calmirror/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for event changes",
	Long: `Continuously prints events as they appear or change state. When a NATS URL
is configured (via --nats, CALMIRROR_NATS_URL, or the active remote) the watch
is event-driven; otherwise it polls the server at the given interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		statusFlag, _ := cmd.Flags().GetString("status")

		req := &client.ListEventsRequest{}
		if statusFlag != "" {
			req.Status = strings.Split(statusFlag, ",")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]time.Time)

		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		natsURL := watchNATSURL(cmd)
		if natsURL != "" {
			return watchNATS(ctx, natsURL, req, seen)
		}
		return watchPoll(ctx, interval, req, seen)
	},
}

func watchNATSURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("nats"); u != "" {
		return u
	}
	if u := os.Getenv("CALMIRROR_NATS_URL"); u != "" {
		return u
	}
	return activeRemoteNATSURL()
}

// watchNATS subscribes to notification subjects and re-queries on changes with
// a short debounce so a burst of notifications triggers a single query.
func watchNATS(ctx context.Context, natsURL string, req *client.ListEventsRequest, seen map[string]time.Time) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("calmirror.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, req, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll re-queries the server at the given interval. Each list call runs a
// sync cycle server-side, so polling doubles as the sync trigger.
func watchPoll(ctx context.Context, interval time.Duration, req *client.ListEventsRequest, seen map[string]time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists events, diffs against the seen map, and prints changes.
func queryAndPrint(ctx context.Context, req *client.ListEventsRequest, seen map[string]time.Time) error {
	resp, err := apiClient.ListEvents(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("listing events: %w", err)
	}

	changed := diffEvents(resp.Events, seen)
	if len(changed) == 0 {
		return nil
	}
	if jsonOutput {
		return printJSON(os.Stdout, changed)
	}
	for _, e := range changed {
		when := "-"
		if e.Start != nil {
			when = fmt.Sprintf("%s (%s)", formatEventTime(e), relativeTime(*e.Start))
		}
		fmt.Printf("%s  %s  %s  %s  %s\n",
			ui.RenderMuted(time.Now().Format("15:04:05")),
			e.ID, ui.RenderStatus(e.Status), when, e.Title)
	}
	return nil
}

// diffEvents returns events that are new or have a different updated_at
// timestamp since last seen. It updates seen in place.
func diffEvents(evs []*model.Event, seen map[string]time.Time) []*model.Event {
	var changed []*model.Event
	for _, e := range evs {
		prev, ok := seen[e.ID]
		if !ok || !e.UpdatedAt.Equal(prev) {
			changed = append(changed, e)
		}
		seen[e.ID] = e.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 30*time.Second, "polling interval when NATS is not configured")
	watchCmd.Flags().Bool("once", false, "exit after first query")
	watchCmd.Flags().String("status", "", "comma-separated status filter")
	watchCmd.Flags().String("nats", "", "NATS URL for event-driven watching")
}
