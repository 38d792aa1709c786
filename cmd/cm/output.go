package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/magoslab/calmirror/internal/model"
	"github.com/magoslab/calmirror/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatEventTime(e *model.Event) string {
	if e.Start == nil {
		return "-"
	}
	if e.AllDay {
		return e.Start.Local().Format("2006-01-02") + " (all day)"
	}
	return e.Start.Local().Format("2006-01-02 15:04")
}

func printEvent(w io.Writer, e *model.Event) {
	fmt.Fprintf(w, "%s  %s\n", e.ID, ui.RenderStatus(e.Status))
	fmt.Fprintf(w, "  Title: %s\n", e.Title)
	fmt.Fprintf(w, "  When:  %s\n", formatEventTime(e))
	if e.Link != "" {
		fmt.Fprintf(w, "  Link:  %s\n", e.Link)
	}
}

func printEventList(w io.Writer, events []*model.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tWHEN\tTITLE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.ID, ui.RenderStatus(e.Status), formatEventTime(e), e.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", ui.RenderMuted(fmt.Sprintf("%d event(s)", len(events))))
	return nil
}

// relativeTime renders a short human offset used by watch output.
func relativeTime(t time.Time) string {
	d := time.Until(t)
	switch {
	case d < 0:
		return "past"
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("in %dd", int(d.Hours()/24))
	}
}
