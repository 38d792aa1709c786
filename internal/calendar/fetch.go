package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Fetcher retrieves the complete set of upcoming source events.
type Fetcher struct {
	provider   Provider
	calendarID string
	logger     *slog.Logger
}

// NewFetcher returns a Fetcher that lists calendarID through the given provider.
func NewFetcher(p Provider, calendarID string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		provider:   p,
		calendarID: calendarID,
		logger:     logger,
	}
}

// FetchUpcoming returns every source event starting at or after now, ordered
// by start time ascending, normalized. Pagination is followed to completion:
// a failure on any page fails the whole fetch, because a partial snapshot fed
// to reconciliation would cancel events that still exist at the source.
func (f *Fetcher) FetchUpcoming(ctx context.Context, now time.Time) ([]Event, error) {
	var out []Event
	pageToken := ""
	for {
		page, err := f.provider.ListPage(ctx, f.calendarID, now, pageToken)
		if err != nil {
			return nil, fmt.Errorf("list events page: %w", err)
		}
		for _, it := range page.Items {
			ev := normalizeItem(it)
			if ev.Start == nil && (it.Start.DateTime != "" || it.Start.Date != "") {
				f.logger.Warn("unparsable event start time", "event_id", it.ID, "start", it.Start)
			}
			out = append(out, ev)
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}
