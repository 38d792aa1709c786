// Package calendar fetches upcoming events from the source calendar and
// normalizes them for reconciliation against the local mirror.
package calendar

import (
	"context"
	"time"
)

// RawTime is the source representation of an event boundary: either a
// timestamp with offset (DateTime) or a bare calendar date (Date).
type RawTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Item is a single event as returned by the source, before normalization.
type Item struct {
	ID       string  `json:"id"`
	Summary  string  `json:"summary"`
	Start    RawTime `json:"start"`
	End      RawTime `json:"end"`
	HTMLLink string  `json:"htmlLink,omitempty"`
}

// Page is one page of a source listing.
type Page struct {
	Items         []Item
	NextPageToken string
}

// Provider lists source events one page at a time. Implementations wrap a
// concrete calendar backend; the fetcher drives pagination.
type Provider interface {
	// ListPage returns events starting at or after timeMin, ordered by start
	// time ascending. An empty pageToken requests the first page.
	ListPage(ctx context.Context, calendarID string, timeMin time.Time, pageToken string) (*Page, error)
}

// Event is a normalized source event, ready for reconciliation.
type Event struct {
	ID     string
	Title  string
	Start  *time.Time
	End    *time.Time
	AllDay bool
	Link   string
}
