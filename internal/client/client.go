// Package client provides a transport-agnostic interface for the calmirror
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/magoslab/calmirror/internal/model"
)

// Client is the interface that all CLI commands use to communicate with the
// calmirror server. It is implemented by HTTPClient.
type Client interface {
	// ListEvents triggers a sync cycle on the server and returns the events
	// matching the request filter.
	ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error)

	// Confirm acknowledges an event by internal ID.
	Confirm(ctx context.Context, id string) (*model.Event, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListEventsRequest holds parameters for listing events.
type ListEventsRequest struct {
	Status  []string `json:"status,omitempty"`
	Archive bool     `json:"archive,omitempty"`
	Year    int      `json:"year,omitempty"`
	Month   int      `json:"month,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// ListEventsResponse is the response from ListEvents.
type ListEventsResponse struct {
	Events []*model.Event `json:"events"`
	Count  int            `json:"count"`
}
