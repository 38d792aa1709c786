package store

import (
	"context"
	"time"

	"github.com/magoslab/calmirror/internal/model"
)

// Store defines the persistence interface for mirrored events.
type Store interface {
	// UpsertEvents inserts or updates events keyed by google_event_id.
	// Inserts receive a fresh internal ID and the event's insert-time status;
	// updates refresh only the source-derived fields and updated_at, never
	// the internal ID or status.
	UpsertEvents(ctx context.Context, events []*model.Event) error

	// UpdateStatus sets the status of the event with the given internal ID.
	UpdateStatus(ctx context.Context, id string, status model.Status) error

	// ConfirmEvent transitions the event to CONFIRMED and returns it.
	// Returns sql.ErrNoRows if no such internal ID exists.
	ConfirmEvent(ctx context.Context, id string) (*model.Event, error)

	// ListEvents returns events matching the filter (see model.EventFilter
	// for ordering semantics).
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)

	// ListSyncWindow returns the comparison set for one sync cycle: every
	// stored event whose google_event_id is in googleIDs or whose start time
	// is at or after now.
	ListSyncWindow(ctx context.Context, googleIDs []string, now time.Time) ([]*model.Event, error)

	// ListExpired returns active events whose end time has passed.
	ListExpired(ctx context.Context, now time.Time) ([]*model.Event, error)

	// RunInTransaction runs fn against a transactional view of the store,
	// committing on success and rolling back on error.
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
