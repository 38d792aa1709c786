// Package recon computes the status transitions and upserts for one sync
// cycle. It is pure: decisions are returned as a Plan and applied by the
// caller inside a store transaction, so the algorithm is testable without a
// database.
package recon

import (
	"time"

	"github.com/magoslab/calmirror/internal/calendar"
	"github.com/magoslab/calmirror/internal/model"
)

// Transition moves one stored event to a new status.
type Transition struct {
	ID   string // internal event ID
	From model.Status
	To   model.Status
}

// Plan is the immutable outcome of diffing a source snapshot against the
// stored comparison set.
//
// Upserts carry the source-derived fields for every fetched event; Status on
// an upsert is only the insert-time status (a genuinely new event lands as
// NEW), existing rows keep their status through the upsert. Transitions hold
// the status changes for already-stored events.
type Plan struct {
	Upserts     []*model.Event
	Transitions []Transition
}

// BuildPlan diffs the fetched source snapshot against the stored comparison
// set (the locally stored events that are non-terminal or start in the
// future).
//
// For each fetched event that matches a stored one: CANCELLED or MISSED is
// revived to NEW, and CONFIRMED becomes CHANGED when title or times differ.
// Stored events not claimed by any fetched event are cancelled unless already
// terminal. The two steps operate on disjoint partitions of the ID space, so
// the outcome is independent of fetch order.
func BuildPlan(fetched []calendar.Event, stored []*model.Event) Plan {
	unclaimed := make(map[string]*model.Event, len(stored))
	for _, e := range stored {
		unclaimed[e.GoogleID] = e
	}

	var plan Plan
	for _, src := range fetched {
		plan.Upserts = append(plan.Upserts, &model.Event{
			GoogleID: src.ID,
			Status:   model.StatusNew,
			Title:    src.Title,
			Start:    src.Start,
			End:      src.End,
			AllDay:   src.AllDay,
			Link:     src.Link,
		})

		cur, ok := unclaimed[src.ID]
		if !ok {
			continue
		}
		delete(unclaimed, src.ID)

		switch {
		case cur.Status == model.StatusCancelled || cur.Status == model.StatusMissed:
			// The source un-deleted it.
			plan.Transitions = append(plan.Transitions, Transition{ID: cur.ID, From: cur.Status, To: model.StatusNew})
		case cur.Status == model.StatusConfirmed && sourceChanged(cur, src):
			plan.Transitions = append(plan.Transitions, Transition{ID: cur.ID, From: cur.Status, To: model.StatusChanged})
		}
	}

	// Whatever is left was not seen in this fetch.
	for _, cur := range unclaimed {
		if cur.Status.IsTerminal() {
			continue
		}
		plan.Transitions = append(plan.Transitions, Transition{ID: cur.ID, From: cur.Status, To: model.StatusCancelled})
	}

	return plan
}

// sourceChanged reports whether the source copy differs from the stored one
// in title, start, or end.
func sourceChanged(stored *model.Event, src calendar.Event) bool {
	return stored.Title != src.Title ||
		!timeEqual(stored.Start, src.Start) ||
		!timeEqual(stored.End, src.End)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
