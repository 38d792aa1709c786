// Package syncer orchestrates one reconciliation cycle: archive elapsed
// events, fetch the source snapshot, diff it against the stored comparison
// set, and persist the outcome in a single transaction.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magoslab/calmirror/internal/calendar"
	"github.com/magoslab/calmirror/internal/events"
	"github.com/magoslab/calmirror/internal/model"
	"github.com/magoslab/calmirror/internal/recon"
	"github.com/magoslab/calmirror/internal/store"
)

// Fetcher retrieves the full upcoming snapshot from the source calendar.
type Fetcher interface {
	FetchUpcoming(ctx context.Context, now time.Time) ([]calendar.Event, error)
}

// FetchError marks a failure of the upstream calendar, as opposed to a local
// storage failure. The HTTP layer maps it to 502.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("calendar fetch: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Result summarizes one completed sync cycle.
type Result struct {
	Fetched     int
	Upserts     int
	Transitions int
	Archived    int
}

// Syncer runs reconciliation cycles. The mutex serializes cycles within the
// process so concurrent API requests cannot interleave their transactions.
type Syncer struct {
	store  store.Store
	fetch  Fetcher
	pub    events.Publisher
	logger *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

func New(s store.Store, f Fetcher, pub events.Publisher, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:  s,
		fetch:  f,
		pub:    pub,
		logger: logger,
		now:    time.Now,
	}
}

type fetchResult struct {
	events []calendar.Event
	err    error
}

// Sync runs one cycle. Every write happens inside one store transaction: if
// the fetch or any write fails, local state is untouched. Bus notifications
// go out only after the transaction commits.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()

	// Fetch concurrently with the archival pass. The channel is buffered so
	// the goroutine never leaks if the transaction aborts early.
	fetchCh := make(chan fetchResult, 1)
	go func() {
		evs, err := s.fetch.FetchUpcoming(ctx, now)
		fetchCh <- fetchResult{events: evs, err: err}
	}()

	var (
		res      Result
		archived []recon.Transition
		plan     recon.Plan
		created  []*model.Event
	)

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		// Archive first so the diff below sees terminal statuses and can
		// revive a just-missed event that reappears at the source.
		expired, err := tx.ListExpired(ctx, now)
		if err != nil {
			return fmt.Errorf("list expired: %w", err)
		}
		for _, e := range expired {
			to, ok := recon.ArchiveStatus(e.Status)
			if !ok {
				continue
			}
			if err := tx.UpdateStatus(ctx, e.ID, to); err != nil {
				return fmt.Errorf("archive event %s: %w", e.ID, err)
			}
			archived = append(archived, recon.Transition{ID: e.ID, From: e.Status, To: to})
		}

		fr := <-fetchCh
		if fr.err != nil {
			return &FetchError{Err: fr.err}
		}
		res.Fetched = len(fr.events)

		ids := make([]string, 0, len(fr.events))
		for _, ev := range fr.events {
			ids = append(ids, ev.ID)
		}
		stored, err := tx.ListSyncWindow(ctx, ids, now)
		if err != nil {
			return fmt.Errorf("list sync window: %w", err)
		}

		// ListSyncWindow runs inside the same transaction, so the diff sees
		// the archived statuses written above and can revive a just-missed
		// event in the same cycle.
		plan = recon.BuildPlan(fr.events, stored)

		known := make(map[string]bool, len(stored))
		for _, e := range stored {
			known[e.GoogleID] = true
		}

		if err := tx.UpsertEvents(ctx, plan.Upserts); err != nil {
			return fmt.Errorf("upsert events: %w", err)
		}
		for _, e := range plan.Upserts {
			if !known[e.GoogleID] {
				created = append(created, e)
			}
		}

		for _, tr := range plan.Transitions {
			if err := tx.UpdateStatus(ctx, tr.ID, tr.To); err != nil {
				return fmt.Errorf("transition event %s to %s: %w", tr.ID, tr.To, err)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Upserts = len(plan.Upserts)
	res.Transitions = len(plan.Transitions)
	res.Archived = len(archived)

	s.publishCycle(ctx, now, res, created, plan.Transitions, archived)

	s.logger.Info("sync cycle complete",
		"fetched", res.Fetched,
		"upserts", res.Upserts,
		"transitions", res.Transitions,
		"archived", res.Archived,
	)
	return res, nil
}

// publishCycle emits bus notifications for a committed cycle. Publish
// failures are logged, never propagated: the database is already consistent.
func (s *Syncer) publishCycle(ctx context.Context, now time.Time, res Result, created []*model.Event, transitions, archived []recon.Transition) {
	for _, e := range created {
		s.publish(ctx, events.TopicEventCreated, events.EventCreated{Event: e})
	}
	for _, tr := range transitions {
		s.publish(ctx, events.TransitionTopic(tr.To), events.StatusChanged{
			EventID: tr.ID, From: tr.From, To: tr.To,
		})
	}
	for _, tr := range archived {
		s.publish(ctx, events.TopicEventArchived, events.StatusChanged{
			EventID: tr.ID, From: tr.From, To: tr.To,
		})
	}
	s.publish(ctx, events.TopicSyncCompleted, events.SyncCompleted{
		Fetched:     res.Fetched,
		Upserts:     res.Upserts,
		Transitions: res.Transitions + res.Archived,
		At:          now,
	})
}

func (s *Syncer) publish(ctx context.Context, topic string, event any) {
	if err := s.pub.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("publish failed", "topic", topic, "error", err)
	}
}

// SyncAndList runs a cycle and returns the events matching the filter, so an
// API read always reflects the current source state.
func (s *Syncer) SyncAndList(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if _, err := s.Sync(ctx); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, filter)
}

// Confirm acknowledges an event. Returns sql.ErrNoRows via the store when the
// ID is unknown.
func (s *Syncer) Confirm(ctx context.Context, id string) (*model.Event, error) {
	ev, err := s.store.ConfirmEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicEventConfirmed, events.EventConfirmed{Event: ev})
	return ev, nil
}
