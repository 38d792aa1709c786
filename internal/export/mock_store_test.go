package export

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/magoslab/calmirror/internal/model"
	"github.com/magoslab/calmirror/internal/store"
)

// mockStore is a minimal in-memory store for export tests.
type mockStore struct {
	events  map[string]*model.Event
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{events: make(map[string]*model.Event)}
}

func (m *mockStore) add(e *model.Event) {
	m.events[e.ID] = e
}

func (m *mockStore) UpsertEvents(_ context.Context, evs []*model.Event) error {
	for _, e := range evs {
		m.events[e.ID] = e
	}
	return nil
}

func (m *mockStore) UpdateStatus(_ context.Context, id string, status model.Status) error {
	e, ok := m.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	return nil
}

func (m *mockStore) ConfirmEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	e.Status = model.StatusConfirmed
	return e, nil
}

func (m *mockStore) ListEvents(_ context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*model.Event
	for _, e := range m.events {
		if filter.Archive == e.Status.IsTerminal() {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStore) ListSyncWindow(_ context.Context, _ []string, _ time.Time) ([]*model.Event, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) ListExpired(_ context.Context, _ time.Time) ([]*model.Event, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
