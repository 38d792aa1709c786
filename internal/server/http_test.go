package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/magoslab/calmirror/internal/model"
	"github.com/magoslab/calmirror/internal/syncer"
)

// mockService records calls and returns canned responses.
type mockService struct {
	events     []*model.Event
	syncErr    error
	confirmErr error
	confirmed  *model.Event

	lastFilter    model.EventFilter
	lastConfirmID string
}

func (m *mockService) SyncAndList(_ context.Context, filter model.EventFilter) ([]*model.Event, error) {
	m.lastFilter = filter
	if m.syncErr != nil {
		return nil, m.syncErr
	}
	return m.events, nil
}

func (m *mockService) Confirm(_ context.Context, id string) (*model.Event, error) {
	m.lastConfirmID = id
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	return m.confirmed, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(svc Service, authToken string) http.Handler {
	return New(svc, testLogger()).NewHTTPHandler(authToken)
}

func TestListEvents(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc := &mockService{events: []*model.Event{
		{ID: "ev-1", GoogleID: "g-1", Status: model.StatusNew, Title: "Standup", Start: &start},
	}}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/events", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Events []*model.Event `json:"events"`
		Count  int            `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 1 || len(resp.Events) != 1 {
		t.Fatalf("got count=%d events=%d", resp.Count, len(resp.Events))
	}
	if resp.Events[0].ID != "ev-1" || resp.Events[0].Status != model.StatusNew {
		t.Fatalf("got %+v", resp.Events[0])
	}
}

func TestListEvents_EmptyIsNotNull(t *testing.T) {
	handler := newTestHandler(&mockService{}, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/events", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(resp["events"]) != "[]" {
		t.Fatalf("events should be [], got %s", resp["events"])
	}
}

func TestListEvents_QueryFilter(t *testing.T) {
	svc := &mockService{}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/events?status=new,changed&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	f := svc.lastFilter
	if len(f.Status) != 2 || f.Status[0] != model.StatusNew || f.Status[1] != model.StatusChanged {
		t.Fatalf("got status filter %v", f.Status)
	}
	if f.Limit != 5 {
		t.Fatalf("got limit %d", f.Limit)
	}
}

func TestListEvents_MonthWindow(t *testing.T) {
	svc := &mockService{}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/events?year=2026&month=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	f := svc.lastFilter
	if f.From == nil || f.To == nil {
		t.Fatal("expected month window bounds")
	}
	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !f.From.Equal(wantFrom) || !f.To.Equal(wantFrom.AddDate(0, 1, 0)) {
		t.Fatalf("got window [%v, %v)", f.From, f.To)
	}
}

func TestListEvents_BadQuery(t *testing.T) {
	handler := newTestHandler(&mockService{}, "")

	for _, path := range []string{
		"/v1/events?status=bogus",
		"/v1/events?archive=maybe",
		"/v1/events?year=2026",
		"/v1/events?year=2026&month=13",
		"/v1/events?limit=-1",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestListEvents_FetchFailureIsBadGateway(t *testing.T) {
	svc := &mockService{syncErr: &syncer.FetchError{Err: errors.New("upstream down")}}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/events", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestListEvents_StoreFailureIsInternal(t *testing.T) {
	svc := &mockService{syncErr: errors.New("db down")}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/events", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestConfirmEvent(t *testing.T) {
	svc := &mockService{confirmed: &model.Event{ID: "ev-1", Status: model.StatusConfirmed}}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/events/ev-1/confirm", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.lastConfirmID != "ev-1" {
		t.Fatalf("confirmed id = %q", svc.lastConfirmID)
	}
	var ev model.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Status != model.StatusConfirmed {
		t.Fatalf("got status %q", ev.Status)
	}
}

func TestConfirmEvent_NotFound(t *testing.T) {
	svc := &mockService{confirmErr: sql.ErrNoRows}
	handler := newTestHandler(svc, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/events/nonexistent/confirm", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(&mockService{}, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := newTestHandler(&mockService{}, "secret")

	for _, tc := range []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"valid token", "Bearer secret", http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/events", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAuthMiddleware_HealthExempt(t *testing.T) {
	handler := newTestHandler(&mockService{}, "secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without auth", rec.Code)
	}
}
