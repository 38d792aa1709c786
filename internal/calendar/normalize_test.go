package calendar

import (
	"testing"
	"time"
)

func TestNormalizeTime_Timed(t *testing.T) {
	got, allDay := NormalizeTime(RawTime{DateTime: "2026-03-14T10:30:00+03:00"})
	if got == nil {
		t.Fatal("expected non-nil instant")
	}
	want := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if allDay {
		t.Error("timed event should not be all-day")
	}
	if got.Location() != time.UTC {
		t.Errorf("instant not in UTC: %v", got.Location())
	}
}

func TestNormalizeTime_AllDay(t *testing.T) {
	got, allDay := NormalizeTime(RawTime{Date: "2026-03-14"})
	if got == nil {
		t.Fatal("expected non-nil instant")
	}
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !allDay {
		t.Error("date-only event should be all-day")
	}
}

func TestNormalizeTime_Malformed(t *testing.T) {
	if got, _ := NormalizeTime(RawTime{DateTime: "not-a-timestamp"}); got != nil {
		t.Errorf("malformed dateTime: got %v, want nil", got)
	}
	// A malformed date still marks the event all-day; the flag comes from the
	// shape of the source field, not from parse success.
	got, allDay := NormalizeTime(RawTime{Date: "14/03/2026"})
	if got != nil {
		t.Errorf("malformed date: got %v, want nil", got)
	}
	if !allDay {
		t.Error("malformed date should still be all-day")
	}
}

func TestNormalizeTime_Empty(t *testing.T) {
	got, allDay := NormalizeTime(RawTime{})
	if got != nil || allDay {
		t.Errorf("got (%v, %v), want (nil, false)", got, allDay)
	}
}

func TestNormalizeItem(t *testing.T) {
	ev := normalizeItem(Item{
		ID:       "abc",
		Summary:  "Standup",
		Start:    RawTime{DateTime: "2026-03-14T10:00:00Z"},
		End:      RawTime{DateTime: "2026-03-14T10:15:00Z"},
		HTMLLink: "https://calendar.example/abc",
	})
	if ev.ID != "abc" || ev.Title != "Standup" || ev.Link != "https://calendar.example/abc" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Start == nil || ev.End == nil || ev.AllDay {
		t.Fatalf("unexpected times: %+v", ev)
	}
	if d := ev.End.Sub(*ev.Start); d != 15*time.Minute {
		t.Errorf("duration = %v", d)
	}
}

func TestNormalizeItem_Untitled(t *testing.T) {
	ev := normalizeItem(Item{ID: "x", Start: RawTime{Date: "2026-01-01"}})
	if ev.Title != untitled {
		t.Errorf("title = %q, want %q", ev.Title, untitled)
	}
	if !ev.AllDay {
		t.Error("expected all-day")
	}
}
