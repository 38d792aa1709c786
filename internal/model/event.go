package model

import (
	"time"
)

// Status represents the lifecycle state of a mirrored calendar event.
type Status string

const (
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusChanged   Status = "changed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusChanged, StatusCancelled, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// IsActive reports whether the event still requires attention.
func (s Status) IsActive() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusChanged:
		return true
	}
	return false
}

// IsTerminal reports whether the status requires no further action.
// Terminal events are never deleted; CANCELLED and MISSED may still be
// revived if the source resurfaces them, COMPLETED never is.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// ActiveStatuses is the set of statuses for events still requiring attention.
func ActiveStatuses() []Status {
	return []Status{StatusNew, StatusConfirmed, StatusChanged}
}

// TerminalStatuses is the set of statuses shown in archive views.
func TerminalStatuses() []Status {
	return []Status{StatusCancelled, StatusCompleted, StatusMissed}
}

// Event is a locally mirrored calendar event.
//
// ID is the locally assigned surrogate identifier; it is generated on first
// insert and stable across syncs. GoogleID is the identifier assigned by the
// source calendar and the sole matching key between the source and the mirror.
type Event struct {
	ID        string     `json:"id"`
	GoogleID  string     `json:"google_event_id"`
	Status    Status     `json:"status"`
	Title     string     `json:"title"`
	Start     *time.Time `json:"start_time,omitempty"`
	End       *time.Time `json:"end_time,omitempty"`
	AllDay    bool       `json:"is_all_day"`
	Link      string     `json:"link,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}
