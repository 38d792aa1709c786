package model

import "time"

// EventFilter holds criteria for querying mirrored events.
//
// When Status is empty, the active set is returned ordered by start time
// ascending, unless Archive is set, in which case the terminal set is
// returned ordered descending.
type EventFilter struct {
	Status  []Status   `json:"status,omitempty"`
	Archive bool       `json:"archive,omitempty"`
	From    *time.Time `json:"from,omitempty"` // inclusive lower bound on start_time
	To      *time.Time `json:"to,omitempty"`   // exclusive upper bound on start_time
	Limit   int        `json:"limit,omitempty"`
}

// MonthWindow returns the [from, to) start-time window covering the given
// calendar month in UTC.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
