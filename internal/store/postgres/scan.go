package postgres

import (
	"database/sql"
	"time"

	"github.com/magoslab/calmirror/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		start sql.NullTime
		end   sql.NullTime
		link  sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&e.GoogleID,
		&e.Status,
		&e.Title,
		&start,
		&end,
		&e.AllDay,
		&link,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Link = link.String
	if start.Valid {
		t := start.Time
		e.Start = &t
	}
	if end.Valid {
		t := end.Time
		e.End = &t
	}

	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
