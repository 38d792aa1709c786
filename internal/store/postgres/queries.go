package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magoslab/calmirror/internal/idgen"
	"github.com/magoslab/calmirror/internal/model"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `id, google_event_id, status, title, start_time, end_time,
	is_all_day, link, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryUpsertEvents(ctx context.Context, db executor, events []*model.Event) error {
	for _, e := range events {
		id := e.ID
		if id == "" {
			var err error
			id, err = idgen.Generate()
			if err != nil {
				return err
			}
		}
		err := db.QueryRowContext(ctx, `
			INSERT INTO events (
				id, google_event_id, status, title, start_time, end_time,
				is_all_day, link, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			ON CONFLICT (google_event_id) DO UPDATE SET
				title = EXCLUDED.title,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				is_all_day = EXCLUDED.is_all_day,
				link = EXCLUDED.link,
				updated_at = NOW()
			RETURNING id, status, updated_at`,
			id,
			e.GoogleID,
			string(e.Status),
			e.Title,
			nullTimePtr(e.Start),
			nullTimePtr(e.End),
			e.AllDay,
			nullString(e.Link),
		).Scan(&e.ID, &e.Status, &e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert event %s: %w", e.GoogleID, err)
		}
	}
	return nil
}

func queryUpdateStatus(ctx context.Context, db executor, id string, status model.Status) error {
	res, err := db.ExecContext(ctx, `
		UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryConfirmEvent(ctx context.Context, db executor, id string) (*model.Event, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE events
		SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1
		RETURNING `+eventColumns,
		id,
	)
	return scanEvent(row)
}

func queryListEvents(ctx context.Context, db executor, filter model.EventFilter) ([]*model.Event, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	// An explicit status filter wins; otherwise the archive flag selects
	// between the terminal and active sets.
	statuses := filter.Status
	order := "start_time ASC"
	if len(statuses) == 0 {
		if filter.Archive {
			statuses = model.TerminalStatuses()
			order = "start_time DESC"
		} else {
			statuses = model.ActiveStatuses()
		}
	}

	placeholders := make([]string, len(statuses))
	for i, s := range statuses {
		placeholders[i] = nextArg()
		args = append(args, string(s))
	}
	whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")

	if filter.From != nil {
		whereClauses = append(whereClauses, "start_time >= "+nextArg())
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		whereClauses = append(whereClauses, "start_time < "+nextArg())
		args = append(args, *filter.To)
	}

	query := "SELECT " + eventColumns + " FROM events WHERE " +
		strings.Join(whereClauses, " AND ") + " ORDER BY " + order

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryListSyncWindow(ctx context.Context, db executor, googleIDs []string, now time.Time) ([]*model.Event, error) {
	var (
		args   []any
		argIdx int
	)
	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	where := "start_time >= "
	if len(googleIDs) > 0 {
		placeholders := make([]string, len(googleIDs))
		for i, id := range googleIDs {
			placeholders[i] = nextArg()
			args = append(args, id)
		}
		where = "google_event_id IN (" + strings.Join(placeholders, ", ") + ") OR start_time >= "
	}
	where += nextArg()
	args = append(args, now)

	rows, err := db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list sync window: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryListExpired(ctx context.Context, db executor, now time.Time) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE end_time < $1 AND status IN ('new', 'confirmed', 'changed')
		ORDER BY start_time ASC`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("list expired: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}
