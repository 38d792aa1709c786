package calendar

import "time"

const dateLayout = "2006-01-02"

// NormalizeTime converts a source time representation to a canonical UTC
// instant plus an all-day flag. A timestamp is parsed with its offset and
// converted to UTC; a bare date is interpreted as midnight UTC and flagged
// all-day. Malformed input yields a nil instant rather than an error so that
// one broken event cannot abort a whole sync cycle.
func NormalizeTime(rt RawTime) (*time.Time, bool) {
	if rt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, rt.DateTime)
		if err != nil {
			return nil, false
		}
		u := t.UTC()
		return &u, false
	}
	if rt.Date != "" {
		t, err := time.Parse(dateLayout, rt.Date)
		if err != nil {
			return nil, true
		}
		u := t.UTC()
		return &u, true
	}
	return nil, false
}

// untitled is the display title used when the source omits a summary.
const untitled = "(untitled)"

// normalizeItem converts a raw source item into a normalized Event. The
// all-day flag is taken from the start boundary; the source expresses all-day
// events with a date-only start.
func normalizeItem(it Item) Event {
	start, allDay := NormalizeTime(it.Start)
	end, _ := NormalizeTime(it.End)

	title := it.Summary
	if title == "" {
		title = untitled
	}

	return Event{
		ID:     it.ID,
		Title:  title,
		Start:  start,
		End:    end,
		AllDay: allDay,
		Link:   it.HTMLLink,
	}
}
