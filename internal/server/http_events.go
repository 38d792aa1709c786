package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/magoslab/calmirror/internal/model"
	"github.com/magoslab/calmirror/internal/syncer"
)

// handleListEvents handles GET /v1/events. A sync cycle runs before the read
// so the response always reflects the current source state.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.svc.SyncAndList(r.Context(), filter)
	if err != nil {
		var fe *syncer.FetchError
		if errors.As(err, &fe) {
			s.logger.Error("calendar fetch failed", "error", err)
			writeError(w, http.StatusBadGateway, "calendar source unavailable")
			return
		}
		s.logger.Error("sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	// Ensure events is never null in JSON output.
	if events == nil {
		events = []*model.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// handleConfirmEvent handles POST /v1/events/{id}/confirm.
func (s *Server) handleConfirmEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ev, err := s.svc.Confirm(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		s.logger.Error("confirm failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "confirm failed")
		return
	}

	writeJSON(w, http.StatusOK, ev)
}

func parseEventFilter(r *http.Request) (model.EventFilter, error) {
	var filter model.EventFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			st := model.Status(raw)
			if !st.IsValid() {
				return filter, fmt.Errorf("invalid status %q", raw)
			}
			filter.Status = append(filter.Status, st)
		}
	}
	if v := q.Get("archive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid archive flag %q", v)
		}
		filter.Archive = b
	}

	// year+month select a calendar-month window; both are required together.
	yearStr, monthStr := q.Get("year"), q.Get("month")
	if (yearStr == "") != (monthStr == "") {
		return filter, errors.New("year and month must be provided together")
	}
	if yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return filter, fmt.Errorf("invalid year %q", yearStr)
		}
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return filter, fmt.Errorf("invalid month %q", monthStr)
		}
		from, to := model.MonthWindow(year, time.Month(month))
		filter.From, filter.To = &from, &to
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = n
	}

	return filter, nil
}
