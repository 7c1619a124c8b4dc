package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/service/ingest"
	"github.com/deskops-lab/ticketboard/pkg/usecase"
	"github.com/deskops-lab/ticketboard/pkg/utils/async"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
)

// boardHandler serves the board API endpoints
type boardHandler struct {
	board  *usecase.Board
	reload ReloadFunc
}

func newBoardHandler(board *usecase.Board, reload ReloadFunc) *boardHandler {
	return &boardHandler{
		board:  board,
		reload: reload,
	}
}

// ticketsResponse wraps a record list with the skipped-records diagnostic
// so the operator knows when totals may be incomplete.
type ticketsResponse struct {
	Tickets        []*model.TicketRecord `json:"tickets"`
	Count          int                   `json:"count"`
	SkippedRecords int                   `json:"skipped_records"`
}

type metricsResponse struct {
	Metrics        *model.KpiSet `json:"metrics"`
	SkippedRecords int           `json:"skipped_records"`
}

type groupsResponse struct {
	Key            string               `json:"key"`
	Groups         []usecase.GroupCount `json:"groups"`
	SkippedRecords int                  `json:"skipped_records"`
}

func (h *boardHandler) handleTickets(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	records, skipped, err := h.board.Tickets(r.Context(), spec)
	if err != nil {
		writeBoardError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, &ticketsResponse{
		Tickets:        records,
		Count:          len(records),
		SkippedRecords: skipped,
	})
}

func (h *boardHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	baseline, err := baselineFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	kpi, skipped, err := h.board.Metrics(r.Context(), spec, baseline)
	if err != nil {
		writeBoardError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, &metricsResponse{
		Metrics:        kpi,
		SkippedRecords: skipped,
	})
}

func (h *boardHandler) handleGroups(w http.ResponseWriter, r *http.Request) {
	key, err := usecase.ParseGroupKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	spec, err := filterSpecFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	groups, skipped, err := h.board.Groups(r.Context(), spec, key)
	if err != nil {
		writeBoardError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, &groupsResponse{
		Key:            string(key),
		Groups:         groups,
		SkippedRecords: skipped,
	})
}

func (h *boardHandler) handleTopIssues(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	records, skipped, err := h.board.TopIssues(r.Context(), spec)
	if err != nil {
		writeBoardError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, &ticketsResponse{
		Tickets:        records,
		Count:          len(records),
		SkippedRecords: skipped,
	})
}

func (h *boardHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	records, _, err := h.board.Tickets(r.Context(), spec)
	if err != nil {
		writeBoardError(w, r, err)
		return
	}

	filename := fmt.Sprintf("tickets_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.WriteHeader(http.StatusOK)

	if err := ingest.WriteRecords(w, records); err != nil {
		// Headers are already out; only log
		ctxlog.From(r.Context()).Error("Failed to stream CSV export", "error", err)
	}
}

func (h *boardHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	if h.reload == nil {
		writeError(w, r, http.StatusNotImplemented,
			errors.New("no reloadable ticket source is configured"))
		return
	}

	// Respond immediately; the snapshot swap is atomic so readers keep a
	// consistent view while the reload runs.
	async.Dispatch(r.Context(), h.reload)
	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "reloading"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeBoardError maps engine errors to HTTP statuses: an invalid filter
// spec is the operator's correctable input error, everything else is
// internal.
func writeBoardError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrInvalidFilterSpec) {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeError(w, r, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		ctxlog.From(r.Context()).Error("HTTP handler error", "error", err)
	}
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
