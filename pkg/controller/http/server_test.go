package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	controller "github.com/deskops-lab/ticketboard/pkg/controller/http"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/deskops-lab/ticketboard/pkg/repository"
	"github.com/deskops-lab/ticketboard/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func testTicket(branch, classification, status string, priority types.Priority, affected, day int) *model.TicketRecord {
	return &model.TicketRecord{
		ID:             types.NewTicketID(),
		OccurredAt:     time.Date(2025, 12, day, 10, 0, 0, 0, time.UTC),
		Branch:         types.BranchID(branch),
		Classification: classification,
		Status:         types.TicketStatus(status),
		Priority:       priority,
		AffectedCount:  affected,
		Team:           "Frontend",
		Description:    "replay video keeps stalling",
		IsValid:        true,
	}
}

func newTestServer(t *testing.T, reload controller.ReloadFunc) *controller.Server {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewMemory()
	board := usecase.NewBoard(repo, nil)

	records := []*model.TicketRecord{
		testTicket("US", "Classroom/App Crash", "Resolved", types.PriorityP1, 5, 19),
		testTicket("UK", "Classroom/Audio & Video", "Investigating", types.PriorityP2, 2, 20),
		testTicket("CA", "Sales/Payment", "Resolved", types.PriorityP3, 1, 21),
	}
	gt.NoError(t, board.Reload(ctx, records))

	server := gt.R1(controller.NewServer(ctx, "localhost:0", board, reload)).NoError(t)
	return server
}

func doRequest(server *controller.Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/health")
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains(`"ok"`)
}

func TestHandleTickets(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("no filter returns everything", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/tickets")
		gt.Equal(t, rec.Code, http.StatusOK)

		var body struct {
			Count          int `json:"count"`
			SkippedRecords int `json:"skipped_records"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		gt.Equal(t, body.Count, 3)
		gt.Equal(t, body.SkippedRecords, 0)
	})

	t.Run("branch filter narrows", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/tickets?branches=US,CA")
		gt.Equal(t, rec.Code, http.StatusOK)

		var body struct {
			Count int `json:"count"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		gt.Equal(t, body.Count, 2)
	})

	t.Run("inverted date range is a client error", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/tickets?from=2025-12-25&to=2025-12-19")
		gt.Equal(t, rec.Code, http.StatusBadRequest)
		gt.S(t, rec.Body.String()).Contains("error")
	})

	t.Run("unparseable date is a client error", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/tickets?from=12%2F19%2F2025")
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})
}

func TestHandleMetrics(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("plain metrics", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/metrics")
		gt.Equal(t, rec.Code, http.StatusOK)

		var body struct {
			Metrics model.KpiSet `json:"metrics"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		gt.Equal(t, body.Metrics.TotalCount, 3)
		gt.Equal(t, body.Metrics.ResolvedCount, 2)
		gt.Equal(t, body.Metrics.ResolutionRate, 66.67)
		gt.V(t, body.Metrics.Trends).Nil()
	})

	t.Run("baseline enables trends", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/metrics?baseline_total=2&baseline_rate=50")
		gt.Equal(t, rec.Code, http.StatusOK)

		var body struct {
			Metrics model.KpiSet `json:"metrics"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		gt.V(t, body.Metrics.Trends).NotNil()
		gt.Equal(t, body.Metrics.Trends.TotalPct, 50.0)
	})
}

func TestHandleGroups(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("by category", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/groups/category")
		gt.Equal(t, rec.Code, http.StatusOK)

		var body struct {
			Key    string               `json:"key"`
			Groups []usecase.GroupCount `json:"groups"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		gt.Equal(t, body.Key, "category")
		gt.A(t, body.Groups).Length(2)
		gt.Equal(t, body.Groups[0], usecase.GroupCount{Key: "Classroom", Count: 2})
	})

	t.Run("unknown key is a client error", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/api/groups/assignee")
		gt.Equal(t, rec.Code, http.StatusBadRequest)
	})
}

func TestHandleTopIssues(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/api/top-issues")
	gt.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		Tickets []*model.TicketRecord `json:"tickets"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.A(t, body.Tickets).Length(1)
	gt.Equal(t, body.Tickets[0].AffectedCount, 5)
}

func TestHandleExport(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/api/export.csv?branches=US")
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Header().Get("Content-Type")).Contains("text/csv")
	gt.S(t, rec.Header().Get("Content-Disposition")).Contains("attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	gt.A(t, lines).Length(2)
	gt.S(t, lines[0]).Contains("occurred_at")
	gt.S(t, lines[1]).Contains("US")
}

func TestHandleReload(t *testing.T) {
	t.Run("accepted with a configured source", func(t *testing.T) {
		done := make(chan struct{})
		server := newTestServer(t, func(ctx context.Context) error {
			close(done)
			return nil
		})

		rec := doRequest(server, http.MethodPost, "/api/reload")
		gt.Equal(t, rec.Code, http.StatusAccepted)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("reload callback did not run")
		}
	})

	t.Run("not implemented without a source", func(t *testing.T) {
		rec := doRequest(newTestServer(t, nil), http.MethodPost, "/api/reload")
		gt.Equal(t, rec.Code, http.StatusNotImplemented)
	})

	t.Run("reload failure does not affect the response", func(t *testing.T) {
		server := newTestServer(t, func(ctx context.Context) error {
			return fmt.Errorf("source unavailable")
		})
		rec := doRequest(server, http.MethodPost, "/api/reload")
		gt.Equal(t, rec.Code, http.StatusAccepted)
	})
}
