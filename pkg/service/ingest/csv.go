package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Header is the column layout of the delimited ticket format, both for
// ingestion and for export.
var Header = []string{
	"occurred_at",
	"branch",
	"classification",
	"status",
	"priority",
	"affected_count",
	"team",
	"description",
	"is_valid",
	"intercepted_by_support",
}

// Accepted timestamp layouts, tried in order
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadRecords parses ticket records from delimited text with a header row.
// Date parsing and type coercion happen here, upstream of the engine.
// Malformed rows are skipped with a warning and counted rather than
// aborting the whole file.
func ReadRecords(ctx context.Context, r io.Reader) ([]*model.TicketRecord, int, error) {
	logger := ctxlog.From(ctx)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, goerr.New("ticket data is empty")
	}
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to read header row")
	}

	cols, err := headerIndex(header)
	if err != nil {
		return nil, 0, err
	}

	var records []*model.TicketRecord
	skipped := 0
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("Skipping unreadable row", "line", line, "error", err)
			skipped++
			continue
		}

		record, err := parseRow(row, cols)
		if err != nil {
			logger.Warn("Skipping malformed ticket row", "line", line, "error", err)
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

// WriteRecords writes records as delimited text with a header row of field
// names, the one serialized artifact the engine's output feeds.
func WriteRecords(w io.Writer, records []*model.TicketRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return goerr.Wrap(err, "failed to write header row")
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		row := []string{
			r.OccurredAt.Format("2006-01-02 15:04"),
			r.Branch.String(),
			r.Classification,
			r.Status.String(),
			r.Priority.String(),
			strconv.Itoa(r.AffectedCount),
			r.Team.String(),
			r.Description,
			strconv.FormatBool(r.IsValid),
			strconv.FormatBool(r.InterceptedBySupport),
		}
		if err := cw.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write ticket row", goerr.V("id", r.ID))
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush ticket rows")
	}
	return nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"occurred_at", "branch", "affected_count"} {
		if _, ok := cols[required]; !ok {
			return nil, goerr.New("required column is missing", goerr.V("column", required))
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (*model.TicketRecord, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	occurredAt, err := parseTime(field("occurred_at"))
	if err != nil {
		return nil, err
	}

	affected, err := strconv.Atoi(field("affected_count"))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid affected_count",
			goerr.V("value", field("affected_count")))
	}

	record := &model.TicketRecord{
		ID:                   types.NewTicketID(),
		OccurredAt:           occurredAt,
		Branch:               types.BranchID(field("branch")),
		Classification:       field("classification"),
		Status:               types.TicketStatus(field("status")),
		Priority:             types.Priority(field("priority")),
		AffectedCount:        affected,
		Team:                 types.TeamID(field("team")),
		Description:          field("description"),
		IsValid:              parseBool(field("is_valid")),
		InterceptedBySupport: parseBool(field("intercepted_by_support")),
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, goerr.New("occurred_at is empty")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, goerr.New("unrecognized timestamp", goerr.V("value", value))
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
