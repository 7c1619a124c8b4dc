package model

import (
	"time"

	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// TicketRecord represents one reported issue occurrence. Records are
// immutable once loaded: the engine only selects and aggregates, and the
// whole collection is replaced wholesale on reload.
type TicketRecord struct {
	ID                   types.TicketID     `json:"id" firestore:"id"`
	OccurredAt           time.Time          `json:"occurred_at" firestore:"occurred_at"`
	Branch               types.BranchID     `json:"branch" firestore:"branch"`
	Classification       string             `json:"classification" firestore:"classification"`
	Status               types.TicketStatus `json:"status" firestore:"status"`
	Priority             types.Priority     `json:"priority" firestore:"priority"`
	AffectedCount        int                `json:"affected_count" firestore:"affected_count"`
	Team                 types.TeamID       `json:"team" firestore:"team"`
	Description          string             `json:"description" firestore:"description"`
	IsValid              bool               `json:"is_valid" firestore:"is_valid"`
	InterceptedBySupport bool               `json:"intercepted_by_support" firestore:"intercepted_by_support"`
}

// NewTicketRecord creates a TicketRecord with a fresh ID and validates the
// required fields
func NewTicketRecord(occurredAt time.Time, branch types.BranchID, affectedCount int) (*TicketRecord, error) {
	r := &TicketRecord{
		ID:            types.NewTicketID(),
		OccurredAt:    occurredAt,
		Branch:        branch,
		AffectedCount: affectedCount,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the required fields of a record. A failing record is a
// MalformedRecord: callers skip it with a warning and a diagnostic count
// instead of aborting the whole collection.
func (r *TicketRecord) Validate() error {
	if r.OccurredAt.IsZero() {
		return goerr.Wrap(ErrMalformedRecord, "occurred_at is required",
			goerr.T(ErrTagMalformedRecord), goerr.V("id", r.ID))
	}
	if r.Branch == "" {
		return goerr.Wrap(ErrMalformedRecord, "branch is required",
			goerr.T(ErrTagMalformedRecord), goerr.V("id", r.ID))
	}
	if r.AffectedCount < 1 {
		return goerr.Wrap(ErrMalformedRecord, "affected_count must be at least 1",
			goerr.T(ErrTagMalformedRecord),
			goerr.V("id", r.ID), goerr.V("affected_count", r.AffectedCount))
	}
	return nil
}

// CategoryPath returns the ordered classification hierarchy of the record
func (r *TicketRecord) CategoryPath() []string {
	return ParseCategoryPath(r.Classification)
}

// TopLevelCategory returns the first classification level of the record
func (r *TicketRecord) TopLevelCategory() string {
	return TopLevelCategory(r.Classification)
}

// OccurredOn returns the calendar date of OccurredAt with the time of day
// discarded, so day-level grouping never fragments by timestamp. The date
// is taken in the record's own location and returned in UTC, keeping
// records ingested with different offsets comparable as dates.
func (r *TicketRecord) OccurredOn() time.Time {
	y, m, d := r.OccurredAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
