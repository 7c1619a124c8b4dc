package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Selection is a set-membership constraint on one filter dimension. The
// "all" sentinel is an explicit marker rather than "set equals the universe
// of observed values", because the universe can grow after the spec is
// built. An empty non-all selection matches nothing; it is flagged by
// Validate as an invalid spec, but its behavior stays deterministic even
// when a caller skips validation.
type Selection struct {
	All    bool     `json:"all"`
	Values []string `json:"values,omitempty"`
}

// SelectAll returns a selection that passes every record
func SelectAll() Selection {
	return Selection{All: true}
}

// Select returns a selection accepting exactly the given values
func Select(values ...string) Selection {
	return Selection{Values: values}
}

// Matches reports whether the value is accepted by the selection
func (s Selection) Matches(value string) bool {
	if s.All {
		return true
	}
	for _, v := range s.Values {
		if v == value {
			return true
		}
	}
	return false
}

func (s Selection) validate(dimension string) error {
	if !s.All && len(s.Values) == 0 {
		return goerr.Wrap(ErrInvalidFilterSpec, "empty selection set",
			goerr.T(ErrTagInvalidFilter), goerr.V("dimension", dimension))
	}
	return nil
}

// FilterSpec describes the operator's current filtering intent. All
// predicates combine with logical AND; an empty result is valid. The spec
// is a value passed into every call; there is no process-wide filter
// state.
type FilterSpec struct {
	// From and To are inclusive calendar-date bounds. A zero value leaves
	// that side unbounded.
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`

	Branches   Selection `json:"branches"`
	Statuses   Selection `json:"statuses"`
	Priorities Selection `json:"priorities"`
	Teams      Selection `json:"teams"`
	Categories Selection `json:"categories"`

	// SearchText is matched case-insensitively as a substring of the
	// ticket description. Empty text passes every record.
	SearchText string `json:"search_text,omitempty"`
}

// NewFilterSpec returns a spec that passes every record
func NewFilterSpec() *FilterSpec {
	return &FilterSpec{
		Branches:   SelectAll(),
		Statuses:   SelectAll(),
		Priorities: SelectAll(),
		Teams:      SelectAll(),
		Categories: SelectAll(),
	}
}

// Validate fails fast on a correctable operator input error. An inverted
// date range is rejected rather than silently swapped or clamped.
func (f *FilterSpec) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return goerr.Wrap(ErrInvalidFilterSpec, "date range start is after end",
			goerr.T(ErrTagInvalidFilter),
			goerr.V("from", f.From), goerr.V("to", f.To))
	}

	dims := []struct {
		name string
		sel  Selection
	}{
		{"branches", f.Branches},
		{"statuses", f.Statuses},
		{"priorities", f.Priorities},
		{"teams", f.Teams},
		{"categories", f.Categories},
	}
	for _, d := range dims {
		if err := d.sel.validate(d.name); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether a record passes every predicate of the spec
func (f *FilterSpec) Matches(r *TicketRecord) bool {
	day := r.OccurredOn()
	if !f.From.IsZero() && day.Before(dateOnly(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(dateOnly(f.To)) {
		return false
	}

	if !f.Branches.Matches(r.Branch.String()) {
		return false
	}
	if !f.Statuses.Matches(r.Status.String()) {
		return false
	}
	// Records without a recognized priority fall into the "unknown" bucket
	// and only pass when the filter names it explicitly.
	if !f.Priorities.Matches(r.Priority.Normalize().String()) {
		return false
	}
	if !f.Teams.Matches(r.Team.String()) {
		return false
	}
	if !f.Categories.Matches(r.TopLevelCategory()) {
		return false
	}

	if f.SearchText != "" {
		if !strings.Contains(strings.ToLower(r.Description), strings.ToLower(f.SearchText)) {
			return false
		}
	}
	return true
}

// dateOnly truncates to the calendar date in the value's own location,
// normalized to UTC so bounds and records compare as dates regardless of
// the offset they were ingested with.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
