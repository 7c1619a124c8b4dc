package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// dateLayout is the calendar-date format of the from/to query parameters
const dateLayout = "2006-01-02"

// filterSpecFromQuery builds a FilterSpec from request query parameters.
// Absent dimensions default to the "all" sentinel; a present but empty
// parameter is an explicit empty set and is rejected by validation
// downstream.
//
//	from, to    inclusive calendar dates (2006-01-02)
//	branches, statuses, priorities, teams, categories
//	            comma-separated accepted values
//	q           substring search over descriptions
func filterSpecFromQuery(query url.Values) (*model.FilterSpec, error) {
	spec := model.NewFilterSpec()

	if v := query.Get("from"); v != "" {
		ts, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid 'from' date, expected YYYY-MM-DD",
				goerr.T(model.ErrTagInvalidFilter), goerr.V("value", v))
		}
		spec.From = ts
	}
	if v := query.Get("to"); v != "" {
		ts, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid 'to' date, expected YYYY-MM-DD",
				goerr.T(model.ErrTagInvalidFilter), goerr.V("value", v))
		}
		spec.To = ts
	}

	spec.Branches = selectionFromQuery(query, "branches")
	spec.Statuses = selectionFromQuery(query, "statuses")
	spec.Priorities = selectionFromQuery(query, "priorities")
	spec.Teams = selectionFromQuery(query, "teams")
	spec.Categories = selectionFromQuery(query, "categories")
	spec.SearchText = query.Get("q")

	return spec, nil
}

func selectionFromQuery(query url.Values, name string) model.Selection {
	if !query.Has(name) {
		return model.SelectAll()
	}

	var values []string
	for _, raw := range query[name] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return model.Select(values...)
}

// baselineFromQuery reads the optional prior-period figures enabling
// trend computation. nil when no baseline parameter is present.
func baselineFromQuery(query url.Values) (*model.Baseline, error) {
	if !query.Has("baseline_total") && !query.Has("baseline_affected") && !query.Has("baseline_rate") {
		return nil, nil
	}

	baseline := &model.Baseline{}
	if v := query.Get("baseline_total"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid baseline_total", goerr.V("value", v))
		}
		baseline.TotalCount = n
	}
	if v := query.Get("baseline_affected"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid baseline_affected", goerr.V("value", v))
		}
		baseline.AffectedTotal = n
	}
	if v := query.Get("baseline_rate"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid baseline_rate", goerr.V("value", v))
		}
		baseline.ResolutionRate = f
	}
	return baseline, nil
}
