package model

import (
	"math"

	"github.com/deskops-lab/ticketboard/pkg/domain/types"
)

// KpiSet bundles the scalar summary metrics computed over a filtered
// subset of tickets.
type KpiSet struct {
	TotalCount       int `json:"total_count"`
	ValidCount       int `json:"valid_count"`
	AffectedTotal    int `json:"affected_total"`
	ResolvedCount    int `json:"resolved_count"`
	InterceptedCount int `json:"intercepted_count"`

	// ResolutionRate is resolved/total in percent, two decimals, 0 when
	// the subset is empty.
	ResolutionRate float64 `json:"resolution_rate"`

	PriorityBreakdown map[types.Priority]int `json:"priority_breakdown"`

	// Trends is present only when a baseline was supplied.
	Trends *TrendSet `json:"trends,omitempty"`
}

// Baseline carries the prior period's figures for trend comparison. The
// engine never computes or fetches these; a collaborator that knows "last
// period" supplies them.
type Baseline struct {
	TotalCount     int     `json:"total_count"`
	AffectedTotal  int     `json:"affected_total"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// TrendSet holds period-over-period percentage deltas, one decimal each
type TrendSet struct {
	TotalPct          float64 `json:"total_pct"`
	AffectedPct       float64 `json:"affected_pct"`
	ResolutionRatePct float64 `json:"resolution_rate_pct"`
}

// TrendDirection classifies a trend delta for presentation
type TrendDirection string

const (
	TrendPositive TrendDirection = "positive"
	TrendNegative TrendDirection = "negative"
	TrendNeutral  TrendDirection = "neutral"
)

// ClassifyTrend maps the sign of a trend delta to its direction. Exact
// zero is neutral; there is no epsilon.
func ClassifyTrend(pct float64) TrendDirection {
	switch {
	case pct > 0:
		return TrendPositive
	case pct < 0:
		return TrendNegative
	default:
		return TrendNeutral
	}
}

// SafePct is the single division helper behind every rate and trend
// computation: part/whole*100 rounded to the given number of decimals,
// defined as 0 when the denominator is 0. Centralizing the guard keeps the
// zero-safe contract uniform instead of re-implemented per call site.
func SafePct(part, whole float64, decimals int) float64 {
	if whole == 0 {
		return 0
	}
	return roundTo(part/whole*100, decimals)
}

// TrendPct computes (current-baseline)/baseline*100 rounded to one
// decimal. A zero baseline collapses to 0 ("no change") by convention,
// never an error and never an infinite trend.
func TrendPct(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return roundTo((current-baseline)/baseline*100, 1)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
