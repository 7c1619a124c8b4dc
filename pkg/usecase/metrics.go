package usecase

import (
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
)

// ComputeKPIs derives the scalar metrics over a ticket subset. It is a pure
// function of (records, cfg, baseline); no hidden state is consulted. An
// empty subset yields zero counts and a zero resolution rate, never an
// error. A nil baseline omits trends.
func ComputeKPIs(records []*model.TicketRecord, cfg *model.BoardConfig, baseline *model.Baseline) *model.KpiSet {
	if cfg == nil {
		cfg = model.DefaultBoardConfig()
	}

	kpi := &model.KpiSet{
		PriorityBreakdown: make(map[types.Priority]int),
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		kpi.TotalCount++
		kpi.AffectedTotal += r.AffectedCount
		if r.IsValid {
			kpi.ValidCount++
		}
		if cfg.IsResolved(r.Status) {
			kpi.ResolvedCount++
		}
		if r.InterceptedBySupport {
			kpi.InterceptedCount++
		}
		kpi.PriorityBreakdown[r.Priority.Normalize()]++
	}

	kpi.ResolutionRate = model.SafePct(float64(kpi.ResolvedCount), float64(kpi.TotalCount), 2)

	if baseline != nil {
		kpi.Trends = &model.TrendSet{
			TotalPct:          model.TrendPct(float64(kpi.TotalCount), float64(baseline.TotalCount)),
			AffectedPct:       model.TrendPct(float64(kpi.AffectedTotal), float64(baseline.AffectedTotal)),
			ResolutionRatePct: model.TrendPct(kpi.ResolutionRate, baseline.ResolutionRate),
		}
	}

	return kpi
}
