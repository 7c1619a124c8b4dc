package usecase

import (
	"context"

	"github.com/deskops-lab/ticketboard/pkg/domain/interfaces"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Board provides the filter-and-aggregate operations over the current
// ticket snapshot. Each invocation reads the snapshot once and works on it
// independently; there is no cross-invocation state.
type Board struct {
	repo interfaces.Repository
	cfg  *model.BoardConfig
}

// NewBoard creates a new Board instance
func NewBoard(repo interfaces.Repository, cfg *model.BoardConfig) *Board {
	if cfg == nil {
		cfg = model.DefaultBoardConfig()
	}
	return &Board{
		repo: repo,
		cfg:  cfg,
	}
}

// Config returns the board configuration
func (b *Board) Config() *model.BoardConfig {
	return b.cfg
}

// Reload atomically replaces the ticket snapshot
func (b *Board) Reload(ctx context.Context, records []*model.TicketRecord) error {
	if err := b.repo.ReplaceTickets(ctx, records); err != nil {
		return goerr.Wrap(err, "failed to replace ticket snapshot")
	}
	ctxlog.From(ctx).Info("Ticket snapshot replaced", "count", len(records))
	return nil
}

// Tickets returns the filtered subset in snapshot order, along with the
// number of malformed records excluded from it.
func (b *Board) Tickets(ctx context.Context, spec *model.FilterSpec) ([]*model.TicketRecord, int, error) {
	records, skipped, err := b.snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched, err := ApplyFilter(records, spec)
	if err != nil {
		return nil, 0, err
	}
	return matched, skipped, nil
}

// Metrics computes the KpiSet over the filtered subset. The optional
// baseline enables period-over-period trends.
func (b *Board) Metrics(ctx context.Context, spec *model.FilterSpec, baseline *model.Baseline) (*model.KpiSet, int, error) {
	matched, skipped, err := b.Tickets(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return ComputeKPIs(matched, b.cfg, baseline), skipped, nil
}

// Groups produces the ordered grouped counts of the filtered subset along
// one dimension.
func (b *Board) Groups(ctx context.Context, spec *model.FilterSpec, key GroupKey) ([]GroupCount, int, error) {
	matched, skipped, err := b.Tickets(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	groups, err := CountBy(matched, key)
	if err != nil {
		return nil, 0, err
	}
	return groups, skipped, nil
}

// TopIssues returns the deterministic priority worklist of the filtered
// subset.
func (b *Board) TopIssues(ctx context.Context, spec *model.FilterSpec) ([]*model.TicketRecord, int, error) {
	matched, skipped, err := b.Tickets(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	return TopIssues(matched, b.cfg.ImportanceThreshold), skipped, nil
}

// snapshot reads the current collection and drops malformed records with a
// warning. One bad row never aborts the whole collection; the skipped count
// is returned alongside results so the operator knows totals may be
// incomplete.
func (b *Board) snapshot(ctx context.Context) ([]*model.TicketRecord, int, error) {
	records, err := b.repo.ListTickets(ctx)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to read ticket snapshot")
	}

	logger := ctxlog.From(ctx)
	valid := make([]*model.TicketRecord, 0, len(records))
	skipped := 0
	for _, r := range records {
		if r == nil {
			skipped++
			continue
		}
		if err := r.Validate(); err != nil {
			logger.Warn("Skipping malformed ticket record", "error", err, "id", r.ID)
			skipped++
			continue
		}
		valid = append(valid, r)
	}
	return valid, skipped, nil
}
