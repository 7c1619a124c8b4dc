package usecase

import (
	"context"
	"fmt"

	"github.com/deskops-lab/ticketboard/pkg/domain/interfaces"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	llmSvc "github.com/deskops-lab/ticketboard/pkg/service/llm"
	slackSvc "github.com/deskops-lab/ticketboard/pkg/service/slack"
	"github.com/deskops-lab/ticketboard/pkg/utils/apperr"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	slackapi "github.com/slack-go/slack"
)

// Report posts a board summary to Slack. The narrative service is
// optional: when absent the report carries metrics and top issues only.
type Report struct {
	board     *Board
	slack     interfaces.SlackClient
	narrative *llmSvc.NarrativeService
	channelID string
}

// NewReport creates a new Report instance
func NewReport(board *Board, slackClient interfaces.SlackClient, narrative *llmSvc.NarrativeService, channelID string) (*Report, error) {
	if board == nil {
		return nil, goerr.New("board is required")
	}
	if slackClient == nil {
		return nil, goerr.New("slack client is required")
	}
	if channelID == "" {
		return nil, goerr.New("report channel ID is required")
	}
	return &Report{
		board:     board,
		slack:     slackClient,
		narrative: narrative,
		channelID: channelID,
	}, nil
}

// Post computes the KPIs and top issues for the spec's window and posts
// them to the configured channel. The optional baseline enables trend
// markers in the summary.
func (r *Report) Post(ctx context.Context, spec *model.FilterSpec, baseline *model.Baseline) error {
	logger := ctxlog.From(ctx)

	matched, skipped, err := r.board.Tickets(ctx, spec)
	if err != nil {
		return err
	}
	kpi := ComputeKPIs(matched, r.board.Config(), baseline)
	topIssues := TopIssues(matched, r.board.Config().ImportanceThreshold)

	if skipped > 0 {
		logger.Warn("Report totals may be incomplete", "skippedRecords", skipped)
	}

	narrative := ""
	if r.narrative != nil {
		text, err := r.narrative.Summarize(ctx, windowLabel(spec), kpi, topIssues)
		if err != nil {
			// The report is still worth posting without prose
			apperr.Handle(ctx, goerr.Wrap(err, "failed to generate report narrative"))
		} else {
			narrative = text
		}
	}

	blocks := slackSvc.BuildReportBlocks(reportTitle(spec), kpi, topIssues, narrative)
	if _, _, err := r.slack.PostMessage(ctx, r.channelID, slackapi.MsgOptionBlocks(blocks...)); err != nil {
		return goerr.Wrap(err, "failed to post report", goerr.V("channel", r.channelID))
	}

	logger.Info("Posted ticket report",
		"channel", r.channelID,
		"total", kpi.TotalCount,
		"topIssues", len(topIssues),
	)
	return nil
}

func reportTitle(spec *model.FilterSpec) string {
	return fmt.Sprintf("📊 Ticket report: %s", windowLabel(spec))
}

func windowLabel(spec *model.FilterSpec) string {
	const layout = "2006-01-02"
	switch {
	case spec == nil || (spec.From.IsZero() && spec.To.IsZero()):
		return "all time"
	case spec.From.IsZero():
		return fmt.Sprintf("through %s", spec.To.Format(layout))
	case spec.To.IsZero():
		return fmt.Sprintf("since %s", spec.From.Format(layout))
	default:
		return fmt.Sprintf("%s to %s", spec.From.Format(layout), spec.To.Format(layout))
	}
}
