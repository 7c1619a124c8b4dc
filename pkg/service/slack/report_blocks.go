package slack

import (
	"fmt"
	"strings"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxReportIssues caps the top-issue lines in a report message
const maxReportIssues = 10

// priorityEmoji returns the marker used for a ticket priority in reports
func priorityEmoji(p string) string {
	switch p {
	case "P1":
		return "🚨"
	case "P2":
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func trendSuffix(pct float64) string {
	switch model.ClassifyTrend(pct) {
	case model.TrendPositive:
		return fmt.Sprintf(" (▲ %.1f%%)", pct)
	case model.TrendNegative:
		return fmt.Sprintf(" (▼ %.1f%%)", -pct)
	default:
		return ""
	}
}

// BuildReportBlocks renders a ticket board summary as Block Kit blocks:
// a KPI section, the ranked top issues, and an optional narrative.
func BuildReportBlocks(title string, kpi *model.KpiSet, topIssues []*model.TicketRecord, narrative string) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
	}

	totalText := fmt.Sprintf("*Total issues*: %d", kpi.TotalCount)
	rateText := fmt.Sprintf("*Resolution rate*: %.2f%%", kpi.ResolutionRate)
	if kpi.Trends != nil {
		totalText += trendSuffix(kpi.Trends.TotalPct)
		rateText += trendSuffix(kpi.Trends.ResolutionRatePct)
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, totalText, false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Valid issues*: %d", kpi.ValidCount), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, rateText, false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Affected users*: %d", kpi.AffectedTotal), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Support intercepted*: %d", kpi.InterceptedCount), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if narrative != "" {
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, narrative, false, false), nil, nil),
		)
	}

	blocks = append(blocks, slack.NewDividerBlock())
	if len(topIssues) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "No top issues in this window :tada:", false, false),
			nil, nil,
		))
		return blocks
	}

	var lines []string
	for i, r := range topIssues {
		if i >= maxReportIssues {
			lines = append(lines, fmt.Sprintf("… and %d more", len(topIssues)-maxReportIssues))
			break
		}
		lines = append(lines, fmt.Sprintf("%s *%s* | %s | %s | affected %d | %s",
			priorityEmoji(r.Priority.Normalize().String()),
			r.Description,
			r.Branch,
			r.TopLevelCategory(),
			r.AffectedCount,
			r.Status,
		))
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "*Top issues*\n"+strings.Join(lines, "\n"), false, false),
		nil, nil,
	))
	return blocks
}
