package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/deskops-lab/ticketboard/pkg/cli/config"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	llmSvc "github.com/deskops-lab/ticketboard/pkg/service/llm"
	slackSvc "github.com/deskops-lab/ticketboard/pkg/service/slack"
	"github.com/deskops-lab/ticketboard/pkg/usecase"
)

const reportDateLayout = "2006-01-02"

func cmdReport() *cli.Command {
	var (
		firestoreCfg config.Firestore
		datasetCfg   config.Dataset
		boardCfg     config.Board
		slackCfg     config.Slack
		geminiCfg    config.Gemini
		fromStr      string
		toStr        string
		days         int
	)

	flags := joinFlags(
		firestoreCfg.Flags(),
		datasetCfg.Flags(),
		boardCfg.Flags(),
		slackCfg.Flags(),
		geminiCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "from",
				Usage:       "Report window start date (YYYY-MM-DD)",
				Category:    "Report",
				Sources:     cli.EnvVars("TICKETBOARD_REPORT_FROM"),
				Destination: &fromStr,
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "Report window end date (YYYY-MM-DD, defaults to today)",
				Category:    "Report",
				Sources:     cli.EnvVars("TICKETBOARD_REPORT_TO"),
				Destination: &toStr,
			},
			&cli.IntFlag{
				Name:        "days",
				Usage:       "Report window length in days when --from is not given",
				Category:    "Report",
				Value:       7,
				Sources:     cli.EnvVars("TICKETBOARD_REPORT_DAYS"),
				Destination: &days,
			},
		},
	)

	return &cli.Command{
		Name:  "report",
		Usage: "Post a ticket summary report to Slack",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if !slackCfg.IsConfigured() {
				return goerr.New("Slack configuration is required. Please provide TICKETBOARD_SLACK_OAUTH_TOKEN and TICKETBOARD_SLACK_CHANNEL")
			}

			spec, err := reportWindow(fromStr, toStr, days)
			if err != nil {
				return err
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			cfg, err := boardCfg.Configure(c)
			if err != nil {
				return err
			}
			board := usecase.NewBoard(repo, cfg)

			if datasetCfg.IsConfigured() {
				records, skipped, err := datasetCfg.Load(ctx)
				if err != nil {
					return err
				}
				if skipped > 0 {
					logger.Warn("Skipped malformed dataset rows",
						slog.Int("skipped", skipped),
						slog.String("path", datasetCfg.Path()),
					)
				}
				if err := board.Reload(ctx, records); err != nil {
					return err
				}
			}

			baseline, err := reportBaseline(ctx, board, spec)
			if err != nil {
				return err
			}

			var narrative *llmSvc.NarrativeService
			if llmClient := geminiCfg.ConfigureOptional(ctx, logger); llmClient != nil {
				narrative = llmSvc.NewNarrativeService(llmClient)
			}

			report, err := usecase.NewReport(board, slackSvc.NewClient(slackCfg.OAuthToken), narrative, slackCfg.ChannelID)
			if err != nil {
				return err
			}

			logger.Info("Posting ticket report",
				slog.Time("from", spec.From),
				slog.Time("to", spec.To),
				slog.Any("slack", slackCfg),
			)
			return report.Post(ctx, spec, baseline)
		},
	}
}

// reportWindow builds the filter spec for the report window. Both bounds
// are inclusive dates.
func reportWindow(fromStr, toStr string, days int) (*model.FilterSpec, error) {
	to := time.Now()
	if toStr != "" {
		parsed, err := time.Parse(reportDateLayout, toStr)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid --to date", goerr.V("value", toStr))
		}
		to = parsed
	}

	var from time.Time
	if fromStr != "" {
		parsed, err := time.Parse(reportDateLayout, fromStr)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid --from date", goerr.V("value", fromStr))
		}
		from = parsed
	} else {
		if days < 1 {
			return nil, goerr.New("--days must be at least 1", goerr.V("days", days))
		}
		from = to.AddDate(0, 0, -(days - 1))
	}

	spec := model.NewFilterSpec()
	spec.From = from
	spec.To = to
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// reportBaseline computes KPI totals for the window immediately preceding
// the report window, so the report can show trend markers. A window of n
// days compares against the n days before it.
func reportBaseline(ctx context.Context, board *usecase.Board, spec *model.FilterSpec) (*model.Baseline, error) {
	length := int(spec.To.Sub(spec.From).Hours()/24) + 1

	prev := model.NewFilterSpec()
	prev.To = spec.From.AddDate(0, 0, -1)
	prev.From = prev.To.AddDate(0, 0, -(length - 1))

	matched, _, err := board.Tickets(ctx, prev)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}

	kpi := usecase.ComputeKPIs(matched, board.Config(), nil)
	return &model.Baseline{
		TotalCount:     kpi.TotalCount,
		AffectedTotal:  kpi.AffectedTotal,
		ResolutionRate: kpi.ResolutionRate,
	}, nil
}
