package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/deskops-lab/ticketboard/pkg/service/ingest"
)

func cmdSample() *cli.Command {
	var (
		output   string
		count    int
		days     int
		seed     int64
		startStr string
	)

	defaults := ingest.DefaultSampleOptions()

	return &cli.Command{
		Name:  "sample",
		Usage: "Generate a synthetic ticket dataset CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output CSV path (defaults to stdout)",
				Sources:     cli.EnvVars("TICKETBOARD_SAMPLE_OUTPUT"),
				Destination: &output,
			},
			&cli.IntFlag{
				Name:        "count",
				Usage:       "Number of tickets to generate",
				Value:       defaults.Count,
				Destination: &count,
			},
			&cli.IntFlag{
				Name:        "days",
				Usage:       "Number of calendar days to spread tickets over",
				Value:       defaults.Days,
				Destination: &days,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "RNG seed, same seed yields the same dataset",
				Value:       defaults.Seed,
				Destination: &seed,
			},
			&cli.StringFlag{
				Name:        "start",
				Usage:       "First day of the dataset window (YYYY-MM-DD)",
				Value:       defaults.Start.Format(reportDateLayout),
				Destination: &startStr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			start, err := time.Parse(reportDateLayout, startStr)
			if err != nil {
				return goerr.Wrap(err, "invalid --start date", goerr.V("value", startStr))
			}

			records := ingest.GenerateSample(ingest.SampleOptions{
				Count: count,
				Days:  days,
				Start: start,
				Seed:  seed,
			})

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer f.Close()
				w = f
			}

			if err := ingest.WriteRecords(w, records); err != nil {
				return err
			}

			if output != "" {
				logger.Info("Wrote sample dataset",
					slog.String("path", output),
					slog.Int("count", len(records)),
				)
			}
			return nil
		},
	}
}
