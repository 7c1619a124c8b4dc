package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/deskops-lab/ticketboard/pkg/service/ingest"
)

// Dataset holds the CSV source configuration for ticket ingestion
type Dataset struct {
	path string
}

// Flags returns CLI flags for the dataset source
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "Path to ticket dataset CSV file",
			Category:    "Dataset",
			Sources:     cli.EnvVars("TICKETBOARD_DATASET"),
			Destination: &d.path,
		},
	}
}

// IsConfigured checks if a dataset path was given
func (d *Dataset) IsConfigured() bool {
	return d.path != ""
}

// Path returns the configured dataset path
func (d *Dataset) Path() string {
	return d.path
}

// Load reads the dataset CSV and returns the parsed records together with
// the number of malformed rows that were skipped.
func (d *Dataset) Load(ctx context.Context) ([]*model.TicketRecord, int, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to open dataset file", goerr.V("path", d.path))
	}
	defer f.Close()

	records, skipped, err := ingest.ReadRecords(ctx, f)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to read dataset file", goerr.V("path", d.path))
	}
	return records, skipped, nil
}

// LogValue returns structured log value
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", d.path),
	)
}
