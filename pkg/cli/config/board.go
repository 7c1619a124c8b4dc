package config

import (
	"log/slog"
	"os"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Board holds board tuning configuration (resolved statuses, importance threshold)
type Board struct {
	configFile          string
	importanceThreshold int
}

// Flags returns CLI flags for board configuration
func (b *Board) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "board-config",
			Usage:       "Path to board configuration YAML file",
			Category:    "Board",
			Sources:     cli.EnvVars("TICKETBOARD_BOARD_CONFIG"),
			Destination: &b.configFile,
		},
		&cli.IntFlag{
			Name:        "importance-threshold",
			Usage:       "Affected-student count from which a ticket ranks as a top issue",
			Category:    "Board",
			Value:       model.DefaultImportanceThreshold,
			Sources:     cli.EnvVars("TICKETBOARD_IMPORTANCE_THRESHOLD"),
			Destination: &b.importanceThreshold,
		},
	}
}

// Configure loads the board configuration, starting from defaults.
// The YAML file overrides defaults, and an explicitly set threshold flag
// overrides the file.
func (b *Board) Configure(cmd *cli.Command) (*model.BoardConfig, error) {
	cfg := model.DefaultBoardConfig()

	if b.configFile != "" {
		data, err := os.ReadFile(b.configFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read board config file", goerr.V("path", b.configFile))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to parse board config file", goerr.V("path", b.configFile))
		}
	}

	if cmd.IsSet("importance-threshold") {
		cfg.ImportanceThreshold = b.importanceThreshold
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogValue returns structured log value
func (b Board) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config_file", b.configFile),
		slog.Int("importance_threshold", b.importanceThreshold),
	)
}
