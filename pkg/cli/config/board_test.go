package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deskops-lab/ticketboard/pkg/cli/config"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
)

func configureBoard(t *testing.T, args ...string) *model.BoardConfig {
	t.Helper()

	var boardCfg config.Board
	var cfg *model.BoardConfig
	cmd := &cli.Command{
		Flags: boardCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			var err error
			cfg, err = boardCfg.Configure(c)
			return err
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"ticketboard"}, args...)))
	return cfg
}

func writeBoardYAML(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestBoardConfigure(t *testing.T) {
	t.Run("defaults without file or flags", func(t *testing.T) {
		cfg := configureBoard(t)
		gt.Equal(t, cfg.ImportanceThreshold, model.DefaultImportanceThreshold)
		gt.Equal(t, cfg.ResolvedStatuses, []string{"Resolved"})
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := writeBoardYAML(t, "importance_threshold: 5\nresolved_statuses:\n  - Fixed\n")
		cfg := configureBoard(t, "--board-config", path)
		gt.Equal(t, cfg.ImportanceThreshold, 5)
		gt.Equal(t, cfg.ResolvedStatuses, []string{"Fixed"})
	})

	t.Run("set flag overrides yaml even at the default value", func(t *testing.T) {
		path := writeBoardYAML(t, "importance_threshold: 5\n")
		cfg := configureBoard(t, "--board-config", path, "--importance-threshold", "3")
		gt.Equal(t, cfg.ImportanceThreshold, 3)
	})

	t.Run("unset flag keeps the yaml value", func(t *testing.T) {
		path := writeBoardYAML(t, "importance_threshold: 5\n")
		cfg := configureBoard(t, "--board-config", path)
		gt.Equal(t, cfg.ImportanceThreshold, 5)
	})
}
