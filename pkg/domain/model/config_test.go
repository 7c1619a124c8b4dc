package model_test

import (
	"testing"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/gt"
	"gopkg.in/yaml.v3"
)

func TestDefaultBoardConfig(t *testing.T) {
	cfg := model.DefaultBoardConfig()
	gt.NoError(t, cfg.Validate())
	gt.Equal(t, cfg.ImportanceThreshold, 3)
	gt.B(t, cfg.IsResolved("Resolved")).True()
	gt.B(t, cfg.IsResolved("Fixed")).False()
}

func TestBoardConfigValidate(t *testing.T) {
	t.Run("rejects empty resolved statuses", func(t *testing.T) {
		cfg := &model.BoardConfig{ImportanceThreshold: 3}
		err := cfg.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("at least one resolved status")
	})

	t.Run("rejects duplicate resolved status", func(t *testing.T) {
		cfg := &model.BoardConfig{
			ResolvedStatuses:    []string{"Resolved", "Resolved"},
			ImportanceThreshold: 3,
		}
		gt.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive threshold", func(t *testing.T) {
		cfg := &model.BoardConfig{
			ResolvedStatuses:    []string{"Resolved"},
			ImportanceThreshold: 0,
		}
		gt.Error(t, cfg.Validate())
	})
}

func TestBoardConfigFromYAML(t *testing.T) {
	data := []byte("resolved_statuses:\n  - Resolved\n  - Fixed\nimportance_threshold: 5\n")

	var cfg model.BoardConfig
	gt.NoError(t, yaml.Unmarshal(data, &cfg))
	gt.NoError(t, cfg.Validate())
	gt.Equal(t, cfg.ImportanceThreshold, 5)
	gt.B(t, cfg.IsResolved("Fixed")).True()
	gt.B(t, cfg.IsResolved("Investigating")).False()
}
