package model

import (
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Default engine parameters, overridable via the board configuration file
const (
	// DefaultImportanceThreshold is the affected-count bound above which a
	// ticket counts as a top issue even below P1.
	DefaultImportanceThreshold = 3
)

// BoardConfig holds the tunable parameters of the board engine.
//
// ResolvedStatuses is deliberately configurable: "resolved" matching is
// exact string equality against this set, and deployments may want to add
// synonyms such as "Fixed" without a code change.
type BoardConfig struct {
	ResolvedStatuses    []string `yaml:"resolved_statuses"`
	ImportanceThreshold int      `yaml:"importance_threshold"`
}

// DefaultBoardConfig returns the built-in engine parameters
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		ResolvedStatuses:    []string{"Resolved"},
		ImportanceThreshold: DefaultImportanceThreshold,
	}
}

// Validate validates the board configuration
func (c *BoardConfig) Validate() error {
	if len(c.ResolvedStatuses) == 0 {
		return goerr.New("at least one resolved status is required")
	}
	seen := make(map[string]bool)
	for _, s := range c.ResolvedStatuses {
		if s == "" {
			return goerr.New("resolved status must not be empty")
		}
		if seen[s] {
			return goerr.New("duplicate resolved status", goerr.V("status", s))
		}
		seen[s] = true
	}
	if c.ImportanceThreshold < 1 {
		return goerr.New("importance threshold must be at least 1",
			goerr.V("threshold", c.ImportanceThreshold))
	}
	return nil
}

// IsResolved reports whether a status counts as resolved under this
// configuration
func (c *BoardConfig) IsResolved(status types.TicketStatus) bool {
	for _, s := range c.ResolvedStatuses {
		if s == status.String() {
			return true
		}
	}
	return false
}
