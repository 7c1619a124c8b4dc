package repository

import (
	"context"

	"sync"

	"github.com/deskops-lab/ticketboard/pkg/domain/interfaces"
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository interface with an in-memory snapshot
type Memory struct {
	mu       sync.RWMutex
	snapshot []*model.TicketRecord
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{}
}

// ReplaceTickets atomically swaps in a new snapshot. Records are copied so
// later mutation of the caller's slice cannot leak into the store.
func (m *Memory) ReplaceTickets(ctx context.Context, records []*model.TicketRecord) error {
	next := make([]*model.TicketRecord, 0, len(records))
	for i, r := range records {
		if r == nil {
			return goerr.New("ticket record is nil", goerr.V("index", i))
		}
		cp := *r
		next = append(next, &cp)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = next
	return nil
}

// ListTickets returns the current snapshot in load order. Readers get
// copies, so an in-flight result stays valid across a concurrent replace.
func (m *Memory) ListTickets(ctx context.Context) ([]*model.TicketRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.TicketRecord, 0, len(m.snapshot))
	for _, r := range m.snapshot {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// Close is a no-op for the memory repository
func (m *Memory) Close() error {
	return nil
}
