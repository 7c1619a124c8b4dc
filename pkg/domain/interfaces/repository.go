package interfaces

import (
	"context"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
)

// Repository defines the interface for the ticket snapshot store.
//
// The engine operates on a session-scoped, immutable snapshot: ReplaceTickets
// swaps the whole collection atomically, and any in-flight ListTickets keeps
// seeing the previous snapshot in full. There is no incremental patching.
type Repository interface {
	// ReplaceTickets atomically replaces the entire ticket collection
	ReplaceTickets(ctx context.Context, records []*model.TicketRecord) error

	// ListTickets returns the current snapshot in load order
	ListTickets(ctx context.Context) ([]*model.TicketRecord, error)

	// Close releases any underlying resources
	Close() error
}
