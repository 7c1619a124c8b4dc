package types

import (
	"fmt"

	"github.com/google/uuid"
)

// TicketID represents a ticket record identifier
type TicketID string

// String returns the string representation
func (id TicketID) String() string {
	return string(id)
}

// NewTicketID creates a new TicketID
func NewTicketID() TicketID {
	return TicketID(fmt.Sprintf("tkt-%s", uuid.New().String()))
}

// BranchID represents a branch (site/region) identifier
type BranchID string

// String returns the string representation
func (id BranchID) String() string {
	return string(id)
}

// TeamID represents an owning team identifier
type TeamID string

// String returns the string representation
func (id TeamID) String() string {
	return string(id)
}

// TicketStatus represents a workflow state of a ticket.
// The set of statuses is open: new values appear in live data without a
// code change, so statuses are compared by string equality and never
// validated against a closed list.
type TicketStatus string

// String returns the string representation
func (s TicketStatus) String() string {
	return string(s)
}
