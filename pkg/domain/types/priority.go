package types

// Priority represents an ordinal severity tag of a ticket
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"

	// PriorityUnknown is the fallback bucket for records with a missing or
	// unrecognized priority. Such records only pass a priority filter when
	// the filter lists PriorityUnknown explicitly.
	PriorityUnknown Priority = "unknown"
)

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// IsValid checks if the priority is one of the closed P1/P2/P3 set
func (p Priority) IsValid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3:
		return true
	default:
		return false
	}
}

// Normalize maps any value outside the closed set to PriorityUnknown
func (p Priority) Normalize() Priority {
	if p.IsValid() {
		return p
	}
	return PriorityUnknown
}
