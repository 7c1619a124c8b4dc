package usecase

import (
	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ApplyFilter returns the order-preserving subsequence of records matching
// every predicate of the spec. The spec is validated first; an invalid spec
// is a correctable operator error and is surfaced, never clamped. An empty
// result is a valid result. The function is stateless and referentially
// transparent given (records, spec).
func ApplyFilter(records []*model.TicketRecord, spec *model.FilterSpec) ([]*model.TicketRecord, error) {
	if spec == nil {
		return nil, goerr.New("filter spec is nil")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	matched := make([]*model.TicketRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if spec.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
