package usecase

import (
	"sort"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// GroupKey selects the dimension for a grouped count
type GroupKey string

const (
	GroupByCategory GroupKey = "category"
	GroupByBranch   GroupKey = "branch"
	GroupByTeam     GroupKey = "team"
	GroupByStatus   GroupKey = "status"
	GroupByPriority GroupKey = "priority"
	GroupByDay      GroupKey = "day"
)

// UnknownKeyLabel is the bucket for records with a missing grouping key, so
// grouped counts always sum to the subset size instead of dropping rows.
const UnknownKeyLabel = "Unknown"

// dayKeyLayout formats day-grouping keys
const dayKeyLayout = "2006-01-02"

// ParseGroupKey parses a group key name
func ParseGroupKey(s string) (GroupKey, error) {
	switch k := GroupKey(s); k {
	case GroupByCategory, GroupByBranch, GroupByTeam, GroupByStatus, GroupByPriority, GroupByDay:
		return k, nil
	default:
		return "", goerr.New("unknown group key", goerr.V("key", s))
	}
}

// GroupCount is one key of an ordered grouped count
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CountBy produces ordered grouped counts of the subset along the given
// dimension. Keys with zero occurrences are omitted. Day grouping uses the
// calendar date of occurred_at and is ordered chronologically; every other
// dimension is ordered by count descending with the key ascending as a
// deterministic tie-break.
func CountBy(records []*model.TicketRecord, key GroupKey) ([]GroupCount, error) {
	extract, err := keyExtractor(key)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range records {
		if r == nil {
			continue
		}
		k := extract(r)
		if k == "" {
			k = UnknownKeyLabel
		}
		counts[k]++
	}

	groups := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		groups = append(groups, GroupCount{Key: k, Count: n})
	}

	if key == GroupByDay {
		sort.Slice(groups, func(i, j int) bool {
			return groups[i].Key < groups[j].Key
		})
	} else {
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Count != groups[j].Count {
				return groups[i].Count > groups[j].Count
			}
			return groups[i].Key < groups[j].Key
		})
	}
	return groups, nil
}

func keyExtractor(key GroupKey) (func(*model.TicketRecord) string, error) {
	switch key {
	case GroupByCategory:
		return func(r *model.TicketRecord) string { return r.TopLevelCategory() }, nil
	case GroupByBranch:
		return func(r *model.TicketRecord) string { return r.Branch.String() }, nil
	case GroupByTeam:
		return func(r *model.TicketRecord) string { return r.Team.String() }, nil
	case GroupByStatus:
		return func(r *model.TicketRecord) string { return r.Status.String() }, nil
	case GroupByPriority:
		return func(r *model.TicketRecord) string { return r.Priority.Normalize().String() }, nil
	case GroupByDay:
		return func(r *model.TicketRecord) string { return r.OccurredOn().Format(dayKeyLayout) }, nil
	default:
		return nil, goerr.New("unknown group key", goerr.V("key", key))
	}
}

// TopIssues selects the records an operator should look at first: P1
// priority, or impact at or above the importance threshold. The result is
// ordered by affected count descending, then occurred_at descending (most
// recent first); records equal on both keys keep their original relative
// order, so the ranking is identical across runs on identical input.
func TopIssues(records []*model.TicketRecord, threshold int) []*model.TicketRecord {
	if threshold < 1 {
		threshold = model.DefaultImportanceThreshold
	}

	selected := make([]*model.TicketRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if r.Priority == types.PriorityP1 || r.AffectedCount >= threshold {
			selected = append(selected, r)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].AffectedCount != selected[j].AffectedCount {
			return selected[i].AffectedCount > selected[j].AffectedCount
		}
		return selected[i].OccurredAt.After(selected[j].OccurredAt)
	})
	return selected
}
