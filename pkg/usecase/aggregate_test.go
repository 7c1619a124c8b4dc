package usecase_test

import (
	"testing"
	"time"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/deskops-lab/ticketboard/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestParseGroupKey(t *testing.T) {
	key := gt.R1(usecase.ParseGroupKey("branch")).NoError(t)
	gt.Equal(t, key, usecase.GroupByBranch)

	_, err := usecase.ParseGroupKey("assignee")
	gt.Error(t, err)
}

func TestCountBySumsToTotal(t *testing.T) {
	records := fixtureRecords()
	keys := []usecase.GroupKey{
		usecase.GroupByCategory, usecase.GroupByBranch, usecase.GroupByTeam,
		usecase.GroupByStatus, usecase.GroupByPriority, usecase.GroupByDay,
	}
	for _, key := range keys {
		groups := gt.R1(usecase.CountBy(records, key)).NoError(t)
		total := 0
		for _, g := range groups {
			total += g.Count
		}
		gt.Equal(t, total, len(records))
	}
}

func TestCountByCategory(t *testing.T) {
	groups := gt.R1(usecase.CountBy(fixtureRecords(), usecase.GroupByCategory)).NoError(t)

	// count desc, then key asc
	gt.A(t, groups).Length(3)
	gt.Equal(t, groups[0], usecase.GroupCount{Key: "Classroom", Count: 2})
	gt.Equal(t, groups[1], usecase.GroupCount{Key: "Sales", Count: 2})
	gt.Equal(t, groups[2], usecase.GroupCount{Key: "After Class", Count: 1})
}

func TestCountByDayDiscardsTime(t *testing.T) {
	records := []*model.TicketRecord{
		ticket("US", "Sales/Payment", "Resolved", types.PriorityP3, 1, 19),
		ticket("US", "Sales/Payment", "Resolved", types.PriorityP3, 1, 19),
		ticket("US", "Sales/Payment", "Resolved", types.PriorityP3, 1, 20),
	}
	records[1].OccurredAt = time.Date(2025, 12, 19, 23, 45, 0, 0, time.UTC)

	groups := gt.R1(usecase.CountBy(records, usecase.GroupByDay)).NoError(t)
	gt.A(t, groups).Length(2)
	gt.Equal(t, groups[0], usecase.GroupCount{Key: "2025-12-19", Count: 2})
	gt.Equal(t, groups[1], usecase.GroupCount{Key: "2025-12-20", Count: 1})
}

func TestCountByUnknownBucket(t *testing.T) {
	records := fixtureRecords()
	records[0].Team = ""

	groups := gt.R1(usecase.CountBy(records, usecase.GroupByTeam)).NoError(t)

	found := false
	total := 0
	for _, g := range groups {
		total += g.Count
		if g.Key == usecase.UnknownKeyLabel {
			found = true
			gt.Equal(t, g.Count, 1)
		}
	}
	gt.B(t, found).True()
	gt.Equal(t, total, len(records))
}

func TestTopIssuesSelection(t *testing.T) {
	d1 := time.Date(2025, 12, 19, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 12, 21, 9, 0, 0, 0, time.UTC)

	p1 := ticket("US", "Classroom/App Crash", "Investigating", types.PriorityP1, 5, 19)
	p1.OccurredAt = d1
	highImpact := ticket("UK", "Sales/Payment", "Investigating", types.PriorityP2, 3, 21)
	highImpact.OccurredAt = d2
	minor := ticket("CA", "Sales/Diagnosis", "Resolved", types.PriorityP3, 1, 22)

	ranked := usecase.TopIssues([]*model.TicketRecord{p1, highImpact, minor}, 3)
	gt.A(t, ranked).Length(2)
	gt.Equal(t, ranked[0].ID, p1.ID)
	gt.Equal(t, ranked[1].ID, highImpact.ID)
}

func TestTopIssuesRecencyTieBreak(t *testing.T) {
	older := ticket("US", "Sales/Payment", "Investigating", types.PriorityP2, 4, 19)
	newer := ticket("UK", "Sales/Payment", "Investigating", types.PriorityP2, 4, 23)

	ranked := usecase.TopIssues([]*model.TicketRecord{older, newer}, 3)
	gt.A(t, ranked).Length(2)
	gt.Equal(t, ranked[0].ID, newer.ID)
	gt.Equal(t, ranked[1].ID, older.ID)
}

func TestTopIssuesDeterminism(t *testing.T) {
	a := ticket("US", "Sales/Payment", "Investigating", types.PriorityP1, 2, 20)
	b := ticket("UK", "Sales/Payment", "Investigating", types.PriorityP1, 2, 20)
	records := []*model.TicketRecord{a, b}

	for i := 0; i < 10; i++ {
		ranked := usecase.TopIssues(records, 3)
		gt.A(t, ranked).Length(2)
		gt.Equal(t, ranked[0].ID, a.ID)
		gt.Equal(t, ranked[1].ID, b.ID)
	}
}

func TestTopIssuesThresholdOverride(t *testing.T) {
	r := ticket("US", "Sales/Payment", "Investigating", types.PriorityP3, 2, 20)

	gt.A(t, usecase.TopIssues([]*model.TicketRecord{r}, 3)).Length(0)
	gt.A(t, usecase.TopIssues([]*model.TicketRecord{r}, 2)).Length(1)
}
