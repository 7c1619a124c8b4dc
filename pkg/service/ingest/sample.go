package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/deskops-lab/ticketboard/pkg/domain/types"
)

// Sample vocabularies mirroring the weekly feedback report this board was
// built for.
var (
	sampleCategories = map[string][]string{
		"Classroom":   {"Audio & Video", "App Crash", "Interaction", "Whiteboard"},
		"After Class": {"Replay Recording", "Homework & Exams", "Other App Modules"},
		"After Sales": {"Backoffice", "Class Transfer"},
		"Sales":       {"Diagnosis", "Payment"},
		"ThinkZone":   {"General"},
	}
	sampleMainCategories = []string{"Classroom", "After Class", "After Sales", "Sales", "ThinkZone"}

	sampleBranches = []string{"US", "UK", "CA", "MYS", "SG", "HK", "AUS", "KR", "GMC", "JP", "FR"}

	sampleStatuses = []string{"Resolved", "Investigating", "Scheduled", "Pending Verification", "Unlocatable"}

	sampleTeams = []string{"Frontend", "Server", "Academic Affairs", "Media Service"}

	sampleDescriptions = []string{
		"App crash prevents joining the lesson",
		"Failed to join channel, cannot enter classroom",
		"Students cannot hear the teacher",
		"Replay video stutters and repeats",
		"Whiteboard strokes sync late, teacher side empty",
		"Homework submission fails",
		"Payment page rendered incorrectly",
		"Verification code never arrives",
		"Schedule is empty, no classroom entry",
		"Courseware fails to load",
	}
)

// SampleOptions controls sample dataset generation
type SampleOptions struct {
	Count int       // number of records
	Days  int       // records spread over this many days from Start
	Start time.Time // first calendar day of the window
	Seed  int64     // RNG seed; identical seeds yield identical datasets
}

// DefaultSampleOptions matches the original weekly report window
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{
		Count: 35,
		Days:  7,
		Start: time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC),
		Seed:  1,
	}
}

// GenerateSample produces a synthetic ticket dataset for demos and local
// development. Generation is deterministic for a given options value.
func GenerateSample(opts SampleOptions) []*model.TicketRecord {
	if opts.Count <= 0 {
		opts.Count = DefaultSampleOptions().Count
	}
	if opts.Days <= 0 {
		opts.Days = DefaultSampleOptions().Days
	}
	if opts.Start.IsZero() {
		opts.Start = DefaultSampleOptions().Start
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	records := make([]*model.TicketRecord, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		mainCat := sampleMainCategories[rng.Intn(len(sampleMainCategories))]
		subCats := sampleCategories[mainCat]
		subCat := subCats[rng.Intn(len(subCats))]

		priority := []types.Priority{types.PriorityP1, types.PriorityP2, types.PriorityP3}[rng.Intn(3)]

		// P1 issues hit whole classrooms; the rest mostly single users
		var affected int
		if priority == types.PriorityP1 {
			affected = 3 + rng.Intn(4)
		} else {
			affected = 1 + rng.Intn(2)
		}

		records = append(records, &model.TicketRecord{
			ID:                   types.NewTicketID(),
			OccurredAt:           opts.Start.AddDate(0, 0, i%opts.Days).Add(time.Duration(rng.Intn(24*60)) * time.Minute),
			Branch:               types.BranchID(sampleBranches[rng.Intn(len(sampleBranches))]),
			Classification:       fmt.Sprintf("%s/%s", mainCat, subCat),
			Status:               types.TicketStatus(sampleStatuses[rng.Intn(len(sampleStatuses))]),
			Priority:             priority,
			AffectedCount:        affected,
			Team:                 types.TeamID(sampleTeams[rng.Intn(len(sampleTeams))]),
			Description:          sampleDescriptions[rng.Intn(len(sampleDescriptions))],
			IsValid:              true,
			InterceptedBySupport: i < opts.Count*2/5,
		})
	}
	return records
}
