package ingest_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deskops-lab/ticketboard/pkg/domain/types"
	"github.com/deskops-lab/ticketboard/pkg/service/ingest"
	"github.com/m-mizutani/gt"
)

const sampleCSV = `occurred_at,branch,classification,status,priority,affected_count,team,description,is_valid,intercepted_by_support
2025-12-19 10:30,US,Classroom/App Crash,Investigating,P1,5,Frontend,App crash prevents joining the lesson,true,true
2025-12-20,UK,Sales/Payment,Resolved,P3,1,Server,Payment page rendered incorrectly,yes,no
`

func TestReadRecords(t *testing.T) {
	records, skipped, err := ingest.ReadRecords(context.Background(), strings.NewReader(sampleCSV))
	gt.NoError(t, err)
	gt.Equal(t, skipped, 0)
	gt.A(t, records).Length(2)

	first := records[0]
	gt.Equal(t, first.Branch, types.BranchID("US"))
	gt.Equal(t, first.Priority, types.PriorityP1)
	gt.Equal(t, first.AffectedCount, 5)
	gt.Equal(t, first.OccurredAt.Hour(), 10)
	gt.B(t, first.IsValid).True()
	gt.B(t, first.InterceptedBySupport).True()

	second := records[1]
	gt.Equal(t, second.Status, types.TicketStatus("Resolved"))
	gt.B(t, second.IsValid).True()
	gt.B(t, second.InterceptedBySupport).False()
}

func TestReadRecordsSkipsMalformedRows(t *testing.T) {
	data := sampleCSV +
		"not-a-date,CA,Sales/Diagnosis,Resolved,P3,1,Server,bad date,true,false\n" +
		"2025-12-21,CA,Sales/Diagnosis,Resolved,P3,zero,Server,bad count,true,false\n" +
		"2025-12-21,,Sales/Diagnosis,Resolved,P3,1,Server,missing branch,true,false\n"

	records, skipped, err := ingest.ReadRecords(context.Background(), strings.NewReader(data))
	gt.NoError(t, err)
	gt.Equal(t, skipped, 3)
	gt.A(t, records).Length(2)
}

func TestReadRecordsMissingRequiredColumn(t *testing.T) {
	data := "branch,affected_count\nUS,1\n"
	_, _, err := ingest.ReadRecords(context.Background(), strings.NewReader(data))
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("required column is missing")
}

func TestReadRecordsEmptyInput(t *testing.T) {
	_, _, err := ingest.ReadRecords(context.Background(), strings.NewReader(""))
	gt.Error(t, err)
}

func TestWriteRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	records := ingest.GenerateSample(ingest.SampleOptions{Count: 5, Days: 3, Seed: 7})

	var buf bytes.Buffer
	gt.NoError(t, ingest.WriteRecords(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	gt.A(t, lines).Length(6)
	gt.S(t, lines[0]).Contains("occurred_at")

	parsed, skipped, err := ingest.ReadRecords(ctx, &buf)
	gt.NoError(t, err)
	gt.Equal(t, skipped, 0)
	gt.A(t, parsed).Length(5)
	gt.Equal(t, parsed[2].Branch, records[2].Branch)
	gt.Equal(t, parsed[2].Classification, records[2].Classification)
}
