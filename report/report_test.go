package report

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/pulsebot/catalog"
	"github.com/teampulse/pulsebot/model"
)

type fakeReader struct {
	rows [][]string
	err  error
}

func (r *fakeReader) ReadAllRows(ctx context.Context, sheetID string) ([][]string, error) {
	return r.rows, r.err
}

type fakePeriods struct {
	period model.Period
	ok     bool
}

func (p *fakePeriods) Current() (model.Period, bool) {
	return p.period, p.ok
}

var header = []string{"User ID", "Name", "Username", "Date", "q0", "q1"}

func newTestService(rows [][]string) *Service {
	return NewService(
		&fakeReader{rows: rows},
		&fakePeriods{period: model.Period{Number: 3, SheetID: "sheet-3"}, ok: true},
		catalog.New([]string{"q0", "q1"}),
	)
}

func TestLatestSubmissionPicksMaxTimestamp(t *testing.T) {
	s := newTestService([][]string{
		header,
		{"42", "Jo Doe", "jo", "2024-03-04 10:00:00", "old a", "old b"},
		{"7", "Someone Else", "N/A", "2024-03-04 11:00:00", "x", "y"},
		{"42", "Jo Doe", "jo", "2024-03-04 12:30:00", "new a", "new b"},
	})

	sub, err := s.LatestSubmission(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Jo Doe", sub.Name)
	assert.Equal(t, time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC), sub.Time)
	assert.Equal(t, []QA{
		{Question: "q0", Answer: "new a"},
		{Question: "q1", Answer: "new b"},
	}, sub.QA)
}

func TestLatestSubmissionTieBreaksOnRowOrder(t *testing.T) {
	s := newTestService([][]string{
		header,
		{"42", "Jo Doe", "jo", "2024-03-04 12:00:00", "first", "first"},
		{"42", "Jo Doe", "jo", "2024-03-04 12:00:00", "second", "second"},
	})

	sub, err := s.LatestSubmission(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "second", sub.QA[0].Answer)
}

func TestLatestSubmissionPairsShortRowsLossily(t *testing.T) {
	// row written when the catalog had a single question
	s := newTestService([][]string{
		header,
		{"42", "Jo Doe", "jo", "2024-03-04 12:00:00", "only answer"},
	})

	sub, err := s.LatestSubmission(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []QA{{Question: "q0", Answer: "only answer"}}, sub.QA)
}

func TestLatestSubmissionTruncatesExtraAnswers(t *testing.T) {
	// row written when the catalog had three questions
	s := newTestService([][]string{
		header,
		{"42", "Jo Doe", "jo", "2024-03-04 12:00:00", "a", "b", "c"},
	})

	sub, err := s.LatestSubmission(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, sub.QA, 2)
}

func TestLatestSubmissionUnknownParticipant(t *testing.T) {
	s := newTestService([][]string{header})
	_, err := s.LatestSubmission(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoSubmission)
}

func TestLatestSubmissionNoPeriod(t *testing.T) {
	s := NewService(&fakeReader{}, &fakePeriods{}, catalog.New([]string{"q0"}))
	_, err := s.LatestSubmission(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoPeriod)
}

func TestDistinctParticipantsSkipsHeaderAndDuplicates(t *testing.T) {
	s := newTestService([][]string{
		header,
		{"42", "Jo Doe", "jo", "2024-03-04 10:00:00", "a", "b"},
		{"7", "Someone Else", "N/A", "2024-03-04 11:00:00", "x", "y"},
		{"42", "Jo Doe", "jo", "2024-03-04 12:00:00", "c", "d"},
	})

	ids, err := s.DistinctParticipants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{42, 7}, ids)
}

func TestDistinctParticipantsEmptySheet(t *testing.T) {
	s := newTestService([][]string{header})
	ids, err := s.DistinctParticipants(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReadFailurePropagates(t *testing.T) {
	s := NewService(
		&fakeReader{err: errors.New("storage unavailable")},
		&fakePeriods{period: model.Period{Number: 1, SheetID: "s"}, ok: true},
		catalog.New([]string{"q0"}),
	)

	_, err := s.DistinctParticipants(context.Background())
	assert.Error(t, err)
	_, err = s.LatestSubmission(context.Background(), 42)
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	s := newTestService([][]string{
		{"User ID", "Name"},
		{"42", "Jo, the \"great\""},
	})

	name, data, err := s.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "week_3_responses.csv", name)
	assert.Equal(t, "User ID,Name\n42,\"Jo, the \"\"great\"\"\"\n", string(data))
}

func TestExportCSVNoPeriod(t *testing.T) {
	s := NewService(&fakeReader{}, &fakePeriods{}, catalog.New([]string{"q0"}))
	_, _, err := s.ExportCSV(context.Background())
	assert.ErrorIs(t, err, ErrNoPeriod)
}
