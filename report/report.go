// Package report answers admin questions from the stored rows: the
// latest completed submission of one participant, the distinct set of
// participants, and the CSV export of the active period.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/teampulse/pulsebot/catalog"
	"github.com/teampulse/pulsebot/model"
)

// Reader is the slice of the tabular store the queries need.
type Reader interface {
	ReadAllRows(ctx context.Context, sheetID string) ([][]string, error)
}

// Periods exposes the active period without forcing a rotation.
type Periods interface {
	Current() (model.Period, bool)
}

var (
	ErrNoPeriod     = errors.New("no active period yet")
	ErrNoSubmission = errors.New("no submission found")
)

type Service struct {
	reader  Reader
	periods Periods
	catalog *catalog.Catalog
}

func NewService(reader Reader, periods Periods, c *catalog.Catalog) *Service {
	return &Service{reader: reader, periods: periods, catalog: c}
}

// QA pairs one catalog question with the answer a row holds for it.
type QA struct {
	Question string
	Answer   string
}

// Submission is the reconstructed latest answer set of a participant.
type Submission struct {
	Name   string
	Handle string
	Time   time.Time
	QA     []QA
}

// LatestSubmission picks the row with the greatest timestamp among the
// participant's rows in the active period, later rows winning ties.
// Rows are append-only, so a correction is simply a newer row. Answers
// are paired positionally with the current catalog; when the catalog
// changed shape since the row was written, pairing stops at the shorter
// of the two.
func (s *Service) LatestSubmission(ctx context.Context, userID int64) (*Submission, error) {
	rows, err := s.activeRows(ctx)
	if err != nil {
		return nil, err
	}

	id := strconv.FormatInt(userID, 10)
	var best []string
	var bestTime time.Time
	for _, row := range rows {
		if len(row) < 4 || row[0] != id {
			continue
		}
		ts, err := time.Parse(model.TimeLayout, row[3])
		if err != nil {
			continue
		}
		if best == nil || !ts.Before(bestTime) {
			best, bestTime = row, ts
		}
	}
	if best == nil {
		return nil, ErrNoSubmission
	}

	questions := s.catalog.List()
	answers := best[4:]
	n := len(questions)
	if len(answers) < n {
		n = len(answers)
	}

	sub := &Submission{
		Name:   best[1],
		Handle: best[2],
		Time:   bestTime,
		QA:     make([]QA, 0, n),
	}
	for i := 0; i < n; i++ {
		sub.QA = append(sub.QA, QA{Question: questions[i], Answer: answers[i]})
	}
	return sub, nil
}

// DistinctParticipants returns the unique participant ids found in the
// first column of the active period, in first-seen order.
func (s *Service) DistinctParticipants(ctx context.Context) ([]int64, error) {
	rows, err := s.activeRows(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ExportCSV renders the active period, header included, as a CSV
// document ready to be uploaded.
func (s *Service) ExportCSV(ctx context.Context) (filename string, data []byte, err error) {
	p, ok := s.periods.Current()
	if !ok {
		return "", nil, ErrNoPeriod
	}

	rows, err := s.reader.ReadAllRows(ctx, p.SheetID)
	if err != nil {
		return "", nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(rows); err != nil {
		return "", nil, errors.Wrap(err, "render csv")
	}
	return fmt.Sprintf("week_%d_responses.csv", p.Number), buf.Bytes(), nil
}

// activeRows reads the active period's rows minus the header.
func (s *Service) activeRows(ctx context.Context) ([][]string, error) {
	p, ok := s.periods.Current()
	if !ok {
		return nil, ErrNoPeriod
	}

	rows, err := s.reader.ReadAllRows(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
