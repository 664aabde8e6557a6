package model

import (
	"fmt"
	"time"
)

// Timestamp layout used in submission rows, second precision.
const TimeLayout = "2006-01-02 15:04:05"

// Period is one rotation unit: submissions accumulate into a single
// sheet until the next rotation. Number starts at 1 and only grows.
type Period struct {
	Number    int       `json:"number"`
	SheetID   string    `json:"sheet_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Period) Title() string {
	return fmt.Sprintf("Week %d Responses", p.Number)
}

func (p Period) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + p.SheetID
}

// Participant identifies the submitting chat user.
type Participant struct {
	ID       int64
	Name     string
	Username string
}

// Handle returns the username column value, with the placeholder the
// sheet rows have always used for users without a public handle.
func (p Participant) Handle() string {
	if p.Username == "" {
		return "N/A"
	}
	return p.Username
}

// Submission is one completed answer set, ready to be appended as a row.
type Submission struct {
	Participant Participant
	Time        time.Time
	Answers     []string
}

// Row flattens the submission into the sheet column layout:
// [user id, name, username, timestamp, answers...].
func (s Submission) Row() []string {
	row := make([]string, 0, 4+len(s.Answers))
	row = append(row,
		fmt.Sprintf("%d", s.Participant.ID),
		s.Participant.Name,
		s.Participant.Handle(),
		s.Time.Format(TimeLayout),
	)
	return append(row, s.Answers...)
}

// Header builds the sheet header row for the given question list.
func Header(questions []string) []string {
	header := append([]string{}, "User ID", "Name", "Username", "Date")
	return append(header, questions...)
}
