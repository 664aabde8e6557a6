package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionRow(t *testing.T) {
	sub := Submission{
		Participant: Participant{ID: 42, Name: "Jo Doe", Username: "jo"},
		Time:        time.Date(2024, 3, 4, 12, 0, 5, 0, time.UTC),
		Answers:     []string{"X", "Y"},
	}
	assert.Equal(t,
		[]string{"42", "Jo Doe", "jo", "2024-03-04 12:00:05", "X", "Y"},
		sub.Row())
}

func TestHandlePlaceholder(t *testing.T) {
	assert.Equal(t, "N/A", Participant{}.Handle())
	assert.Equal(t, "jo", Participant{Username: "jo"}.Handle())
}

func TestHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"User ID", "Name", "Username", "Date", "q0"},
		Header([]string{"q0"}))
}

func TestPeriodTitleAndURL(t *testing.T) {
	p := Period{Number: 8, SheetID: "abc123"}
	assert.Equal(t, "Week 8 Responses", p.Title())
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123", p.URL())
}
