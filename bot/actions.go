package bot

import (
	"strconv"
	"strings"
)

// Callback action tags. They travel through the transport as opaque
// data, so everything parsed out of them is re-validated before use.
const (
	actionStartForm   = "start_form"
	actionBackToStart = "back_to_start"
	actionMainMenu    = "main_menu"

	prefixBackToQuestion = "back_to_question_"
	prefixSeeAnswers     = "see_answers_"
)

func backToQuestion(index int) string {
	return prefixBackToQuestion + strconv.Itoa(index)
}

func parseBackToQuestion(tag string) (int, bool) {
	raw, ok := strings.CutPrefix(tag, prefixBackToQuestion)
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return index, true
}

func seeAnswers(userID int64) string {
	return prefixSeeAnswers + strconv.FormatInt(userID, 10)
}

func parseSeeAnswers(tag string) (int64, bool) {
	raw, ok := strings.CutPrefix(tag, prefixSeeAnswers)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, true
}
