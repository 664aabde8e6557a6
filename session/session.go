package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/teampulse/pulsebot/catalog"
)

var (
	// ErrNotStarted signals an answer or navigation for a participant
	// with no in-progress form. Expected branch, not a fault: the caller
	// prompts the participant to begin.
	ErrNotStarted = errors.New("form not started")

	// ErrInvalidNavigation signals a back-navigation target outside the
	// current session bounds. Navigation targets round-trip through
	// callback payloads, so this is checked even though well-formed
	// keyboards never produce it.
	ErrInvalidNavigation = errors.New("navigation target out of bounds")
)

// Step is the outcome of recording one answer.
type Step struct {
	Done    bool
	Next    int      // index of the next question, when !Done
	Answers []string // full answer set, when Done
}

type state struct {
	answers []string
	// complete marks a session whose answers are all collected but not
	// yet persisted. It survives storage failures so the participant can
	// retry without re-answering; only Finalize removes it.
	complete bool
}

// Engine tracks every participant's progress through the catalog.
// All methods are safe for concurrent use; external I/O never happens
// under the engine lock.
type Engine struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	sessions map[int64]*state
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{
		catalog:  c,
		sessions: make(map[int64]*state),
	}
}

// Begin opens a fresh session, discarding any previous progress, and
// returns the index of the first question.
func (e *Engine) Begin(userID int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[userID] = &state{}
	return 0
}

// RecordAnswer appends text to the participant's answer set. When the
// set reaches catalog length the returned Step carries the complete
// answers; the session stays in place until Finalize confirms that
// persistence succeeded. Recording against an already complete session
// does not append: it hands back the same answers so a failed commit
// can be retried.
func (e *Engine) RecordAnswer(userID int64, text string) (Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.sessions[userID]
	if !ok {
		return Step{}, ErrNotStarted
	}
	if st.complete {
		return Step{Done: true, Answers: append([]string{}, st.answers...)}, nil
	}

	st.answers = append(st.answers, text)
	if len(st.answers) >= e.catalog.Len() {
		st.complete = true
		return Step{Done: true, Answers: append([]string{}, st.answers...)}, nil
	}
	return Step{Next: len(st.answers)}, nil
}

// NavigateBack rewinds the session to question target, discarding every
// answer from target on.
func (e *Engine) NavigateBack(userID int64, target int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.sessions[userID]
	if !ok {
		return ErrNotStarted
	}
	if target < 0 || target >= e.catalog.Len() || target > len(st.answers) {
		return ErrInvalidNavigation
	}

	st.answers = st.answers[:target]
	st.complete = false
	return nil
}

// Cancel drops any session for the participant. No-op when none exists.
func (e *Engine) Cancel(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
}

// Finalize removes a completed session once its submission has been
// persisted. Calling it for an unknown participant is harmless.
func (e *Engine) Finalize(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
}

// Position returns the index of the question the participant is
// currently being asked, i.e. the number of answers collected so far.
func (e *Engine) Position(userID int64) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.sessions[userID]
	if !ok {
		return 0, false
	}
	return len(st.answers), true
}

// Active reports whether the participant has an in-progress session.
func (e *Engine) Active(userID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.sessions[userID]
	return ok
}
