package chat

import (
	"sync"

	"github.com/teampulse/pulsebot/log"
)

// Messenger keeps the transcript clean: at most one live prompt/status
// message per participant. Every Show retires the previous message
// before sending the replacement.
type Messenger struct {
	gw      Gateway
	mu      sync.Mutex
	current map[int64]int // participant -> live message id
}

func NewMessenger(gw Gateway) *Messenger {
	return &Messenger{
		gw:      gw,
		current: make(map[int64]int),
	}
}

// Show deletes the participant's previous prompt (best effort — it may
// already be gone), sends the new one and records its id. The transport
// calls happen outside the messenger lock.
func (m *Messenger) Show(userID, chatID int64, text string, buttons ...Button) error {
	m.mu.Lock()
	prev, hadPrev := m.current[userID]
	delete(m.current, userID)
	m.mu.Unlock()

	if hadPrev {
		if err := m.gw.Delete(chatID, prev); err != nil {
			log.Debugf("chat.show.delete_previous: %s", err)
		}
	}

	id, err := m.gw.Send(chatID, text, buttons...)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current[userID] = id
	m.mu.Unlock()
	return nil
}

// Clear forgets the recorded message without touching the transcript.
func (m *Messenger) Clear(userID int64) {
	m.mu.Lock()
	delete(m.current, userID)
	m.mu.Unlock()
}

// Current returns the live message id, if one is tracked.
func (m *Messenger) Current(userID int64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.current[userID]
	return id, ok
}
