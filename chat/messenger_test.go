package chat

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	nextID  int
	sent    []int
	deleted []int
	sendErr error
	delErr  error
}

func (g *fakeGateway) Send(chatID int64, text string, buttons ...Button) (int, error) {
	if g.sendErr != nil {
		return 0, g.sendErr
	}
	g.nextID++
	g.sent = append(g.sent, g.nextID)
	return g.nextID, nil
}

func (g *fakeGateway) Edit(chatID int64, messageID int, text string, buttons ...Button) error {
	return nil
}

func (g *fakeGateway) Delete(chatID int64, messageID int) error {
	if g.delErr != nil {
		return g.delErr
	}
	g.deleted = append(g.deleted, messageID)
	return nil
}

func TestShowReplacesPreviousPrompt(t *testing.T) {
	gw := &fakeGateway{}
	m := NewMessenger(gw)

	require.NoError(t, m.Show(1, 1, "q0"))
	require.NoError(t, m.Show(1, 1, "q1"))
	require.NoError(t, m.Show(1, 1, "q2"))

	// every shown prompt except the live one was deleted
	assert.Equal(t, []int{1, 2}, gw.deleted)
	id, ok := m.Current(1)
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestShowToleratesDeleteFailure(t *testing.T) {
	gw := &fakeGateway{}
	m := NewMessenger(gw)
	require.NoError(t, m.Show(1, 1, "q0"))

	gw.delErr = errors.New("message to delete not found")
	require.NoError(t, m.Show(1, 1, "q1"))

	id, ok := m.Current(1)
	require.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestShowSendFailureKeepsNothingTracked(t *testing.T) {
	gw := &fakeGateway{}
	m := NewMessenger(gw)
	require.NoError(t, m.Show(1, 1, "q0"))

	gw.sendErr = errors.New("network error")
	assert.Error(t, m.Show(1, 1, "q1"))

	// the failed replacement does not resurrect the old id
	_, ok := m.Current(1)
	assert.False(t, ok)
}

func TestParticipantsTrackedIndependently(t *testing.T) {
	gw := &fakeGateway{}
	m := NewMessenger(gw)

	require.NoError(t, m.Show(1, 1, "for one"))
	require.NoError(t, m.Show(2, 2, "for two"))
	require.NoError(t, m.Show(1, 1, "again"))

	// only participant 1's first prompt was retired
	assert.Equal(t, []int{1}, gw.deleted)

	id, ok := m.Current(2)
	require.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestClear(t *testing.T) {
	gw := &fakeGateway{}
	m := NewMessenger(gw)
	require.NoError(t, m.Show(1, 1, "q0"))

	m.Clear(1)
	_, ok := m.Current(1)
	assert.False(t, ok)

	// next Show has nothing to delete
	require.NoError(t, m.Show(1, 1, "q1"))
	assert.Empty(t, gw.deleted)
}
