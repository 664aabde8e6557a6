package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	content := "questions:\n  - \"1) How was it?\"\n  - \"2) What's next?\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"1) How was it?", "2) What's next?"}, c.List())
}

func TestLoadEmptyListFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: []\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAddAppendsAtEnd(t *testing.T) {
	c := New([]string{"a", "b"})
	c.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, c.List())
}

func TestRemoveReindexesLaterQuestions(t *testing.T) {
	c := New([]string{"a", "b", "c"})

	removed, err := c.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed)

	q, ok := c.Question(1)
	require.True(t, ok)
	assert.Equal(t, "c", q)
	assert.Equal(t, 2, c.Len())
}

func TestRemoveOutOfRange(t *testing.T) {
	c := New([]string{"a", "b"})
	for _, i := range []int{-1, 2, 10} {
		_, err := c.Remove(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", i)
	}
}

func TestRemoveKeepsAtLeastOneQuestion(t *testing.T) {
	c := New([]string{"only"})
	_, err := c.Remove(0)
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestQuestionOutOfBounds(t *testing.T) {
	c := New([]string{"a"})
	_, ok := c.Question(1)
	assert.False(t, ok)
	_, ok = c.Question(-1)
	assert.False(t, ok)
}

func TestListReturnsCopy(t *testing.T) {
	c := New([]string{"a", "b"})
	got := c.List()
	got[0] = "mutated"

	q, _ := c.Question(0)
	assert.Equal(t, "a", q)
}
