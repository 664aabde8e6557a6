package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/pulsebot/database"
)

const mainAdmin = int64(1000)

func newTestRoster(t *testing.T) *Roster {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, mainAdmin)
}

func TestMainAdmin(t *testing.T) {
	r := newTestRoster(t)
	assert.True(t, r.IsMain(mainAdmin))
	assert.True(t, r.IsAdmin(mainAdmin))
	assert.False(t, r.IsMain(2000))
	assert.False(t, r.IsAdmin(2000))
}

func TestAddRemove(t *testing.T) {
	r := newTestRoster(t)

	added, err := r.Add(2000)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, r.IsAdmin(2000))
	assert.False(t, r.IsMain(2000))

	added, err = r.Add(2000)
	require.NoError(t, err)
	assert.False(t, added, "second add reports already registered")

	removed, err := r.Remove(2000)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, r.IsAdmin(2000))

	removed, err = r.Remove(2000)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSeedIsIdempotent(t *testing.T) {
	r := newTestRoster(t)
	require.NoError(t, r.Seed([]int64{2000, 3000}))
	require.NoError(t, r.Seed([]int64{2000, 3000}))

	ids, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []int64{2000, 3000}, ids)
}

func TestAllIncludesMainAdminOnce(t *testing.T) {
	r := newTestRoster(t)
	require.NoError(t, r.Seed([]int64{2000}))

	all, err := r.All()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{mainAdmin, 2000}, all)

	// registering the main admin as sub-admin must not duplicate it
	_, err = r.Add(mainAdmin)
	require.NoError(t, err)
	all, err = r.All()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{mainAdmin, 2000}, all)
}
