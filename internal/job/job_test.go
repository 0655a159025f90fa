package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBackgroundAssignsMonotonicIDs(t *testing.T) {
	tb := NewTable()
	id1 := tb.AddBackground(100, "sleep 5")
	id2 := tb.AddBackground(200, "sleep 10")
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)

	latest, ok := tb.Latest()
	require.True(t, ok)
	assert.Equal(t, 200, latest.Pid)
}

func TestFindUnlink(t *testing.T) {
	tb := NewTable()
	id := tb.AddBackground(42, "cmd")
	j, ok := tb.FindByID(id)
	require.True(t, ok)
	assert.Equal(t, 42, j.Pid)

	assert.True(t, tb.Unlink(id))
	_, ok = tb.FindByID(id)
	assert.False(t, ok)
}

func TestResolveByIDAndLatest(t *testing.T) {
	tb := NewTable()
	id := tb.AddBackground(7, "cmd")

	j, err := tb.Resolve(id, true)
	require.NoError(t, err)
	assert.Equal(t, 7, j.Pid)

	j, err = tb.Resolve(0, false)
	require.NoError(t, err)
	assert.Equal(t, 7, j.Pid)

	_, err = tb.Resolve(id+1, true)
	assert.ErrorIs(t, err, ErrNoSuchJob)

	empty := NewTable()
	_, err = empty.Resolve(0, false)
	assert.ErrorIs(t, err, ErrNoSuchJob)
}

func TestActivitiesSortedByCommand(t *testing.T) {
	jobs := []Job{
		{Pid: 2, Command: "zzz", Stopped: false},
		{Pid: 1, Command: "aaa", Stopped: true},
	}
	lines := Activities(jobs)
	require.Len(t, lines, 2)
	assert.Equal(t, "[1] : aaa - Stopped", lines[0])
	assert.Equal(t, "[2] : zzz - Running", lines[1])
}
