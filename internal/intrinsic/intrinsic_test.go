package intrinsic

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordSkipsLogAtomic(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))

	h.Record("log execute 1")
	assert.Empty(t, h.Entries())

	h.Record("echo a | log")
	assert.Empty(t, h.Entries())
}

func TestHistorySkipsAdjacentDuplicate(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))

	h.Record("echo a")
	h.Record("echo a")
	assert.Equal(t, []string{"echo a"}, h.Entries())
}

func TestHistoryMovesDuplicateToNewest(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))

	h.Record("echo a")
	h.Record("echo b")
	h.Record("echo a")
	assert.Equal(t, []string{"echo b", "echo a"}, h.Entries())
}

func TestHistoryEvictsOldestAt16(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))

	for i := 0; i < 16; i++ {
		h.Record(string(rune('a' + i)))
	}
	require.Len(t, h.Entries(), HistoryMax)
	assert.Equal(t, string(rune('a'+1)), h.Entries()[0])
	assert.Equal(t, string(rune('a'+15)), h.Entries()[HistoryMax-1])
}

func TestHistoryPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".osh_history")
	h := NewHistory(path)
	h.Record("echo a")
	h.Record("echo b")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo a\necho b\n", string(data))

	reloaded := NewHistory(path)
	assert.Equal(t, []string{"echo a", "echo b"}, reloaded.Entries())
}

func TestExecuteTargetNewestFirst(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))
	h.Record("echo a")
	h.Record("echo b")

	cmd, ok := h.ExecuteTarget("1", nil)
	require.True(t, ok)
	assert.Equal(t, "echo b", cmd)

	cmd, ok = h.ExecuteTarget("1", []string{"extra"})
	require.True(t, ok)
	assert.Equal(t, "echo b extra", cmd)

	_, ok = h.ExecuteTarget("99", nil)
	assert.False(t, ok)

	_, ok = h.ExecuteTarget("nope", nil)
	assert.False(t, ok)
}

func TestHopNoArgsGoesHome(t *testing.T) {
	home := t.TempDir()
	a := filepath.Join(home, "a")
	require.NoError(t, os.Mkdir(a, 0755))

	start, _ := os.Getwd()
	defer os.Chdir(start)

	cwd := &Cwd{}
	var buf bytes.Buffer
	Hop(&buf, home, cwd, nil)

	got, _ := os.Getwd()
	assert.Equal(t, home, got)
	assert.Empty(t, buf.String())
}

func TestHopNoSuchDirectoryContinues(t *testing.T) {
	home := t.TempDir()
	start, _ := os.Getwd()
	defer os.Chdir(start)

	cwd := &Cwd{}
	var buf bytes.Buffer
	Hop(&buf, home, cwd, []string{"/definitely/not/a/real/path", "."})

	assert.Contains(t, buf.String(), "No such directory!")
}

func TestRevealInvalidFlag(t *testing.T) {
	var buf bytes.Buffer
	Reveal(&buf, "", &Cwd{}, []string{"-x"})
	assert.Equal(t, "reveal: Invalid Syntax!\n", buf.String())
}

func TestRevealEmptyDirectoryPrintsBlankLine(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	Reveal(&buf, "", &Cwd{}, []string{dir})
	assert.Equal(t, "\n", buf.String())
}

func TestPingSignalModulus(t *testing.T) {
	assert.Equal(t, 32, NormalizeSignal(32))
	assert.Equal(t, 32, NormalizeSignal(0))
	assert.Equal(t, 32, NormalizeSignal(64))
	assert.Equal(t, 1, NormalizeSignal(33))
}

func TestPingWrongArgCount(t *testing.T) {
	var buf bytes.Buffer
	Ping(&buf, []string{"1"})
	assert.Equal(t, "Invalid syntax!\n", buf.String())
}

func TestLogNoArgsEmpty(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))
	var buf bytes.Buffer
	res := Log(&buf, h, nil)
	assert.True(t, res.Handled)
	assert.Empty(t, buf.String())
}

func TestLogExecuteReplay(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, ".osh_history"))
	h.Record("echo a")
	h.Record("echo b")

	var buf bytes.Buffer
	res := Log(&buf, h, []string{"execute", "1"})
	assert.True(t, res.Handled)
	assert.Equal(t, "echo b", res.Replay)
}
