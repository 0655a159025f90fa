package executor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osh-shell/osh/internal/intrinsic"
	"github.com/osh-shell/osh/internal/job"
	"github.com/osh-shell/osh/internal/lexer"
	"github.com/osh-shell/osh/internal/pipeline"
	"github.com/osh-shell/osh/internal/signalctl"
	"github.com/osh-shell/osh/internal/wait"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	dir := t.TempDir()
	return &Executor{
		Jobs:     job.NewTable(),
		History:  intrinsic.NewHistory(filepath.Join(dir, ".osh_history")),
		Cwd:      &intrinsic.Cwd{},
		Home:     dir,
		Sig:      signalctl.New(),
		ShellPid: os.Getpid(),
		Idle:     wait.NewTicker(time.Millisecond),
		ExitHook: func() {},
	}
}

func buildPipeline(t *testing.T, line string) pipeline.Pipeline {
	t.Helper()
	toks := lexer.Lex(line)
	require.True(t, lexer.Validate(toks))
	groups := pipeline.SplitCmdGroups(toks)
	require.Len(t, groups, 1)
	return pipeline.Build(groups[0], line)
}

func TestRunBackgroundPipelineRegistersJob(t *testing.T) {
	ex := newTestExecutor(t)
	p := buildPipeline(t, "true &")
	out := ex.Run(p)
	assert.NotZero(t, out.LaunchedJobID)

	j, ok := ex.Jobs.FindByID(out.LaunchedJobID)
	require.True(t, ok)
	assert.Equal(t, "true &", j.Command)
}

func TestRunBareHopIsInProcess(t *testing.T) {
	ex := newTestExecutor(t)
	start, _ := os.Getwd()
	defer os.Chdir(start)

	p := buildPipeline(t, "hop "+ex.Home)
	out := ex.Run(p)
	assert.Empty(t, out.Replay)

	got, _ := os.Getwd()
	assert.Equal(t, ex.Home, got)
}

func TestRunLogExecuteReplaySurfaces(t *testing.T) {
	ex := newTestExecutor(t)
	ex.History.Record("echo a")

	p := buildPipeline(t, "log execute 1")
	out := ex.Run(p)
	assert.Equal(t, "echo a", out.Replay)
}

func TestIsBuiltinSet(t *testing.T) {
	for _, name := range []string{"hop", "reveal", "log", "activities", "ping", "fg", "bg"} {
		assert.True(t, IsBuiltin(name))
	}
	assert.False(t, IsBuiltin("echo"))
}
