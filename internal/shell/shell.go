// Package shell is the top-level orchestrator: it owns the process-wide
// shell state and drives the read -> validate -> dispatch -> reap loop,
// the way a pipeline orchestrator owns shared state for its stages.
package shell

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/osh-shell/osh/internal/config"
	"github.com/osh-shell/osh/internal/executor"
	"github.com/osh-shell/osh/internal/input"
	"github.com/osh-shell/osh/internal/intrinsic"
	"github.com/osh-shell/osh/internal/job"
	"github.com/osh-shell/osh/internal/lexer"
	"github.com/osh-shell/osh/internal/pipeline"
	"github.com/osh-shell/osh/internal/procutil"
	"github.com/osh-shell/osh/internal/prompt"
	"github.com/osh-shell/osh/internal/signalctl"
	"github.com/osh-shell/osh/internal/termctl"
	"github.com/osh-shell/osh/internal/wait"
)

// Shell is the process-wide state: shell pid, job table, history,
// prev cwd, plus the collaborators (signal controller, terminal
// controller, executor) that act on it.
type Shell struct {
	zerolog.Logger

	cfg     *config.Config
	shellPid int

	jobs    *job.Table
	history *intrinsic.History
	cwd     *intrinsic.Cwd
	prompt  *prompt.Renderer

	sig  *signalctl.Controller
	term *termctl.Controller
	exec *executor.Executor

	exited atomic.Bool
}

// New wires up every collaborator: construct state, then hand shared
// references to the pieces that need them.
func New(cfg *config.Config, logger zerolog.Logger) (*Shell, error) {
	pr, err := prompt.New(cfg.User)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	s := &Shell{
		Logger:   logger,
		cfg:      cfg,
		shellPid: os.Getpid(),
		jobs:     job.NewTable(),
		history:  intrinsic.NewHistory(cfg.HistoryFile),
		cwd:      &intrinsic.Cwd{},
		prompt:   pr,
		sig:      signalctl.New(),
	}

	shellPgid, err := unix.Getpgid(s.shellPid)
	if err != nil {
		shellPgid = 0
	}

	s.exec = &executor.Executor{
		Jobs:      s.jobs,
		History:   s.history,
		Cwd:       s.cwd,
		Home:      cfg.Home,
		Sig:       s.sig,
		ShellPid:  s.shellPid,
		ShellPgid: shellPgid,
		Idle:      wait.NewTicker(10 * time.Millisecond),
		ExitHook:  s.Exit,
	}

	return s, nil
}

// Run installs terminal raw mode and signal forwarding, then drives the
// REPL until Exit is called (which does not return).
func (s *Shell) Run() {
	term, err := termctl.Enable(int(os.Stdin.Fd()))
	if err != nil {
		s.Warn().Err(err).Msg("failed to enable raw terminal mode; continuing with defaults")
	}
	s.term = term
	s.sig.Start()

	for {
		fmt.Print(s.prompt.Prompt())
		line, err := input.ReadLine(int(os.Stdin.Fd()))
		if err != nil {
			s.Exit()
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.runLine(line, true)
		s.reap()
	}
}

// runLine validates one line, records it to history (unless it is part
// of a replay chain — record is false there), then dispatches each
// ';'-separated cmd_group strictly sequentially, following any `log
// execute` replay chain iteratively without recording the replayed
// command.
func (s *Shell) runLine(line string, record bool) {
	tokens := lexer.Lex(line)
	if !lexer.Validate(tokens) {
		fmt.Println("Invalid Syntax!")
		return
	}
	if record {
		s.history.Record(line)
	}

	for _, group := range pipeline.SplitCmdGroups(tokens) {
		p := pipeline.Build(group, groupText(group))
		out := s.exec.Run(p)
		if out.Replay != "" {
			s.runReplayChain(out.Replay)
		}
	}
}

// runReplayChain follows the `log execute` reexec chain: each hop is
// re-validated, never recorded, and may itself resolve to another
// replay.
func (s *Shell) runReplayChain(cmd string) {
	current := cmd
	for current != "" {
		tokens := lexer.Lex(current)
		if !lexer.Validate(tokens) {
			fmt.Println("Invalid Syntax!")
			return
		}
		groups := pipeline.SplitCmdGroups(tokens)
		if len(groups) != 1 {
			s.runLine(current, false)
			return
		}
		p := pipeline.Build(groups[0], current)
		out := s.exec.Run(p)
		if out.Replay == "" {
			return
		}
		current = out.Replay
	}
}

// groupText reconstructs the display text of one cmd_group from its
// tokens; used for the job table's stored command string.
func groupText(tokens []lexer.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch t.Kind {
		case lexer.NAME:
			b.WriteString(t.Text)
		case lexer.PIPE:
			b.WriteByte('|')
		case lexer.AMP:
			b.WriteByte('&')
		case lexer.LT:
			b.WriteByte('<')
		case lexer.GT:
			b.WriteByte('>')
		case lexer.GTGT:
			b.WriteString(">>")
		}
	}
	return b.String()
}

// reap is called after every returning line: a non-blocking waitpid
// sweep over the job table, printing exit notifications and removing
// finished entries.
func (s *Shell) reap() {
	printedAny := false
	for _, j := range s.jobs.All() {
		wpid, ws, err := procutil.Wait4NoHang(j.Pid)
		if err != nil || wpid == 0 {
			continue
		}
		if ws.Stopped() {
			s.jobs.SetStopped(j.ID, true)
			continue
		}
		if ws.Continued() {
			s.jobs.SetStopped(j.ID, false)
			continue
		}
		s.jobs.Unlink(j.ID)
		printedAny = true
		if ws.Signaled() {
			fmt.Printf("\n%s with pid %d exited abnormally\n", j.Command, j.Pid)
		} else {
			fmt.Printf("\n%s with pid %d exited normally\n", j.Command, j.Pid)
		}
	}
	if printedAny {
		fmt.Println()
	}
}

// Exit is the exit hook: SIGKILL every tracked job, restore the
// terminal, print "logout" only when the calling process is the
// top-level shell process itself, and exit 0. It never returns.
func (s *Shell) Exit() {
	if !s.exited.CompareAndSwap(false, true) {
		select {}
	}

	for _, pid := range s.jobs.Pids() {
		_ = procutil.Kill(pid, unix.SIGKILL)
	}
	s.jobs.Clear()

	s.sig.Stop()
	if s.term != nil {
		_ = s.term.Restore()
	}

	if os.Getpid() == s.shellPid {
		fmt.Print("\nlogout\n")
	}
	os.Exit(0)
}
