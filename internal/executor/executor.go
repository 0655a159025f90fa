// Package executor orchestrates fork/exec for a pipeline: it wires
// pipes between stages, assigns the whole pipeline to one process
// group, runs builtins in-process, and interleaves non-blocking child
// reaping with terminal-EOF polling. Each external stage is an exec.Cmd
// whose Stdin/Stdout are set directly to os.Pipe ends or redirection
// files before Start, with process-group handling layered on top.
package executor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/osh-shell/osh/internal/intrinsic"
	"github.com/osh-shell/osh/internal/job"
	"github.com/osh-shell/osh/internal/pipeline"
	"github.com/osh-shell/osh/internal/procutil"
	"github.com/osh-shell/osh/internal/signalctl"
	"github.com/osh-shell/osh/internal/wait"
)

const sigcont = unix.SIGCONT

// Executor holds everything a running pipeline needs beyond its own
// argv: the job table, history, cwd tracking, and the signal
// controller's foreground cell. One Executor is shared for the whole
// shell session, owning the state every stage reaches through it.
type Executor struct {
	Jobs      *job.Table
	History   *intrinsic.History
	Cwd       *intrinsic.Cwd
	Home      string
	Sig       *signalctl.Controller
	ShellPid  int
	ShellPgid int

	// Idle paces the wait loop's idle iterations (no child state change,
	// no stdin activity) instead of a hand-rolled time.Sleep busy loop.
	Idle *wait.Ticker

	// ExitHook is invoked from the foreground wait loop on terminal EOF
	// (POLLHUP/POLLERR, a zero-length read, or byte 0x04). It must not
	// return.
	ExitHook func()
}

func parseJobID(s string) (int, error) {
	return strconv.Atoi(s)
}

// Outcome reports what happened after running one pipeline.
type Outcome struct {
	// Replay is set only for a bare `log execute ...` pipeline.
	Replay string
	// StoppedJobID is set if the pipeline was stopped into the job
	// table (Ctrl-Z) instead of running to completion.
	StoppedJobID int
	// LaunchedJobID is set if the pipeline was launched in the
	// background.
	LaunchedJobID int
}

// Run executes one Pipeline, foreground or background.
func (e *Executor) Run(p pipeline.Pipeline) Outcome {
	if p.Background {
		return e.runBackground(p)
	}
	return e.runForeground(p)
}

// runForeground launches every stage, joins them into one process
// group, records that group as the terminal's foreground group, and
// drives the wait loop. A single bare builtin (no pipe, no
// redirection) is special-cased to run directly against os.Stdout so
// its Replay value can surface to the caller.
func (e *Executor) runForeground(p pipeline.Pipeline) Outcome {
	if len(p.Stages) == 1 {
		st := p.Stages[0]
		if len(st.Argv) > 0 && IsBuiltin(st.Argv[0]) && !st.HasInfile() && !st.HasOutfile() {
			_, replay := e.runBuiltin(st.Argv[0], st.Argv[1:], os.Stdout)
			return Outcome{Replay: replay}
		}
	}

	procs, err := e.launch(p, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return Outcome{}
	}
	if len(procs) == 0 {
		return Outcome{}
	}

	leader := procs[0].pid
	e.Sig.SetForeground(leader)
	if leader != 0 {
		_ = procutil.Tcsetpgrp(int(os.Stdin.Fd()), leader)
	}
	stoppedID := e.waitLoop(procs, p.Command)
	e.Sig.SetForeground(0)
	if e.ShellPgid != 0 {
		_ = procutil.Tcsetpgrp(int(os.Stdin.Fd()), e.ShellPgid)
	}
	if stoppedID != 0 {
		return Outcome{StoppedJobID: stoppedID}
	}
	return Outcome{}
}

// runBackground wraps the whole pipeline so the shell's own foreground
// wait loop is not used: it launches every stage with the first stage's
// stdin on /dev/null, lets them run in their own process group, and immediately registers
// the group leader as a running job. The job table entry is the only
// record of this pid; reaping it is left entirely to the shell's own
// reap(), which runs after every line. Nothing here blocks in
// cmd.Wait() or otherwise consumes the exit status, since that would
// race reap()'s raw Wait4 call for the same pid and whichever call
// wins would leave the other with ECHILD.
func (e *Executor) runBackground(p pipeline.Pipeline) Outcome {
	procs, err := e.launch(p, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return Outcome{}
	}
	if len(procs) == 0 {
		return Outcome{}
	}
	leader := procs[0].pid
	id := e.Jobs.AddBackground(leader, p.Command)
	fmt.Printf("[%d] %d\n", id, leader)
	return Outcome{LaunchedJobID: id}
}

// proc is one live stage: either a real external command or an
// in-process builtin running in its own goroutine.
type proc struct {
	pid      int
	builtin  bool
	doneCh   chan struct{}
	exitCode int
}

// launch wires N-1 pipes between the stages, applies per-stage
// redirections (which override the pipe wiring), starts every stage,
// and places them all in one process group. background controls
// whether the whole group detaches from the terminal.
func (e *Executor) launch(p pipeline.Pipeline, background bool) ([]*proc, error) {
	n := len(p.Stages)
	pipes := make([]*os.File, 0, n-1)
	pipew := make([]*os.File, 0, n-1)
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			for _, f := range pipes {
				f.Close()
			}
			for _, f := range pipew {
				f.Close()
			}
			return nil, err
		}
		pipes = append(pipes, r)
		pipew = append(pipew, w)
	}

	var procs []*proc
	var leaderPid int

	for i, st := range p.Stages {
		var stdin *os.File = os.Stdin
		var stdout *os.File = os.Stdout

		if i > 0 {
			stdin = pipes[i-1]
		}
		if i < n-1 {
			stdout = pipew[i]
		}
		if background && i == 0 {
			if devnull, err := os.Open(os.DevNull); err == nil {
				stdin = devnull
			}
		}

		var inFile, outFile *os.File
		if st.HasInfile() {
			f, err := os.Open(st.Infile)
			if err != nil {
				fmt.Println("No such file or directory")
				closeAll(pipes, pipew)
				continue
			}
			inFile, stdin = f, f
		}
		if st.HasOutfile() {
			flags := os.O_WRONLY | os.O_CREATE
			if st.Append {
				flags |= os.O_APPEND
			} else {
				flags |= os.O_TRUNC
			}
			f, err := os.OpenFile(st.Outfile, flags, 0644)
			if err != nil {
				fmt.Println("Unable to create file for writing")
				closeAll(pipes, pipew)
				continue
			}
			outFile, stdout = f, f
		}

		pr, err := e.startStage(st, stdin, stdout, leaderPid, background && i == 0)
		if inFile != nil {
			inFile.Close()
		}
		if outFile != nil {
			outFile.Close()
		}
		if i > 0 {
			pipes[i-1].Close()
		}
		if i < n-1 {
			pipew[i].Close()
		}
		if err != nil {
			continue
		}
		if leaderPid == 0 {
			leaderPid = pr.pid
		}
		procs = append(procs, pr)
	}

	return procs, nil
}

func closeAll(a, b []*os.File) {
	for _, f := range a {
		f.Close()
	}
	for _, f := range b {
		f.Close()
	}
}

// startStage starts one stage, either as an in-process builtin
// (writing to stdout, running in a goroutine so the wait loop can
// still poll it) or as a real subprocess joined into pgid (0 meaning
// "become the new group leader").
func (e *Executor) startStage(st pipeline.Stage, stdin, stdout *os.File, pgid int, ownGroup bool) (*proc, error) {
	if len(st.Argv) == 0 {
		return nil, fmt.Errorf("empty stage")
	}

	if IsBuiltin(st.Argv[0]) {
		return e.startBuiltinStage(st, stdout)
	}

	cmd := exec.Command(st.Argv[0], st.Argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    pgid,
	}

	if err := cmd.Start(); err != nil {
		fmt.Println("Command not found!")
		return nil, err
	}
	if ownGroup {
		_ = procutil.Setpgid(cmd.Process.Pid, cmd.Process.Pid)
	}
	return &proc{pid: cmd.Process.Pid}, nil
}

// startBuiltinStage runs a builtin in its own goroutine so it behaves
// like a live "process" to the wait loop. A builtin has no OS pid: its
// proc.pid stays 0, and the wait loop tracks it by a negative key of its
// own (never passed to a real waitpid call), watching doneCh instead.
// The goroutine writes to and closes a duplicate of stdout, since launch
// closes its own copy as soon as this returns.
func (e *Executor) startBuiltinStage(st pipeline.Stage, stdout *os.File) (*proc, error) {
	fd, err := unix.Dup(int(stdout.Fd()))
	if err != nil {
		return nil, err
	}
	out := os.NewFile(uintptr(fd), stdout.Name())
	pr := &proc{builtin: true, doneCh: make(chan struct{})}
	go func() {
		defer close(pr.doneCh)
		defer out.Close()
		code, _ := e.runBuiltin(st.Argv[0], st.Argv[1:], out)
		pr.exitCode = code
	}()
	return pr, nil
}

// waitLoop is the foreground wait loop: non-blocking reap of every live
// child, a short poll of stdin for EOF/Ctrl-D, and a short sleep when
// nothing changed. Returns a non-zero job id if the pipeline was
// stopped instead of completing.
func (e *Executor) waitLoop(procs []*proc, command string) int {
	live := make(map[int]bool)
	for i, pr := range procs {
		if pr.builtin {
			live[-(i + 1)] = true
		} else {
			live[pr.pid] = true
		}
	}

	for len(live) > 0 {
		changed := false

		for i, pr := range procs {
			if pr.builtin {
				key := -(i + 1)
				if !live[key] {
					continue
				}
				select {
				case <-pr.doneCh:
					delete(live, key)
					changed = true
				default:
				}
				continue
			}
			if !live[pr.pid] {
				continue
			}
			wpid, ws, err := procutil.Wait4NoHang(pr.pid)
			if err != nil {
				if procutil.IsNoChild(err) {
					delete(live, pr.pid)
					changed = true
				}
				continue
			}
			if wpid == 0 {
				continue
			}
			changed = true
			if ws.Stopped() {
				id := e.Jobs.AddStopped(procs[0].pid, command)
				fmt.Printf("[%d] Stopped %s\n", id, command)
				return id
			}
			delete(live, pr.pid)
		}

		if len(live) == 0 {
			break
		}

		if e.pollStdinEOF() {
			e.ExitHook()
			return 0
		}

		if !changed {
			e.Idle.Wait()
		}
	}
	return 0
}

// pollStdinEOF polls stdin with a ~100ms timeout; it reports true on
// POLLHUP/POLLERR, a zero-length read, or the byte 0x04 (Ctrl-D/EOT).
func (e *Executor) pollStdinEOF() bool {
	fds := []unix.PollFd{{Fd: int32(os.Stdin.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 100)
	if err != nil || n == 0 {
		return false
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
		return true
	}
	if fds[0].Revents&unix.POLLIN == 0 {
		return false
	}
	buf := make([]byte, 16)
	n2, err := unix.Read(int(os.Stdin.Fd()), buf)
	if err != nil || n2 == 0 {
		return true
	}
	for i := 0; i < n2; i++ {
		if buf[i] == 0x04 {
			return true
		}
	}
	return false
}
