package executor

import (
	"fmt"
	"io"
	"os"

	"github.com/osh-shell/osh/internal/intrinsic"
	"github.com/osh-shell/osh/internal/job"
	"github.com/osh-shell/osh/internal/procutil"
)

// builtinNames is the set recognized as the first argv entry of a
// stage.
var builtinNames = map[string]bool{
	"hop": true, "reveal": true, "log": true,
	"activities": true, "ping": true, "fg": true, "bg": true,
}

// IsBuiltin reports whether name is one of the recognized intrinsics.
func IsBuiltin(name string) bool {
	return builtinNames[name]
}

// runBuiltin executes one builtin stage in-process, writing to w.
//
// Go cannot fork() a multi-threaded runtime without immediately
// exec'ing (see DESIGN.md), so osh's builtins always run in the
// shell's own process and their side effects (hop's chdir, log's
// history mutation) are real, even when the builtin sits inside a
// multi-stage pipeline. This is a deliberate, documented deviation from
// the process-isolation a true fork(2) would give.
func (e *Executor) runBuiltin(name string, args []string, w io.Writer) (exitCode int, replay string) {
	switch name {
	case "hop":
		intrinsic.Hop(w, e.Home, e.Cwd, args)
		return 0, ""
	case "reveal":
		intrinsic.Reveal(w, e.Home, e.Cwd, args)
		return 0, ""
	case "log":
		res := intrinsic.Log(w, e.History, args)
		_ = res.Handled
		return 0, res.Replay
	case "ping":
		intrinsic.Ping(w, args)
		return 0, ""
	case "activities":
		e.reapTransient()
		lines := job.Activities(e.Jobs.All())
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
		return 0, ""
	case "fg":
		return e.builtinFg(w, args), ""
	case "bg":
		return e.builtinBg(w, args), ""
	default:
		return 0, ""
	}
}

// builtinFg implements `fg [n]`: resumes a stopped job (or the most
// recent job if n is omitted), makes it the foreground group, and
// blocks until it exits or stops again.
func (e *Executor) builtinFg(w io.Writer, args []string) int {
	j, err := e.resolveJobArg(args)
	if err != nil {
		fmt.Fprintln(w, jobErrorText(err))
		return 1
	}

	e.Jobs.Unlink(j.ID)
	fmt.Fprintln(w, j.Command)

	if j.Stopped {
		_ = procutil.Kill(j.Pid, sigcont)
	}
	e.Sig.SetForeground(j.Pid)
	_ = procutil.Tcsetpgrp(int(os.Stdin.Fd()), j.Pid)
	_, ws, err := procutil.WaitUntracedBlocking(j.Pid)
	e.Sig.SetForeground(0)
	if e.ShellPgid != 0 {
		_ = procutil.Tcsetpgrp(int(os.Stdin.Fd()), e.ShellPgid)
	}
	if err != nil && !procutil.IsNoChild(err) {
		return 1
	}
	if ws.Stopped() {
		id := e.Jobs.AddStopped(j.Pid, j.Command)
		fmt.Fprintf(w, "[%d] Stopped %s\n", id, j.Command)
	}
	return 0
}

// builtinBg implements `bg [n]`: only valid when the target job is
// stopped.
func (e *Executor) builtinBg(w io.Writer, args []string) int {
	j, err := e.resolveJobArg(args)
	if err != nil {
		fmt.Fprintln(w, jobErrorText(err))
		return 1
	}
	if !j.Stopped {
		fmt.Fprintln(w, jobErrorText(job.ErrJobRunning))
		return 1
	}
	_ = procutil.Kill(j.Pid, sigcont)
	e.Jobs.SetStopped(j.ID, false)
	fmt.Fprintf(w, "[%d] %s &\n", j.ID, j.Command)
	return 0
}

// resolveJobArg parses fg/bg's optional numeric job-id argument,
// defaulting to the most recently added job when omitted, and maps the
// result through the job table's own sentinel errors.
func (e *Executor) resolveJobArg(args []string) (job.Job, error) {
	if len(args) == 0 {
		return e.Jobs.Resolve(0, false)
	}
	id, err := parseJobID(args[0])
	if err != nil {
		return job.Job{}, job.ErrNoSuchJob
	}
	return e.Jobs.Resolve(id, true)
}

// jobErrorText maps a job package sentinel to the literal string fg/bg
// print for it.
func jobErrorText(err error) string {
	switch err {
	case job.ErrJobRunning:
		return "Job already running"
	default:
		return "No such job"
	}
}

// reapTransient non-blockingly reaps every tracked job before printing
// `activities` with one Wait4NoHang (WNOHANG|WUNTRACED) call each.
// Finished jobs are silently dropped from the table here; reap() only
// reports jobs still in the table, so no exit message is printed for
// them.
func (e *Executor) reapTransient() {
	for _, j := range e.Jobs.All() {
		wpid, ws, err := procutil.Wait4NoHang(j.Pid)
		if err != nil || wpid == 0 {
			continue
		}
		if ws.Exited() || ws.Signaled() {
			e.Jobs.Unlink(j.ID)
		} else if ws.Stopped() {
			e.Jobs.SetStopped(j.ID, true)
		} else if ws.Continued() {
			e.Jobs.SetStopped(j.ID, false)
		}
	}
}
