// Package procutil wraps the raw process-group and terminal syscalls the
// executor and terminal controller need (SysProcAttr{Setpgid:true},
// TIOCSPGRP, Wait4 with WNOHANG|WUNTRACED, signal forwarding), all built
// on golang.org/x/sys/unix.
package procutil

import (
	"golang.org/x/sys/unix"
)

// Setpgid moves process pid into process group pgid (pgid 0 or equal to
// pid makes it its own group leader).
func Setpgid(pid, pgid int) error {
	return unix.Setpgid(pid, pgid)
}

// Tcsetpgrp assigns the controlling terminal's foreground process group
// via the TIOCSPGRP ioctl.
func Tcsetpgrp(fd int, pgid int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
}

// Wait4NoHang performs one non-blocking waitpid(pid, &status, WNOHANG|WUNTRACED)
// call, returning wpid 0 and a nil error if the child has not changed
// state.
func Wait4NoHang(pid int) (wpid int, ws unix.WaitStatus, err error) {
	var status unix.WaitStatus
	wpid, err = unix.Wait4(pid, &status, unix.WNOHANG|unix.WUNTRACED, nil)
	return wpid, status, err
}

// WaitUntracedBlocking performs a blocking waitpid(-pid, &status, WUNTRACED),
// used by `fg` to wait for the resumed job to exit or stop again.
func WaitUntracedBlocking(pid int) (wpid int, ws unix.WaitStatus, err error) {
	var status unix.WaitStatus
	wpid, err = unix.Wait4(-pid, &status, unix.WUNTRACED, nil)
	return wpid, status, err
}

// Kill sends sig to pid; pgid < 0 semantics (kill(-pgid, sig)) are the
// caller's responsibility via the sign of pid, matching POSIX kill(2).
func Kill(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

// IsNoSuchProcess reports whether err is ESRCH, the "no such process"
// case that must be swallowed silently except for user-facing builtins.
func IsNoSuchProcess(err error) bool {
	return err == unix.ESRCH
}

// IsNoChild reports whether err is ECHILD, the "child already reaped"
// case the wait loop must treat as done rather than an error.
func IsNoChild(err error) bool {
	return err == unix.ECHILD
}
