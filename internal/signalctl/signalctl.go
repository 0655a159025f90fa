// Package signalctl forwards SIGINT/SIGTSTP to whichever process group
// currently owns the terminal, while the shell itself stays immune. The
// foreground process group is a single atomic cell updated only by the
// shell's main loop; os/signal channels stand in for a signal handler
// here, so no code runs in an actual signal-handler context.
package signalctl

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/osh-shell/osh/internal/procutil"
)

// Controller owns the foreground process-group cell and the goroutine
// that forwards SIGINT/SIGTSTP to it.
type Controller struct {
	fgPgid atomic.Int64
	ch     chan os.Signal
	done   chan struct{}
}

func New() *Controller {
	return &Controller{
		ch:   make(chan os.Signal, 8),
		done: make(chan struct{}),
	}
}

// SetForeground records the process group that should now receive
// forwarded signals. Pass 0 to mean "no foreground group": at most one
// process group is ever designated foreground, and when none is,
// forwarding becomes a no-op.
func (c *Controller) SetForeground(pgid int) {
	c.fgPgid.Store(int64(pgid))
}

func (c *Controller) Foreground() int {
	return int(c.fgPgid.Load())
}

// Start installs the SIGINT/SIGTSTP forwarding goroutine. The shell
// process's own default disposition for these signals is never restored
// to "terminate the shell" — they are consumed here for the lifetime of
// the controller.
func (c *Controller) Start() {
	signal.Notify(c.ch, unix.SIGINT, unix.SIGTSTP)
	go func() {
		for {
			select {
			case sig := <-c.ch:
				c.forward(sig)
			case <-c.done:
				return
			}
		}
	}()
}

func (c *Controller) forward(sig os.Signal) {
	pgid := c.Foreground()
	if pgid <= 0 {
		return
	}
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	_ = procutil.Kill(-pgid, unix.Signal(s))
}

// Stop ends the forwarding goroutine; signals are no longer forwarded
// (used on shell exit, after every job has already been SIGKILL'd).
func (c *Controller) Stop() {
	signal.Stop(c.ch)
	close(c.done)
}
