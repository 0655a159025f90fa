// Package termctl switches the controlling terminal into the
// non-canonical, no-echo mode the executor's EOT detection depends on,
// and guarantees restoration on any exit path. It layers
// golang.org/x/term's well-tested raw-mode base under a VMIN=1/VTIME=0
// tweak so a single byte is delivered to each read immediately.
package termctl

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Controller owns the saved terminal state for one fd (normally stdin)
// and restores it exactly once.
type Controller struct {
	fd       int
	saved    *term.State
	restored bool
}

// Enable saves the current terminal attributes, switches to raw mode via
// term.MakeRaw, then overrides VMIN/VTIME so a single byte is delivered
// to each read immediately and byte 0x04 stays visible to the
// executor's poll loop.
func Enable(fd int) (*Controller, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	c := &Controller{fd: fd, saved: state}

	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		_ = c.Restore()
		return nil, err
	}
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, t); err != nil {
		_ = c.Restore()
		return nil, err
	}
	return c, nil
}

// Restore puts the terminal back exactly as Enable found it. Safe to
// call more than once (and from an exit hook racing normal shutdown).
func (c *Controller) Restore() error {
	if c == nil || c.restored || c.saved == nil {
		return nil
	}
	c.restored = true
	return term.Restore(c.fd, c.saved)
}
