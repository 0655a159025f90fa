// Package input implements the raw-mode line reader treated as an
// external collaborator: a function that returns one logical input
// line, or ErrEOF on EOT so the caller can run shell-exit. It reads
// byte-by-byte, handles the backspace erase sequence, and Ctrl-D ends
// the read immediately even mid-line.
package input

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	eot       = 0x04
	backspace = 127
	bsAlt     = '\b'
)

// ErrEOF is returned when the terminal delivered EOF/Ctrl-D; the caller
// (the shell's main loop) is expected to invoke its exit hook and not
// treat this as an ordinary error.
var ErrEOF = &eofError{}

type eofError struct{}

func (*eofError) Error() string { return "end of input" }

// ReadLine reads one line from fd in non-canonical mode, one byte at a
// time, echoing ordinary characters and handling backspace, until a
// carriage return / newline. It returns ErrEOF on a zero-length read or
// the EOT byte.
func ReadLine(fd int) (string, error) {
	buf := make([]byte, 0, 256)
	one := make([]byte, 1)

	for {
		n, err := unix.Read(fd, one)
		if err != nil || n == 0 {
			return "", ErrEOF
		}
		c := one[0]

		switch {
		case c == eot:
			return "", ErrEOF
		case c == '\r' || c == '\n':
			os.Stdout.Write([]byte{'\n'})
			return string(buf), nil
		case c == backspace || c == bsAlt:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				os.Stdout.Write([]byte{'\b', ' ', '\b'})
			}
		default:
			buf = append(buf, c)
			os.Stdout.Write([]byte{c})
		}
	}
}
