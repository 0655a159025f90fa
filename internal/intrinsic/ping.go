package intrinsic

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/osh-shell/osh/internal/procutil"
)

// NormalizeSignal applies ping's signal modulus: s = sig mod 32; if
// s <= 0 then s += 32. This maps both 0 and 32 to 32; the modulus is
// implemented literally rather than special-casing 0 as invalid.
func NormalizeSignal(sig int) int {
	s := sig % 32
	if s <= 0 {
		s += 32
	}
	return s
}

// Ping implements `ping pid sig`: exactly two numeric arguments are
// required, else "Invalid syntax!" (lowercase s, distinct from the
// validator's "Invalid Syntax!").
func Ping(w io.Writer, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(w, "Invalid syntax!")
		return
	}
	pid, err1 := strconv.Atoi(args[0])
	sig, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(w, "Invalid syntax!")
		return
	}

	s := NormalizeSignal(sig)
	if err := procutil.Kill(pid, unix.Signal(s)); err != nil {
		if procutil.IsNoSuchProcess(err) {
			fmt.Fprintln(w, "No such process found")
			return
		}
		fmt.Fprintln(w, "No such process found")
		return
	}
	fmt.Fprintf(w, "Sent signal %d to process with pid %d\n", sig, pid)
}
