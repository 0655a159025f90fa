package intrinsic

import (
	"fmt"
	"io"
)

// LogResult is the tri-state-plus-replay result of handling `log`,
// expressed as a sum type instead of an integer status code plus a
// side-channel pointer.
type LogResult struct {
	Handled bool
	Replay  string // non-empty only when a replay command was produced
}

// errLogSyntax is log's flavor of the shared syntax-error sentinel.
var errLogSyntax = fmt.Errorf("log: %w", ErrInvalidSyntax)

// Log implements `log`/`log purge`/`log execute K [...]`. Output goes to
// w; syntax errors are printed to w as well (errors print to
// stdout regardless of error).
func Log(w io.Writer, h *History, args []string) LogResult {
	if len(args) == 0 {
		for _, e := range h.Entries() {
			fmt.Fprintln(w, e)
		}
		return LogResult{Handled: true}
	}

	switch args[0] {
	case "purge":
		if len(args) != 1 {
			fmt.Fprintln(w, errLogSyntax)
			return LogResult{Handled: true}
		}
		h.Purge()
		return LogResult{Handled: true}

	case "execute":
		if len(args) < 2 {
			fmt.Fprintln(w, errLogSyntax)
			return LogResult{Handled: true}
		}
		cmd, ok := h.ExecuteTarget(args[1], args[2:])
		if !ok {
			fmt.Fprintln(w, errLogSyntax)
			return LogResult{Handled: true}
		}
		return LogResult{Handled: true, Replay: cmd}

	default:
		fmt.Fprintln(w, errLogSyntax)
		return LogResult{Handled: true}
	}
}
