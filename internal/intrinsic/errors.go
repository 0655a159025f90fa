package intrinsic

import "errors"

// ErrInvalidSyntax is the shared syntax-error sentinel wrapped by the
// builtins whose argument grammar doesn't parse; each builtin prefixes
// it with its own name ("reveal: ...", "log: ...") before printing.
var ErrInvalidSyntax = errors.New("Invalid Syntax!")
