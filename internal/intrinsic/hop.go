package intrinsic

import (
	"fmt"
	"io"
	"os"
)

// Cwd tracks the shell's previous working directory so Hop can
// implement `-`; the current directory is read with os.Getwd.
type Cwd struct {
	Prev string // "" means unset
}

// resolveAlias applies hop's directory aliases: ~, ., .., -, and
// anything else passed through as a literal path.
func resolveAlias(arg string, home string, cwd *Cwd) (target string, isNoop bool, err error) {
	switch arg {
	case "~":
		return home, false, nil
	case ".":
		return "", true, nil
	case "..":
		return "..", false, nil
	case "-":
		if cwd.Prev == "" {
			return "", false, errNoPrevDir
		}
		return cwd.Prev, false, nil
	default:
		return arg, false, nil
	}
}

var errNoPrevDir = fmt.Errorf("no previous directory")

// Hop implements `hop` (cd): each argument is attempted independently,
// left to right; on success PrevCwd is set to the pre-change directory;
// on failure "No such directory!" is printed and the next argument is
// tried. No arguments means chdir to home.
func Hop(w io.Writer, home string, cwd *Cwd, args []string) {
	if len(args) == 0 {
		args = []string{"~"}
	}
	for _, arg := range args {
		target, isNoop, err := resolveAlias(arg, home, cwd)
		if err != nil {
			fmt.Fprintln(w, "No such directory!")
			continue
		}
		if isNoop {
			continue
		}
		before, _ := os.Getwd()
		if err := os.Chdir(target); err != nil {
			fmt.Fprintln(w, "No such directory!")
			continue
		}
		cwd.Prev = before
	}
}
