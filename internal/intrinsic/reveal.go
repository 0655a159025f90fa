package intrinsic

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// RevealFlags is the parsed result of clustered -a/-l flags.
type RevealFlags struct {
	All  bool
	Long bool
}

// parseRevealArgs splits reveal's arguments into flags and at most one
// directory-indicator argument, matching handle_reveal_args: any
// unrecognized flag letter, or a second non-flag argument, is a syntax
// error.
func parseRevealArgs(args []string) (flags RevealFlags, dir string, err error) {
	seenDir := false
	for _, a := range args {
		if strings.HasPrefix(a, "-") && len(a) > 1 {
			for _, c := range a[1:] {
				switch c {
				case 'a':
					flags.All = true
				case 'l':
					flags.Long = true
				default:
					return flags, "", errRevealSyntax
				}
			}
			continue
		}
		if seenDir {
			return flags, "", errRevealSyntax
		}
		dir = a
		seenDir = true
	}
	return flags, dir, nil
}

var errRevealSyntax = fmt.Errorf("reveal: %w", ErrInvalidSyntax)

// Reveal implements `reveal` (ls): lists entries of the target
// directory (default cwd), skipping `.`/`..`, skipping hidden entries
// unless -a, sorted ASCII-lexicographically, emitted one-per-line (-l)
// or space-joined, with a bare newline for an empty directory.
func Reveal(w io.Writer, home string, cwd *Cwd, args []string) {
	flags, dirArg, err := parseRevealArgs(args)
	if err != nil {
		fmt.Fprintln(w, err.Error())
		return
	}

	target := "."
	if dirArg != "" {
		resolved, isNoop, rerr := resolveAlias(dirArg, home, cwd)
		if rerr != nil {
			fmt.Fprintln(w, "No such directory!")
			return
		}
		if !isNoop {
			target = resolved
		}
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		fmt.Fprintln(w, "No such directory!")
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		if !flags.All && strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if flags.Long {
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		if len(names) == 0 {
			fmt.Fprintln(w)
		}
		return
	}
	fmt.Fprintln(w, strings.Join(names, " "))
}
