// Package config implements a pflag+koanf loading pattern, scaled down
// to the shell binary's two startup flags: there is no subcommand
// structure (one interactive binary, not a pipeline of named stages),
// so a single pflag.FlagSet is merged into one koanf.Koanf directly via
// koanf/providers/posflag.
package config

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the resolved, cached startup configuration. Env lookups
// happen once here rather than being scattered as os.Getenv calls
// through the rest of the shell.
type Config struct {
	Debug       bool
	HistoryFile string
	Home        string
	User        string
}

// Parse builds the shell's flag set, loads it into a koanf.Koanf, reads
// HOME and USER from the environment (falling back to the current user's
// account record), and returns the resolved Config.
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("osh", pflag.ContinueOnError)
	fs.Bool("log", false, "enable debug/trace logging to stderr")
	fs.String("history-file", "", "override the history file path (default $HOME/.osh_history)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, err
	}

	home := os.Getenv("HOME")
	if home == "" {
		if u, err := user.Current(); err == nil {
			home = u.HomeDir
		}
	}

	username := os.Getenv("USER")
	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
	}

	historyFile := k.String("history-file")
	if historyFile == "" {
		historyFile = filepath.Join(home, ".osh_history")
	}

	return &Config{
		Debug:       k.Bool("log"),
		HistoryFile: historyFile,
		Home:        home,
		User:        username,
	}, nil
}
