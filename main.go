package main

import (
	"fmt"
	"os"

	"github.com/osh-shell/osh/internal/config"
	"github.com/osh-shell/osh/internal/shell"
	"github.com/osh-shell/osh/internal/shlog"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := shlog.New(cfg.Debug)

	sh, err := shell.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sh.Run()
}
