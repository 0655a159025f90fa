// Package pipeline builds ordered stage lists out of a validated token
// stream, splitting a command line on '|' the way a StageBase records
// one slot per CLI stage.
package pipeline

import (
	"strings"

	"github.com/osh-shell/osh/internal/lexer"
)

// Stage is one atomic command: an argv plus optional redirections.
type Stage struct {
	Argv    []string
	Infile  string
	Outfile string
	Append  bool
}

func (s Stage) HasInfile() bool  { return s.Infile != "" }
func (s Stage) HasOutfile() bool { return s.Outfile != "" }

// Pipeline is one or more connected stages plus the background flag and
// the unsplit command text, kept for display in the job table.
type Pipeline struct {
	Stages     []Stage
	Background bool
	Command    string
}

// Build consumes a single cmd_group's tokens (already validated) and
// produces a Pipeline. cmdText is the display text of this cmd_group,
// stored with surrounding whitespace trimmed for job-table display.
func Build(tokens []lexer.Token, cmdText string) Pipeline {
	var groups [][]lexer.Token
	cur := []lexer.Token{}
	background := false

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.PIPE:
			groups = append(groups, cur)
			cur = nil
		case lexer.AMP:
			background = true
		case lexer.EOF:
			// ignore, callers pass a bare cmd_group slice
		default:
			cur = append(cur, tok)
		}
	}
	groups = append(groups, cur)

	stages := make([]Stage, 0, len(groups))
	for _, g := range groups {
		stages = append(stages, buildStage(g))
	}

	return Pipeline{
		Stages:     stages,
		Background: background,
		Command:    strings.TrimSpace(cmdText),
	}
}

// buildStage walks one stage's tokens left to right: '<' consumes the
// next token as Infile, '>'/'>>' as Outfile (last occurrence wins for
// both), everything else is appended to argv.
func buildStage(tokens []lexer.Token) Stage {
	var s Stage
	for i := 0; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case lexer.LT:
			if i+1 < len(tokens) {
				i++
				s.Infile = tokens[i].Text
			}
		case lexer.GT:
			if i+1 < len(tokens) {
				i++
				s.Outfile = tokens[i].Text
				s.Append = false
			}
		case lexer.GTGT:
			if i+1 < len(tokens) {
				i++
				s.Outfile = tokens[i].Text
				s.Append = true
			}
		case lexer.NAME:
			s.Argv = append(s.Argv, tokens[i].Text)
		}
	}
	return s
}

// SplitCmdGroups splits a validated line's tokens on ';' into the raw
// token slices for each cmd_group, dropping the trailing EOF marker.
func SplitCmdGroups(tokens []lexer.Token) [][]lexer.Token {
	var groups [][]lexer.Token
	cur := []lexer.Token{}
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.SEMI:
			groups = append(groups, cur)
			cur = nil
		case lexer.EOF:
			groups = append(groups, cur)
			cur = nil
		default:
			cur = append(cur, tok)
		}
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
