package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexNames(t *testing.T) {
	toks := Lex("echo hi | wc -c")
	require.Equal(t, []Token{
		{Kind: NAME, Text: "echo"},
		{Kind: NAME, Text: "hi"},
		{Kind: PIPE},
		{Kind: NAME, Text: "wc"},
		{Kind: NAME, Text: "-c"},
		{Kind: EOF},
	}, toks)
}

func TestLexRedirAndAppend(t *testing.T) {
	toks := Lex("sort <in.txt >>out.txt")
	assert.Equal(t, []Token{
		{Kind: NAME, Text: "sort"},
		{Kind: LT},
		{Kind: NAME, Text: "in.txt"},
		{Kind: GTGT},
		{Kind: NAME, Text: "out.txt"},
		{Kind: EOF},
	}, toks)
}

func TestValidateAccepts(t *testing.T) {
	cases := []string{
		"echo hi",
		"echo hi | wc -c",
		"cmd1 ; cmd2",
		"sleep 5 &",
		"cat <in >out ; echo done &",
		"a | b | c",
	}
	for _, c := range cases {
		assert.True(t, Validate(Lex(c)), "expected %q to be valid", c)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []string{
		"",
		"|",
		"cmd |",
		"| cmd",
		"cmd ;",
		"; cmd",
		"cmd < ",
		"cmd >",
		"cmd & extra",
		"cmd && other",
	}
	for _, c := range cases {
		assert.False(t, Validate(Lex(c)), "expected %q to be invalid", c)
	}
}
