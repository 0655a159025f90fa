package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osh-shell/osh/internal/lexer"
)

func TestSplitCmdGroups(t *testing.T) {
	groups := SplitCmdGroups(lexer.Lex("echo a ; echo b & ; echo c"))
	require.Len(t, groups, 3)
}

func TestBuildSimple(t *testing.T) {
	toks := lexer.Lex("echo hi | wc -c")
	groups := SplitCmdGroups(toks)
	require.Len(t, groups, 1)

	p := Build(groups[0], "echo hi | wc -c")
	require.Len(t, p.Stages, 2)
	assert.Equal(t, []string{"echo", "hi"}, p.Stages[0].Argv)
	assert.Equal(t, []string{"wc", "-c"}, p.Stages[1].Argv)
	assert.False(t, p.Background)
	assert.Equal(t, "echo hi | wc -c", p.Command)
}

func TestBuildRedirectionsAndBackground(t *testing.T) {
	toks := lexer.Lex("sort <in.txt >>out.txt &")
	groups := SplitCmdGroups(toks)
	p := Build(groups[0], "sort <in.txt >>out.txt &")

	require.Len(t, p.Stages, 1)
	st := p.Stages[0]
	assert.Equal(t, []string{"sort"}, st.Argv)
	assert.Equal(t, "in.txt", st.Infile)
	assert.Equal(t, "out.txt", st.Outfile)
	assert.True(t, st.Append)
	assert.True(t, p.Background)
}

func TestBuildLastRedirectionWins(t *testing.T) {
	toks := lexer.Lex("cmd >a >b")
	groups := SplitCmdGroups(toks)
	p := Build(groups[0], "cmd >a >b")
	assert.Equal(t, "b", p.Stages[0].Outfile)
}
