package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func classifyAll(lines ...string) []SourceLine {
	var state lexState
	out := make([]SourceLine, len(lines))
	for i, text := range lines {
		out[i] = state.Classify(i+1, text)
	}
	return out
}

func TestClassifyComment(t *testing.T) {
	line := classifyAll(`x = 1  # set x`)[0]

	assert.Equal(t, 7, line.CommentStart)
	assert.Equal(t, "# set x", line.CommentText())
	assert.Equal(t, "x = 1  ", line.CodeText())
}

func TestClassifyHashInString(t *testing.T) {
	line := classifyAll(`tag = "#5"  # issue ref`)[0]

	assert.Equal(t, "# issue ref", line.CommentText())
	assert.True(t, line.InStringAt(7), "the # inside the string")
	assert.False(t, line.InStringAt(0))
}

func TestClassifyQuoteNesting(t *testing.T) {
	line := classifyAll(`s = "it's fine"; t = 'say "hi"'`)[0]

	assert.Equal(t, -1, line.CommentStart)
	// The apostrophe inside the double-quoted string does not open a
	// single-quoted string.
	assert.True(t, line.InStringAt(8))
	assert.False(t, line.InStringAt(15), "the semicolon")
}

func TestClassifyEscapedQuote(t *testing.T) {
	line := classifyAll(`s = "a \" b"; x = 1`)[0]

	assert.False(t, line.InStringAt(12), "the semicolon after the string")
	assert.True(t, line.InStringAt(9))
}

func TestClassifyTripleQuoteSpansLines(t *testing.T) {
	lines := classifyAll(
		`doc = """start`,
		`middle # not a comment`,
		`end"""  # real comment`,
		`x = 1`,
	)

	assert.False(t, lines[0].InString)
	assert.Equal(t, -1, lines[0].CommentStart)

	assert.True(t, lines[1].InString)
	assert.Equal(t, -1, lines[1].CommentStart)
	assert.True(t, lines[1].InStringAt(8))

	assert.True(t, lines[2].InString, "line starts inside the string")
	assert.Equal(t, "# real comment", lines[2].CommentText())

	assert.False(t, lines[3].InString)
}

func TestClassifyTripleQuoteSingleLine(t *testing.T) {
	line := classifyAll(`doc = '''one line'''  # done`)[0]

	assert.False(t, line.InString)
	assert.Equal(t, "# done", line.CommentText())

	next := classifyAll(`doc = '''one line'''`, `x = 1`)[1]
	assert.False(t, next.InString)
}

func TestClassifyUnterminatedSimpleString(t *testing.T) {
	lines := classifyAll(`s = "never closed`, `x = 1  # fine`)

	assert.True(t, lines[0].InStringAt(len(lines[0].Text)-1))
	// Single-quoted strings do not span lines.
	assert.False(t, lines[1].InString)
	assert.Equal(t, "# fine", lines[1].CommentText())
}

func TestClassifyBlankAndEmpty(t *testing.T) {
	line := classifyAll("")[0]
	assert.Equal(t, -1, line.CommentStart)
	assert.Empty(t, line.StringSpans)
}

func TestSpanContains(t *testing.T) {
	span := Span{Start: 2, End: 5}

	assert.False(t, span.Contains(1))
	assert.True(t, span.Contains(2))
	assert.True(t, span.Contains(4))
	assert.False(t, span.Contains(5))
}
