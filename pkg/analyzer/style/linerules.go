package style

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Default rule thresholds. They mirror PEP 8 and are overridable
// through config, but the rule codes themselves are fixed.
const (
	DefaultMaxLineLength = 79
	DefaultIndentSize    = 4
	DefaultMaxBlankLines = 2
)

var constructPattern = regexp.MustCompile(`^ *(def|class)(  +)`)

// LineChecker runs the text-level checks S001-S007 over the physical
// lines of one file, in order, carrying the small rolling state the
// rules need (open-string flag, blank-line run). A checker must not be
// shared across files.
type LineChecker struct {
	maxLineLength int
	indentSize    int
	maxBlankLines int

	lex      lexState
	blankRun int
}

// NewLineChecker creates a checker with the given thresholds; zero
// values fall back to the defaults.
func NewLineChecker(maxLineLength, indentSize, maxBlankLines int) *LineChecker {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}
	if indentSize <= 0 {
		indentSize = DefaultIndentSize
	}
	if maxBlankLines <= 0 {
		maxBlankLines = DefaultMaxBlankLines
	}
	return &LineChecker{
		maxLineLength: maxLineLength,
		indentSize:    indentSize,
		maxBlankLines: maxBlankLines,
	}
}

// Check evaluates one raw line (trailing newline already removed) and
// records any violations. Malformed lines never abort the pass; every
// rule degrades to "no issue".
func (c *LineChecker) Check(index int, raw string, collect *Collector) {
	c.checkLength(index, raw, collect)

	if strings.TrimSpace(raw) == "" {
		// Blank lines still advance multi-line string state so a
		// docstring spanning a blank line stays classified as string.
		c.lex.Classify(index, raw)
		c.blankRun++
		return
	}

	if c.blankRun > c.maxBlankLines {
		collect.Add(index, CodeBlankLines, "")
	}
	c.blankRun = 0

	line := c.lex.Classify(index, strings.TrimRight(raw, " \t"))

	c.checkIndentation(&line, collect)
	c.checkSemicolon(&line, collect)
	c.checkCommentSpacing(&line, collect)
	c.checkTodo(&line, collect)
	c.checkConstructSpacing(&line, collect)
}

// checkLength implements S001. The limit applies to every physical
// line, blank and comment-only lines included; tabs count as one
// character.
func (c *LineChecker) checkLength(index int, raw string, collect *Collector) {
	if utf8.RuneCountInString(strings.TrimRight(raw, "\n")) > c.maxLineLength {
		collect.Add(index, CodeLineTooLong, "")
	}
}

// checkIndentation implements S002. Only leading spaces are counted;
// a tab stops the count.
func (c *LineChecker) checkIndentation(line *SourceLine, collect *Collector) {
	spaces := 0
	for spaces < len(line.Text) && line.Text[spaces] == ' ' {
		spaces++
	}
	if spaces%c.indentSize != 0 {
		collect.Add(line.Index, CodeIndentation, "")
	}
}

// checkSemicolon implements S003: the last non-whitespace character of
// the code span is ';'. Semicolons inside strings or comments never
// count.
func (c *LineChecker) checkSemicolon(line *SourceLine, collect *Collector) {
	code := line.CodeText()
	i := len(code) - 1
	for i >= 0 && (code[i] == ' ' || code[i] == '\t') {
		i--
	}
	if i >= 0 && code[i] == ';' && !line.InStringAt(i) {
		collect.Add(line.Index, CodeSemicolon, "")
	}
}

// checkCommentSpacing implements S004. Comment-only lines are exempt;
// an inline comment needs at least two spaces before its '#'.
func (c *LineChecker) checkCommentSpacing(line *SourceLine, collect *Collector) {
	if line.CommentStart < 0 {
		return
	}
	before := line.Text[:line.CommentStart]
	if strings.TrimSpace(before) == "" {
		return
	}
	if !strings.HasSuffix(before, "  ") {
		collect.Add(line.Index, CodeCommentSpacing, "")
	}
}

// checkTodo implements S005. Only the comment span is scanned; "todo"
// inside a string literal on the same line does not count.
func (c *LineChecker) checkTodo(line *SourceLine, collect *Collector) {
	comment := line.CommentText()
	if comment == "" {
		return
	}
	if strings.Contains(strings.ToLower(comment), "todo") {
		collect.Add(line.Index, CodeTodo, "")
	}
}

// checkConstructSpacing implements S007: more than one space between a
// def/class keyword and the name it introduces. Lines that begin inside
// a multi-line string are skipped; their text is not code.
func (c *LineChecker) checkConstructSpacing(line *SourceLine, collect *Collector) {
	if line.InString {
		return
	}
	if m := constructPattern.FindStringSubmatch(line.CodeText()); m != nil {
		collect.Add(line.Index, CodeConstructSpacing, m[1])
	}
}

// Reset clears rolling state so the checker can be reused for another
// file.
func (c *LineChecker) Reset() {
	c.lex = lexState{}
	c.blankRun = 0
}
