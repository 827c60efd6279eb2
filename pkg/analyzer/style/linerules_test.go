package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func checkLines(t *testing.T, source string) []Issue {
	t.Helper()
	checker := NewLineChecker(0, 0, 0)
	collect := NewCollector()
	for i, raw := range strings.Split(strings.TrimSuffix(source, "\n"), "\n") {
		checker.Check(i+1, raw, collect)
	}
	return collect.Issues()
}

func codesAt(issues []Issue, line int) []Code {
	var codes []Code
	for _, issue := range issues {
		if issue.Line == line {
			codes = append(codes, issue.Code)
		}
	}
	return codes
}

func hasIssue(issues []Issue, line int, code Code) bool {
	for _, issue := range issues {
		if issue.Line == line && issue.Code == code {
			return true
		}
	}
	return false
}

func TestLineTooLong(t *testing.T) {
	long := "x = '" + strings.Repeat("a", 80) + "'"
	issues := checkLines(t, "x = 1\n"+long+"\n")

	assert.False(t, hasIssue(issues, 1, CodeLineTooLong))
	assert.True(t, hasIssue(issues, 2, CodeLineTooLong))
}

func TestLineTooLongCountsRunes(t *testing.T) {
	// 79 multibyte characters are within the limit.
	ok := "s = '" + strings.Repeat("é", 73) + "'"
	issues := checkLines(t, ok+"\n")

	assert.False(t, hasIssue(issues, 1, CodeLineTooLong))
}

func TestIndentation(t *testing.T) {
	source := "def f():\n" +
		"   x = 1\n" + // 3 spaces
		"    y = 2\n" + // 4 spaces
		"випадок = 1\n"
	issues := checkLines(t, source)

	assert.True(t, hasIssue(issues, 2, CodeIndentation))
	assert.False(t, hasIssue(issues, 3, CodeIndentation))
	assert.False(t, hasIssue(issues, 4, CodeIndentation))
}

func TestSemicolon(t *testing.T) {
	source := "x = 1;\n" +
		"y = 2; \n" +
		"s = 'a;b'\n" +
		"z = 3  # note;\n" +
		"w = 4\n"
	issues := checkLines(t, source)

	assert.True(t, hasIssue(issues, 1, CodeSemicolon))
	assert.True(t, hasIssue(issues, 2, CodeSemicolon), "trailing spaces after the semicolon")
	assert.False(t, hasIssue(issues, 3, CodeSemicolon), "semicolon inside a string")
	assert.False(t, hasIssue(issues, 4, CodeSemicolon), "semicolon inside a comment")
	assert.False(t, hasIssue(issues, 5, CodeSemicolon))
}

func TestSemicolonAfterString(t *testing.T) {
	issues := checkLines(t, "print('no error');\n")

	assert.True(t, hasIssue(issues, 1, CodeSemicolon))
}

func TestCommentSpacing(t *testing.T) {
	source := "x = 1 # one space\n" +
		"y = 2  # two spaces\n" +
		"# comment-only line\n" +
		"   # indented comment-only line\n" +
		"z = 3# none\n"
	issues := checkLines(t, source)

	assert.True(t, hasIssue(issues, 1, CodeCommentSpacing))
	assert.False(t, hasIssue(issues, 2, CodeCommentSpacing))
	assert.False(t, hasIssue(issues, 3, CodeCommentSpacing), "comment-only lines are exempt")
	assert.False(t, hasIssue(issues, 4, CodeCommentSpacing))
	assert.True(t, hasIssue(issues, 5, CodeCommentSpacing))
}

func TestTodo(t *testing.T) {
	source := "# TODO: fix this\n" +
		"x = 1  # ToDo later\n" +
		"s = 'TODO in string'\n" +
		"y = 2  # nothing pending\n"
	issues := checkLines(t, source)

	assert.True(t, hasIssue(issues, 1, CodeTodo))
	assert.True(t, hasIssue(issues, 2, CodeTodo), "case-insensitive match")
	assert.False(t, hasIssue(issues, 3, CodeTodo), "todo inside a string literal")
	assert.False(t, hasIssue(issues, 4, CodeTodo))
}

func TestBlankLines(t *testing.T) {
	source := "x = 1\n" +
		"\n\n\n\n" +
		"y = 2\n" +
		"\n\n" +
		"z = 3\n"
	issues := checkLines(t, source)

	// Four blank lines produce exactly one issue on the next code line.
	assert.Equal(t, []Code{CodeBlankLines}, codesAt(issues, 6))
	// Two blank lines are allowed.
	assert.False(t, hasIssue(issues, 9, CodeBlankLines))
}

func TestBlankLinesAtEndOfFile(t *testing.T) {
	issues := checkLines(t, "x = 1\n\n\n\n\n")

	// No code line follows the run, so nothing is reported.
	for _, issue := range issues {
		assert.NotEqual(t, CodeBlankLines, issue.Code)
	}
}

func TestConstructSpacing(t *testing.T) {
	source := "def  f():\n" +
		"    pass\n" +
		"class   MyClass:\n" +
		"    pass\n" +
		"def g():\n" +
		"    pass\n"
	issues := checkLines(t, source)

	assert.True(t, hasIssue(issues, 1, CodeConstructSpacing))
	assert.True(t, hasIssue(issues, 3, CodeConstructSpacing))
	assert.False(t, hasIssue(issues, 5, CodeConstructSpacing))

	for _, issue := range issues {
		if issue.Line == 1 && issue.Code == CodeConstructSpacing {
			assert.Equal(t, "Too many spaces after 'def'", issue.Message)
		}
		if issue.Line == 3 && issue.Code == CodeConstructSpacing {
			assert.Equal(t, "Too many spaces after 'class'", issue.Message)
		}
	}
}

func TestConstructSpacingInDocstring(t *testing.T) {
	source := "doc = '''\n" +
		"def  looks_like_code():\n" +
		"'''\n"
	issues := checkLines(t, source)

	assert.False(t, hasIssue(issues, 2, CodeConstructSpacing))
}

func TestMultipleIssuesOnOneLine(t *testing.T) {
	line := "   x = '" + strings.Repeat("a", 75) + "'; # todo\n"
	issues := checkLines(t, line)

	codes := codesAt(issues, 1)
	assert.Contains(t, codes, CodeLineTooLong)
	assert.Contains(t, codes, CodeIndentation)
	assert.Contains(t, codes, CodeSemicolon)
	assert.Contains(t, codes, CodeCommentSpacing)
	assert.Contains(t, codes, CodeTodo)
}

func TestCustomThresholds(t *testing.T) {
	checker := NewLineChecker(10, 2, 1)
	collect := NewCollector()

	checker.Check(1, "x = 'abcdefg'", collect) // 13 chars
	checker.Check(2, "  y = 1", collect)       // 2-space indent ok
	checker.Check(3, "", collect)
	checker.Check(4, "", collect)
	checker.Check(5, "z = 2", collect)

	issues := collect.Issues()
	assert.True(t, hasIssue(issues, 1, CodeLineTooLong))
	assert.False(t, hasIssue(issues, 2, CodeIndentation))
	assert.True(t, hasIssue(issues, 5, CodeBlankLines))
}

func TestCheckerReset(t *testing.T) {
	checker := NewLineChecker(0, 0, 0)
	collect := NewCollector()

	checker.Check(1, "doc = '''open", collect)
	checker.Reset()

	checker.Check(1, "def  f():", collect)
	assert.True(t, hasIssue(collect.Issues(), 1, CodeConstructSpacing),
		"reset clears the open-string state")
}
