package style

import (
	"fmt"
	"sort"
)

// Code identifies one style check.
type Code string

// String implements fmt.Stringer.
func (c Code) String() string {
	return string(c)
}

const (
	CodeLineTooLong      Code = "S001"
	CodeIndentation      Code = "S002"
	CodeSemicolon        Code = "S003"
	CodeCommentSpacing   Code = "S004"
	CodeTodo             Code = "S005"
	CodeBlankLines       Code = "S006"
	CodeConstructSpacing Code = "S007"
	CodeClassName        Code = "S008"
	CodeFunctionName     Code = "S009"
	CodeArgumentName     Code = "S010"
	CodeVariableName     Code = "S011"
	CodeMutableDefault   Code = "S012"
)

// messageFormats holds the fixed human-readable text per code. Formats
// with a %s verb are parameterized with the issue subject.
var messageFormats = map[Code]string{
	CodeLineTooLong:      "Too long",
	CodeIndentation:      "Indentation is not a multiple of four",
	CodeSemicolon:        "Unnecessary semicolon",
	CodeCommentSpacing:   "At least two spaces required before inline comments",
	CodeTodo:             "TODO found",
	CodeBlankLines:       "More than two blank lines used before this line",
	CodeConstructSpacing: "Too many spaces after '%s'",
	CodeClassName:        "Class name '%s' should be written in CamelCase",
	CodeFunctionName:     "Function name '%s' should be written in snake_case",
	CodeArgumentName:     "Argument name '%s' should be snake_case",
	CodeVariableName:     "Variable '%s' in function should be snake_case",
	CodeMutableDefault:   "Default argument value is mutable",
}

// Message returns the human-readable text for a code, parameterized
// with the subject where the format calls for it.
func (c Code) Message(subject string) string {
	format, ok := messageFormats[c]
	if !ok {
		return string(c)
	}
	if subject != "" && containsVerb(format) {
		return fmt.Sprintf(format, subject)
	}
	return format
}

func containsVerb(format string) bool {
	for i := 0; i+1 < len(format); i++ {
		if format[i] == '%' && format[i+1] == 's' {
			return true
		}
	}
	return false
}

// Issue is a single style violation at a source line.
type Issue struct {
	Line    int    `json:"line"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Subject string `json:"subject,omitempty"`
}

// Collector accumulates issues for one file, dropping exact duplicates
// and returning them in a deterministic order.
type Collector struct {
	seen   map[issueKey]struct{}
	issues []Issue
}

type issueKey struct {
	line    int
	code    Code
	subject string
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[issueKey]struct{})}
}

// Add records an issue unless the same (line, code, subject) tuple was
// already recorded.
func (c *Collector) Add(line int, code Code, subject string) {
	key := issueKey{line: line, code: code, subject: subject}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.issues = append(c.issues, Issue{
		Line:    line,
		Code:    code,
		Message: code.Message(subject),
		Subject: subject,
	})
}

// Issues returns the collected issues sorted by ascending line number,
// ties broken by ascending code. The order is a total order regardless
// of insertion order, which keeps repeated runs byte-identical.
func (c *Collector) Issues() []Issue {
	sorted := make([]Issue, len(c.issues))
	copy(sorted, c.issues)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		if sorted[i].Code != sorted[j].Code {
			return sorted[i].Code < sorted[j].Code
		}
		return sorted[i].Subject < sorted[j].Subject
	})
	return sorted
}

// Len returns the number of collected issues.
func (c *Collector) Len() int {
	return len(c.issues)
}
