package style

import "strings"

// Span is a half-open [Start, End) byte range within one line.
type Span struct {
	Start int
	End   int
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// SourceLine is the classification of one physical line: which byte
// ranges are string-literal content and where a trailing comment, if
// any, begins. It is recomputed per line and never mutated afterwards.
type SourceLine struct {
	Index        int
	Text         string
	StringSpans  []Span
	CommentStart int // -1 when the line has no comment
	InString     bool // line starts inside an unterminated multi-line string
}

// InStringAt reports whether the byte at pos is inside a string literal.
func (l *SourceLine) InStringAt(pos int) bool {
	for _, span := range l.StringSpans {
		if span.Contains(pos) {
			return true
		}
	}
	return false
}

// CommentText returns the comment span including the '#', or "" when
// the line has none.
func (l *SourceLine) CommentText() string {
	if l.CommentStart < 0 {
		return ""
	}
	return l.Text[l.CommentStart:]
}

// CodeText returns the line up to the comment, or the whole line when
// there is no comment. String literal content is still present; callers
// must consult StringSpans before matching inside it.
func (l *SourceLine) CodeText() string {
	if l.CommentStart < 0 {
		return l.Text
	}
	return l.Text[:l.CommentStart]
}

// lexState carries the only classification state that crosses line
// boundaries: whether a triple-quoted string is still open, and with
// which quote character. Single-quoted strings never span lines; an
// unterminated one is classified as string content to end of line.
type lexState struct {
	inTriple    bool
	tripleQuote byte
}

// Classify scans one raw line left to right and produces its
// SourceLine. Quote characters inside strings do not terminate
// classification early, escape sequences are honored, and a '#' only
// starts a comment outside any string. An unterminated triple quote
// propagates the in-string flag to the next line; at end of file the
// string is simply treated as running to the end, not as an error.
func (s *lexState) Classify(index int, text string) SourceLine {
	line := SourceLine{
		Index:        index,
		Text:         text,
		CommentStart: -1,
		InString:     s.inTriple,
	}

	i := 0
	if s.inTriple {
		end := s.scanTripleTail(text)
		if end < 0 {
			line.StringSpans = append(line.StringSpans, Span{0, len(text)})
			return line
		}
		line.StringSpans = append(line.StringSpans, Span{0, end})
		i = end
	}

	for i < len(text) {
		c := text[i]
		switch {
		case c == '#':
			line.CommentStart = i
			return line
		case c == '\'' || c == '"':
			start := i
			if i+2 < len(text) && text[i+1] == c && text[i+2] == c {
				s.inTriple = true
				s.tripleQuote = c
				end := s.scanTripleTail(text[i+3:])
				if end < 0 {
					line.StringSpans = append(line.StringSpans, Span{start, len(text)})
					return line
				}
				i += 3 + end
				line.StringSpans = append(line.StringSpans, Span{start, i})
			} else {
				i = scanSimpleString(text, i+1, c)
				line.StringSpans = append(line.StringSpans, Span{start, i})
			}
		default:
			i++
		}
	}

	return line
}

// scanTripleTail looks for the closing delimiter of the currently open
// triple-quoted string. It returns the index just past the delimiter,
// or -1 when the string continues beyond this line. A match clears the
// in-triple state.
func (s *lexState) scanTripleTail(text string) int {
	delim := strings.Repeat(string(s.tripleQuote), 3)
	i := 0
	for i < len(text) {
		if text[i] == '\\' {
			i += 2
			continue
		}
		if strings.HasPrefix(text[i:], delim) {
			s.inTriple = false
			return i + 3
		}
		i++
	}
	return -1
}

// scanSimpleString advances past a single-line string literal opened by
// quote, starting just after the opening quote. Returns the index just
// past the closing quote, or end of line for an unterminated literal.
func scanSimpleString(text string, i int, quote byte) int {
	for i < len(text) {
		if text[i] == '\\' {
			i += 2
			continue
		}
		if text[i] == quote {
			return i + 1
		}
		i++
	}
	return len(text)
}
