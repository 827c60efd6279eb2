package style

// FileResult holds the final sorted issues for one file. When the file
// failed to parse, ParseFailed is set, ParseError carries the detail,
// and Issues contains only the text-level findings.
type FileResult struct {
	Path        string  `json:"path"`
	Issues      []Issue `json:"issues"`
	ParseFailed bool    `json:"parse_failed,omitempty"`
	ParseError  string  `json:"parse_error,omitempty"`
}

// Analysis is the result of checking a set of files, ordered by path.
type Analysis struct {
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}

// Summary provides aggregate statistics across all checked files.
type Summary struct {
	TotalFiles      int            `json:"total_files"`
	TotalIssues     int            `json:"total_issues"`
	FilesWithIssues int            `json:"files_with_issues"`
	ParseFailures   int            `json:"parse_failures"`
	ByCode          map[string]int `json:"by_code"`
}

// NewSummary creates an initialized summary.
func NewSummary() Summary {
	return Summary{ByCode: make(map[string]int)}
}

// AddFile updates the summary with one file's result.
func (s *Summary) AddFile(result FileResult) {
	s.TotalFiles++
	if result.ParseFailed {
		s.ParseFailures++
	}
	if len(result.Issues) > 0 {
		s.FilesWithIssues++
	}
	for _, issue := range result.Issues {
		s.TotalIssues++
		s.ByCode[string(issue.Code)]++
	}
}

// Clean reports whether no issues were found and every file parsed.
func (a *Analysis) Clean() bool {
	return a.Summary.TotalIssues == 0 && a.Summary.ParseFailures == 0
}
