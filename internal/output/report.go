package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"

	"github.com/oezg/StaticCodeAnalyzer/pkg/analyzer/style"
)

// Report renders an analysis in the line-per-issue form editors and CI
// tooling expect: "<path>: Line <n>: <code> <message>".
type Report struct {
	Analysis    *style.Analysis
	ShowSummary bool
}

// NewReport wraps an analysis for rendering.
func NewReport(analysis *style.Analysis, showSummary bool) *Report {
	return &Report{Analysis: analysis, ShowSummary: showSummary}
}

func (r *Report) RenderData() any {
	return r.Analysis
}

func (r *Report) RenderText(w io.Writer, colored bool) error {
	codeColor := color.New(color.FgYellow)
	pathColor := color.New(color.FgCyan)
	warnColor := color.New(color.FgRed)

	for _, file := range r.Analysis.Files {
		for _, issue := range file.Issues {
			if colored {
				fmt.Fprintf(w, "%s: Line %d: %s %s\n",
					pathColor.Sprint(file.Path), issue.Line,
					codeColor.Sprint(string(issue.Code)), issue.Message)
			} else {
				fmt.Fprintf(w, "%s: Line %d: %s %s\n",
					file.Path, issue.Line, issue.Code, issue.Message)
			}
		}
		if file.ParseFailed {
			msg := fmt.Sprintf("%s: %s", file.Path, file.ParseError)
			if colored {
				warnColor.Fprintln(w, msg)
			} else {
				fmt.Fprintln(w, msg)
			}
		}
	}

	if r.ShowSummary {
		fmt.Fprintln(w)
		return r.summaryTable().RenderText(w, colored)
	}
	return nil
}

func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "# Style Report")
	fmt.Fprintln(w)

	for _, file := range r.Analysis.Files {
		if len(file.Issues) == 0 && !file.ParseFailed {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", file.Path)
		for _, issue := range file.Issues {
			fmt.Fprintf(w, "- Line %d: `%s` %s\n", issue.Line, issue.Code, issue.Message)
		}
		if file.ParseFailed {
			fmt.Fprintf(w, "- %s\n", file.ParseError)
		}
		fmt.Fprintln(w)
	}

	if r.ShowSummary {
		return r.summaryTable().RenderMarkdown(w)
	}
	return nil
}

// summaryTable builds the per-code issue count table.
func (r *Report) summaryTable() *Table {
	s := r.Analysis.Summary

	codes := make([]string, 0, len(s.ByCode))
	for code := range s.ByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []string{code, strconv.Itoa(s.ByCode[code])})
	}

	return &Table{
		Title:   "Summary",
		Headers: []string{"Code", "Count"},
		Rows:    rows,
		Footer: []string{
			fmt.Sprintf("%d files", s.TotalFiles),
			strconv.Itoa(s.TotalIssues),
		},
		Data: s,
	}
}
