// Package style implements the S001-S012 style checks for Python
// source files. Text-level rules run over raw lines and tolerate files
// that do not parse; structural rules need a clean syntax tree and are
// skipped per file when parsing fails.
package style

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/oezg/StaticCodeAnalyzer/internal/cache"
	"github.com/oezg/StaticCodeAnalyzer/internal/fileproc"
	"github.com/oezg/StaticCodeAnalyzer/pkg/parser"
)

// Analyzer runs the full dual-pass check over files.
type Analyzer struct {
	parser        *parser.Parser
	maxLineLength int
	indentSize    int
	maxBlankLines int
	workers       int
	cache         *cache.Cache
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxLineLength overrides the S001 limit.
func WithMaxLineLength(n int) Option {
	return func(a *Analyzer) {
		a.maxLineLength = n
	}
}

// WithIndentSize overrides the S002 indent unit.
func WithIndentSize(n int) Option {
	return func(a *Analyzer) {
		a.indentSize = n
	}
}

// WithMaxBlankLines overrides the S006 blank-run limit.
func WithMaxBlankLines(n int) Option {
	return func(a *Analyzer) {
		a.maxBlankLines = n
	}
}

// WithWorkers sets the worker pool size for Analyze (0 = default).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithCache attaches a result cache so files whose content hash is
// unchanged skip re-analysis.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// New creates a style analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:        parser.New(),
		maxLineLength: DefaultMaxLineLength,
		indentSize:    DefaultIndentSize,
		maxBlankLines: DefaultMaxBlankLines,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile checks a single file.
func (a *Analyzer) AnalyzeFile(path string) (*FileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return a.AnalyzeSource(a.parser, path, source), nil
}

// AnalyzeSource checks one file's content. It never fails: the line
// rules run unconditionally, and a syntax error only suppresses the
// structural rules for this file.
func (a *Analyzer) AnalyzeSource(psr *parser.Parser, path string, source []byte) *FileResult {
	collect := NewCollector()

	checker := NewLineChecker(a.maxLineLength, a.indentSize, a.maxBlankLines)
	for i, raw := range splitLines(source) {
		checker.Check(i+1, raw, collect)
	}

	result := &FileResult{Path: path}

	parsed, err := psr.Parse(source, path)
	switch {
	case err != nil:
		result.ParseFailed = true
		result.ParseError = err.Error()
	case parsed.HasSyntaxError():
		result.ParseFailed = true
		result.ParseError = parsed.SyntaxError().Error()
	default:
		CheckScopes(BuildScopes(parsed), collect)
	}

	result.Issues = collect.Issues()
	return result
}

// Analyze checks all files in parallel. Results come back ordered by
// path so repeated runs emit byte-identical output regardless of
// worker scheduling. Per-file read or analysis errors are collected,
// never fatal.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	return a.AnalyzeWithProgress(ctx, files, nil)
}

// AnalyzeWithProgress is Analyze with a per-file progress callback.
func (a *Analyzer) AnalyzeWithProgress(ctx context.Context, files []string, onProgress fileproc.ProgressFunc) (*Analysis, error) {
	results, errs := fileproc.MapFilesN(ctx, files, a.workers, func(psr *parser.Parser, path string) (FileResult, error) {
		fr, err := a.analyzeCached(psr, path)
		if err != nil {
			return FileResult{}, err
		}
		return *fr, nil
	}, onProgress)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	analysis := &Analysis{Files: results, Summary: NewSummary()}
	for _, fr := range results {
		analysis.Summary.AddFile(fr)
	}

	if errs != nil {
		return analysis, errs
	}
	return analysis, nil
}

// analyzeCached consults the content-hash cache before running the
// checks, and stores fresh results after.
func (a *Analyzer) analyzeCached(psr *parser.Parser, path string) (*FileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if a.cache == nil {
		return a.AnalyzeSource(psr, path, source), nil
	}

	hash := cache.HashBytes(source)
	if data, ok := a.cache.GetWithHash(path, hash); ok {
		var cached FileResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	result := a.AnalyzeSource(psr, path, source)
	if data, err := json.Marshal(result); err == nil {
		_ = a.cache.SetWithHash(path, hash, data)
	}
	return result, nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// splitLines returns the physical lines of a file without their
// newlines. A trailing newline does not produce a phantom last line.
func splitLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
