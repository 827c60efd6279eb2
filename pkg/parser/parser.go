// Package parser wraps tree-sitter for parsing Python source files.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax reports that a file parsed into a tree containing syntax errors.
// Structural checks cannot run against such a tree.
type ErrSyntax struct {
	Path string
	Line uint32
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("%s: syntax error near line %d", e.Path, e.Line)
}

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed tree and its source text.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a new Python parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a Python source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(source, path)
}

// Parse parses Python source code. The returned result always carries a
// tree; callers that need a syntactically valid tree should check
// HasSyntaxError before walking it.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return &ParseResult{Tree: tree, Source: source, Path: path}, nil
}

// HasSyntaxError reports whether the parsed tree contains error nodes.
// Tree-sitter recovers from malformed input instead of failing, so this
// is the parse-failure signal for callers.
func (r *ParseResult) HasSyntaxError() bool {
	root := r.Tree.RootNode()
	return root == nil || root.HasError()
}

// SyntaxError returns an ErrSyntax describing the first error node, or
// nil when the tree is clean.
func (r *ParseResult) SyntaxError() error {
	if !r.HasSyntaxError() {
		return nil
	}
	line := uint32(1)
	if n := firstErrorNode(r.Tree.RootNode()); n != nil {
		line = n.StartPoint().Row + 1
	}
	return &ErrSyntax{Path: r.Path, Line: line}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := range int(node.ChildCount()) {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}

// IsPythonFile determines whether a path has a Python source extension.
func IsPythonFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw", ".pyi":
		return true
	}
	return false
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes. Returning false
// stops descent into the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the tree calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodesByType returns all nodes of a specific type in source order.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, source []byte) bool {
		if node.Type() == nodeType {
			results = append(results, node)
		}
		return true
	})
	return results
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// StartLine returns the 1-based source line of a node.
func StartLine(node *sitter.Node) uint32 {
	return node.StartPoint().Row + 1
}
