package style

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oezg/StaticCodeAnalyzer/pkg/parser"
)

// ScopeKind distinguishes the definition sites a ScopeNode represents.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeClass
	ScopeFunction
)

// DefaultKind classifies an argument's default value by syntactic
// shape. The analysis never executes code, so mutability is decided
// from the expression form alone.
type DefaultKind int

const (
	DefaultNone DefaultKind = iota
	DefaultOther
	DefaultList
	DefaultDict
	DefaultSet
)

// Mutable reports whether the default shares mutable identity across
// calls.
func (k DefaultKind) Mutable() bool {
	switch k {
	case DefaultList, DefaultDict, DefaultSet:
		return true
	}
	return false
}

// Argument is one declared parameter of a function scope.
type Argument struct {
	Name    string
	Default DefaultKind
}

// Binding is the first assignment to a name inside a function body.
type Binding struct {
	Name string
	Line int
}

// ScopeNode is a class or function definition site. Parent is an index
// into the owning ScopeTable (module scope for top-level definitions),
// never a reciprocal pointer, so the table owns the whole tree.
type ScopeNode struct {
	Kind      ScopeKind
	Name      string
	Line      int
	Parent    int
	Arguments []Argument
	Bindings  []Binding
	Children  []int
}

// ScopeTable holds all scopes of one file in source (pre-order)
// position. Nodes[0] is always the module scope.
type ScopeTable struct {
	Nodes []ScopeNode
}

// BuildScopes constructs the scope table from a parsed file. The caller
// is expected to have checked for syntax errors first; an error tree
// yields whatever scopes were recoverable.
func BuildScopes(result *parser.ParseResult) *ScopeTable {
	table := &ScopeTable{}
	table.Nodes = append(table.Nodes, ScopeNode{Kind: ScopeModule, Parent: -1})
	table.collect(result.Tree.RootNode(), result.Source, 0)
	return table
}

// collect walks node's subtree attaching definitions and bindings to
// the scope at parentIdx. Descent stops at nested definitions, which
// become child scopes of their own.
func (t *ScopeTable) collect(node *sitter.Node, source []byte, parentIdx int) {
	if node == nil {
		return
	}

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		switch child.Type() {
		case "class_definition":
			idx := t.addScope(child, source, ScopeClass, parentIdx)
			t.collect(child.ChildByFieldName("body"), source, idx)
		case "function_definition":
			idx := t.addScope(child, source, ScopeFunction, parentIdx)
			t.Nodes[idx].Arguments = parseArguments(child, source)
			t.collect(child.ChildByFieldName("body"), source, idx)
		case "assignment":
			t.recordBinding(child, source, parentIdx)
			t.collect(child, source, parentIdx)
		default:
			t.collect(child, source, parentIdx)
		}
	}
}

// addScope appends a scope for a definition node and links it under its
// parent. Returns the new scope's table index.
func (t *ScopeTable) addScope(node *sitter.Node, source []byte, kind ScopeKind, parentIdx int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, ScopeNode{
		Kind:   kind,
		Name:   parser.GetNodeText(node.ChildByFieldName("name"), source),
		Line:   int(parser.StartLine(node)),
		Parent: parentIdx,
	})
	t.Nodes[parentIdx].Children = append(t.Nodes[parentIdx].Children, idx)
	return idx
}

// recordBinding records a plain-name assignment target in the enclosing
// function scope, keeping only the first binding per name. Annotated
// assignments, attribute and subscript targets, and tuple unpacking are
// not name-style checked. Bindings outside any function are ignored.
func (t *ScopeTable) recordBinding(node *sitter.Node, source []byte, scopeIdx int) {
	if t.Nodes[scopeIdx].Kind != ScopeFunction {
		return
	}
	if node.ChildByFieldName("type") != nil {
		return
	}
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}

	name := parser.GetNodeText(left, source)
	for _, b := range t.Nodes[scopeIdx].Bindings {
		if b.Name == name {
			return
		}
	}
	t.Nodes[scopeIdx].Bindings = append(t.Nodes[scopeIdx].Bindings, Binding{
		Name: name,
		Line: int(parser.StartLine(left)),
	})
}

// parseArguments extracts a function's parameters in declaration order,
// classifying any default value expression.
func parseArguments(def *sitter.Node, source []byte) []Argument {
	params := def.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var args []Argument
	for i := range int(params.NamedChildCount()) {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			args = append(args, Argument{Name: parser.GetNodeText(p, source)})
		case "default_parameter", "typed_default_parameter":
			args = append(args, Argument{
				Name:    parser.GetNodeText(p.ChildByFieldName("name"), source),
				Default: classifyDefault(p.ChildByFieldName("value"), source),
			})
		case "typed_parameter":
			if id := firstIdentifier(p); id != nil {
				args = append(args, Argument{Name: parser.GetNodeText(id, source)})
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := firstIdentifier(p); id != nil {
				args = append(args, Argument{Name: parser.GetNodeText(id, source)})
			}
		}
	}
	return args
}

// firstIdentifier returns the first named identifier child of a
// parameter wrapper node.
func firstIdentifier(node *sitter.Node) *sitter.Node {
	for i := range int(node.NamedChildCount()) {
		if c := node.NamedChild(i); c.Type() == "identifier" {
			return c
		}
	}
	return nil
}

// mutableConstructors are builtin calls whose result is a fresh mutable
// container; as a default they still share one instance across calls.
var mutableConstructors = map[string]DefaultKind{
	"list": DefaultList,
	"dict": DefaultDict,
	"set":  DefaultSet,
}

// classifyDefault maps a default value expression to its DefaultKind.
func classifyDefault(value *sitter.Node, source []byte) DefaultKind {
	if value == nil {
		return DefaultNone
	}
	switch value.Type() {
	case "list", "list_comprehension":
		return DefaultList
	case "dictionary", "dictionary_comprehension":
		return DefaultDict
	case "set", "set_comprehension":
		return DefaultSet
	case "call":
		fn := value.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" {
			if kind, ok := mutableConstructors[parser.GetNodeText(fn, source)]; ok {
				return kind
			}
		}
	}
	return DefaultOther
}
