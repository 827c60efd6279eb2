package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oezg/StaticCodeAnalyzer/pkg/parser"
)

func buildScopes(t *testing.T, source string) *ScopeTable {
	t.Helper()
	psr := parser.New()
	t.Cleanup(psr.Close)

	result, err := psr.Parse([]byte(source), "test.py")
	require.NoError(t, err)
	require.False(t, result.HasSyntaxError())

	return BuildScopes(result)
}

func findScope(table *ScopeTable, name string) *ScopeNode {
	for i := range table.Nodes {
		if table.Nodes[i].Name == name {
			return &table.Nodes[i]
		}
	}
	return nil
}

func TestBuildScopesModuleOnly(t *testing.T) {
	table := buildScopes(t, "x = 1\ny = 2\n")

	require.Len(t, table.Nodes, 1)
	assert.Equal(t, ScopeModule, table.Nodes[0].Kind)
	assert.Empty(t, table.Nodes[0].Bindings, "module-level assignments are not tracked")
}

func TestBuildScopesClassAndMethods(t *testing.T) {
	source := `class Parser:
    def parse(self, text):
        result = text
        return result

def helper():
    pass
`
	table := buildScopes(t, source)

	require.Len(t, table.Nodes, 4)

	cls := findScope(table, "Parser")
	require.NotNil(t, cls)
	assert.Equal(t, ScopeClass, cls.Kind)
	assert.Equal(t, 1, cls.Line)
	assert.Equal(t, 0, cls.Parent)

	method := findScope(table, "parse")
	require.NotNil(t, method)
	assert.Equal(t, ScopeFunction, method.Kind)
	assert.Equal(t, 2, method.Line)
	require.Len(t, method.Arguments, 2)
	assert.Equal(t, "self", method.Arguments[0].Name)
	assert.Equal(t, "text", method.Arguments[1].Name)
	require.Len(t, method.Bindings, 1)
	assert.Equal(t, "result", method.Bindings[0].Name)
	assert.Equal(t, 3, method.Bindings[0].Line)

	fn := findScope(table, "helper")
	require.NotNil(t, fn)
	assert.Equal(t, 0, fn.Parent)
}

func TestBuildScopesNestedFunctions(t *testing.T) {
	source := `def outer():
    a = 1
    def inner():
        b = 2
    return inner
`
	table := buildScopes(t, source)

	outer := findScope(table, "outer")
	inner := findScope(table, "inner")
	require.NotNil(t, outer)
	require.NotNil(t, inner)

	require.Len(t, outer.Bindings, 1)
	assert.Equal(t, "a", outer.Bindings[0].Name)
	require.Len(t, inner.Bindings, 1)
	assert.Equal(t, "b", inner.Bindings[0].Name)
}

func TestBuildScopesFirstBindingWins(t *testing.T) {
	source := `def f():
    count = 0
    count = count + 1
`
	table := buildScopes(t, source)

	fn := findScope(table, "f")
	require.NotNil(t, fn)
	require.Len(t, fn.Bindings, 1)
	assert.Equal(t, 2, fn.Bindings[0].Line)
}

func TestBuildScopesSkipsNonNameTargets(t *testing.T) {
	source := `def f(obj):
    obj.attr = 1
    obj[0] = 2
    a, b = 1, 2
    typed: int = 3
    plain = 4
`
	table := buildScopes(t, source)

	fn := findScope(table, "f")
	require.NotNil(t, fn)
	require.Len(t, fn.Bindings, 1)
	assert.Equal(t, "plain", fn.Bindings[0].Name)
}

func TestBuildScopesClassBodyAssignments(t *testing.T) {
	source := `class Config:
    DEBUG = True
`
	table := buildScopes(t, source)

	cls := findScope(table, "Config")
	require.NotNil(t, cls)
	assert.Empty(t, cls.Bindings, "class attributes are not function locals")
}

func TestParseArgumentsForms(t *testing.T) {
	source := `def f(plain, typed: int, with_default=1, typed_default: str = "x", *args, **kwargs):
    pass
`
	table := buildScopes(t, source)

	fn := findScope(table, "f")
	require.NotNil(t, fn)

	names := make([]string, len(fn.Arguments))
	for i, arg := range fn.Arguments {
		names[i] = arg.Name
	}
	assert.Equal(t, []string{"plain", "typed", "with_default", "typed_default", "args", "kwargs"}, names)
}

func TestClassifyDefaults(t *testing.T) {
	source := `def f(a=[], b={}, c={1}, d=list(), e=dict(), g=set(), h=None, i=0, j=(), k=frozenset()):
    pass
`
	table := buildScopes(t, source)

	fn := findScope(table, "f")
	require.NotNil(t, fn)
	require.Len(t, fn.Arguments, 10)

	kinds := map[string]DefaultKind{}
	for _, arg := range fn.Arguments {
		kinds[arg.Name] = arg.Default
	}

	assert.Equal(t, DefaultList, kinds["a"])
	assert.Equal(t, DefaultDict, kinds["b"])
	assert.Equal(t, DefaultSet, kinds["c"])
	assert.Equal(t, DefaultList, kinds["d"])
	assert.Equal(t, DefaultDict, kinds["e"])
	assert.Equal(t, DefaultSet, kinds["g"])
	assert.Equal(t, DefaultOther, kinds["h"])
	assert.Equal(t, DefaultOther, kinds["i"])
	assert.Equal(t, DefaultOther, kinds["j"])
	assert.Equal(t, DefaultOther, kinds["k"])

	assert.True(t, kinds["a"].Mutable())
	assert.False(t, kinds["h"].Mutable())
}

func TestClassifyComprehensionDefaults(t *testing.T) {
	source := `def f(a=[x for x in ""], b={k: 1 for k in ""}):
    pass
`
	table := buildScopes(t, source)

	fn := findScope(table, "f")
	require.NotNil(t, fn)
	assert.Equal(t, DefaultList, fn.Arguments[0].Default)
	assert.Equal(t, DefaultDict, fn.Arguments[1].Default)
}
