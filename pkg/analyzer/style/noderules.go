package style

import "regexp"

// Naming contracts: CamelCase starts uppercase and allows alphanumerics
// only; snake_case allows lowercase letters, digits, and underscores,
// and must not start with a digit.
var (
	camelCasePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	snakeCasePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// CheckScopes runs the structural checks S008-S012 over a file's scope
// table. Scopes are visited in source order; within one scope the
// arguments and bindings keep declaration order, so a single function
// can surface several S010/S011/S012 issues, one per offending element.
func CheckScopes(table *ScopeTable, collect *Collector) {
	for _, scope := range table.Nodes {
		switch scope.Kind {
		case ScopeClass:
			checkClassName(&scope, collect)
		case ScopeFunction:
			checkFunctionScope(&scope, collect)
		}
	}
}

// checkClassName implements S008.
func checkClassName(scope *ScopeNode, collect *Collector) {
	if scope.Name != "" && !camelCasePattern.MatchString(scope.Name) {
		collect.Add(scope.Line, CodeClassName, scope.Name)
	}
}

// checkFunctionScope implements S009 (function name), S010 (argument
// names), S011 (local bindings), and S012 (mutable defaults). A nested
// function is checked as if independent; its bindings never leak into
// the enclosing scope's results.
func checkFunctionScope(scope *ScopeNode, collect *Collector) {
	if scope.Name != "" && !snakeCasePattern.MatchString(scope.Name) {
		collect.Add(scope.Line, CodeFunctionName, scope.Name)
	}

	for _, arg := range scope.Arguments {
		if arg.Name != "" && !snakeCasePattern.MatchString(arg.Name) {
			collect.Add(scope.Line, CodeArgumentName, arg.Name)
		}
		if arg.Default.Mutable() {
			collect.Add(scope.Line, CodeMutableDefault, arg.Name)
		}
	}

	for _, binding := range scope.Bindings {
		if !snakeCasePattern.MatchString(binding.Name) {
			collect.Add(binding.Line, CodeVariableName, binding.Name)
		}
	}
}
