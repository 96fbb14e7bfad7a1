package pass

import "github.com/tos-network/flint/flint/diag"

// Result is what a hook or a subtree walk produces.
type Result[T any] struct {
	Element     T
	Diagnostics diag.Diagnostics
	Context     Context
	// DeleteCurrentStatement asks the enclosing block to drop the statement
	// being visited.
	DeleteCurrentStatement bool
}

// Keep returns el unchanged with no diagnostics.
func Keep[T any](el T, ctx Context) Result[T] {
	return Result[T]{Element: el, Context: ctx}
}

// Combine returns a result holding next's element, both results'
// diagnostics in order, the right-biased merge of their contexts and
// either deletion request.
func Combine[T, U any](prev Result[T], next Result[U]) Result[U] {
	diags := make(diag.Diagnostics, 0, len(prev.Diagnostics)+len(next.Diagnostics))
	diags = append(diags, prev.Diagnostics...)
	diags = append(diags, next.Diagnostics...)
	return Result[U]{
		Element:                next.Element,
		Diagnostics:            diags,
		Context:                prev.Context.Merge(next.Context),
		DeleteCurrentStatement: prev.DeleteCurrentStatement || next.DeleteCurrentStatement,
	}
}
