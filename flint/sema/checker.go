package sema

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/pass"
	"github.com/tos-network/flint/flint/types"
)

// TypeChecker checks that values flow into places of a compatible type.
// Expressions that already evaluate to the error type were reported by an
// earlier pass and are skipped.
type TypeChecker struct {
	pass.Base
}

func (*TypeChecker) Name() string { return CheckerPassName }

func (*TypeChecker) ProcessVariableDeclaration(d *ast.VariableDeclaration, ctx pass.Context) pass.Result[*ast.VariableDeclaration] {
	r := pass.Keep(d, ctx)
	if d.AssignedExpression == nil || d.Type == nil || unusableContract(ctx) {
		return r
	}
	got := typeOf(d.AssignedExpression, ctx)
	if types.IsError(got) || types.IsCompatible(got, d.Type) {
		return r
	}
	r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeInvalidDefault, d.Identifier.Span,
		"cannot initialize %q of type %s with a value of type %s", d.Name(), d.Type.Name(), got.Name()))
	return r
}

func (*TypeChecker) ProcessStatement(s ast.Statement, ctx pass.Context) pass.Result[ast.Statement] {
	r := pass.Keep(s, ctx)
	if unusableContract(ctx) {
		return r
	}

	switch s := s.(type) {
	case *ast.ReturnStatement:
		fn, ok := ctx.FunctionDeclaration.Get()
		if !ok {
			return r
		}
		if s.Expr == nil {
			if !fn.IsVoid() {
				r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeMismatchReturn, s.Span,
					"missing return value in %q, expected %s", fn.Name(), fn.Signature.ResultType.Name()))
			}
			return r
		}
		got := typeOf(s.Expr, ctx)
		switch {
		case types.IsError(got):
		case fn.IsVoid():
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeMismatchReturn, s.Span,
				"%q does not return a value", fn.Name()))
		case !types.IsCompatible(got, fn.Signature.ResultType):
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeMismatchReturn, s.Span,
				"cannot return a value of type %s from %q, expected %s", got.Name(), fn.Name(), fn.Signature.ResultType.Name()))
		}

	case *ast.IfStatement:
		got := typeOf(s.Condition, ctx)
		if !types.IsError(got) && !types.IsBasic(got, types.Bool) {
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeNonBoolCondition, spanOf(s.Condition),
				"if condition has type %s, expected Bool", got.Name()))
		}
	}
	return r
}

func (*TypeChecker) ProcessExpression(x ast.Expression, ctx pass.Context) pass.Result[ast.Expression] {
	r := pass.Keep(x, ctx)
	if unusableContract(ctx) || receiverType(ctx) != nil {
		return r
	}

	switch x := x.(type) {
	case *ast.BinaryExpression:
		if !x.Op.IsAssignment() {
			return r
		}
		lhs := types.StripInout(typeOf(x.LHS, ctx))
		rhs := typeOf(x.RHS, ctx)
		if types.IsError(lhs) || types.IsError(rhs) || types.IsCompatible(rhs, lhs) {
			return r
		}
		r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeMismatchAssignment, spanOf(x),
			"cannot assign a value of type %s to %s", rhs.Name(), lhs.Name()))

	case *ast.ArrayLiteral, *ast.DictionaryLiteral, *ast.RangeExpression:
		if types.IsError(typeOf(x, ctx)) && !hasErrorElement(x, ctx) {
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeInconsistentLiteral, spanOf(x),
				"literal elements do not share one type"))
		}

	case *ast.SubscriptExpression:
		base := types.StripInout(typeOf(x.Base, ctx))
		if types.IsError(base) {
			return r
		}
		if _, ok := types.ElementType(base); !ok || types.IsError(typeOf(x, ctx)) {
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeTypeUnresolvedExpression, spanOf(x),
				"cannot subscript a value of type %s", base.Name()))
		}
	}
	return r
}

// hasErrorElement reports an element that is itself unresolvable, which is
// reported where it occurs.
func hasErrorElement(x ast.Expression, ctx pass.Context) bool {
	var elems []ast.Expression
	switch x := x.(type) {
	case *ast.ArrayLiteral:
		elems = x.Elements
	case *ast.DictionaryLiteral:
		for _, en := range x.Entries {
			elems = append(elems, en.Key, en.Value)
		}
	case *ast.RangeExpression:
		elems = []ast.Expression{x.Start, x.End}
	}
	for _, el := range elems {
		if types.IsError(typeOf(el, ctx)) {
			return true
		}
	}
	return false
}
