package pass

import (
	"strconv"
	"testing"

	"github.com/nalgeon/be"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/env"
	"github.com/tos-network/flint/flint/types"
)

type noop struct{ Base }

func (noop) Name() string { return "noop" }

func sampleModule() *ast.Module {
	counter := &ast.ContractDeclaration{
		Identifier: ast.IdentAt("Counter", "c.flint", 1, 10),
		Members: []ast.ContractMember{
			&ast.VariableDeclaration{Identifier: ast.Ident("value"), Type: types.IntType, AssignedExpression: &ast.Literal{Kind: ast.IntegerLiteral, Value: "0"}},
			&ast.EventDeclaration{Identifier: ast.Ident("Bumped"), Variables: []*ast.VariableDeclaration{
				{Identifier: ast.Ident("by"), Type: types.IntType},
			}},
		},
	}
	bump := &ast.FunctionDeclaration{
		Signature: ast.FunctionSignatureDeclaration{
			Identifier: ast.Ident("bump"),
			Modifiers:  []string{"public", "mutating"},
			Parameters: []*ast.Parameter{{Identifier: ast.Ident("by"), Type: types.IntType}},
			ResultType: types.IntType,
		},
		Body: []ast.Statement{
			&ast.ExpressionStatement{Expr: &ast.VariableDeclaration{
				Identifier:         ast.Ident("next"),
				Type:               types.IntType,
				AssignedExpression: &ast.BinaryExpression{Op: ast.OpPlus, LHS: &ast.Identifier{Name: "value"}, RHS: &ast.Identifier{Name: "by"}},
			}},
			&ast.ExpressionStatement{Expr: &ast.BinaryExpression{Op: ast.OpAssign, LHS: &ast.Identifier{Name: "value"}, RHS: &ast.Identifier{Name: "next"}}},
			&ast.EmitStatement{Call: ast.Call("Bumped", &ast.Identifier{Name: "by"})},
			&ast.ReturnStatement{Expr: &ast.Identifier{Name: "next"}},
		},
	}
	behaviour := &ast.ContractBehaviourDeclaration{
		ContractIdentifier: ast.Ident("Counter"),
		CallerProtections:  []ast.CallerProtection{{Identifier: ast.Ident("any")}},
		Members:            []ast.ContractBehaviourMember{bump},
	}
	return &ast.Module{Declarations: []ast.TopLevelDeclaration{counter, behaviour}}
}

func TestNoopPassIsIdentity(t *testing.T) {
	m := sampleModule()
	before := m.String()
	e := env.New()

	out := (&Runner{Passes: []Pass{noop{}}}).Run(m, e)
	be.True(t, out.Module == m)
	be.True(t, out.Environment == e)
	be.Equal(t, len(out.Diagnostics), 0)
	be.Equal(t, out.Module.String(), before)
	be.Equal(t, out.Completed, []string{"noop"})
}

// deleter drops every emit and reports each drop.
type deleter struct{ Base }

func (deleter) Name() string { return "deleter" }

func (deleter) ProcessStatement(s ast.Statement, ctx Context) Result[ast.Statement] {
	r := Keep(s, ctx)
	if emit, ok := s.(*ast.EmitStatement); ok {
		r.DeleteCurrentStatement = true
		r.Diagnostics = diag.Diagnostics{diag.Warningf("TEST", emit.Span, "dropped emit %s", emit.Call.Identifier.Name)}
	}
	return r
}

func TestDeleteCurrentStatementPrunesBlock(t *testing.T) {
	m := sampleModule()
	out := (&Runner{Passes: []Pass{deleter{}}}).Run(m, env.New())

	body := m.Declarations[1].(*ast.ContractBehaviourDeclaration).Members[0].(*ast.FunctionDeclaration).Body
	be.Equal(t, len(body), 3)
	for _, s := range body {
		_, isEmit := s.(*ast.EmitStatement)
		be.True(t, !isEmit)
	}
	be.Equal(t, out.Diagnostics.Codes(), []string{"TEST"})
	be.True(t, !out.Diagnostics.HasErrors())
}

// recorder notes what the context says at each identifier.
type recorder struct {
	Base
	seen map[string]Context
}

func (*recorder) Name() string { return "recorder" }

func (r *recorder) ProcessExpression(e ast.Expression, ctx Context) Result[ast.Expression] {
	switch x := e.(type) {
	case *ast.Identifier:
		r.seen[x.Name+"@"+strconv.Itoa(len(r.seen))] = ctx
	case *ast.FunctionCall:
		r.seen[x.Identifier.Name+"@"+strconv.Itoa(len(r.seen))] = ctx
	}
	return Keep(e, ctx)
}

func TestVisitorMaintainsContext(t *testing.T) {
	rec := &recorder{seen: map[string]Context{}}
	(&Runner{Passes: []Pass{rec}}).Run(sampleModule(), env.New())

	// value, by (initializer of next), value (assign lhs), next, Bumped, by, next (return)
	be.Equal(t, len(rec.seen), 7)

	first := rec.seen["value@0"]
	be.Equal(t, first.EnclosingTypeName(), "Counter")
	be.True(t, first.InFunctionOrSpecial())
	be.True(t, first.Scope().ContainsParameter("by"))
	be.True(t, !first.Scope().ContainsVariable("next"))
	be.Equal(t, len(first.CallerProtections()), 1)

	lhs := rec.seen["value@2"]
	be.True(t, lhs.IsLValue.Value())
	be.True(t, lhs.Scope().ContainsVariable("next"))

	rhs := rec.seen["next@3"]
	be.True(t, !rhs.IsLValue.Value())

	emitted := rec.seen["Bumped@4"]
	be.True(t, emitted.InEmit.Value())
	be.True(t, emitted.IsFunctionCall.Value())

	arg := rec.seen["by@5"]
	be.True(t, !arg.InEmit.Value())
	be.True(t, !arg.IsFunctionCall.Value())

	ret := rec.seen["next@6"]
	be.True(t, !ret.InEmit.IsSet())
}

func TestPropertyDefaultFlag(t *testing.T) {
	var flagged []bool
	p := &literalWatcher{onLiteral: func(ctx Context) {
		flagged = append(flagged, ctx.IsPropertyDefaultAssignment.Value())
	}}
	(&Runner{Passes: []Pass{p}}).Run(sampleModule(), env.New())
	be.Equal(t, flagged, []bool{true})
}

type literalWatcher struct {
	Base
	onLiteral func(Context)
}

func (*literalWatcher) Name() string { return "literals" }

func (w *literalWatcher) ProcessExpression(e ast.Expression, ctx Context) Result[ast.Expression] {
	if _, ok := e.(*ast.Literal); ok {
		w.onLiteral(ctx)
	}
	return Keep(e, ctx)
}

// failing reports one error per module.
type failing struct{ Base }

func (failing) Name() string { return "failing" }

func (failing) ProcessModule(m *ast.Module, ctx Context) Result[*ast.Module] {
	r := Keep(m, ctx)
	r.Diagnostics = diag.Diagnostics{diag.Errorf("FAIL", diag.Span{}, "always fails")}
	return r
}

func TestRunnerStopOnError(t *testing.T) {
	out := (&Runner{Passes: []Pass{failing{}, noop{}}, StopOnError: true}).Run(sampleModule(), env.New())
	be.Equal(t, out.Completed, []string{"failing"})
	be.True(t, out.Diagnostics.HasErrors())

	out = (&Runner{Passes: []Pass{failing{}, failing{}}}).Run(sampleModule(), env.New())
	be.Equal(t, out.Diagnostics.Codes(), []string{"FAIL", "FAIL"})
}

func TestContextMergeIsRightBiased(t *testing.T) {
	left := Context{IsLValue: Some(true), InEmit: Some(true)}
	right := Context{IsLValue: Some(false)}
	merged := left.Merge(right)

	v, ok := merged.IsLValue.Get()
	be.True(t, ok)
	be.True(t, !v)
	be.True(t, merged.InEmit.Value())
	be.True(t, !merged.InBecome.IsSet())
}

func TestCombine(t *testing.T) {
	a := Result[int]{Element: 1, Diagnostics: diag.Diagnostics{diag.Notef(diag.Span{}, "a")}, Context: Context{InEmit: Some(true)}}
	b := Result[string]{Element: "b", Diagnostics: diag.Diagnostics{diag.Notef(diag.Span{}, "b")}, DeleteCurrentStatement: true}
	c := Combine(a, b)

	be.Equal(t, c.Element, "b")
	be.Equal(t, len(c.Diagnostics), 2)
	be.Equal(t, c.Diagnostics[0].Message, "a")
	be.True(t, c.Context.InEmit.Value())
	be.True(t, c.DeleteCurrentStatement)
}
