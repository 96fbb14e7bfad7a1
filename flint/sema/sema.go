// Package sema holds the passes that populate the semantic environment and
// check a module against it.
package sema

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/env"
	"github.com/tos-network/flint/flint/pass"
	"github.com/tos-network/flint/flint/types"
)

// CheckedModule is the semantic-checked representation handed to lowering.
type CheckedModule struct {
	AST         *ast.Module
	Environment *env.Environment
	// Passes lists the passes that ran, in order.
	Passes []string
}

// Options tunes Check. The zero value runs every default pass over a module
// that sees the prelude.
type Options struct {
	Passes      []pass.Pass
	StopOnError bool
	NoPrelude   bool
}

const (
	BuilderPassName  = "environment-builder"
	AnalyzerPassName = "semantic-analyzer"
	CheckerPassName  = "type-checker"
)

// DefaultPasses returns the passes Check runs when none are configured.
func DefaultPasses() []pass.Pass {
	return []pass.Pass{&EnvironmentBuilder{}, &SemanticAnalyzer{}, &TypeChecker{}}
}

// PassesByName resolves configured pass names. The environment builder is
// always first; naming it is optional.
func PassesByName(names []string) ([]pass.Pass, error) {
	out := []pass.Pass{&EnvironmentBuilder{}}
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case BuilderPassName:
		case AnalyzerPassName:
			out = append(out, &SemanticAnalyzer{})
		case CheckerPassName:
			out = append(out, &TypeChecker{})
		default:
			return nil, errors.Errorf("unknown pass %q", name)
		}
	}
	return out, nil
}

// Check registers the prelude, then runs the configured passes over m.
func Check(m *ast.Module, opts Options) (*CheckedModule, diag.Diagnostics) {
	var diags diag.Diagnostics
	if m == nil {
		return nil, diags
	}

	e := env.New()
	if !opts.NoPrelude {
		prelude := (&pass.Runner{Passes: []pass.Pass{&EnvironmentBuilder{}}}).Run(Prelude(), e)
		diags = append(diags, prelude.Diagnostics...)
	}

	passes := opts.Passes
	if len(passes) == 0 {
		passes = DefaultPasses()
	}
	out := (&pass.Runner{Passes: passes, StopOnError: opts.StopOnError}).Run(m, e)
	diags = append(diags, out.Diagnostics...)

	return &CheckedModule{
		AST:         out.Module,
		Environment: out.Environment,
		Passes:      out.Completed,
	}, diags
}

// spanOf finds a position for an expression that has none of its own.
func spanOf(e ast.Expression) diag.Span {
	switch x := e.(type) {
	case *ast.Identifier:
		return x.Span
	case *ast.SelfExpression:
		return x.Span
	case *ast.Literal:
		return x.Span
	case *ast.FunctionCall:
		return x.Identifier.Span
	case *ast.VariableDeclaration:
		return x.Identifier.Span
	case *ast.BinaryExpression:
		if s := spanOf(x.LHS); !s.IsZero() {
			return s
		}
		return spanOf(x.RHS)
	case *ast.SubscriptExpression:
		return spanOf(x.Base)
	case *ast.AttemptExpression:
		return x.Call.Identifier.Span
	case *ast.InoutExpression:
		return spanOf(x.Expr)
	case *ast.BracketedExpression:
		return spanOf(x.Expr)
	case *ast.RangeExpression:
		return spanOf(x.Start)
	case *ast.ArrayLiteral:
		for _, el := range x.Elements {
			if s := spanOf(el); !s.IsZero() {
				return s
			}
		}
	case *ast.DictionaryLiteral:
		for _, en := range x.Entries {
			if s := spanOf(en.Key); !s.IsZero() {
				return s
			}
		}
	}
	return diag.Span{}
}

// typeOf evaluates expr where the walk currently is.
func typeOf(expr ast.Expression, ctx pass.Context) types.RawType {
	return ctx.Env().TypeOf(expr, ctx.EnclosingTypeName(), ctx.TypeStates(), ctx.CallerProtections(), ctx.Scope())
}

// receiverType is the type the last element of the receiver trail
// evaluates to, or nil when the expression is not a member access.
func receiverType(ctx pass.Context) types.RawType {
	trail, ok := ctx.ReceiverTrail.Get()
	if !ok || len(trail) == 0 {
		return nil
	}
	t := types.StripInout(typeOf(trail[0], ctx))
	for _, next := range trail[1:] {
		if types.IsError(t) {
			return t
		}
		t = types.StripInout(ctx.Env().TypeOf(next, t.Name(), ctx.TypeStates(), ctx.CallerProtections(), nil))
	}
	return t
}

// unusableContract reports whether the walk is inside a behaviour block of
// a contract that was never declared; nothing in it was registered.
func unusableContract(ctx pass.Context) bool {
	d, ok := ctx.ContractBehaviourDeclaration.Get()
	return ok && !ctx.Env().IsContractDeclared(d.ContractIdentifier.Name)
}
