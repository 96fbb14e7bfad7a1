package pass

import (
	"github.com/tos-network/flint/flint/ast"
)

// Visitor walks a module for one pass. Process hooks run before a node's
// children are visited and PostProcess hooks after; a hook may return a
// replacement node. Local variable declarations inside bodies go through the
// VariableDeclaration hooks, not the Expression hooks.
type Visitor struct {
	pass Pass
}

func NewVisitor(p Pass) *Visitor {
	return &Visitor{pass: p}
}

func withElement[U, T any](r Result[T], el U) Result[U] {
	return Result[U]{
		Element:                el,
		Diagnostics:            r.Diagnostics,
		Context:                r.Context,
		DeleteCurrentStatement: r.DeleteCurrentStatement,
	}
}

// absorb folds a child walk into acc: diagnostics are appended, slots the
// visitor manages go back to acc's values, deletion requests are kept.
func absorb[T, U any](acc Result[T], child Result[U]) Result[T] {
	acc.Diagnostics = append(acc.Diagnostics, child.Diagnostics...)
	acc.Context = child.Context.restoreStructure(acc.Context)
	acc.DeleteCurrentStatement = acc.DeleteCurrentStatement || child.DeleteCurrentStatement
	return acc
}

func (v *Visitor) VisitModule(m *ast.Module, ctx Context) Result[*ast.Module] {
	acc := Combine(Keep(m, ctx), v.pass.ProcessModule(m, ctx))
	m = acc.Element
	for i, d := range m.Declarations {
		r := v.visitTopLevelDeclaration(d, acc.Context)
		m.Declarations[i] = r.Element
		acc = absorb(acc, r)
	}
	return Combine(acc, v.pass.PostProcessModule(m, acc.Context))
}

func (v *Visitor) visitTopLevelDeclaration(d ast.TopLevelDeclaration, ctx Context) Result[ast.TopLevelDeclaration] {
	switch d := d.(type) {
	case *ast.ContractDeclaration:
		r := v.visitContractDeclaration(d, ctx)
		return withElement[ast.TopLevelDeclaration](r, r.Element)
	case *ast.ContractBehaviourDeclaration:
		r := v.visitContractBehaviourDeclaration(d, ctx)
		return withElement[ast.TopLevelDeclaration](r, r.Element)
	case *ast.StructDeclaration:
		r := v.visitStructDeclaration(d, ctx)
		return withElement[ast.TopLevelDeclaration](r, r.Element)
	case *ast.EnumDeclaration:
		r := v.visitEnumDeclaration(d, ctx)
		return withElement[ast.TopLevelDeclaration](r, r.Element)
	case *ast.TraitDeclaration:
		r := v.visitTraitDeclaration(d, ctx)
		return withElement[ast.TopLevelDeclaration](r, r.Element)
	}
	return Keep(d, ctx)
}

func (v *Visitor) visitContractDeclaration(d *ast.ContractDeclaration, ctx Context) Result[*ast.ContractDeclaration] {
	inner := ctx
	inner.ContractDeclaration = Some(d)
	acc := Combine(Keep(d, inner), v.pass.ProcessContractDeclaration(d, inner))
	d = acc.Element
	acc.Context.ContractDeclaration = Some(d)

	for i, m := range d.Members {
		switch m := m.(type) {
		case *ast.VariableDeclaration:
			r := v.visitVariableDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.EventDeclaration:
			r := v.visitEventDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		}
	}

	acc = Combine(acc, v.pass.PostProcessContractDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

func (v *Visitor) visitContractBehaviourDeclaration(d *ast.ContractBehaviourDeclaration, ctx Context) Result[*ast.ContractBehaviourDeclaration] {
	inner := ctx
	inner.ContractBehaviourDeclaration = Some(d)
	acc := Combine(Keep(d, inner), v.pass.ProcessContractBehaviourDeclaration(d, inner))
	d = acc.Element
	acc.Context.ContractBehaviourDeclaration = Some(d)

	for i, m := range d.Members {
		switch m := m.(type) {
		case *ast.FunctionDeclaration:
			r := v.visitFunctionDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.SpecialDeclaration:
			r := v.visitSpecialDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.FunctionSignatureDeclaration:
			r := v.visitFunctionSignatureDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.SpecialSignatureDeclaration:
			r := v.visitSpecialSignatureDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		}
	}

	acc = Combine(acc, v.pass.PostProcessContractBehaviourDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

func (v *Visitor) visitStructDeclaration(d *ast.StructDeclaration, ctx Context) Result[*ast.StructDeclaration] {
	inner := ctx
	inner.StructDeclaration = Some(d)
	acc := Combine(Keep(d, inner), v.pass.ProcessStructDeclaration(d, inner))
	d = acc.Element
	acc.Context.StructDeclaration = Some(d)

	for i, m := range d.Members {
		switch m := m.(type) {
		case *ast.VariableDeclaration:
			r := v.visitVariableDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.FunctionDeclaration:
			r := v.visitFunctionDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.SpecialDeclaration:
			r := v.visitSpecialDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		}
	}

	acc = Combine(acc, v.pass.PostProcessStructDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

func (v *Visitor) visitEnumDeclaration(d *ast.EnumDeclaration, ctx Context) Result[*ast.EnumDeclaration] {
	inner := ctx
	inner.EnumDeclaration = Some(d)
	acc := Combine(Keep(d, inner), v.pass.ProcessEnumDeclaration(d, inner))
	d = acc.Element
	acc.Context.EnumDeclaration = Some(d)

	for i, c := range d.Cases {
		r := Combine(Keep(c, acc.Context), v.pass.ProcessEnumMember(c, acc.Context))
		r = Combine(r, v.pass.PostProcessEnumMember(r.Element, r.Context))
		d.Cases[i] = r.Element
		acc = absorb(acc, r)
	}

	acc = Combine(acc, v.pass.PostProcessEnumDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

func (v *Visitor) visitTraitDeclaration(d *ast.TraitDeclaration, ctx Context) Result[*ast.TraitDeclaration] {
	inner := ctx
	inner.TraitDeclaration = Some(d)
	acc := Combine(Keep(d, inner), v.pass.ProcessTraitDeclaration(d, inner))
	d = acc.Element
	acc.Context.TraitDeclaration = Some(d)

	for i, m := range d.Members {
		switch m := m.(type) {
		case *ast.FunctionDeclaration:
			r := v.visitFunctionDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.SpecialDeclaration:
			r := v.visitSpecialDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.FunctionSignatureDeclaration:
			r := v.visitFunctionSignatureDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.SpecialSignatureDeclaration:
			r := v.visitSpecialSignatureDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		case *ast.EventDeclaration:
			r := v.visitEventDeclaration(m, acc.Context)
			d.Members[i] = r.Element
			acc = absorb(acc, r)
		}
	}

	acc = Combine(acc, v.pass.PostProcessTraitDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

func (v *Visitor) visitEventDeclaration(d *ast.EventDeclaration, ctx Context) Result[*ast.EventDeclaration] {
	inner := ctx
	inner.EventDeclaration = Some(d)
	acc := Combine(Keep(d, inner), v.pass.ProcessEventDeclaration(d, inner))
	d = acc.Element
	acc.Context.EventDeclaration = Some(d)

	for i, variable := range d.Variables {
		r := v.visitVariableDeclaration(variable, acc.Context)
		d.Variables[i] = r.Element
		acc = absorb(acc, r)
	}

	acc = Combine(acc, v.pass.PostProcessEventDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

// visitVariableDeclaration handles properties, event variables and locals.
// A local extends the scope seen by the statements after it.
func (v *Visitor) visitVariableDeclaration(d *ast.VariableDeclaration, ctx Context) Result[*ast.VariableDeclaration] {
	acc := Combine(Keep(d, ctx), v.pass.ProcessVariableDeclaration(d, ctx))
	d = acc.Element

	if d.AssignedExpression != nil {
		exprCtx := acc.Context
		if !ctx.InFunctionOrSpecial() && !ctx.EventDeclaration.IsSet() {
			exprCtx.IsPropertyDefaultAssignment = Some(true)
		}
		r := v.visitExpression(d.AssignedExpression, exprCtx)
		d.AssignedExpression = r.Element
		acc = absorb(acc, r)
	}

	acc = Combine(acc, v.pass.PostProcessVariableDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	if ctx.InFunctionOrSpecial() {
		acc.Context.ScopeContext = Some(acc.Context.Scope().Declare(d))
	}
	return acc
}

func (v *Visitor) visitParameters(params []*ast.Parameter, ctx Context) Result[[]*ast.Parameter] {
	acc := Keep(params, ctx)
	for i, p := range params {
		r := Combine(Keep(p, acc.Context), v.pass.ProcessParameter(p, acc.Context))
		r = Combine(r, v.pass.PostProcessParameter(r.Element, r.Context))
		params[i] = r.Element
		acc = absorb(acc, r)
	}
	return acc
}

func (v *Visitor) visitFunctionDeclaration(d *ast.FunctionDeclaration, ctx Context) Result[*ast.FunctionDeclaration] {
	inner := ctx
	inner.FunctionDeclaration = Some(d)
	inner.ScopeContext = Some(ast.NewScopeContext(d.Signature.Parameters))
	acc := Combine(Keep(d, inner), v.pass.ProcessFunctionDeclaration(d, inner))
	d = acc.Element
	acc.Context.FunctionDeclaration = Some(d)

	params := v.visitParameters(d.Signature.Parameters, acc.Context)
	acc = absorb(acc, params)
	body := v.visitStatements(d.Body, acc.Context)
	d.Body = body.Element
	acc = absorb(acc, body)

	acc = Combine(acc, v.pass.PostProcessFunctionDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	acc.Context.ScopeContext = ctx.ScopeContext
	return acc
}

func (v *Visitor) visitSpecialDeclaration(d *ast.SpecialDeclaration, ctx Context) Result[*ast.SpecialDeclaration] {
	inner := ctx
	inner.SpecialDeclaration = Some(d)
	inner.ScopeContext = Some(ast.NewScopeContext(d.Signature.Parameters))
	acc := Combine(Keep(d, inner), v.pass.ProcessSpecialDeclaration(d, inner))
	d = acc.Element
	acc.Context.SpecialDeclaration = Some(d)

	params := v.visitParameters(d.Signature.Parameters, acc.Context)
	acc = absorb(acc, params)
	body := v.visitStatements(d.Body, acc.Context)
	d.Body = body.Element
	acc = absorb(acc, body)

	acc = Combine(acc, v.pass.PostProcessSpecialDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	acc.Context.ScopeContext = ctx.ScopeContext
	return acc
}

func (v *Visitor) visitFunctionSignatureDeclaration(d *ast.FunctionSignatureDeclaration, ctx Context) Result[*ast.FunctionSignatureDeclaration] {
	acc := Combine(Keep(d, ctx), v.pass.ProcessFunctionSignatureDeclaration(d, ctx))
	d = acc.Element
	acc = absorb(acc, v.visitParameters(d.Parameters, acc.Context))
	acc = Combine(acc, v.pass.PostProcessFunctionSignatureDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

func (v *Visitor) visitSpecialSignatureDeclaration(d *ast.SpecialSignatureDeclaration, ctx Context) Result[*ast.SpecialSignatureDeclaration] {
	acc := Combine(Keep(d, ctx), v.pass.ProcessSpecialSignatureDeclaration(d, ctx))
	d = acc.Element
	acc = absorb(acc, v.visitParameters(d.Parameters, acc.Context))
	acc = Combine(acc, v.pass.PostProcessSpecialSignatureDeclaration(d, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}

// visitStatements walks a block, dropping statements whose walk asked for
// deletion. The request does not propagate past the block.
func (v *Visitor) visitStatements(stmts []ast.Statement, ctx Context) Result[[]ast.Statement] {
	acc := Keep(stmts, ctx)
	kept := stmts[:0]
	for _, s := range stmts {
		r := v.visitStatement(s, acc.Context)
		acc = absorb(acc, r)
		if r.DeleteCurrentStatement {
			continue
		}
		kept = append(kept, r.Element)
	}
	acc.Element = kept
	acc.DeleteCurrentStatement = false
	return acc
}

func (v *Visitor) visitBlock(stmts []ast.Statement, ctx Context) Result[[]ast.Statement] {
	r := v.visitStatements(stmts, ctx)
	r.Context.ScopeContext = ctx.ScopeContext
	return r
}

func (v *Visitor) visitStatement(s ast.Statement, ctx Context) Result[ast.Statement] {
	acc := Combine(Keep(s, ctx), v.pass.ProcessStatement(s, ctx))

	switch s := acc.Element.(type) {
	case *ast.ExpressionStatement:
		r := v.visitExpression(s.Expr, acc.Context)
		s.Expr = r.Element
		acc = absorb(acc, r)

	case *ast.ReturnStatement:
		if s.Expr != nil {
			r := v.visitExpression(s.Expr, acc.Context)
			s.Expr = r.Element
			acc = absorb(acc, r)
		}

	case *ast.BecomeStatement:
		inner := acc.Context
		inner.InBecome = Some(true)
		r := v.visitExpression(s.State, inner)
		s.State = r.Element
		acc = absorb(acc, r)

	case *ast.EmitStatement:
		inner := acc.Context
		inner.InEmit = Some(true)
		r := v.visitExpression(s.Call, inner)
		if call, ok := r.Element.(*ast.FunctionCall); ok {
			s.Call = call
		}
		acc = absorb(acc, r)

	case *ast.IfStatement:
		cond := v.visitExpression(s.Condition, acc.Context)
		s.Condition = cond.Element
		acc = absorb(acc, cond)
		body := v.visitBlock(s.Body, acc.Context)
		s.Body = body.Element
		acc = absorb(acc, body)
		if s.ElseBody != nil {
			elseBody := v.visitBlock(s.ElseBody, acc.Context)
			s.ElseBody = elseBody.Element
			acc = absorb(acc, elseBody)
		}

	case *ast.ForStatement:
		iter := v.visitExpression(s.Iterable, acc.Context)
		s.Iterable = iter.Element
		acc = absorb(acc, iter)
		variable := v.visitVariableDeclaration(s.Variable, acc.Context)
		s.Variable = variable.Element
		body := v.visitBlock(s.Body, variable.Context)
		s.Body = body.Element
		acc = absorb(acc, variable)
		acc = absorb(acc, body)
		acc.Context.ScopeContext = ctx.ScopeContext
	}

	return Combine(acc, v.pass.PostProcessStatement(acc.Element, acc.Context))
}

func (v *Visitor) visitExpression(e ast.Expression, ctx Context) Result[ast.Expression] {
	if d, ok := e.(*ast.VariableDeclaration); ok {
		r := v.visitVariableDeclaration(d, ctx)
		return withElement[ast.Expression](r, r.Element)
	}

	node := ctx
	if _, ok := e.(*ast.FunctionCall); ok {
		node.IsFunctionCall = Some(true)
	}
	acc := Combine(Keep(e, node), v.pass.ProcessExpression(e, node))

	switch x := acc.Element.(type) {
	case *ast.BinaryExpression:
		lhsCtx := acc.Context
		if x.Op.IsAssignment() {
			lhsCtx.IsLValue = Some(true)
		}
		lhs := v.visitExpression(x.LHS, lhsCtx)
		x.LHS = lhs.Element
		acc = absorb(acc, lhs)

		rhsCtx := acc.Context
		if x.Op == ast.OpDot {
			trail := append([]ast.Expression(nil), acc.Context.ReceiverTrail.Value()...)
			rhsCtx.ReceiverTrail = Some(append(trail, x.LHS))
		} else {
			rhsCtx.IsLValue = Some(false)
		}
		rhs := v.visitExpression(x.RHS, rhsCtx)
		x.RHS = rhs.Element
		acc = absorb(acc, rhs)

	case *ast.FunctionCall:
		argCtx := acc.Context
		argCtx.IsFunctionCall = Some(false)
		argCtx.IsLValue = Some(false)
		argCtx.InEmit = Some(false)
		argCtx.ReceiverTrail = Slot[[]ast.Expression]{}
		for i, a := range x.Arguments {
			r := v.visitExpression(a.Expr, argCtx)
			x.Arguments[i].Expr = r.Element
			acc = absorb(acc, r)
		}

	case *ast.SubscriptExpression:
		base := v.visitExpression(x.Base, acc.Context)
		x.Base = base.Element
		acc = absorb(acc, base)
		idxCtx := acc.Context
		idxCtx.InSubscript = Some(true)
		idxCtx.IsLValue = Some(false)
		idxCtx.ReceiverTrail = Slot[[]ast.Expression]{}
		idx := v.visitExpression(x.Index, idxCtx)
		x.Index = idx.Element
		acc = absorb(acc, idx)

	case *ast.AttemptExpression:
		r := v.visitExpression(x.Call, acc.Context)
		if call, ok := r.Element.(*ast.FunctionCall); ok {
			x.Call = call
		}
		acc = absorb(acc, r)

	case *ast.InoutExpression:
		r := v.visitExpression(x.Expr, acc.Context)
		x.Expr = r.Element
		acc = absorb(acc, r)

	case *ast.BracketedExpression:
		r := v.visitExpression(x.Expr, acc.Context)
		x.Expr = r.Element
		acc = absorb(acc, r)

	case *ast.ArrayLiteral:
		for i, el := range x.Elements {
			r := v.visitExpression(el, acc.Context)
			x.Elements[i] = r.Element
			acc = absorb(acc, r)
		}

	case *ast.DictionaryLiteral:
		for i := range x.Entries {
			k := v.visitExpression(x.Entries[i].Key, acc.Context)
			x.Entries[i].Key = k.Element
			acc = absorb(acc, k)
			val := v.visitExpression(x.Entries[i].Value, acc.Context)
			x.Entries[i].Value = val.Element
			acc = absorb(acc, val)
		}

	case *ast.RangeExpression:
		start := v.visitExpression(x.Start, acc.Context)
		x.Start = start.Element
		acc = absorb(acc, start)
		end := v.visitExpression(x.End, acc.Context)
		x.End = end.Element
		acc = absorb(acc, end)
	}

	acc = Combine(acc, v.pass.PostProcessExpression(acc.Element, acc.Context))
	acc.Context = acc.Context.restoreStructure(ctx)
	return acc
}
