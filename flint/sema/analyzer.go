package sema

import (
	"sort"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/env"
	"github.com/tos-network/flint/flint/pass"
	"github.com/tos-network/flint/flint/types"
)

// SemanticAnalyzer reports declarations that clash, references to things
// that were never declared, and calls or emits that resolve to nothing.
type SemanticAnalyzer struct {
	pass.Base
}

func (*SemanticAnalyzer) Name() string { return AnalyzerPassName }

func redeclaration(code string, id, prev ast.Identifier, what string) diag.Diagnostic {
	return diag.Errorf(code, id.Span, "invalid redeclaration of %s %q", what, id.Name).
		WithNote(diag.Notef(prev.Span, "%q previously declared here", prev.Name))
}

func checkTypeDeclaration(e *env.Environment, id ast.Identifier) diag.Diagnostics {
	var diags diag.Diagnostics
	if prev, ok := e.ConflictingTypeDeclaration(id); ok {
		diags = append(diags, redeclaration(diag.CodeSemaInvalidRedeclaration, id, prev, "type"))
	}
	return diags
}

// checkConformances validates the traits a contract or struct adopts and
// that it implements what they require.
func checkConformances(e *env.Environment, id ast.Identifier, traits []ast.Identifier) diag.Diagnostics {
	var diags diag.Diagnostics
	for _, tr := range traits {
		if !e.IsTraitDeclared(tr.Name) {
			diags = append(diags, diag.Errorf(diag.CodeSemaUndeclaredTrait, tr.Span,
				"%q conforms to undeclared trait %q", id.Name, tr.Name))
		}
	}

	conflicting := e.ConflictingTraitSignatures(id.Name)
	names := make([]string, 0, len(conflicting))
	for name := range conflicting {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d := diag.Errorf(diag.CodeSemaInconsistentTraitSig, id.Span,
			"traits adopted by %q declare %q with different signatures", id.Name, name)
		for _, fn := range conflicting[name] {
			d = d.WithNote(diag.Notef(fn.Declaration.Signature.Identifier.Span,
				"%s(%s) -> %s", name, types.Names(fn.ParameterTypes()), fn.ResultType().Name()))
		}
		diags = append(diags, d)
	}

	for _, fn := range e.UndefinedFunctions(id.Name) {
		diags = append(diags, diag.Errorf(diag.CodeSemaMissingTraitFunction, id.Span,
			"%q does not implement function %s(%s)", id.Name, fn.Name(), types.Names(fn.ParameterTypes())).
			WithNote(diag.Notef(fn.Declaration.Signature.Identifier.Span, "required here")))
	}
	for _, init := range e.UndefinedInitializers(id.Name) {
		diags = append(diags, diag.Errorf(diag.CodeSemaMissingTraitInitializer, id.Span,
			"%q does not implement init(%s)", id.Name, types.Names(init.ParameterTypes())).
			WithNote(diag.Notef(init.Declaration.Signature.Span, "required here")))
	}
	return diags
}

func (*SemanticAnalyzer) ProcessContractDeclaration(d *ast.ContractDeclaration, ctx pass.Context) pass.Result[*ast.ContractDeclaration] {
	r := pass.Keep(d, ctx)
	r.Diagnostics = append(r.Diagnostics, checkTypeDeclaration(ctx.Env(), d.Identifier)...)
	r.Diagnostics = append(r.Diagnostics, checkConformances(ctx.Env(), d.Identifier, d.Conformances)...)
	return r
}

func (*SemanticAnalyzer) ProcessStructDeclaration(d *ast.StructDeclaration, ctx pass.Context) pass.Result[*ast.StructDeclaration] {
	r := pass.Keep(d, ctx)
	r.Diagnostics = append(r.Diagnostics, checkTypeDeclaration(ctx.Env(), d.Identifier)...)
	r.Diagnostics = append(r.Diagnostics, checkConformances(ctx.Env(), d.Identifier, d.Conformances)...)
	return r
}

func (*SemanticAnalyzer) ProcessEnumDeclaration(d *ast.EnumDeclaration, ctx pass.Context) pass.Result[*ast.EnumDeclaration] {
	r := pass.Keep(d, ctx)
	r.Diagnostics = checkTypeDeclaration(ctx.Env(), d.Identifier)
	return r
}

func (*SemanticAnalyzer) ProcessTraitDeclaration(d *ast.TraitDeclaration, ctx pass.Context) pass.Result[*ast.TraitDeclaration] {
	r := pass.Keep(d, ctx)
	r.Diagnostics = checkTypeDeclaration(ctx.Env(), d.Identifier)
	return r
}

func (*SemanticAnalyzer) ProcessContractBehaviourDeclaration(d *ast.ContractBehaviourDeclaration, ctx pass.Context) pass.Result[*ast.ContractBehaviourDeclaration] {
	r := pass.Keep(d, ctx)
	e := ctx.Env()
	contract := d.ContractIdentifier.Name
	if !e.IsContractDeclared(contract) {
		r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaUndeclaredContract, d.ContractIdentifier.Span,
			"contract behaviour declaration for undeclared contract %q", contract))
		return r
	}

	if len(d.States) > 0 && !e.IsStateful(contract) {
		r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaStatesInStatelessContract, d.States[0].Identifier.Span,
			"contract %q declares no typestates", contract))
	} else {
		for _, s := range d.States {
			if !s.IsAny() && !e.IsTypeState(s.Name(), contract) {
				r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaUndeclaredTypeState, s.Identifier.Span,
					"%q is not a typestate of %q", s.Name(), contract))
			}
		}
	}

	for _, p := range d.CallerProtections {
		if p.IsAny() || e.IsPropertyDefined(p.Name(), contract) || len(e.Functions(p.Name(), contract)) > 0 {
			continue
		}
		r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaUndeclaredProtection, p.Identifier.Span,
			"caller protection %q is neither a property nor a function of %q", p.Name(), contract))
	}
	return r
}

func (*SemanticAnalyzer) ProcessVariableDeclaration(d *ast.VariableDeclaration, ctx pass.Context) pass.Result[*ast.VariableDeclaration] {
	r := pass.Keep(d, ctx)
	if unusableContract(ctx) || ctx.EventDeclaration.IsSet() {
		return r
	}

	if ctx.InFunctionOrSpecial() {
		if prev, ok := localDeclaration(ctx.Scope(), d.Name()); ok {
			r.Diagnostics = append(r.Diagnostics, redeclaration(diag.CodeSemaInvalidRedeclaration, d.Identifier, prev, "variable"))
		}
		return r
	}

	if typ, ok := ctx.EnclosingType(); ok {
		if prev, ok := ctx.Env().ConflictingPropertyDeclaration(d.Identifier, typ.Name); ok {
			r.Diagnostics = append(r.Diagnostics, redeclaration(diag.CodeSemaInvalidPropertyRedecl, d.Identifier, prev, "property"))
		}
	}
	return r
}

// localDeclaration finds a binding name already has in scope.
func localDeclaration(scope *ast.ScopeContext, name string) (ast.Identifier, bool) {
	if scope == nil {
		return ast.Identifier{}, false
	}
	for _, v := range scope.LocalVariables {
		if v.Name() == name {
			return v.Identifier, true
		}
	}
	for _, p := range scope.Parameters {
		if p.Identifier.Name == name {
			return p.Identifier, true
		}
	}
	return ast.Identifier{}, false
}

func (*SemanticAnalyzer) ProcessEventDeclaration(d *ast.EventDeclaration, ctx pass.Context) pass.Result[*ast.EventDeclaration] {
	r := pass.Keep(d, ctx)
	typ, ok := ctx.EnclosingType()
	if !ok {
		return r
	}
	if prev, ok := ctx.Env().ConflictingEventDeclaration(d.Identifier, typ.Name); ok {
		r.Diagnostics = append(r.Diagnostics, redeclaration(diag.CodeSemaInvalidEventRedecl, d.Identifier, prev, "event"))
	}
	return r
}

func (*SemanticAnalyzer) ProcessFunctionDeclaration(d *ast.FunctionDeclaration, ctx pass.Context) pass.Result[*ast.FunctionDeclaration] {
	r := pass.Keep(d, ctx)
	if unusableContract(ctx) {
		return r
	}
	if prev, ok := ctx.Env().ConflictingFunctionDeclaration(d, ctx.EnclosingTypeName()); ok {
		r.Diagnostics = append(r.Diagnostics, redeclaration(diag.CodeSemaInvalidRedeclaration, d.Signature.Identifier, prev, "function"))
	}
	return r
}

func (*SemanticAnalyzer) ProcessStatement(s ast.Statement, ctx pass.Context) pass.Result[ast.Statement] {
	r := pass.Keep(s, ctx)
	if unusableContract(ctx) {
		return r
	}
	e := ctx.Env()

	switch s := s.(type) {
	case *ast.ReturnStatement:
		if special, ok := ctx.SpecialDeclaration.Get(); ok && s.Expr != nil {
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaReturnInSpecial, s.Span,
				"%s cannot return a value", special.Signature.Kind))
		}

	case *ast.BecomeStatement:
		contract := ctx.EnclosingTypeName()
		id, ok := s.State.(*ast.Identifier)
		if !ok || !e.IsTypeState(id.Name, contract) {
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaUndeclaredTypeState, s.Span,
				"become target is not a typestate of %q", contract))
		}

	case *ast.EmitStatement:
		res := e.MatchEventCall(s.Call, ctx.EnclosingTypeName(), ctx.TypeStates(), ctx.CallerProtections(), ctx.Scope())
		if !res.IsMatched() && !hasErrorArgument(s.Call, ctx) {
			d := diag.Errorf(diag.CodeSemaNoMatchingEvent, s.Call.Identifier.Span,
				"no matching event for emit of %q", s.Call.Identifier.Name)
			for _, ev := range res.Candidates {
				d = d.WithNote(diag.Notef(ev.Declaration.Identifier.Span, "candidate: %s(%s)",
					ev.Name(), types.Names(ev.ParameterTypes())))
			}
			r.Diagnostics = append(r.Diagnostics, d)
		}
	}
	return r
}

// hasErrorArgument reports an argument that is already unresolvable, so the
// call itself is not reported again.
func hasErrorArgument(call *ast.FunctionCall, ctx pass.Context) bool {
	for _, arg := range call.Arguments {
		if types.IsError(typeOf(arg.Expr, ctx)) {
			return true
		}
	}
	return false
}

func (*SemanticAnalyzer) ProcessExpression(x ast.Expression, ctx pass.Context) pass.Result[ast.Expression] {
	r := pass.Keep(x, ctx)
	if unusableContract(ctx) {
		return r
	}
	switch x := x.(type) {
	case *ast.Identifier:
		if ctx.InBecome.Value() {
			return r
		}
		if d, ok := checkIdentifier(x, ctx); !ok {
			r.Diagnostics = append(r.Diagnostics, d)
		}
	case *ast.FunctionCall:
		if ctx.InEmit.Value() {
			return r
		}
		if d, ok := checkCall(x, ctx); !ok {
			r.Diagnostics = append(r.Diagnostics, d)
		}
	}
	return r
}

func checkIdentifier(id *ast.Identifier, ctx pass.Context) (diag.Diagnostic, bool) {
	e := ctx.Env()
	if recv := receiverType(ctx); recv != nil {
		switch recv.(type) {
		case types.UserDefined, types.Stdlib:
		default:
			// Builtin members such as size are typed by TypeOf; errors are
			// reported where they arise.
			return diag.Diagnostic{}, true
		}
		if e.IsPropertyDefined(id.Name, recv.Name()) || len(e.Functions(id.Name, recv.Name())) > 0 {
			return diag.Diagnostic{}, true
		}
		return diag.Errorf(diag.CodeSemaUndeclaredIdentifier, id.Span,
			"type %s has no member %q", recv.Name(), id.Name), false
	}

	if !types.IsError(typeOf(id, ctx)) {
		return diag.Diagnostic{}, true
	}
	if b, ok := ctx.ContractBehaviourDeclaration.Get(); ok && b.CallerBinding != nil && b.CallerBinding.Name == id.Name {
		return diag.Diagnostic{}, true
	}
	return diag.Errorf(diag.CodeSemaUndeclaredIdentifier, id.Span, "use of undeclared identifier %q", id.Name), false
}

func checkCall(call *ast.FunctionCall, ctx pass.Context) (diag.Diagnostic, bool) {
	if hasErrorArgument(call, ctx) {
		return diag.Diagnostic{}, true
	}
	e := ctx.Env()
	caller := ctx.EnclosingTypeName()

	var res env.FunctionCallMatchResult
	if recv := receiverType(ctx); recv != nil {
		if types.IsError(recv) {
			return diag.Diagnostic{}, true
		}
		res = e.MatchMemberCall(call, recv.Name(), caller, ctx.TypeStates(), ctx.CallerProtections(), ctx.Scope())
	} else {
		res = e.MatchFunctionCall(call, caller, ctx.TypeStates(), ctx.CallerProtections(), ctx.Scope())
	}
	if res.IsMatched() {
		return diag.Diagnostic{}, true
	}

	name := call.Identifier.Name
	if res.IsAmbiguous() {
		return diag.Errorf(diag.CodeSemaAmbiguousCall, call.Identifier.Span, "ambiguous use of %q", name), false
	}
	if len(res.Candidates) == 0 {
		return diag.Errorf(diag.CodeSemaUndeclaredIdentifier, call.Identifier.Span, "use of undeclared function %q", name), false
	}

	argTypes := make([]types.RawType, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		argTypes = append(argTypes, typeOf(arg.Expr, ctx))
	}
	d := diag.Errorf(diag.CodeSemaNoMatchingFunction, call.Identifier.Span,
		"no matching function for call to %s(%s)", name, types.Names(argTypes))
	for _, c := range res.Candidates {
		d = d.WithNote(candidateNote(c))
	}
	return d, false
}

func candidateNote(c env.Candidate) diag.Diagnostic {
	switch c := c.(type) {
	case *env.FunctionInformation:
		return diag.Notef(c.Declaration.Signature.Identifier.Span, "candidate: %s(%s)", c.Name(), types.Names(c.ParameterTypes()))
	case *env.SpecialInformation:
		return diag.Notef(c.Declaration.Signature.Span, "candidate: %s(%s)", c.Declaration.Signature.Kind, types.Names(c.ParameterTypes()))
	}
	return diag.Notef(diag.Span{}, "candidate")
}
