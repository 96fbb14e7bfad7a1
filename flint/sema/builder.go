package sema

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/pass"
)

// EnvironmentBuilder is the first pass: it records every declaration of the
// module in the environment. Type declarations are registered up front so
// behaviour blocks may precede the contract they extend.
type EnvironmentBuilder struct {
	pass.Base
}

func (*EnvironmentBuilder) Name() string { return BuilderPassName }

func (*EnvironmentBuilder) ProcessModule(m *ast.Module, ctx pass.Context) pass.Result[*ast.Module] {
	e := ctx.Env()
	for _, d := range m.Declarations {
		switch d := d.(type) {
		case *ast.TraitDeclaration:
			e.AddTrait(d)
		case *ast.EnumDeclaration:
			e.AddEnum(d)
		}
	}
	for _, d := range m.Declarations {
		switch d := d.(type) {
		case *ast.ContractDeclaration:
			e.AddContract(d)
		case *ast.StructDeclaration:
			e.AddStruct(d)
		}
	}

	// Conformances snapshot the trait, so every trait must be complete first.
	for _, d := range m.Declarations {
		switch d := d.(type) {
		case *ast.ContractDeclaration:
			addConformances(ctx, d.Identifier.Name, d.Conformances)
		case *ast.StructDeclaration:
			addConformances(ctx, d.Identifier.Name, d.Conformances)
		}
	}
	return pass.Keep(m, ctx)
}

func addConformances(ctx pass.Context, typ string, traits []ast.Identifier) {
	e := ctx.Env()
	for _, tr := range traits {
		if e.IsTraitDeclared(tr.Name) {
			e.AddConformance(tr.Name, typ)
		}
	}
}

// behaviourContract returns the contract a behaviour member belongs to when
// that contract is declared.
func behaviourContract(ctx pass.Context) (string, bool) {
	d, ok := ctx.ContractBehaviourDeclaration.Get()
	if !ok {
		return "", false
	}
	name := d.ContractIdentifier.Name
	return name, ctx.Env().IsContractDeclared(name)
}

func (*EnvironmentBuilder) ProcessFunctionDeclaration(d *ast.FunctionDeclaration, ctx pass.Context) pass.Result[*ast.FunctionDeclaration] {
	if contract, ok := behaviourContract(ctx); ok {
		e := ctx.Env()
		// A body replaces its own earlier signature.
		if e.IsForwardDeclared(d, contract, ctx.TypeStates(), ctx.CallerProtections()) {
			e.RemoveFunction(d, contract, ctx.TypeStates(), ctx.CallerProtections())
		}
		e.AddFunction(d, contract, ctx.TypeStates(), ctx.CallerProtections())
	}
	return pass.Keep(d, ctx)
}

func (*EnvironmentBuilder) ProcessFunctionSignatureDeclaration(d *ast.FunctionSignatureDeclaration, ctx pass.Context) pass.Result[*ast.FunctionSignatureDeclaration] {
	if contract, ok := behaviourContract(ctx); ok {
		ctx.Env().AddFunctionSignature(d, contract, ctx.TypeStates(), ctx.CallerProtections(), false)
	}
	return pass.Keep(d, ctx)
}

func (*EnvironmentBuilder) ProcessSpecialDeclaration(d *ast.SpecialDeclaration, ctx pass.Context) pass.Result[*ast.SpecialDeclaration] {
	r := pass.Keep(d, ctx)
	contract, ok := behaviourContract(ctx)
	if !ok {
		return r
	}
	e := ctx.Env()

	if d.IsFallback() {
		e.AddFallback(d, contract, ctx.CallerProtections())
		if d.IsPublic() {
			if prev := e.PublicFallback(contract); prev != nil {
				r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaMultiplePublicFallback, d.Signature.Span,
					"contract %q already has a public fallback", contract).
					WithNote(diag.Notef(prev.Signature.Span, "previous public fallback declared here")))
			} else {
				e.AddPublicFallback(d, contract)
			}
		}
		return r
	}

	e.AddInitializer(d, contract, ctx.TypeStates(), ctx.CallerProtections())
	if d.IsPublic() {
		if prev := e.PublicInitializer(contract); prev != nil {
			r.Diagnostics = append(r.Diagnostics, diag.Errorf(diag.CodeSemaMultiplePublicInit, d.Signature.Span,
				"contract %q already has a public initializer", contract).
				WithNote(diag.Notef(prev.Signature.Span, "previous public initializer declared here")))
		} else {
			e.AddPublicInitializer(d, contract)
		}
	}
	return r
}

func (*EnvironmentBuilder) ProcessSpecialSignatureDeclaration(d *ast.SpecialSignatureDeclaration, ctx pass.Context) pass.Result[*ast.SpecialSignatureDeclaration] {
	if contract, ok := behaviourContract(ctx); ok {
		if d.IsFallback() {
			ctx.Env().AddFallbackSignature(d, contract, ctx.CallerProtections())
		} else {
			ctx.Env().AddInitializerSignature(d, contract, ctx.CallerProtections(), false)
		}
	}
	return pass.Keep(d, ctx)
}
