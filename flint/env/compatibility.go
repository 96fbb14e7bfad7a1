package env

import (
	"sort"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/types"
)

// isSubProtection reports whether holding child satisfies a requirement
// for parent. "any" on either side widens the check.
func isSubProtection(child, parent ast.CallerProtection) bool {
	return parent.IsAny() || child.IsAny() || child.Name() == parent.Name()
}

func isSubState(child, parent ast.TypeState) bool {
	return parent.IsAny() || child.IsAny() || child.Name() == parent.Name()
}

// AreCallerProtectionsCompatible reports whether code holding source may
// call something that requires target. An empty target is unrestricted;
// otherwise every element of source must be a sub-protection of some
// element of target.
func AreCallerProtectionsCompatible(source, target []ast.CallerProtection) bool {
	if len(target) == 0 {
		return true
	}
	for _, s := range source {
		found := false
		for _, t := range target {
			if isSubProtection(s, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AreTypeStatesCompatible applies the same quantifier as
// AreCallerProtectionsCompatible to typestates.
func AreTypeStatesCompatible(source, target []ast.TypeState) bool {
	if len(target) == 0 {
		return true
	}
	for _, s := range source {
		found := false
		for _, t := range target {
			if isSubState(s, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// conflictingDeclaration returns the earliest identifier in candidates that
// shares id's name and was declared before it.
func conflictingDeclaration(id ast.Identifier, candidates []ast.Identifier) (ast.Identifier, bool) {
	var best ast.Identifier
	found := false
	for _, c := range candidates {
		if c.Name != id.Name || !c.Span.Before(id.Span) {
			continue
		}
		if !found || c.Span.Before(best.Span) {
			best = c
			found = true
		}
	}
	return best, found
}

func (e *Environment) typeIdentifiers() []ast.Identifier {
	ids := make([]ast.Identifier, 0, len(e.DeclaredContracts)+len(e.DeclaredStructs)+len(e.DeclaredEnums)+len(e.DeclaredTraits))
	ids = append(ids, e.DeclaredContracts...)
	ids = append(ids, e.DeclaredStructs...)
	ids = append(ids, e.DeclaredEnums...)
	ids = append(ids, e.DeclaredTraits...)
	return ids
}

// ConflictingTypeDeclaration returns the earlier type declaration sharing
// id's name.
func (e *Environment) ConflictingTypeDeclaration(id ast.Identifier) (ast.Identifier, bool) {
	return conflictingDeclaration(id, e.typeIdentifiers())
}

// ConflictingFunctionDeclaration returns the earlier declaration fn clashes
// with. Contract functions cannot be overloaded; struct and trait functions
// clash only on an identical parameter type list. Functions may not reuse a
// contract or struct name.
func (e *Environment) ConflictingFunctionDeclaration(fn *ast.FunctionDeclaration, enclosingType string) (ast.Identifier, bool) {
	id := fn.Signature.Identifier
	t := e.mustType(enclosingType)

	candidates := append([]ast.Identifier(nil), e.DeclaredContracts...)
	candidates = append(candidates, e.DeclaredStructs...)
	if e.IsContractDeclared(enclosingType) {
		for _, info := range t.Functions[fn.Name()] {
			candidates = append(candidates, info.Declaration.Signature.Identifier)
		}
	}
	if conflict, ok := conflictingDeclaration(id, candidates); ok {
		return conflict, true
	}

	params := parameterTypes(fn.Signature.Parameters)
	var overloads []ast.Identifier
	for _, info := range t.Functions[fn.Name()] {
		if info.Declaration == fn {
			continue
		}
		if types.EqualLists(info.ParameterTypes(), params) {
			overloads = append(overloads, info.Declaration.Signature.Identifier)
		}
	}
	return conflictingDeclaration(id, overloads)
}

// ConflictingPropertyDeclaration returns the earlier property named like id
// in enclosingType.
func (e *Environment) ConflictingPropertyDeclaration(id ast.Identifier, enclosingType string) (ast.Identifier, bool) {
	return conflictingDeclaration(id, e.mustType(enclosingType).declaredProperties)
}

// ConflictingEventDeclaration returns the earlier event, contract or struct
// named like id.
func (e *Environment) ConflictingEventDeclaration(id ast.Identifier, enclosingType string) (ast.Identifier, bool) {
	candidates := append([]ast.Identifier(nil), e.DeclaredContracts...)
	candidates = append(candidates, e.DeclaredStructs...)
	for _, ev := range e.mustType(enclosingType).AllEvents()[id.Name] {
		candidates = append(candidates, ev.Declaration.Identifier)
	}
	return conflictingDeclaration(id, candidates)
}

// ConflictingTraitSignatures returns, per function name, the trait
// signatures reachable from enclosingType that disagree with each other.
func (e *Environment) ConflictingTraitSignatures(enclosingType string) map[string][]*FunctionInformation {
	out := map[string][]*FunctionInformation{}
	for name, fns := range e.mustType(enclosingType).TraitFunctions() {
		if len(fns) < 2 {
			continue
		}
		for _, other := range fns[1:] {
			if !sameSignature(fns[0], other) {
				out[name] = fns
				break
			}
		}
	}
	return out
}

func sameSignature(a, b *FunctionInformation) bool {
	return a.Name() == b.Name() &&
		types.EqualLists(a.ParameterTypes(), b.ParameterTypes()) &&
		types.Equal(a.ResultType(), b.ResultType())
}

// UndefinedFunctions returns the signature-only functions of enclosingType,
// including those inherited from traits, that no concrete function with an
// identical signature implements.
func (e *Environment) UndefinedFunctions(enclosingType string) []*FunctionInformation {
	all := e.mustType(enclosingType).AllFunctions()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*FunctionInformation
	for _, name := range names {
		fns := all[name]
		for _, sig := range fns {
			if !sig.IsSignature {
				continue
			}
			implemented := false
			for _, impl := range fns {
				if !impl.IsSignature && sameSignature(sig, impl) {
					implemented = true
					break
				}
			}
			if !implemented {
				out = append(out, sig)
			}
		}
	}
	return out
}

// UndefinedInitializers returns the initializer signatures of enclosingType
// that no concrete initializer with identical parameter types implements.
// Generated signatures are not required.
func (e *Environment) UndefinedInitializers(enclosingType string) []*SpecialInformation {
	all := e.mustType(enclosingType).AllInitializers()
	var out []*SpecialInformation
	for _, sig := range all {
		if !sig.IsSignature || sig.IsGenerated() {
			continue
		}
		implemented := false
		for _, impl := range all {
			if !impl.IsSignature && types.EqualLists(sig.ParameterTypes(), impl.ParameterTypes()) {
				implemented = true
				break
			}
		}
		if !implemented {
			out = append(out, sig)
		}
	}
	return out
}
