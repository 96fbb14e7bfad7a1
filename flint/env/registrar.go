package env

import (
	"strconv"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/types"
)

// ensureType returns the record for name, creating it when missing and
// stamping kind on records created on demand.
func (e *Environment) ensureType(name string, kind TypeKind) *TypeInformation {
	t, ok := e.types[name]
	if !ok {
		t = newTypeInformation(name, kind)
		e.types[name] = t
	}
	if t.Kind == KindUnknown {
		t.Kind = kind
	}
	return t
}

// AddContract registers a contract, its properties, events and, for a
// stateful contract, the enum backing its typestates.
func (e *Environment) AddContract(c *ast.ContractDeclaration) {
	name := c.Identifier.Name
	e.DeclaredContracts = append(e.DeclaredContracts, c.Identifier)
	e.ensureType(name, KindContract)

	for _, v := range c.VariableDeclarations() {
		e.AddProperty(v, name)
	}

	if c.IsStateful() {
		enumID := c.Identifier
		enumID.Name = ContractStateEnum(name)
		cases := make([]*ast.EnumMember, 0, len(c.States))
		for _, s := range c.States {
			cases = append(cases, &ast.EnumMember{
				Identifier: s.Identifier,
				HiddenType: types.IntType,
			})
		}
		e.AddEnum(&ast.EnumDeclaration{
			Identifier: enumID,
			Type:       types.IntType,
			Cases:      cases,
		})
	}

	for _, ev := range c.Events() {
		e.AddEvent(ev, name)
	}
}

// AddStruct registers a struct with its members. When no initializer is
// declared and every property has a default value, a public niladic
// initializer is synthesized.
func (e *Environment) AddStruct(s *ast.StructDeclaration) {
	name := s.Identifier.Name
	e.DeclaredStructs = append(e.DeclaredStructs, s.Identifier)
	t := e.ensureType(name, KindStruct)

	for _, m := range s.Members {
		switch m := m.(type) {
		case *ast.VariableDeclaration:
			e.AddProperty(m, name)
		case *ast.FunctionDeclaration:
			e.AddFunction(m, name, nil, nil)
		case *ast.SpecialDeclaration:
			if m.IsFallback() {
				e.AddFallback(m, name, nil)
			} else {
				e.AddInitializer(m, name, nil, nil)
			}
		}
	}

	if len(t.Initializers) > 0 || name == GlobalFunctionStructName {
		return
	}
	for _, p := range t.Properties {
		if !p.HasDefault() {
			return
		}
	}
	e.AddInitializer(&ast.SpecialDeclaration{
		Signature: ast.SpecialSignatureDeclaration{
			Kind:      ast.InitKind,
			Span:      s.Identifier.Span,
			Modifiers: []string{"public"},
		},
		IsGenerated: true,
	}, name, nil, nil)
}

// AddEnum registers an enum; its cases become constant properties with
// synthesized raw values for Int-backed enums.
func (e *Environment) AddEnum(en *ast.EnumDeclaration) {
	name := en.Identifier.Name
	e.DeclaredEnums = append(e.DeclaredEnums, en.Identifier)
	t := e.ensureType(name, KindEnum)
	t.RawType = en.Type

	for _, c := range SynthesizeRawValues(en.Cases, en.Type) {
		e.addProperty(name, c.Identifier, &PropertyInformation{
			Kind:     EnumCaseProperty,
			Case:     c,
			EnumType: name,
		})
	}
}

// SynthesizeRawValues returns copies of cases with hidden values filled in.
// For Int-backed enums the first unassigned case is 0 and each further
// unassigned case is one more than the previous case; explicit values reset
// the counter.
func SynthesizeRawValues(cases []*ast.EnumMember, backing types.RawType) []*ast.EnumMember {
	out := make([]*ast.EnumMember, 0, len(cases))
	intBacked := types.IsBasic(backing, types.Int)
	var last *int
	for _, c := range cases {
		cp := *c
		if cp.HiddenType == nil {
			cp.HiddenType = backing
		}
		if intBacked {
			if cp.HiddenValue == nil {
				next := 0
				if last != nil {
					next = *last + 1
				}
				cp.HiddenValue = &ast.Literal{
					Kind:  ast.IntegerLiteral,
					Value: strconv.Itoa(next),
					Span:  c.Identifier.Span,
				}
				last = &next
			} else if v, ok := integerValue(cp.HiddenValue); ok {
				last = &v
			} else {
				last = nil
			}
		}
		out = append(out, &cp)
	}
	return out
}

func integerValue(e ast.Expression) (int, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.IntegerLiteral {
		return 0, false
	}
	v, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, false
	}
	return v, true
}

// EnumRawValue returns the integer raw value of an enum case, if it has one.
func (e *Environment) EnumRawValue(enum, caseName string) (int, bool) {
	p, ok := e.Property(caseName, enum)
	if !ok || p.Kind != EnumCaseProperty {
		return 0, false
	}
	return integerValue(p.Case.HiddenValue)
}

// AddTrait registers a trait and its members. External traits also get a
// generated init(address: Address) signature.
func (e *Environment) AddTrait(tr *ast.TraitDeclaration) {
	name := tr.Identifier.Name
	e.DeclaredTraits = append(e.DeclaredTraits, tr.Identifier)
	t := e.ensureType(name, KindTrait)
	t.TraitKind = tr.Kind
	external := tr.Kind == ast.ExternalTrait

	for _, m := range tr.Members {
		switch m := m.(type) {
		case *ast.FunctionDeclaration:
			e.AddFunction(m, name, nil, nil)
		case *ast.FunctionSignatureDeclaration:
			e.AddFunctionSignature(m, name, nil, nil, external)
		case *ast.SpecialDeclaration:
			if m.IsFallback() {
				e.AddFallback(m, name, nil)
			} else {
				e.AddInitializer(m, name, nil, nil)
			}
		case *ast.SpecialSignatureDeclaration:
			if m.IsFallback() {
				e.AddFallbackSignature(m, name, nil)
			} else {
				e.AddInitializerSignature(m, name, nil, false)
			}
		case *ast.EventDeclaration:
			e.AddEvent(m, name)
		}
	}

	if external {
		e.AddInitializerSignature(&ast.SpecialSignatureDeclaration{
			Kind:      ast.InitKind,
			Span:      tr.Identifier.Span,
			Modifiers: []string{"public"},
			Parameters: []*ast.Parameter{{
				Identifier: ast.Ident("address"),
				Type:       types.AddressType,
			}},
		}, name, nil, true)
	}
}

// AddFunction registers a concrete function. Records for unknown enclosing
// types are created on demand, as behaviour blocks may be registered before
// their contract.
func (e *Environment) AddFunction(fn *ast.FunctionDeclaration, enclosingType string, states []ast.TypeState, protections []ast.CallerProtection) {
	t := e.ensureType(enclosingType, KindUnknown)
	t.Functions[fn.Name()] = append(t.Functions[fn.Name()], &FunctionInformation{
		Declaration:       fn,
		CallerProtections: protections,
		TypeStates:        states,
		IsMutating:        fn.IsMutating(),
	})
}

// AddFunctionSignature registers a body-less function, as declared in
// traits.
func (e *Environment) AddFunctionSignature(sig *ast.FunctionSignatureDeclaration, enclosingType string, states []ast.TypeState, protections []ast.CallerProtection, isExternal bool) {
	t := e.ensureType(enclosingType, KindUnknown)
	fn := &ast.FunctionDeclaration{Signature: *sig, IsExternal: isExternal}
	t.Functions[fn.Name()] = append(t.Functions[fn.Name()], &FunctionInformation{
		Declaration:       fn,
		CallerProtections: protections,
		TypeStates:        states,
		IsMutating:        sig.IsMutating(),
		IsSignature:       true,
	})
}

// RemoveFunction drops every entry with the same name, parameter types,
// caller protections and typestates as fn.
func (e *Environment) RemoveFunction(fn *ast.FunctionDeclaration, enclosingType string, states []ast.TypeState, protections []ast.CallerProtection) {
	t, ok := e.types[enclosingType]
	if !ok {
		return
	}
	name := fn.Name()
	params := parameterTypes(fn.Signature.Parameters)
	kept := t.Functions[name][:0]
	for _, info := range t.Functions[name] {
		if types.EqualLists(info.ParameterTypes(), params) &&
			sameProtections(info.CallerProtections, protections) &&
			sameStates(info.TypeStates, states) {
			continue
		}
		kept = append(kept, info)
	}
	if len(kept) == 0 {
		delete(t.Functions, name)
		return
	}
	t.Functions[name] = kept
}

// IsForwardDeclared reports whether enclosingType declares fn only as a
// body-less signature under the same protections and typestates. Entries
// inherited from traits are not considered.
func (e *Environment) IsForwardDeclared(fn *ast.FunctionDeclaration, enclosingType string, states []ast.TypeState, protections []ast.CallerProtection) bool {
	t, ok := e.types[enclosingType]
	if !ok {
		return false
	}
	want := &FunctionInformation{Declaration: fn}
	found := false
	for _, info := range t.Functions[fn.Name()] {
		if !types.EqualLists(info.ParameterTypes(), want.ParameterTypes()) ||
			!sameProtections(info.CallerProtections, protections) ||
			!sameStates(info.TypeStates, states) {
			continue
		}
		if !info.IsSignature || !sameSignature(info, want) {
			return false
		}
		found = true
	}
	return found
}

func sameProtections(a, b []ast.CallerProtection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name() != b[i].Name() {
			return false
		}
	}
	return true
}

func sameStates(a, b []ast.TypeState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name() != b[i].Name() {
			return false
		}
	}
	return true
}

func (e *Environment) AddInitializer(init *ast.SpecialDeclaration, enclosingType string, states []ast.TypeState, protections []ast.CallerProtection) {
	t := e.mustType(enclosingType)
	t.Initializers = append(t.Initializers, &SpecialInformation{
		Declaration:       init,
		CallerProtections: protections,
		TypeStates:        states,
	})
}

// AddInitializerSignature registers a body-less initializer; generated marks
// signatures the compiler synthesized.
func (e *Environment) AddInitializerSignature(sig *ast.SpecialSignatureDeclaration, enclosingType string, protections []ast.CallerProtection, generated bool) {
	t := e.mustType(enclosingType)
	t.Initializers = append(t.Initializers, &SpecialInformation{
		Declaration:       &ast.SpecialDeclaration{Signature: *sig, IsGenerated: generated},
		CallerProtections: protections,
		IsSignature:       true,
	})
}

func (e *Environment) AddFallback(fb *ast.SpecialDeclaration, enclosingType string, protections []ast.CallerProtection) {
	t := e.mustType(enclosingType)
	t.Fallbacks = append(t.Fallbacks, &SpecialInformation{
		Declaration:       fb,
		CallerProtections: protections,
	})
}

func (e *Environment) AddFallbackSignature(sig *ast.SpecialSignatureDeclaration, enclosingType string, protections []ast.CallerProtection) {
	t := e.mustType(enclosingType)
	t.Fallbacks = append(t.Fallbacks, &SpecialInformation{
		Declaration:       &ast.SpecialDeclaration{Signature: *sig},
		CallerProtections: protections,
		IsSignature:       true,
	})
}

// AddPublicInitializer records the contract's public initializer. Callers
// must reject a second one before getting here.
func (e *Environment) AddPublicInitializer(init *ast.SpecialDeclaration, contract string) {
	t := e.mustType(contract)
	if t.PublicInitializer != nil {
		fault("contract %q already has a public initializer", contract)
	}
	t.PublicInitializer = init
}

// AddPublicFallback records the contract's public fallback. Callers must
// reject a second one before getting here.
func (e *Environment) AddPublicFallback(fb *ast.SpecialDeclaration, contract string) {
	t := e.mustType(contract)
	if t.PublicFallback != nil {
		fault("contract %q already has a public fallback", contract)
	}
	t.PublicFallback = fb
}

// AddConformance appends a snapshot of trait's record to typ.
func (e *Environment) AddConformance(trait, typ string) {
	traitInfo := e.mustType(trait)
	t := e.mustType(typ)
	t.Conformances = append(t.Conformances, traitInfo.snapshot())
}

// AddProperty registers a variable declared in enclosingType. A repeated
// name keeps the first declaration's layout slot; the duplicate stays
// visible to conflict detection.
func (e *Environment) AddProperty(v *ast.VariableDeclaration, enclosingType string) {
	e.addProperty(enclosingType, v.Identifier, &PropertyInformation{
		Kind:     VariableProperty,
		Variable: v,
	})
}

func (e *Environment) addProperty(enclosingType string, id ast.Identifier, info *PropertyInformation) {
	t := e.mustType(enclosingType)
	t.declaredProperties = append(t.declaredProperties, id)
	if _, exists := t.Properties[id.Name]; exists {
		return
	}
	t.Properties[id.Name] = info
	t.OrderedProperties = append(t.OrderedProperties, id.Name)
}

func (e *Environment) AddEvent(ev *ast.EventDeclaration, enclosingType string) {
	t := e.ensureType(enclosingType, KindUnknown)
	name := ev.Identifier.Name
	t.Events[name] = append(t.Events[name], &EventInformation{Declaration: ev})
}
