// Package env is the semantic environment: the symbol table recording every
// declared type and its members, plus the queries that resolve calls,
// compute expression types and lay out storage.
package env

import (
	"sort"

	"github.com/chzyer/logex"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/types"
)

const (
	// GlobalFunctionStructName holds library functions callable without a receiver.
	GlobalFunctionStructName = "Flint$Global"
	// StateEnumPrefix prefixes the enum synthesized for a stateful contract.
	StateEnumPrefix = "Flint$State$"
)

// TypeKind tells which declaration introduced a TypeInformation.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindContract
	KindStruct
	KindEnum
	KindTrait
)

func (k TypeKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTrait:
		return "trait"
	default:
		return "unknown"
	}
}

// Environment is the symbol table for one compilation unit.
type Environment struct {
	types map[string]*TypeInformation

	DeclaredContracts []ast.Identifier
	DeclaredStructs   []ast.Identifier
	DeclaredEnums     []ast.Identifier
	DeclaredTraits    []ast.Identifier
}

// New returns an empty environment.
func New() *Environment {
	return &Environment{types: map[string]*TypeInformation{}}
}

// TypeInformation is everything known about one declared type.
type TypeInformation struct {
	Name string
	Kind TypeKind
	// RawType is the backing type for enums.
	RawType types.RawType
	// TraitKind is meaningful for KindTrait only.
	TraitKind ast.TraitKind

	OrderedProperties []string
	Properties        map[string]*PropertyInformation
	Functions         map[string][]*FunctionInformation
	Initializers      []*SpecialInformation
	Fallbacks         []*SpecialInformation
	Events            map[string][]*EventInformation
	Conformances      []TypeInformation

	PublicInitializer *ast.SpecialDeclaration
	PublicFallback    *ast.SpecialDeclaration

	// declaredProperties keeps every property identifier, duplicates
	// included, in declaration order.
	declaredProperties []ast.Identifier
}

func newTypeInformation(name string, kind TypeKind) *TypeInformation {
	return &TypeInformation{
		Name:       name,
		Kind:       kind,
		Properties: map[string]*PropertyInformation{},
		Functions:  map[string][]*FunctionInformation{},
		Events:     map[string][]*EventInformation{},
	}
}

// snapshot copies the record so later registrations on the original do not
// leak into conformers.
func (t *TypeInformation) snapshot() TypeInformation {
	out := *t
	out.OrderedProperties = append([]string(nil), t.OrderedProperties...)
	out.declaredProperties = append([]ast.Identifier(nil), t.declaredProperties...)
	out.Properties = make(map[string]*PropertyInformation, len(t.Properties))
	for k, v := range t.Properties {
		out.Properties[k] = v
	}
	out.Functions = make(map[string][]*FunctionInformation, len(t.Functions))
	for k, v := range t.Functions {
		out.Functions[k] = append([]*FunctionInformation(nil), v...)
	}
	out.Events = make(map[string][]*EventInformation, len(t.Events))
	for k, v := range t.Events {
		out.Events[k] = append([]*EventInformation(nil), v...)
	}
	out.Initializers = append([]*SpecialInformation(nil), t.Initializers...)
	out.Fallbacks = append([]*SpecialInformation(nil), t.Fallbacks...)
	out.Conformances = append([]TypeInformation(nil), t.Conformances...)
	return out
}

// AllFunctions merges the type's own functions with those of its
// conformances, own entries first.
func (t *TypeInformation) AllFunctions() map[string][]*FunctionInformation {
	out := make(map[string][]*FunctionInformation, len(t.Functions))
	for name, fns := range t.Functions {
		out[name] = append(out[name], fns...)
	}
	for i := range t.Conformances {
		for name, fns := range t.Conformances[i].AllFunctions() {
			out[name] = append(out[name], fns...)
		}
	}
	return out
}

func (t *TypeInformation) AllInitializers() []*SpecialInformation {
	out := append([]*SpecialInformation(nil), t.Initializers...)
	for i := range t.Conformances {
		out = append(out, t.Conformances[i].AllInitializers()...)
	}
	return out
}

func (t *TypeInformation) AllEvents() map[string][]*EventInformation {
	out := make(map[string][]*EventInformation, len(t.Events))
	for name, evs := range t.Events {
		out[name] = append(out[name], evs...)
	}
	for i := range t.Conformances {
		for name, evs := range t.Conformances[i].AllEvents() {
			out[name] = append(out[name], evs...)
		}
	}
	return out
}

// TraitFunctions returns the signature-only functions reachable through
// conformances.
func (t *TypeInformation) TraitFunctions() map[string][]*FunctionInformation {
	out := map[string][]*FunctionInformation{}
	for i := range t.Conformances {
		for name, fns := range t.Conformances[i].AllFunctions() {
			for _, fn := range fns {
				if fn.IsSignature {
					out[name] = append(out[name], fn)
				}
			}
		}
	}
	return out
}

// FunctionNames returns function names in sorted order.
func (t *TypeInformation) FunctionNames() []string {
	names := make([]string, 0, len(t.Functions))
	for name := range t.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyKind tells how a property was declared.
type PropertyKind int

const (
	VariableProperty PropertyKind = iota
	EnumCaseProperty
)

type PropertyInformation struct {
	Kind     PropertyKind
	Variable *ast.VariableDeclaration
	Case     *ast.EnumMember
	// EnumType is the declaring enum for enum cases.
	EnumType string
}

func (p *PropertyInformation) Identifier() ast.Identifier {
	if p.Kind == EnumCaseProperty {
		return p.Case.Identifier
	}
	return p.Variable.Identifier
}

// RawType is the type a read of the property produces.
func (p *PropertyInformation) RawType() types.RawType {
	if p.Kind == EnumCaseProperty {
		return types.UserDefined{Identifier: p.EnumType}
	}
	return p.Variable.Type
}

// StorageType is the type that occupies storage for the property; for enum
// cases it is the hidden backing type.
func (p *PropertyInformation) StorageType() types.RawType {
	if p.Kind == EnumCaseProperty {
		return p.Case.HiddenType
	}
	return p.Variable.Type
}

func (p *PropertyInformation) IsConstant() bool {
	return p.Kind == EnumCaseProperty || p.Variable.IsConstant
}

func (p *PropertyInformation) HasDefault() bool {
	if p.Kind == EnumCaseProperty {
		return true
	}
	return p.Variable.AssignedExpression != nil
}

// FunctionInformation wraps a function declaration with what resolution
// needs.
type FunctionInformation struct {
	Declaration       *ast.FunctionDeclaration
	CallerProtections []ast.CallerProtection
	TypeStates        []ast.TypeState
	IsMutating        bool
	IsSignature       bool
}

func (f *FunctionInformation) Name() string { return f.Declaration.Name() }

func (f *FunctionInformation) ParameterTypes() []types.RawType {
	return parameterTypes(f.Declaration.Signature.Parameters)
}

func (f *FunctionInformation) ResultType() types.RawType {
	if f.Declaration.Signature.ResultType == nil {
		return types.VoidType
	}
	return f.Declaration.Signature.ResultType
}

// SpecialInformation wraps an initializer or fallback.
type SpecialInformation struct {
	Declaration       *ast.SpecialDeclaration
	CallerProtections []ast.CallerProtection
	TypeStates        []ast.TypeState
	IsSignature       bool
}

func (s *SpecialInformation) ParameterTypes() []types.RawType {
	return parameterTypes(s.Declaration.Signature.Parameters)
}

func (s *SpecialInformation) IsGenerated() bool { return s.Declaration.IsGenerated }

type EventInformation struct {
	Declaration *ast.EventDeclaration
}

func (e *EventInformation) Name() string { return e.Declaration.Identifier.Name }

func (e *EventInformation) ParameterTypes() []types.RawType {
	out := make([]types.RawType, 0, len(e.Declaration.Variables))
	for _, v := range e.Declaration.Variables {
		out = append(out, v.Type)
	}
	return out
}

func parameterTypes(params []*ast.Parameter) []types.RawType {
	out := make([]types.RawType, 0, len(params))
	for _, p := range params {
		out = append(out, p.Type)
	}
	return out
}

// InvariantError reports a query or registration that earlier passes are
// meant to rule out. It is raised with panic and indicates a compiler bug.
type InvariantError struct {
	Err error
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Err.Error()
}

func (e *InvariantError) Unwrap() error { return e.Err }

// StackError includes the trace recorded where the fault was raised.
func (e *InvariantError) StackError() string {
	return "invariant violation: " + logex.DecodeError(e.Err)
}

func fault(format string, args ...any) {
	panic(&InvariantError{Err: logex.NewErrorf(format, args...)})
}

// Type returns the record for name, if declared.
func (e *Environment) Type(name string) (*TypeInformation, bool) {
	t, ok := e.types[name]
	return t, ok
}

// mustType is the internal lookup for names earlier passes have validated.
func (e *Environment) mustType(name string) *TypeInformation {
	t, ok := e.types[name]
	if !ok {
		fault("type %q is not registered in the environment", name)
	}
	return t
}

// TypeNames returns every registered type name in sorted order.
func (e *Environment) TypeNames() []string {
	names := make([]string, 0, len(e.types))
	for name := range e.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) IsContractDeclared(name string) bool { return containsName(e.DeclaredContracts, name) }
func (e *Environment) IsStructDeclared(name string) bool   { return containsName(e.DeclaredStructs, name) }
func (e *Environment) IsEnumDeclared(name string) bool     { return containsName(e.DeclaredEnums, name) }
func (e *Environment) IsTraitDeclared(name string) bool    { return containsName(e.DeclaredTraits, name) }

// IsStateful reports whether a contract declares typestates.
func (e *Environment) IsStateful(contract string) bool {
	_, ok := e.types[StateEnumPrefix+contract]
	return ok
}

// ContractStateEnum names the enum synthesized for a contract's typestates.
func ContractStateEnum(contract string) string {
	return StateEnumPrefix + contract
}

// IsTypeState reports whether state is one of the contract's typestates.
func (e *Environment) IsTypeState(state, contract string) bool {
	t, ok := e.types[ContractStateEnum(contract)]
	if !ok {
		return false
	}
	_, ok = t.Properties[state]
	return ok
}

func (e *Environment) IsPropertyDefined(property, enclosingType string) bool {
	t, ok := e.types[enclosingType]
	if !ok {
		return false
	}
	_, ok = t.Properties[property]
	return ok
}

func (e *Environment) IsPropertyConstant(property, enclosingType string) bool {
	return e.mustProperty(property, enclosingType).IsConstant()
}

func (e *Environment) mustProperty(property, enclosingType string) *PropertyInformation {
	p, ok := e.mustType(enclosingType).Properties[property]
	if !ok {
		fault("property %q is not declared in %q", property, enclosingType)
	}
	return p
}

// Property returns the property named in enclosingType, if any.
func (e *Environment) Property(property, enclosingType string) (*PropertyInformation, bool) {
	t, ok := e.types[enclosingType]
	if !ok {
		return nil, false
	}
	p, ok := t.Properties[property]
	return p, ok
}

// Properties returns the property names of a type in declaration order.
func (e *Environment) Properties(enclosingType string) []string {
	return append([]string(nil), e.mustType(enclosingType).OrderedProperties...)
}

// PropertyDeclarations returns the properties of a type in declaration order.
func (e *Environment) PropertyDeclarations(enclosingType string) []*PropertyInformation {
	t := e.mustType(enclosingType)
	out := make([]*PropertyInformation, 0, len(t.OrderedProperties))
	for _, name := range t.OrderedProperties {
		out = append(out, t.Properties[name])
	}
	return out
}

// Events returns every event declared in a type, including conformances,
// sorted by name.
func (e *Environment) Events(enclosingType string) []*EventInformation {
	all := e.mustType(enclosingType).AllEvents()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []*EventInformation
	for _, name := range names {
		out = append(out, all[name]...)
	}
	return out
}

// Functions returns the functions named name in a type, conformances
// included.
func (e *Environment) Functions(name, enclosingType string) []*FunctionInformation {
	t, ok := e.types[enclosingType]
	if !ok {
		return nil
	}
	return t.AllFunctions()[name]
}

func (e *Environment) Initializers(enclosingType string) []*SpecialInformation {
	t, ok := e.types[enclosingType]
	if !ok {
		return nil
	}
	return t.AllInitializers()
}

func (e *Environment) Fallbacks(enclosingType string) []*SpecialInformation {
	t, ok := e.types[enclosingType]
	if !ok {
		return nil
	}
	return t.Fallbacks
}

func (e *Environment) PublicInitializer(contract string) *ast.SpecialDeclaration {
	return e.mustType(contract).PublicInitializer
}

func (e *Environment) PublicFallback(contract string) *ast.SpecialDeclaration {
	return e.mustType(contract).PublicFallback
}

// Conformances returns the trait snapshots a type conforms to.
func (e *Environment) Conformances(enclosingType string) []TypeInformation {
	return e.mustType(enclosingType).Conformances
}

func containsName(ids []ast.Identifier, name string) bool {
	for _, id := range ids {
		if id.Name == name {
			return true
		}
	}
	return false
}
