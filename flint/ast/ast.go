package ast

import (
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/types"
)

// Module is the root node for a compilation unit.
type Module struct {
	Declarations []TopLevelDeclaration
}

// TopLevelDeclaration is one of *ContractDeclaration,
// *ContractBehaviourDeclaration, *StructDeclaration, *EnumDeclaration or
// *TraitDeclaration.
type TopLevelDeclaration interface {
	topLevelDeclaration()
}

// ContractMember is one of *VariableDeclaration or *EventDeclaration.
type ContractMember interface {
	contractMember()
}

// ContractBehaviourMember is one of *FunctionDeclaration,
// *SpecialDeclaration, *FunctionSignatureDeclaration or
// *SpecialSignatureDeclaration.
type ContractBehaviourMember interface {
	contractBehaviourMember()
}

// StructMember is one of *VariableDeclaration, *FunctionDeclaration or
// *SpecialDeclaration.
type StructMember interface {
	structMember()
}

// TraitMember is one of *FunctionDeclaration, *SpecialDeclaration,
// *FunctionSignatureDeclaration, *SpecialSignatureDeclaration or
// *EventDeclaration.
type TraitMember interface {
	traitMember()
}

type Identifier struct {
	Name string
	Span diag.Span
	// EnclosingType is set by passes when the identifier refers to a member
	// of a type rather than a local.
	EnclosingType string
}

func Ident(name string) Identifier {
	return Identifier{Name: name}
}

// IdentAt builds an identifier with a position in file.
func IdentAt(name, file string, line, column int) Identifier {
	return Identifier{
		Name: name,
		Span: diag.Span{
			File:  file,
			Start: diag.Position{Line: line, Column: column},
			End:   diag.Position{Line: line, Column: column + len(name)},
		},
	}
}

const anyName = "any"

type CallerProtection struct {
	Identifier Identifier
}

func (c CallerProtection) Name() string { return c.Identifier.Name }
func (c CallerProtection) IsAny() bool  { return c.Identifier.Name == anyName }

type TypeState struct {
	Identifier Identifier
}

func (s TypeState) Name() string { return s.Identifier.Name }
func (s TypeState) IsAny() bool  { return s.Identifier.Name == anyName }

type ContractDeclaration struct {
	Identifier   Identifier
	Conformances []Identifier
	States       []TypeState
	Members      []ContractMember
}

func (d *ContractDeclaration) VariableDeclarations() []*VariableDeclaration {
	var out []*VariableDeclaration
	for _, m := range d.Members {
		if v, ok := m.(*VariableDeclaration); ok {
			out = append(out, v)
		}
	}
	return out
}

func (d *ContractDeclaration) Events() []*EventDeclaration {
	var out []*EventDeclaration
	for _, m := range d.Members {
		if e, ok := m.(*EventDeclaration); ok {
			out = append(out, e)
		}
	}
	return out
}

func (d *ContractDeclaration) IsStateful() bool { return len(d.States) > 0 }

type ContractBehaviourDeclaration struct {
	ContractIdentifier Identifier
	States             []TypeState
	CallerBinding      *Identifier
	CallerProtections  []CallerProtection
	Members            []ContractBehaviourMember
}

type StructDeclaration struct {
	Identifier   Identifier
	Conformances []Identifier
	Members      []StructMember
}

func (d *StructDeclaration) VariableDeclarations() []*VariableDeclaration {
	var out []*VariableDeclaration
	for _, m := range d.Members {
		if v, ok := m.(*VariableDeclaration); ok {
			out = append(out, v)
		}
	}
	return out
}

type EnumDeclaration struct {
	Identifier Identifier
	Type       types.RawType
	Cases      []*EnumMember
}

type EnumMember struct {
	Identifier  Identifier
	HiddenValue Expression
	HiddenType  types.RawType
}

type TraitKind int

const (
	ContractTrait TraitKind = iota
	StructTrait
	ExternalTrait
)

func (k TraitKind) String() string {
	switch k {
	case ContractTrait:
		return "contract"
	case StructTrait:
		return "struct"
	case ExternalTrait:
		return "external"
	default:
		return "unknown"
	}
}

type TraitDeclaration struct {
	Kind       TraitKind
	Identifier Identifier
	Members    []TraitMember
}

type EventDeclaration struct {
	Identifier Identifier
	Variables  []*VariableDeclaration
}

// VariableDeclaration is both a member declaration and, inside a body, an
// expression introducing a local.
type VariableDeclaration struct {
	Identifier         Identifier
	Type               types.RawType
	IsConstant         bool
	Modifiers          []string
	AssignedExpression Expression
}

func (v *VariableDeclaration) Name() string { return v.Identifier.Name }

type Parameter struct {
	Identifier         Identifier
	Type               types.RawType
	IsImplicit         bool
	AssignedExpression Expression
}

type FunctionSignatureDeclaration struct {
	Identifier Identifier
	Attributes []string
	Modifiers  []string
	Mutates    []Identifier
	Parameters []*Parameter
	ResultType types.RawType
}

func (s *FunctionSignatureDeclaration) IsPublic() bool  { return hasModifier(s.Modifiers, "public") }
func (s *FunctionSignatureDeclaration) IsMutating() bool {
	return len(s.Mutates) > 0 || hasModifier(s.Modifiers, "mutating")
}

type FunctionDeclaration struct {
	Signature  FunctionSignatureDeclaration
	Body       []Statement
	IsExternal bool
}

func (f *FunctionDeclaration) Name() string      { return f.Signature.Identifier.Name }
func (f *FunctionDeclaration) IsPublic() bool    { return f.Signature.IsPublic() }
func (f *FunctionDeclaration) IsMutating() bool  { return f.Signature.IsMutating() }
func (f *FunctionDeclaration) IsVoid() bool      { return f.Signature.ResultType == nil || types.IsBasic(f.Signature.ResultType, types.Void) }
func (f *FunctionDeclaration) Parameters() []*Parameter {
	return f.Signature.Parameters
}

type SpecialKind int

const (
	InitKind SpecialKind = iota
	FallbackKind
)

func (k SpecialKind) String() string {
	if k == FallbackKind {
		return "fallback"
	}
	return "init"
}

type SpecialSignatureDeclaration struct {
	Kind       SpecialKind
	Span       diag.Span
	Attributes []string
	Modifiers  []string
	Mutates    []Identifier
	Parameters []*Parameter
}

func (s *SpecialSignatureDeclaration) IsPublic() bool { return hasModifier(s.Modifiers, "public") }
func (s *SpecialSignatureDeclaration) IsInit() bool   { return s.Kind == InitKind }
func (s *SpecialSignatureDeclaration) IsFallback() bool {
	return s.Kind == FallbackKind
}

type SpecialDeclaration struct {
	Signature   SpecialSignatureDeclaration
	Body        []Statement
	IsGenerated bool
}

func (s *SpecialDeclaration) IsPublic() bool   { return s.Signature.IsPublic() }
func (s *SpecialDeclaration) IsInit() bool     { return s.Signature.IsInit() }
func (s *SpecialDeclaration) IsFallback() bool { return s.Signature.IsFallback() }

func hasModifier(mods []string, want string) bool {
	for _, m := range mods {
		if m == want {
			return true
		}
	}
	return false
}

func (*ContractDeclaration) topLevelDeclaration()          {}
func (*ContractBehaviourDeclaration) topLevelDeclaration() {}
func (*StructDeclaration) topLevelDeclaration()            {}
func (*EnumDeclaration) topLevelDeclaration()              {}
func (*TraitDeclaration) topLevelDeclaration()             {}

func (*VariableDeclaration) contractMember() {}
func (*EventDeclaration) contractMember()    {}

func (*FunctionDeclaration) contractBehaviourMember()          {}
func (*SpecialDeclaration) contractBehaviourMember()           {}
func (*FunctionSignatureDeclaration) contractBehaviourMember() {}
func (*SpecialSignatureDeclaration) contractBehaviourMember()  {}

func (*VariableDeclaration) structMember() {}
func (*FunctionDeclaration) structMember() {}
func (*SpecialDeclaration) structMember()  {}

func (*FunctionDeclaration) traitMember()          {}
func (*SpecialDeclaration) traitMember()           {}
func (*FunctionSignatureDeclaration) traitMember() {}
func (*SpecialSignatureDeclaration) traitMember()  {}
func (*EventDeclaration) traitMember()             {}
