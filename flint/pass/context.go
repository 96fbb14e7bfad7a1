// Package pass runs analysis passes over a module. Each pass sees the tree
// pre-order (Process hooks) and post-order (PostProcess hooks), threading a
// Context down the walk and merging results back up.
package pass

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/env"
)

// Slot is an optional context value.
type Slot[T any] struct {
	value T
	set   bool
}

// Some returns a filled slot.
func Some[T any](v T) Slot[T] {
	return Slot[T]{value: v, set: true}
}

func (s Slot[T]) Get() (T, bool) { return s.value, s.set }

func (s Slot[T]) IsSet() bool { return s.set }

// Value returns the slot's value or the zero value when empty.
func (s Slot[T]) Value() T { return s.value }

func merge[T any](left, right Slot[T]) Slot[T] {
	if right.set {
		return right
	}
	return left
}

// Context carries what a hook may need to know about its position in the
// tree. Every field is optional.
type Context struct {
	Environment Slot[*env.Environment]

	ContractDeclaration          Slot[*ast.ContractDeclaration]
	ContractBehaviourDeclaration Slot[*ast.ContractBehaviourDeclaration]
	StructDeclaration            Slot[*ast.StructDeclaration]
	EnumDeclaration              Slot[*ast.EnumDeclaration]
	TraitDeclaration             Slot[*ast.TraitDeclaration]
	EventDeclaration             Slot[*ast.EventDeclaration]
	FunctionDeclaration          Slot[*ast.FunctionDeclaration]
	SpecialDeclaration           Slot[*ast.SpecialDeclaration]
	ScopeContext                 Slot[*ast.ScopeContext]

	IsLValue                    Slot[bool]
	InSubscript                 Slot[bool]
	InBecome                    Slot[bool]
	InEmit                      Slot[bool]
	IsFunctionCall              Slot[bool]
	IsPropertyDefaultAssignment Slot[bool]
	ReceiverTrail               Slot[[]ast.Expression]
}

// Seed returns the context a pass starts from: only the environment is
// carried over.
func Seed(e *env.Environment) Context {
	return Context{Environment: Some(e)}
}

// Merge combines two contexts; slots set in o win.
func (c Context) Merge(o Context) Context {
	return Context{
		Environment:                  merge(c.Environment, o.Environment),
		ContractDeclaration:          merge(c.ContractDeclaration, o.ContractDeclaration),
		ContractBehaviourDeclaration: merge(c.ContractBehaviourDeclaration, o.ContractBehaviourDeclaration),
		StructDeclaration:            merge(c.StructDeclaration, o.StructDeclaration),
		EnumDeclaration:              merge(c.EnumDeclaration, o.EnumDeclaration),
		TraitDeclaration:             merge(c.TraitDeclaration, o.TraitDeclaration),
		EventDeclaration:             merge(c.EventDeclaration, o.EventDeclaration),
		FunctionDeclaration:          merge(c.FunctionDeclaration, o.FunctionDeclaration),
		SpecialDeclaration:           merge(c.SpecialDeclaration, o.SpecialDeclaration),
		ScopeContext:                 merge(c.ScopeContext, o.ScopeContext),
		IsLValue:                     merge(c.IsLValue, o.IsLValue),
		InSubscript:                  merge(c.InSubscript, o.InSubscript),
		InBecome:                     merge(c.InBecome, o.InBecome),
		InEmit:                       merge(c.InEmit, o.InEmit),
		IsFunctionCall:               merge(c.IsFunctionCall, o.IsFunctionCall),
		IsPropertyDefaultAssignment:  merge(c.IsPropertyDefaultAssignment, o.IsPropertyDefaultAssignment),
		ReceiverTrail:                merge(c.ReceiverTrail, o.ReceiverTrail),
	}
}

// Env returns the environment; a pass always runs with one.
func (c Context) Env() *env.Environment { return c.Environment.Value() }

// Scope returns the current scope, or nil outside function bodies.
func (c Context) Scope() *ast.ScopeContext { return c.ScopeContext.Value() }

// EnclosingType returns the identifier of the innermost type declaration.
func (c Context) EnclosingType() (ast.Identifier, bool) {
	if d, ok := c.ContractDeclaration.Get(); ok {
		return d.Identifier, true
	}
	if d, ok := c.ContractBehaviourDeclaration.Get(); ok {
		return d.ContractIdentifier, true
	}
	if d, ok := c.StructDeclaration.Get(); ok {
		return d.Identifier, true
	}
	if d, ok := c.EnumDeclaration.Get(); ok {
		return d.Identifier, true
	}
	if d, ok := c.TraitDeclaration.Get(); ok {
		return d.Identifier, true
	}
	return ast.Identifier{}, false
}

// EnclosingTypeName is EnclosingType's name, or the global container when
// outside any type.
func (c Context) EnclosingTypeName() string {
	if id, ok := c.EnclosingType(); ok {
		return id.Name
	}
	return env.GlobalFunctionStructName
}

// TypeStates are the states declared by the enclosing behaviour block.
func (c Context) TypeStates() []ast.TypeState {
	if d, ok := c.ContractBehaviourDeclaration.Get(); ok {
		return d.States
	}
	return nil
}

// CallerProtections are those of the enclosing behaviour block.
func (c Context) CallerProtections() []ast.CallerProtection {
	if d, ok := c.ContractBehaviourDeclaration.Get(); ok {
		return d.CallerProtections
	}
	return nil
}

// InFunctionOrSpecial reports whether the walk is inside a body.
func (c Context) InFunctionOrSpecial() bool {
	return c.FunctionDeclaration.IsSet() || c.SpecialDeclaration.IsSet()
}

// restoreStructure resets the slots the visitor manages to parent's values,
// keeping anything else a hook stored. The scope is left alone: locals flow
// to later statements until the enclosing block ends.
func (c Context) restoreStructure(parent Context) Context {
	c.ContractDeclaration = parent.ContractDeclaration
	c.ContractBehaviourDeclaration = parent.ContractBehaviourDeclaration
	c.StructDeclaration = parent.StructDeclaration
	c.EnumDeclaration = parent.EnumDeclaration
	c.TraitDeclaration = parent.TraitDeclaration
	c.EventDeclaration = parent.EventDeclaration
	c.FunctionDeclaration = parent.FunctionDeclaration
	c.SpecialDeclaration = parent.SpecialDeclaration
	c.IsLValue = parent.IsLValue
	c.InSubscript = parent.InSubscript
	c.InBecome = parent.InBecome
	c.InEmit = parent.InEmit
	c.IsFunctionCall = parent.IsFunctionCall
	c.IsPropertyDefaultAssignment = parent.IsPropertyDefaultAssignment
	c.ReceiverTrail = parent.ReceiverTrail
	return c
}
