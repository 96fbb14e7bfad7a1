package ast

import "github.com/tos-network/flint/flint/types"

// ScopeContext records the parameters and locals visible at a point in a
// function body. Lookups prefer the most recently declared local, then
// parameters.
type ScopeContext struct {
	Parameters     []*Parameter
	LocalVariables []*VariableDeclaration
}

// NewScopeContext builds a scope holding only params.
func NewScopeContext(params []*Parameter) *ScopeContext {
	return &ScopeContext{Parameters: append([]*Parameter(nil), params...)}
}

// Clone returns a copy that can be extended without affecting s.
func (s *ScopeContext) Clone() *ScopeContext {
	if s == nil {
		return &ScopeContext{}
	}
	return &ScopeContext{
		Parameters:     append([]*Parameter(nil), s.Parameters...),
		LocalVariables: append([]*VariableDeclaration(nil), s.LocalVariables...),
	}
}

// Declare returns a scope extended with v.
func (s *ScopeContext) Declare(v *VariableDeclaration) *ScopeContext {
	out := s.Clone()
	out.LocalVariables = append(out.LocalVariables, v)
	return out
}

func (s *ScopeContext) ContainsParameter(name string) bool {
	return s.parameter(name) != nil
}

func (s *ScopeContext) ContainsVariable(name string) bool {
	return s.local(name) != nil
}

func (s *ScopeContext) ContainsDeclaration(name string) bool {
	return s.ContainsVariable(name) || s.ContainsParameter(name)
}

// TypeOf returns the type bound to name, if any.
func (s *ScopeContext) TypeOf(name string) (types.RawType, bool) {
	if v := s.local(name); v != nil {
		return v.Type, true
	}
	if p := s.parameter(name); p != nil {
		return p.Type, true
	}
	return nil, false
}

func (s *ScopeContext) local(name string) *VariableDeclaration {
	if s == nil {
		return nil
	}
	for i := len(s.LocalVariables) - 1; i >= 0; i-- {
		if s.LocalVariables[i].Identifier.Name == name {
			return s.LocalVariables[i]
		}
	}
	return nil
}

func (s *ScopeContext) parameter(name string) *Parameter {
	if s == nil {
		return nil
	}
	for _, p := range s.Parameters {
		if p.Identifier.Name == name {
			return p
		}
	}
	return nil
}
