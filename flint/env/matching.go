package env

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/types"
)

// MatchKind tags the outcome of call resolution.
type MatchKind int

const (
	MatchFailure MatchKind = iota
	MatchedFunction
	MatchedInitializer
	MatchedFallback
	MatchedGlobalFunction
)

func (k MatchKind) String() string {
	switch k {
	case MatchedFunction:
		return "function"
	case MatchedInitializer:
		return "initializer"
	case MatchedFallback:
		return "fallback"
	case MatchedGlobalFunction:
		return "global function"
	default:
		return "failure"
	}
}

// Candidate is a declaration a call was checked against: a
// *FunctionInformation or a *SpecialInformation.
type Candidate interface {
	ParameterTypes() []types.RawType
	candidate()
}

func (*FunctionInformation) candidate() {}
func (*SpecialInformation) candidate()  {}

// FunctionCallMatchResult is the discriminated outcome of MatchFunctionCall.
// On failure, an empty Candidates list means the call was ambiguous or the
// name is unknown; IsAmbiguous tells the two apart.
type FunctionCallMatchResult struct {
	Kind       MatchKind
	Function   *FunctionInformation
	Special    *SpecialInformation
	Candidates []Candidate

	ambiguous bool
}

func (r FunctionCallMatchResult) IsMatched() bool { return r.Kind != MatchFailure }

// IsAmbiguous reports a failure caused by more than one category matching.
func (r FunctionCallMatchResult) IsAmbiguous() bool { return r.ambiguous }

// ResultType is the type the matched call produces. Initializer calls
// produce the constructed type.
func (r FunctionCallMatchResult) ResultType(callee string) types.RawType {
	switch r.Kind {
	case MatchedFunction, MatchedGlobalFunction:
		return r.Function.ResultType()
	case MatchedInitializer:
		if types.IsStdlibName(callee) {
			return types.Stdlib{Identifier: callee}
		}
		return types.UserDefined{Identifier: callee}
	case MatchedFallback:
		return types.VoidType
	default:
		return types.ErrorType
	}
}

// EventCallMatchResult is the discriminated outcome of MatchEventCall.
type EventCallMatchResult struct {
	Event      *EventInformation
	Candidates []*EventInformation
}

func (r EventCallMatchResult) IsMatched() bool { return r.Event != nil }

// MatchFunctionCall resolves call made from code inside enclosingType that
// currently holds typeStates and protections.
func (e *Environment) MatchFunctionCall(call *ast.FunctionCall, enclosingType string, typeStates []ast.TypeState, protections []ast.CallerProtection, scope *ast.ScopeContext) FunctionCallMatchResult {
	return e.MatchMemberCall(call, enclosingType, enclosingType, typeStates, protections, scope)
}

// MatchMemberCall resolves receiver.call(...): functions are looked up on
// receiverType while arguments are typed from inside callerType.
func (e *Environment) MatchMemberCall(call *ast.FunctionCall, receiverType, callerType string, typeStates []ast.TypeState, protections []ast.CallerProtection, scope *ast.ScopeContext) FunctionCallMatchResult {
	argTypes := make([]types.RawType, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		argTypes = append(argTypes, e.TypeOf(arg.Expr, callerType, typeStates, protections, scope))
	}

	name := call.Identifier.Name
	var (
		matches    []FunctionCallMatchResult
		candidates []Candidate
	)

	if fn, near := e.matchRegular(name, receiverType, argTypes, typeStates, protections); fn != nil {
		matches = append(matches, FunctionCallMatchResult{Kind: MatchedFunction, Function: fn})
	} else {
		candidates = append(candidates, near...)
	}

	if t, ok := e.types[name]; ok {
		var init *SpecialInformation
		for _, info := range t.AllInitializers() {
			if argumentsMatch(info.Declaration.Signature.Parameters, argTypes) &&
				AreCallerProtectionsCompatible(protections, info.CallerProtections) {
				init = info
				break
			}
			candidates = append(candidates, info)
		}
		if init != nil {
			matches = append(matches, FunctionCallMatchResult{Kind: MatchedInitializer, Special: init})
		}

		var fallback *SpecialInformation
		for _, info := range t.Fallbacks {
			if AreCallerProtectionsCompatible(protections, info.CallerProtections) {
				fallback = info
				break
			}
			candidates = append(candidates, info)
		}
		if fallback != nil {
			matches = append(matches, FunctionCallMatchResult{Kind: MatchedFallback, Special: fallback})
		}
	}

	if receiverType != GlobalFunctionStructName {
		if fn, near := e.matchRegular(name, GlobalFunctionStructName, argTypes, typeStates, protections); fn != nil {
			matches = append(matches, FunctionCallMatchResult{Kind: MatchedGlobalFunction, Function: fn})
		} else {
			candidates = append(candidates, near...)
		}
	}

	switch len(matches) {
	case 0:
		return FunctionCallMatchResult{Kind: MatchFailure, Candidates: candidates}
	case 1:
		return matches[0]
	default:
		return FunctionCallMatchResult{Kind: MatchFailure, Candidates: []Candidate{}, ambiguous: true}
	}
}

// matchRegular returns the first function named name in typ accepting
// argTypes under the caller's protections and states, or the near-misses.
func (e *Environment) matchRegular(name, typ string, argTypes []types.RawType, typeStates []ast.TypeState, protections []ast.CallerProtection) (*FunctionInformation, []Candidate) {
	t, ok := e.types[typ]
	if !ok {
		return nil, nil
	}
	var near []Candidate
	for _, info := range t.AllFunctions()[name] {
		if argumentsMatch(info.Declaration.Signature.Parameters, argTypes) &&
			AreCallerProtectionsCompatible(protections, info.CallerProtections) &&
			AreTypeStatesCompatible(typeStates, info.TypeStates) {
			return info, nil
		}
		near = append(near, info)
	}
	return nil, near
}

// argumentsMatch requires each argument type to equal the corresponding
// explicit parameter type. Trailing parameters with a default value may be
// omitted; implicit parameters are supplied by the runtime.
func argumentsMatch(params []*ast.Parameter, argTypes []types.RawType) bool {
	explicit := make([]*ast.Parameter, 0, len(params))
	for _, p := range params {
		if !p.IsImplicit {
			explicit = append(explicit, p)
		}
	}
	if len(argTypes) > len(explicit) {
		return false
	}
	for i, p := range explicit {
		if i >= len(argTypes) {
			if p.AssignedExpression == nil {
				return false
			}
			continue
		}
		if !types.Equal(p.Type, argTypes[i]) {
			return false
		}
	}
	return true
}

// MatchEventCall resolves an emitted event. Arguments are matched
// positionally. A declared variable with a default is skipped, without
// consuming an argument, unless the argument carries its name.
func (e *Environment) MatchEventCall(call *ast.FunctionCall, enclosingType string, typeStates []ast.TypeState, protections []ast.CallerProtection, scope *ast.ScopeContext) EventCallMatchResult {
	t, ok := e.types[enclosingType]
	if !ok {
		return EventCallMatchResult{}
	}
	candidates := t.AllEvents()[call.Identifier.Name]

	argTypes := make([]types.RawType, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		argTypes = append(argTypes, e.TypeOf(arg.Expr, enclosingType, typeStates, protections, scope))
	}

	var matched []*EventInformation
	for _, ev := range candidates {
		if eventArgumentsMatch(ev.Declaration.Variables, call.Arguments, argTypes) {
			matched = append(matched, ev)
		}
	}
	if len(matched) == 1 {
		return EventCallMatchResult{Event: matched[0]}
	}
	return EventCallMatchResult{Candidates: candidates}
}

func eventArgumentsMatch(vars []*ast.VariableDeclaration, args []ast.FunctionArgument, argTypes []types.RawType) bool {
	i := 0
	for _, v := range vars {
		named := i < len(args) && args[i].Label != nil && args[i].Label.Name == v.Name()
		if v.AssignedExpression != nil && !named {
			continue
		}
		if i >= len(args) {
			return false
		}
		if args[i].Label != nil && !named {
			return false
		}
		if !types.Equal(v.Type, argTypes[i]) {
			return false
		}
		i++
	}
	return i == len(args)
}
