package env

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/types"
)

// TypeOf computes the static type of expr evaluated inside enclosingType.
// Calls that resolve to nothing and literals with mixed element types yield
// types.ErrorType; callers check for it.
func (e *Environment) TypeOf(expr ast.Expression, enclosingType string, typeStates []ast.TypeState, protections []ast.CallerProtection, scope *ast.ScopeContext) types.RawType {
	switch x := expr.(type) {
	case *ast.Identifier:
		return e.identifierType(x, enclosingType, scope)

	case *ast.SelfExpression:
		return e.namedType(enclosingType)

	case *ast.Literal:
		switch x.Kind {
		case ast.BooleanLiteral:
			return types.BoolType
		case ast.IntegerLiteral:
			return types.IntType
		case ast.StringLiteral:
			return types.StringType
		case ast.AddressLiteral:
			return types.AddressType
		}
		return types.ErrorType

	case *ast.ArrayLiteral:
		if len(x.Elements) == 0 {
			return types.Array{Elem: types.AnyType}
		}
		elem := e.TypeOf(x.Elements[0], enclosingType, typeStates, protections, scope)
		for _, el := range x.Elements[1:] {
			if !types.Equal(elem, e.TypeOf(el, enclosingType, typeStates, protections, scope)) {
				return types.ErrorType
			}
		}
		return types.Array{Elem: elem}

	case *ast.DictionaryLiteral:
		if len(x.Entries) == 0 {
			return types.Dictionary{Key: types.AnyType, Value: types.AnyType}
		}
		key := e.TypeOf(x.Entries[0].Key, enclosingType, typeStates, protections, scope)
		value := e.TypeOf(x.Entries[0].Value, enclosingType, typeStates, protections, scope)
		for _, en := range x.Entries[1:] {
			if !types.Equal(key, e.TypeOf(en.Key, enclosingType, typeStates, protections, scope)) ||
				!types.Equal(value, e.TypeOf(en.Value, enclosingType, typeStates, protections, scope)) {
				return types.ErrorType
			}
		}
		return types.Dictionary{Key: key, Value: value}

	case *ast.RangeExpression:
		start := e.TypeOf(x.Start, enclosingType, typeStates, protections, scope)
		end := e.TypeOf(x.End, enclosingType, typeStates, protections, scope)
		if !types.Equal(start, end) {
			return types.ErrorType
		}
		return types.Range{Elem: start}

	case *ast.BinaryExpression:
		if x.Op == ast.OpDot {
			return e.memberType(x, enclosingType, typeStates, protections, scope)
		}
		if x.Op.IsBoolean() {
			return types.BoolType
		}
		return e.TypeOf(x.RHS, enclosingType, typeStates, protections, scope)

	case *ast.FunctionCall:
		return e.callType(x, enclosingType, enclosingType, typeStates, protections, scope)

	case *ast.SubscriptExpression:
		base := types.StripInout(e.TypeOf(x.Base, enclosingType, typeStates, protections, scope))
		switch b := base.(type) {
		case types.Array:
			return b.Elem
		case types.FixedSizeArray:
			return b.Elem
		case types.Dictionary:
			return b.Value
		}
		return types.ErrorType

	case *ast.AttemptExpression:
		if x.Kind == ast.SoftAttempt {
			return types.BoolType
		}
		return e.TypeOf(x.Call, enclosingType, typeStates, protections, scope)

	case *ast.InoutExpression:
		return types.Inout{Elem: e.TypeOf(x.Expr, enclosingType, typeStates, protections, scope)}

	case *ast.BracketedExpression:
		return e.TypeOf(x.Expr, enclosingType, typeStates, protections, scope)

	case *ast.VariableDeclaration:
		return x.Type
	}
	return types.ErrorType
}

func (e *Environment) identifierType(id *ast.Identifier, enclosingType string, scope *ast.ScopeContext) types.RawType {
	if id.EnclosingType == "" {
		if t, ok := scope.TypeOf(id.Name); ok {
			return t
		}
	} else {
		enclosingType = id.EnclosingType
	}
	if p, ok := e.Property(id.Name, enclosingType); ok {
		return p.RawType()
	}
	if fns := e.Functions(id.Name, enclosingType); len(fns) > 0 {
		return types.Function{Params: fns[0].ParameterTypes(), Result: fns[0].ResultType()}
	}
	// A bare type name is the receiver of a static access such as Color.red.
	if _, ok := e.types[id.Name]; ok {
		return e.namedType(id.Name)
	}
	return types.ErrorType
}

func (e *Environment) namedType(name string) types.RawType {
	if types.IsStdlibName(name) {
		return types.Stdlib{Identifier: name}
	}
	return types.UserDefined{Identifier: name}
}

// memberType types lhs.rhs: the right side is resolved against the left
// side's type while call arguments stay in the caller's scope.
func (e *Environment) memberType(x *ast.BinaryExpression, enclosingType string, typeStates []ast.TypeState, protections []ast.CallerProtection, scope *ast.ScopeContext) types.RawType {
	lhs := types.StripInout(e.TypeOf(x.LHS, enclosingType, typeStates, protections, scope))
	if types.IsError(lhs) {
		return types.ErrorType
	}
	if id, ok := x.RHS.(*ast.Identifier); ok && id.Name == "size" {
		switch lhs.(type) {
		case types.Array, types.FixedSizeArray, types.Dictionary:
			return types.IntType
		}
	}
	receiver := lhs.Name()
	switch rhs := x.RHS.(type) {
	case *ast.Identifier:
		member := *rhs
		member.EnclosingType = receiver
		return e.identifierType(&member, receiver, nil)
	case *ast.FunctionCall:
		return e.callType(rhs, receiver, enclosingType, typeStates, protections, scope)
	}
	return e.TypeOf(x.RHS, receiver, typeStates, protections, scope)
}

func (e *Environment) callType(call *ast.FunctionCall, receiverType, callerType string, typeStates []ast.TypeState, protections []ast.CallerProtection, scope *ast.ScopeContext) types.RawType {
	res := e.MatchMemberCall(call, receiverType, callerType, typeStates, protections, scope)
	if res.IsMatched() {
		return res.ResultType(call.Identifier.Name)
	}
	if !res.IsAmbiguous() && e.MatchEventCall(call, receiverType, typeStates, protections, scope).IsMatched() {
		return types.EventType
	}
	return types.ErrorType
}
