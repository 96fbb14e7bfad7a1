// Package types is the raw type algebra shared by the environment, the
// passes and the code generators.
package types

import (
	"fmt"
	"strings"
)

// RawType is the interface for every representable type. The set of
// implementations is closed: Basic, UserDefined, Stdlib, Range, Array,
// FixedSizeArray, Dictionary, Inout, Function, Any and Error.
type RawType interface {
	// Name renders the source spelling of the type.
	Name() string
	rawType()
}

// BasicKind enumerates the builtin scalar types.
type BasicKind int

const (
	Bool BasicKind = iota
	Int
	String
	Address
	Void
	Event
)

func (k BasicKind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case String:
		return "String"
	case Address:
		return "Address"
	case Void:
		return "Void"
	case Event:
		return "Event"
	default:
		return fmt.Sprintf("BasicKind(%d)", int(k))
	}
}

// Basic is a built-in scalar such as Int, Bool or Address.
type Basic struct {
	Kind BasicKind
}

// UserDefined names a contract, struct, enum or trait.
type UserDefined struct {
	Identifier string
}

// Stdlib names a struct shipped with the standard library, such as Wei.
type Stdlib struct {
	Identifier string
}

// Range is the type of a half-open or closed range over Elem.
type Range struct {
	Elem RawType
}

// Array is a dynamically sized array, spelled [T].
type Array struct {
	Elem RawType
}

// FixedSizeArray is an array of Size elements, spelled T[n].
type FixedSizeArray struct {
	Elem RawType
	Size int
}

// Dictionary maps Key to Value, spelled [K: V].
type Dictionary struct {
	Key   RawType
	Value RawType
}

// Inout marks a parameter passed by reference.
type Inout struct {
	Elem RawType
}

// Function is the type of a function value.
type Function struct {
	Params []RawType
	Result RawType
}

// Any is the placeholder type; it is compatible with every type.
type Any struct{}

// Error is the sentinel produced when a type cannot be computed.
type Error struct{}

const ErrorTypeName = "Flint$ErrorType"

// StdlibTypeNames lists the standard-library struct names.
var StdlibTypeNames = []string{"Wei"}

// IsStdlibName reports whether name is a standard-library struct.
func IsStdlibName(name string) bool {
	for _, n := range StdlibTypeNames {
		if n == name {
			return true
		}
	}
	return false
}

var (
	BoolType    RawType = Basic{Kind: Bool}
	IntType     RawType = Basic{Kind: Int}
	StringType  RawType = Basic{Kind: String}
	AddressType RawType = Basic{Kind: Address}
	VoidType    RawType = Basic{Kind: Void}
	EventType   RawType = Basic{Kind: Event}
	AnyType     RawType = Any{}
	ErrorType   RawType = Error{}
)

func (Basic) rawType()          {}
func (UserDefined) rawType()    {}
func (Stdlib) rawType()         {}
func (Range) rawType()          {}
func (Array) rawType()          {}
func (FixedSizeArray) rawType() {}
func (Dictionary) rawType()     {}
func (Inout) rawType()          {}
func (Function) rawType()       {}
func (Any) rawType()            {}
func (Error) rawType()          {}

func (t Basic) Name() string       { return t.Kind.String() }
func (t UserDefined) Name() string { return t.Identifier }
func (t Stdlib) Name() string      { return t.Identifier }
func (t Range) Name() string       { return "Range<" + nameOf(t.Elem) + ">" }
func (t Array) Name() string       { return "[" + nameOf(t.Elem) + "]" }
func (t FixedSizeArray) Name() string {
	return fmt.Sprintf("%s[%d]", nameOf(t.Elem), t.Size)
}
func (t Dictionary) Name() string {
	return "[" + nameOf(t.Key) + ": " + nameOf(t.Value) + "]"
}
func (t Inout) Name() string { return "inout " + nameOf(t.Elem) }
func (t Function) Name() string {
	params := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		params = append(params, nameOf(p))
	}
	return "(" + strings.Join(params, ", ") + ") -> " + nameOf(t.Result)
}
func (Any) Name() string   { return "Any" }
func (Error) Name() string { return ErrorTypeName }

func nameOf(t RawType) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// Equal reports structural equality.
func Equal(a, b RawType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Basic:
		y, ok := b.(Basic)
		return ok && x.Kind == y.Kind
	case UserDefined:
		y, ok := b.(UserDefined)
		return ok && x.Identifier == y.Identifier
	case Stdlib:
		y, ok := b.(Stdlib)
		return ok && x.Identifier == y.Identifier
	case Range:
		y, ok := b.(Range)
		return ok && Equal(x.Elem, y.Elem)
	case Array:
		y, ok := b.(Array)
		return ok && Equal(x.Elem, y.Elem)
	case FixedSizeArray:
		y, ok := b.(FixedSizeArray)
		return ok && x.Size == y.Size && Equal(x.Elem, y.Elem)
	case Dictionary:
		y, ok := b.(Dictionary)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case Inout:
		y, ok := b.(Inout)
		return ok && Equal(x.Elem, y.Elem)
	case Function:
		y, ok := b.(Function)
		return ok && EqualLists(x.Params, y.Params) && Equal(x.Result, y.Result)
	case Any:
		_, ok := b.(Any)
		return ok
	case Error:
		_, ok := b.(Error)
		return ok
	default:
		panic(fmt.Sprintf("types: unknown raw type %T", a))
	}
}

// EqualLists compares two type lists element-wise.
func EqualLists(a, b []RawType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsCompatible reports whether a value of type a may be used where b is
// expected. The relation is reflexive and Any is compatible both ways.
func IsCompatible(a, b RawType) bool {
	if IsAny(a) || IsAny(b) {
		return true
	}
	if Equal(a, b) {
		return true
	}
	switch x := a.(type) {
	case Array:
		if y, ok := b.(Array); ok {
			return IsCompatible(x.Elem, y.Elem)
		}
	case FixedSizeArray:
		switch y := b.(type) {
		case FixedSizeArray:
			return x.Size == y.Size && IsCompatible(x.Elem, y.Elem)
		case Array:
			return IsCompatible(x.Elem, y.Elem)
		}
	case Dictionary:
		if y, ok := b.(Dictionary); ok {
			return IsCompatible(x.Key, y.Key) && IsCompatible(x.Value, y.Value)
		}
	case Inout:
		if y, ok := b.(Inout); ok {
			return IsCompatible(x.Elem, y.Elem)
		}
	}
	return false
}

func IsAny(t RawType) bool {
	_, ok := t.(Any)
	return ok
}

func IsError(t RawType) bool {
	_, ok := t.(Error)
	return ok
}

func IsBasic(t RawType, k BasicKind) bool {
	b, ok := t.(Basic)
	return ok && b.Kind == k
}

// IsUserDefined reports whether t names a declared (or stdlib) type.
func IsUserDefined(t RawType) bool {
	switch t.(type) {
	case UserDefined, Stdlib:
		return true
	}
	return false
}

// IsInout reports whether t is wrapped in inout.
func IsInout(t RawType) bool {
	_, ok := t.(Inout)
	return ok
}

// StripInout removes one inout wrapper, if present.
func StripInout(t RawType) RawType {
	if io, ok := t.(Inout); ok {
		return io.Elem
	}
	return t
}

// IsDynamic reports whether values of t live behind an indirection cell.
func IsDynamic(t RawType) bool {
	switch t.(type) {
	case Array, Dictionary:
		return true
	}
	return false
}

// ElementType returns the element type of an array-like type, or the value
// type of a dictionary.
func ElementType(t RawType) (RawType, bool) {
	switch x := StripInout(t).(type) {
	case Array:
		return x.Elem, true
	case FixedSizeArray:
		return x.Elem, true
	case Dictionary:
		return x.Value, true
	case Range:
		return x.Elem, true
	}
	return nil, false
}

// Names renders a list of types the way a parameter list prints.
func Names(ts []RawType) string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, nameOf(t))
	}
	return strings.Join(out, ", ")
}

// FromName maps a bare identifier to its raw type: builtin scalars, stdlib
// structs, otherwise a user-defined type.
func FromName(name string) RawType {
	switch name {
	case "Bool":
		return BoolType
	case "Int":
		return IntType
	case "String":
		return StringType
	case "Address":
		return AddressType
	case "Void":
		return VoidType
	case "Event":
		return EventType
	case "Any":
		return AnyType
	case ErrorTypeName:
		return ErrorType
	}
	if IsStdlibName(name) {
		return Stdlib{Identifier: name}
	}
	return UserDefined{Identifier: name}
}
