package env

import (
	"github.com/tos-network/flint/flint/types"
)

// Size returns the number of storage slots a value of t occupies.
func (e *Environment) Size(t types.RawType) int {
	return e.size(t, map[string]bool{})
}

func (e *Environment) size(t types.RawType, visiting map[string]bool) int {
	switch x := t.(type) {
	case types.Basic:
		if x.Kind == types.Event {
			return 0
		}
		return 1
	case types.Range:
		return 0
	case types.FixedSizeArray:
		return e.size(x.Elem, visiting) * x.Size
	case types.Array, types.Dictionary:
		return 1
	case types.UserDefined:
		return e.userDefinedSize(x.Identifier, visiting)
	case types.Stdlib:
		return e.userDefinedSize(x.Identifier, visiting)
	case types.Inout:
		fault("inout type %s has no storage size", x.Name())
	case types.Any, types.Error, types.Function:
		return 0
	}
	fault("cannot size type %v", t)
	return 0
}

func (e *Environment) userDefinedSize(name string, visiting map[string]bool) int {
	if visiting[name] {
		fault("type %q contains itself", name)
	}
	t := e.mustType(name)
	if t.Kind == KindEnum {
		if len(t.OrderedProperties) == 0 {
			return e.size(t.RawType, visiting)
		}
		return e.size(t.Properties[t.OrderedProperties[0]].StorageType(), visiting)
	}

	visiting[name] = true
	defer delete(visiting, name)
	total := 0
	for _, prop := range t.OrderedProperties {
		total += e.size(t.Properties[prop].StorageType(), visiting)
	}
	return total
}

// PropertyOffset returns the slot offset of property within enclosingType:
// the summed sizes of the properties declared before it.
func (e *Environment) PropertyOffset(property, enclosingType string) (int, bool) {
	t := e.mustType(enclosingType)
	offset := 0
	for _, name := range t.OrderedProperties {
		if name == property {
			return offset, true
		}
		offset += e.Size(t.Properties[name].StorageType())
	}
	return 0, false
}
