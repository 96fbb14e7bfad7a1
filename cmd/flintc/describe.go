package main

import (
	"sort"
	"strings"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/env"
	"github.com/tos-network/flint/flint/lower"
	"github.com/tos-network/flint/flint/types"
)

type envDoc struct {
	Types []typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name              string        `yaml:"name"`
	Kind              string        `yaml:"kind"`
	RawType           string        `yaml:"raw_type,omitempty"`
	Conformances      []string      `yaml:"conformances,omitempty"`
	Properties        []propertyDoc `yaml:"properties,omitempty"`
	Functions         []functionDoc `yaml:"functions,omitempty"`
	Initializers      []specialDoc  `yaml:"initializers,omitempty"`
	Fallbacks         []specialDoc  `yaml:"fallbacks,omitempty"`
	Events            []eventDoc    `yaml:"events,omitempty"`
	PublicInitializer bool          `yaml:"public_initializer,omitempty"`
	PublicFallback    bool          `yaml:"public_fallback,omitempty"`
}

type propertyDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Constant bool   `yaml:"constant,omitempty"`
	Default  bool   `yaml:"default,omitempty"`
	RawValue *int   `yaml:"raw_value,omitempty"`
}

type functionDoc struct {
	Signature   string   `yaml:"signature"`
	Result      string   `yaml:"result"`
	Selector    string   `yaml:"selector,omitempty"`
	Protections []string `yaml:"protections,omitempty"`
	States      []string `yaml:"states,omitempty"`
	Public      bool     `yaml:"public,omitempty"`
	Mutating    bool     `yaml:"mutating,omitempty"`
	Declared    bool     `yaml:"signature_only,omitempty"`
}

type specialDoc struct {
	Params      string   `yaml:"params"`
	Protections []string `yaml:"protections,omitempty"`
	States      []string `yaml:"states,omitempty"`
	Public      bool     `yaml:"public,omitempty"`
	Generated   bool     `yaml:"generated,omitempty"`
	Declared    bool     `yaml:"signature_only,omitempty"`
}

type eventDoc struct {
	Name   string `yaml:"name"`
	Params string `yaml:"params"`
}

// describeEnvironment lists every type in name order. Prelude types are
// skipped unless withPrelude is set.
func describeEnvironment(e *env.Environment, withPrelude bool) envDoc {
	var out envDoc
	for _, name := range e.TypeNames() {
		if !withPrelude && isPreludeType(name) {
			continue
		}
		t, _ := e.Type(name)
		out.Types = append(out.Types, describeType(e, t))
	}
	return out
}

func isPreludeType(name string) bool {
	return types.IsStdlibName(name) || name == env.GlobalFunctionStructName
}

func describeType(e *env.Environment, t *env.TypeInformation) typeDoc {
	doc := typeDoc{
		Name:              t.Name,
		Kind:              t.Kind.String(),
		PublicInitializer: t.PublicInitializer != nil,
		PublicFallback:    t.PublicFallback != nil,
	}
	if t.Kind == env.KindEnum && t.RawType != nil {
		doc.RawType = t.RawType.Name()
	}
	for _, c := range t.Conformances {
		doc.Conformances = append(doc.Conformances, c.Name)
	}
	for _, p := range e.PropertyDeclarations(t.Name) {
		pd := propertyDoc{
			Name:     p.Identifier().Name,
			Type:     p.RawType().Name(),
			Constant: p.IsConstant(),
			Default:  p.HasDefault(),
		}
		if v, ok := e.EnumRawValue(t.Name, pd.Name); ok {
			pd.RawValue = &v
		}
		doc.Properties = append(doc.Properties, pd)
	}
	for _, name := range t.FunctionNames() {
		for _, fn := range t.Functions[name] {
			doc.Functions = append(doc.Functions, describeFunction(fn))
		}
	}
	for _, s := range t.Initializers {
		doc.Initializers = append(doc.Initializers, describeSpecial(s))
	}
	for _, s := range t.Fallbacks {
		doc.Fallbacks = append(doc.Fallbacks, describeSpecial(s))
	}
	eventNames := make([]string, 0, len(t.Events))
	for name := range t.Events {
		eventNames = append(eventNames, name)
	}
	sort.Strings(eventNames)
	for _, name := range eventNames {
		for _, ev := range t.Events[name] {
			doc.Events = append(doc.Events, eventDoc{Name: name, Params: typeList(ev.ParameterTypes())})
		}
	}
	return doc
}

func describeFunction(fn *env.FunctionInformation) functionDoc {
	doc := functionDoc{
		Signature:   fn.Name() + "(" + typeList(fn.ParameterTypes()) + ")",
		Result:      fn.ResultType().Name(),
		Protections: protectionNames(fn.CallerProtections),
		States:      stateNames(fn.TypeStates),
		Public:      fn.Declaration.IsPublic(),
		Mutating:    fn.IsMutating,
		Declared:    fn.IsSignature,
	}
	if doc.Public && !fn.IsSignature {
		doc.Selector = env.Selector(fn)
	}
	return doc
}

func describeSpecial(s *env.SpecialInformation) specialDoc {
	return specialDoc{
		Params:      typeList(s.ParameterTypes()),
		Protections: protectionNames(s.CallerProtections),
		States:      stateNames(s.TypeStates),
		Public:      s.Declaration.IsPublic(),
		Generated:   s.IsGenerated(),
		Declared:    s.IsSignature,
	}
}

type layoutDoc struct {
	Contracts []contractLayoutDoc `yaml:"contracts"`
}

type contractLayoutDoc struct {
	Name              string        `yaml:"name"`
	States            []string      `yaml:"states,omitempty"`
	StorageSize       int           `yaml:"storage_size"`
	Storage           []slotDoc     `yaml:"storage,omitempty"`
	Dispatch          []dispatchDoc `yaml:"dispatch,omitempty"`
	PublicInitializer string        `yaml:"public_initializer,omitempty"`
	Fallback          bool          `yaml:"fallback,omitempty"`
}

type slotDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Offset   int    `yaml:"offset"`
	Size     int    `yaml:"size"`
	Constant bool   `yaml:"constant,omitempty"`
}

type dispatchDoc struct {
	Selector    string   `yaml:"selector"`
	Signature   string   `yaml:"signature"`
	Result      string   `yaml:"result"`
	Protections []string `yaml:"protections,omitempty"`
	States      []string `yaml:"states,omitempty"`
	Mutating    bool     `yaml:"mutating,omitempty"`
}

func describeLayout(progs []*lower.Program) layoutDoc {
	var out layoutDoc
	for _, p := range progs {
		c := contractLayoutDoc{
			Name:        p.ContractName,
			States:      p.States,
			StorageSize: p.StorageSize,
			Fallback:    p.HasFallback,
		}
		for _, s := range p.StorageSlots {
			c.Storage = append(c.Storage, slotDoc(s))
		}
		for _, fn := range p.Functions {
			c.Dispatch = append(c.Dispatch, dispatchDoc{
				Selector:    fn.Selector,
				Signature:   fn.Signature,
				Result:      fn.ResultType,
				Protections: fn.CallerProtections,
				States:      fn.TypeStates,
				Mutating:    fn.Mutating,
			})
		}
		if p.HasPublicInitializer {
			c.PublicInitializer = "init(" + paramList(p.InitializerParams) + ")"
		}
		out.Contracts = append(out.Contracts, c)
	}
	return out
}

func typeList(ts []types.RawType) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, t.Name())
	}
	return strings.Join(parts, ", ")
}

func paramList(params []*ast.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Identifier.Name+": "+p.Type.Name())
	}
	return strings.Join(parts, ", ")
}

func protectionNames(in []ast.CallerProtection) []string {
	var out []string
	for _, p := range in {
		out = append(out, p.Name())
	}
	return out
}

func stateNames(in []ast.TypeState) []string {
	var out []string
	for _, s := range in {
		out = append(out, s.Name())
	}
	return out
}
