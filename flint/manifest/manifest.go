// Package manifest decodes a YAML declaration manifest into an ast.Module.
//
// A manifest lists top-level declarations in source order. It carries
// declarations only: function bodies are empty. Spans point at the YAML
// line and column of each declared name, so diagnostics refer back into
// the manifest file.
//
//	declarations:
//	  - contract: Bank
//	    states: [Open, Closed]
//	    properties:
//	      - {name: owner, type: Address}
//	      - {name: total, type: Int, default: 0}
//	    events:
//	      - {name: Deposited, params: [{name: amount, type: Int}]}
//	  - behaviour: Bank
//	    states: [Open]
//	    caller: caller
//	    protections: [owner]
//	    functions:
//	      - {name: deposit, modifiers: [public, mutating], params: [{name: amount, type: Int}]}
package manifest

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/types"
)

// Manifest is the decoded YAML document.
type Manifest struct {
	Declarations []Declaration `yaml:"declarations"`
}

// Declaration is one top-level declaration. Exactly one of the kind keys
// (contract, behaviour, struct, enum, trait) names it.
type Declaration struct {
	Contract  string `yaml:"contract,omitempty"`
	Behaviour string `yaml:"behaviour,omitempty"`
	Struct    string `yaml:"struct,omitempty"`
	Enum      string `yaml:"enum,omitempty"`
	Trait     string `yaml:"trait,omitempty"`

	// TraitKind is contract, struct or external. Defaults to contract.
	TraitKind string `yaml:"kind,omitempty"`

	// Type is the raw type backing an enum.
	Type string `yaml:"type,omitempty"`

	Conforms    []string `yaml:"conforms,omitempty"`
	States      []string `yaml:"states,omitempty"`
	Caller      string   `yaml:"caller,omitempty"`
	Protections []string `yaml:"protections,omitempty"`

	Properties   []Variable `yaml:"properties,omitempty"`
	Events       []Event    `yaml:"events,omitempty"`
	Cases        []Case     `yaml:"cases,omitempty"`
	Functions    []Function `yaml:"functions,omitempty"`
	Initializers []Special  `yaml:"initializers,omitempty"`
	Fallbacks    []Special  `yaml:"fallbacks,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// Variable is a property or an event field.
type Variable struct {
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"`
	Constant  bool       `yaml:"constant,omitempty"`
	Modifiers []string   `yaml:"modifiers,omitempty"`
	Default   *yaml.Node `yaml:"default,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

type Event struct {
	Name   string     `yaml:"name"`
	Params []Variable `yaml:"params,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

type Case struct {
	Name  string     `yaml:"name"`
	Value *yaml.Node `yaml:"value,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

type Param struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Implicit bool       `yaml:"implicit,omitempty"`
	Default  *yaml.Node `yaml:"default,omitempty"`
}

// Function is a function, or a signature when Signature is set.
type Function struct {
	Name      string   `yaml:"name"`
	Modifiers []string `yaml:"modifiers,omitempty"`
	Mutates   []string `yaml:"mutates,omitempty"`
	Params    []Param  `yaml:"params,omitempty"`
	Returns   string   `yaml:"returns,omitempty"`
	Signature bool     `yaml:"signature,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// Special is an initializer or fallback, or its signature when Signature
// is set.
type Special struct {
	Modifiers []string `yaml:"modifiers,omitempty"`
	Params    []Param  `yaml:"params,omitempty"`
	Signature bool     `yaml:"signature,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (d *Declaration) UnmarshalYAML(n *yaml.Node) error {
	type plain Declaration
	if err := n.Decode((*plain)(d)); err != nil {
		return err
	}
	d.Line, d.Column = n.Line, n.Column
	return nil
}

func (v *Variable) UnmarshalYAML(n *yaml.Node) error {
	type plain Variable
	if err := n.Decode((*plain)(v)); err != nil {
		return err
	}
	v.Line, v.Column = n.Line, n.Column
	return nil
}

func (e *Event) UnmarshalYAML(n *yaml.Node) error {
	type plain Event
	if err := n.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line, e.Column = n.Line, n.Column
	return nil
}

func (c *Case) UnmarshalYAML(n *yaml.Node) error {
	type plain Case
	if err := n.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Line, c.Column = n.Line, n.Column
	return nil
}

func (f *Function) UnmarshalYAML(n *yaml.Node) error {
	type plain Function
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.Line, f.Column = n.Line, n.Column
	return nil
}

func (s *Special) UnmarshalYAML(n *yaml.Node) error {
	type plain Special
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line, s.Column = n.Line, n.Column
	return nil
}

// Load reads a manifest file and decodes it.
func Load(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Decode(data, path)
}

// Decode parses manifest YAML. file names the source in spans and errors.
func Decode(data []byte, file string) (*ast.Module, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", file)
	}
	return m.Module(file)
}

// Module converts the manifest into an AST.
func (m *Manifest) Module(file string) (*ast.Module, error) {
	b := &builder{file: file}
	mod := &ast.Module{}
	for i := range m.Declarations {
		d, err := b.declaration(&m.Declarations[i])
		if err != nil {
			return nil, err
		}
		mod.Declarations = append(mod.Declarations, d)
	}
	return mod, nil
}

type builder struct {
	file string
}

func (b *builder) errorf(line int, format string, args ...any) error {
	return errors.Errorf("%s:%d: "+format, append([]any{b.file, line}, args...)...)
}

func (b *builder) ident(name string, line, column int) ast.Identifier {
	return ast.IdentAt(name, b.file, line, column)
}

func (b *builder) span(line, column, width int) diag.Span {
	return diag.Span{
		File:  b.file,
		Start: diag.Position{Line: line, Column: column},
		End:   diag.Position{Line: line, Column: column + width},
	}
}

func (b *builder) rawType(s string, line int) (types.RawType, error) {
	t, err := types.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(err, "%s:%d", b.file, line)
	}
	return t, nil
}

func (b *builder) declaration(d *Declaration) (ast.TopLevelDeclaration, error) {
	var kinds []string
	for kind, name := range map[string]string{
		"contract": d.Contract, "behaviour": d.Behaviour, "struct": d.Struct, "enum": d.Enum, "trait": d.Trait,
	} {
		if name != "" {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) != 1 {
		return nil, b.errorf(d.Line, "a declaration names exactly one of contract, behaviour, struct, enum or trait")
	}

	switch {
	case d.Contract != "":
		return b.contract(d)
	case d.Behaviour != "":
		return b.behaviour(d)
	case d.Struct != "":
		return b.structDecl(d)
	case d.Enum != "":
		return b.enum(d)
	default:
		return b.trait(d)
	}
}

func (b *builder) names(names []string, line, column int) []ast.Identifier {
	out := make([]ast.Identifier, 0, len(names))
	for _, n := range names {
		out = append(out, b.ident(n, line, column))
	}
	return out
}

func (b *builder) states(names []string, line, column int) []ast.TypeState {
	var out []ast.TypeState
	for _, n := range names {
		out = append(out, ast.TypeState{Identifier: b.ident(n, line, column)})
	}
	return out
}

func (b *builder) contract(d *Declaration) (*ast.ContractDeclaration, error) {
	if len(d.Functions)+len(d.Initializers)+len(d.Fallbacks) > 0 {
		return nil, b.errorf(d.Line, "contract %s: functions belong in a behaviour block", d.Contract)
	}
	out := &ast.ContractDeclaration{
		Identifier:   b.ident(d.Contract, d.Line, d.Column),
		Conformances: b.names(d.Conforms, d.Line, d.Column),
		States:       b.states(d.States, d.Line, d.Column),
	}
	for i := range d.Properties {
		v, err := b.variable(&d.Properties[i])
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, v)
	}
	for i := range d.Events {
		ev, err := b.event(&d.Events[i])
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, ev)
	}
	return out, nil
}

func (b *builder) behaviour(d *Declaration) (*ast.ContractBehaviourDeclaration, error) {
	if len(d.Properties)+len(d.Events) > 0 {
		return nil, b.errorf(d.Line, "behaviour %s: properties and events belong in the contract", d.Behaviour)
	}
	out := &ast.ContractBehaviourDeclaration{
		ContractIdentifier: b.ident(d.Behaviour, d.Line, d.Column),
		States:             b.states(d.States, d.Line, d.Column),
	}
	if d.Caller != "" {
		caller := b.ident(d.Caller, d.Line, d.Column)
		out.CallerBinding = &caller
	}
	protections := d.Protections
	if len(protections) == 0 {
		protections = []string{"any"}
	}
	for _, p := range protections {
		out.CallerProtections = append(out.CallerProtections, ast.CallerProtection{Identifier: b.ident(p, d.Line, d.Column)})
	}
	for i := range d.Functions {
		m, err := b.function(&d.Functions[i])
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.ContractBehaviourMember))
	}
	for i := range d.Initializers {
		m, err := b.special(&d.Initializers[i], ast.InitKind)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.ContractBehaviourMember))
	}
	for i := range d.Fallbacks {
		m, err := b.special(&d.Fallbacks[i], ast.FallbackKind)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.ContractBehaviourMember))
	}
	return out, nil
}

func (b *builder) structDecl(d *Declaration) (*ast.StructDeclaration, error) {
	if len(d.Events)+len(d.Fallbacks) > 0 {
		return nil, b.errorf(d.Line, "struct %s: structs declare no events or fallbacks", d.Struct)
	}
	out := &ast.StructDeclaration{
		Identifier:   b.ident(d.Struct, d.Line, d.Column),
		Conformances: b.names(d.Conforms, d.Line, d.Column),
	}
	for i := range d.Properties {
		v, err := b.variable(&d.Properties[i])
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, v)
	}
	for i := range d.Functions {
		f := &d.Functions[i]
		if f.Signature {
			return nil, b.errorf(f.Line, "struct %s: %s needs a body", d.Struct, f.Name)
		}
		m, err := b.function(f)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.StructMember))
	}
	for i := range d.Initializers {
		s := &d.Initializers[i]
		if s.Signature {
			return nil, b.errorf(s.Line, "struct %s: initializers need a body", d.Struct)
		}
		m, err := b.special(s, ast.InitKind)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.StructMember))
	}
	return out, nil
}

func (b *builder) enum(d *Declaration) (*ast.EnumDeclaration, error) {
	out := &ast.EnumDeclaration{Identifier: b.ident(d.Enum, d.Line, d.Column)}
	if d.Type != "" {
		t, err := b.rawType(d.Type, d.Line)
		if err != nil {
			return nil, err
		}
		out.Type = t
	}
	for i := range d.Cases {
		c := &d.Cases[i]
		m := &ast.EnumMember{Identifier: b.ident(c.Name, c.Line, c.Column)}
		if c.Value != nil {
			m.HiddenValue = b.literal(c.Value)
		}
		out.Cases = append(out.Cases, m)
	}
	return out, nil
}

var traitKinds = map[string]ast.TraitKind{
	"":         ast.ContractTrait,
	"contract": ast.ContractTrait,
	"struct":   ast.StructTrait,
	"external": ast.ExternalTrait,
}

func (b *builder) trait(d *Declaration) (*ast.TraitDeclaration, error) {
	kind, ok := traitKinds[strings.ToLower(d.TraitKind)]
	if !ok {
		return nil, b.errorf(d.Line, "trait %s: unknown kind %q", d.Trait, d.TraitKind)
	}
	if len(d.Properties) > 0 {
		return nil, b.errorf(d.Line, "trait %s: traits declare no properties", d.Trait)
	}
	out := &ast.TraitDeclaration{Kind: kind, Identifier: b.ident(d.Trait, d.Line, d.Column)}
	for i := range d.Functions {
		m, err := b.function(&d.Functions[i])
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.TraitMember))
	}
	for i := range d.Initializers {
		m, err := b.special(&d.Initializers[i], ast.InitKind)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, m.(ast.TraitMember))
	}
	for i := range d.Events {
		ev, err := b.event(&d.Events[i])
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, ev)
	}
	return out, nil
}

func (b *builder) variable(v *Variable) (*ast.VariableDeclaration, error) {
	t, err := b.rawType(v.Type, v.Line)
	if err != nil {
		return nil, err
	}
	out := &ast.VariableDeclaration{
		Identifier: b.ident(v.Name, v.Line, v.Column),
		Type:       t,
		IsConstant: v.Constant,
		Modifiers:  v.Modifiers,
	}
	if v.Default != nil {
		out.AssignedExpression = b.literal(v.Default)
	}
	return out, nil
}

func (b *builder) event(e *Event) (*ast.EventDeclaration, error) {
	out := &ast.EventDeclaration{Identifier: b.ident(e.Name, e.Line, e.Column)}
	for i := range e.Params {
		v, err := b.variable(&e.Params[i])
		if err != nil {
			return nil, err
		}
		out.Variables = append(out.Variables, v)
	}
	return out, nil
}

func (b *builder) params(in []Param, line, column int) ([]*ast.Parameter, error) {
	var out []*ast.Parameter
	for _, p := range in {
		t, err := b.rawType(p.Type, line)
		if err != nil {
			return nil, err
		}
		param := &ast.Parameter{
			Identifier: b.ident(p.Name, line, column),
			Type:       t,
			IsImplicit: p.Implicit,
		}
		if p.Default != nil {
			param.AssignedExpression = b.literal(p.Default)
		}
		out = append(out, param)
	}
	return out, nil
}

// function returns a *ast.FunctionDeclaration, or a
// *ast.FunctionSignatureDeclaration for a signature.
func (b *builder) function(f *Function) (any, error) {
	params, err := b.params(f.Params, f.Line, f.Column)
	if err != nil {
		return nil, err
	}
	sig := ast.FunctionSignatureDeclaration{
		Identifier: b.ident(f.Name, f.Line, f.Column),
		Modifiers:  f.Modifiers,
		Mutates:    b.names(f.Mutates, f.Line, f.Column),
		Parameters: params,
	}
	if f.Returns != "" {
		t, err := b.rawType(f.Returns, f.Line)
		if err != nil {
			return nil, err
		}
		sig.ResultType = t
	}
	if f.Signature {
		return &sig, nil
	}
	return &ast.FunctionDeclaration{Signature: sig}, nil
}

// special returns a *ast.SpecialDeclaration, or a
// *ast.SpecialSignatureDeclaration for a signature.
func (b *builder) special(s *Special, kind ast.SpecialKind) (any, error) {
	params, err := b.params(s.Params, s.Line, s.Column)
	if err != nil {
		return nil, err
	}
	sig := ast.SpecialSignatureDeclaration{
		Kind:       kind,
		Span:       b.span(s.Line, s.Column, len(kind.String())),
		Modifiers:  s.Modifiers,
		Parameters: params,
	}
	if s.Signature {
		return &sig, nil
	}
	return &ast.SpecialDeclaration{Signature: sig}, nil
}

// literal reads a scalar default value. Hex strings of address width are
// addresses.
func (b *builder) literal(n *yaml.Node) ast.Expression {
	lit := &ast.Literal{Value: n.Value, Span: b.span(n.Line, n.Column, len(n.Value))}
	switch {
	case isAddress(n.Value):
		lit.Kind = ast.AddressLiteral
	case n.ShortTag() == "!!bool":
		lit.Kind = ast.BooleanLiteral
		lit.Value = strings.ToLower(n.Value)
	case n.ShortTag() == "!!int":
		lit.Kind = ast.IntegerLiteral
	default:
		lit.Kind = ast.StringLiteral
	}
	return lit
}

func isAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, r := range s[2:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
