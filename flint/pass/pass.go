package pass

import "github.com/tos-network/flint/flint/ast"

// Pass has one Process/PostProcess pair per declaration kind. Statements and
// expressions go through a single hook each; implementations switch on the
// concrete node type. Embed Base to get no-op defaults.
type Pass interface {
	Name() string

	ProcessModule(m *ast.Module, ctx Context) Result[*ast.Module]
	PostProcessModule(m *ast.Module, ctx Context) Result[*ast.Module]

	ProcessContractDeclaration(d *ast.ContractDeclaration, ctx Context) Result[*ast.ContractDeclaration]
	PostProcessContractDeclaration(d *ast.ContractDeclaration, ctx Context) Result[*ast.ContractDeclaration]

	ProcessContractBehaviourDeclaration(d *ast.ContractBehaviourDeclaration, ctx Context) Result[*ast.ContractBehaviourDeclaration]
	PostProcessContractBehaviourDeclaration(d *ast.ContractBehaviourDeclaration, ctx Context) Result[*ast.ContractBehaviourDeclaration]

	ProcessStructDeclaration(d *ast.StructDeclaration, ctx Context) Result[*ast.StructDeclaration]
	PostProcessStructDeclaration(d *ast.StructDeclaration, ctx Context) Result[*ast.StructDeclaration]

	ProcessEnumDeclaration(d *ast.EnumDeclaration, ctx Context) Result[*ast.EnumDeclaration]
	PostProcessEnumDeclaration(d *ast.EnumDeclaration, ctx Context) Result[*ast.EnumDeclaration]

	ProcessEnumMember(m *ast.EnumMember, ctx Context) Result[*ast.EnumMember]
	PostProcessEnumMember(m *ast.EnumMember, ctx Context) Result[*ast.EnumMember]

	ProcessTraitDeclaration(d *ast.TraitDeclaration, ctx Context) Result[*ast.TraitDeclaration]
	PostProcessTraitDeclaration(d *ast.TraitDeclaration, ctx Context) Result[*ast.TraitDeclaration]

	ProcessEventDeclaration(d *ast.EventDeclaration, ctx Context) Result[*ast.EventDeclaration]
	PostProcessEventDeclaration(d *ast.EventDeclaration, ctx Context) Result[*ast.EventDeclaration]

	ProcessVariableDeclaration(d *ast.VariableDeclaration, ctx Context) Result[*ast.VariableDeclaration]
	PostProcessVariableDeclaration(d *ast.VariableDeclaration, ctx Context) Result[*ast.VariableDeclaration]

	ProcessFunctionDeclaration(d *ast.FunctionDeclaration, ctx Context) Result[*ast.FunctionDeclaration]
	PostProcessFunctionDeclaration(d *ast.FunctionDeclaration, ctx Context) Result[*ast.FunctionDeclaration]

	ProcessFunctionSignatureDeclaration(d *ast.FunctionSignatureDeclaration, ctx Context) Result[*ast.FunctionSignatureDeclaration]
	PostProcessFunctionSignatureDeclaration(d *ast.FunctionSignatureDeclaration, ctx Context) Result[*ast.FunctionSignatureDeclaration]

	ProcessSpecialDeclaration(d *ast.SpecialDeclaration, ctx Context) Result[*ast.SpecialDeclaration]
	PostProcessSpecialDeclaration(d *ast.SpecialDeclaration, ctx Context) Result[*ast.SpecialDeclaration]

	ProcessSpecialSignatureDeclaration(d *ast.SpecialSignatureDeclaration, ctx Context) Result[*ast.SpecialSignatureDeclaration]
	PostProcessSpecialSignatureDeclaration(d *ast.SpecialSignatureDeclaration, ctx Context) Result[*ast.SpecialSignatureDeclaration]

	ProcessParameter(p *ast.Parameter, ctx Context) Result[*ast.Parameter]
	PostProcessParameter(p *ast.Parameter, ctx Context) Result[*ast.Parameter]

	ProcessStatement(s ast.Statement, ctx Context) Result[ast.Statement]
	PostProcessStatement(s ast.Statement, ctx Context) Result[ast.Statement]

	ProcessExpression(e ast.Expression, ctx Context) Result[ast.Expression]
	PostProcessExpression(e ast.Expression, ctx Context) Result[ast.Expression]
}

// Base implements every hook as the identity.
type Base struct{}

func (Base) ProcessModule(m *ast.Module, ctx Context) Result[*ast.Module] { return Keep(m, ctx) }
func (Base) PostProcessModule(m *ast.Module, ctx Context) Result[*ast.Module] {
	return Keep(m, ctx)
}

func (Base) ProcessContractDeclaration(d *ast.ContractDeclaration, ctx Context) Result[*ast.ContractDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessContractDeclaration(d *ast.ContractDeclaration, ctx Context) Result[*ast.ContractDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessContractBehaviourDeclaration(d *ast.ContractBehaviourDeclaration, ctx Context) Result[*ast.ContractBehaviourDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessContractBehaviourDeclaration(d *ast.ContractBehaviourDeclaration, ctx Context) Result[*ast.ContractBehaviourDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessStructDeclaration(d *ast.StructDeclaration, ctx Context) Result[*ast.StructDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessStructDeclaration(d *ast.StructDeclaration, ctx Context) Result[*ast.StructDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessEnumDeclaration(d *ast.EnumDeclaration, ctx Context) Result[*ast.EnumDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessEnumDeclaration(d *ast.EnumDeclaration, ctx Context) Result[*ast.EnumDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessEnumMember(m *ast.EnumMember, ctx Context) Result[*ast.EnumMember] {
	return Keep(m, ctx)
}
func (Base) PostProcessEnumMember(m *ast.EnumMember, ctx Context) Result[*ast.EnumMember] {
	return Keep(m, ctx)
}

func (Base) ProcessTraitDeclaration(d *ast.TraitDeclaration, ctx Context) Result[*ast.TraitDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessTraitDeclaration(d *ast.TraitDeclaration, ctx Context) Result[*ast.TraitDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessEventDeclaration(d *ast.EventDeclaration, ctx Context) Result[*ast.EventDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessEventDeclaration(d *ast.EventDeclaration, ctx Context) Result[*ast.EventDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessVariableDeclaration(d *ast.VariableDeclaration, ctx Context) Result[*ast.VariableDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessVariableDeclaration(d *ast.VariableDeclaration, ctx Context) Result[*ast.VariableDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessFunctionDeclaration(d *ast.FunctionDeclaration, ctx Context) Result[*ast.FunctionDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessFunctionDeclaration(d *ast.FunctionDeclaration, ctx Context) Result[*ast.FunctionDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessFunctionSignatureDeclaration(d *ast.FunctionSignatureDeclaration, ctx Context) Result[*ast.FunctionSignatureDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessFunctionSignatureDeclaration(d *ast.FunctionSignatureDeclaration, ctx Context) Result[*ast.FunctionSignatureDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessSpecialDeclaration(d *ast.SpecialDeclaration, ctx Context) Result[*ast.SpecialDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessSpecialDeclaration(d *ast.SpecialDeclaration, ctx Context) Result[*ast.SpecialDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessSpecialSignatureDeclaration(d *ast.SpecialSignatureDeclaration, ctx Context) Result[*ast.SpecialSignatureDeclaration] {
	return Keep(d, ctx)
}
func (Base) PostProcessSpecialSignatureDeclaration(d *ast.SpecialSignatureDeclaration, ctx Context) Result[*ast.SpecialSignatureDeclaration] {
	return Keep(d, ctx)
}

func (Base) ProcessParameter(p *ast.Parameter, ctx Context) Result[*ast.Parameter] {
	return Keep(p, ctx)
}
func (Base) PostProcessParameter(p *ast.Parameter, ctx Context) Result[*ast.Parameter] {
	return Keep(p, ctx)
}

func (Base) ProcessStatement(s ast.Statement, ctx Context) Result[ast.Statement] {
	return Keep(s, ctx)
}
func (Base) PostProcessStatement(s ast.Statement, ctx Context) Result[ast.Statement] {
	return Keep(s, ctx)
}

func (Base) ProcessExpression(e ast.Expression, ctx Context) Result[ast.Expression] {
	return Keep(e, ctx)
}
func (Base) PostProcessExpression(e ast.Expression, ctx Context) Result[ast.Expression] {
	return Keep(e, ctx)
}
