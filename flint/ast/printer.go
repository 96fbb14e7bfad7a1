package ast

import (
	"fmt"
	"strings"

	"github.com/tos-network/flint/flint/types"
)

func (m *Module) String() string {
	if m == nil {
		return "<nil>"
	}
	if len(m.Declarations) == 0 {
		return "<empty module>"
	}
	parts := make([]string, 0, len(m.Declarations))
	for _, d := range m.Declarations {
		parts = append(parts, declString(d))
	}
	return strings.Join(parts, "\n\n")
}

func declString(d TopLevelDeclaration) string {
	switch d := d.(type) {
	case *ContractDeclaration:
		out := "contract " + d.Identifier.Name
		if len(d.Conformances) > 0 {
			out += ": " + identList(d.Conformances)
		}
		if len(d.States) > 0 {
			out += " (" + stateList(d.States) + ")"
		}
		out += " {\n"
		for _, m := range d.Members {
			switch m := m.(type) {
			case *VariableDeclaration:
				out += "  " + varString(m) + "\n"
			case *EventDeclaration:
				out += "  " + eventString(m) + "\n"
			}
		}
		return out + "}"
	case *ContractBehaviourDeclaration:
		out := d.ContractIdentifier.Name
		if len(d.States) > 0 {
			out += " @(" + stateList(d.States) + ")"
		}
		out += " :: "
		if d.CallerBinding != nil {
			out += d.CallerBinding.Name + " <- "
		}
		protections := make([]string, 0, len(d.CallerProtections))
		for _, p := range d.CallerProtections {
			protections = append(protections, p.Name())
		}
		out += "(" + strings.Join(protections, ", ") + ") {\n"
		for _, m := range d.Members {
			out += "  " + behaviourMemberString(m) + "\n"
		}
		return out + "}"
	case *StructDeclaration:
		out := "struct " + d.Identifier.Name
		if len(d.Conformances) > 0 {
			out += ": " + identList(d.Conformances)
		}
		out += " {\n"
		for _, m := range d.Members {
			switch m := m.(type) {
			case *VariableDeclaration:
				out += "  " + varString(m) + "\n"
			case *FunctionDeclaration:
				out += "  " + functionString(m) + "\n"
			case *SpecialDeclaration:
				out += "  " + specialString(&m.Signature, len(m.Body)) + "\n"
			}
		}
		return out + "}"
	case *EnumDeclaration:
		out := fmt.Sprintf("enum %s: %s {\n", d.Identifier.Name, typeName(d.Type))
		for _, c := range d.Cases {
			out += "  case " + c.Identifier.Name
			if lit, ok := c.HiddenValue.(*Literal); ok {
				out += " = " + lit.Value
			}
			out += "\n"
		}
		return out + "}"
	case *TraitDeclaration:
		out := fmt.Sprintf("%s trait %s {\n", d.Kind, d.Identifier.Name)
		for _, m := range d.Members {
			switch m := m.(type) {
			case *FunctionDeclaration:
				out += "  " + functionString(m) + "\n"
			case *FunctionSignatureDeclaration:
				out += "  " + signatureString(m) + "\n"
			case *SpecialDeclaration:
				out += "  " + specialString(&m.Signature, len(m.Body)) + "\n"
			case *SpecialSignatureDeclaration:
				out += "  " + specialString(m, -1) + "\n"
			case *EventDeclaration:
				out += "  " + eventString(m) + "\n"
			}
		}
		return out + "}"
	default:
		return fmt.Sprintf("<unknown declaration %T>", d)
	}
}

func behaviourMemberString(m ContractBehaviourMember) string {
	switch m := m.(type) {
	case *FunctionDeclaration:
		return functionString(m)
	case *FunctionSignatureDeclaration:
		return signatureString(m)
	case *SpecialDeclaration:
		return specialString(&m.Signature, len(m.Body))
	case *SpecialSignatureDeclaration:
		return specialString(m, -1)
	default:
		return fmt.Sprintf("<unknown member %T>", m)
	}
}

func varString(v *VariableDeclaration) string {
	kw := "var"
	if v.IsConstant {
		kw = "let"
	}
	out := fmt.Sprintf("%s %s: %s", kw, v.Identifier.Name, typeName(v.Type))
	if v.AssignedExpression != nil {
		out += " = " + exprString(v.AssignedExpression)
	}
	return out
}

func eventString(e *EventDeclaration) string {
	params := make([]string, 0, len(e.Variables))
	for _, v := range e.Variables {
		p := fmt.Sprintf("%s: %s", v.Identifier.Name, typeName(v.Type))
		if v.AssignedExpression != nil {
			p += " = " + exprString(v.AssignedExpression)
		}
		params = append(params, p)
	}
	return fmt.Sprintf("event %s(%s)", e.Identifier.Name, strings.Join(params, ", "))
}

func signatureString(s *FunctionSignatureDeclaration) string {
	out := ""
	for _, m := range s.Modifiers {
		out += m + " "
	}
	out += "func " + s.Identifier.Name + "(" + paramList(s.Parameters) + ")"
	if s.ResultType != nil && !types.IsBasic(s.ResultType, types.Void) {
		out += " -> " + s.ResultType.Name()
	}
	return out
}

func functionString(f *FunctionDeclaration) string {
	return fmt.Sprintf("%s { ... } // stmts=%d", signatureString(&f.Signature), len(f.Body))
}

func specialString(s *SpecialSignatureDeclaration, stmts int) string {
	out := ""
	for _, m := range s.Modifiers {
		out += m + " "
	}
	out += s.Kind.String() + "(" + paramList(s.Parameters) + ")"
	if stmts >= 0 {
		out += fmt.Sprintf(" { ... } // stmts=%d", stmts)
	}
	return out
}

func paramList(params []*Parameter) string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		s := fmt.Sprintf("%s: %s", p.Identifier.Name, typeName(p.Type))
		if p.IsImplicit {
			s = "implicit " + s
		}
		out = append(out, s)
	}
	return strings.Join(out, ", ")
}

func identList(ids []Identifier) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Name)
	}
	return strings.Join(out, ", ")
}

func stateList(states []TypeState) string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, s.Name())
	}
	return strings.Join(out, ", ")
}

func typeName(t types.RawType) string {
	if t == nil {
		return "Void"
	}
	return t.Name()
}

// ExprString renders an expression in source-like form for diagnostics.
func ExprString(e Expression) string {
	return exprString(e)
}

func exprString(e Expression) string {
	switch e := e.(type) {
	case nil:
		return ""
	case *Identifier:
		return e.Name
	case *SelfExpression:
		return "self"
	case *Literal:
		if e.Kind == StringLiteral {
			return fmt.Sprintf("%q", e.Value)
		}
		return e.Value
	case *ArrayLiteral:
		out := make([]string, 0, len(e.Elements))
		for _, el := range e.Elements {
			out = append(out, exprString(el))
		}
		return "[" + strings.Join(out, ", ") + "]"
	case *DictionaryLiteral:
		if len(e.Entries) == 0 {
			return "[:]"
		}
		out := make([]string, 0, len(e.Entries))
		for _, en := range e.Entries {
			out = append(out, exprString(en.Key)+": "+exprString(en.Value))
		}
		return "[" + strings.Join(out, ", ") + "]"
	case *RangeExpression:
		op := "..<"
		if e.Inclusive {
			op = "..."
		}
		return "(" + exprString(e.Start) + op + exprString(e.End) + ")"
	case *BinaryExpression:
		if e.Op == OpDot {
			return exprString(e.LHS) + "." + exprString(e.RHS)
		}
		return exprString(e.LHS) + " " + e.Op.String() + " " + exprString(e.RHS)
	case *FunctionCall:
		args := make([]string, 0, len(e.Arguments))
		for _, a := range e.Arguments {
			s := exprString(a.Expr)
			if a.Label != nil {
				s = a.Label.Name + ": " + s
			}
			args = append(args, s)
		}
		return e.Identifier.Name + "(" + strings.Join(args, ", ") + ")"
	case *SubscriptExpression:
		return exprString(e.Base) + "[" + exprString(e.Index) + "]"
	case *AttemptExpression:
		mark := "?"
		if e.Kind == HardAttempt {
			mark = "!"
		}
		return "try" + mark + " " + exprString(e.Call)
	case *InoutExpression:
		return "&" + exprString(e.Expr)
	case *BracketedExpression:
		return "(" + exprString(e.Expr) + ")"
	case *VariableDeclaration:
		return varString(e)
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
