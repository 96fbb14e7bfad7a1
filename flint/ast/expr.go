package ast

import "github.com/tos-network/flint/flint/diag"

// Statement is one of *ExpressionStatement, *ReturnStatement,
// *BecomeStatement, *EmitStatement, *IfStatement or *ForStatement.
type Statement interface {
	statement()
}

// Expression is one of *Identifier, *SelfExpression, *Literal,
// *ArrayLiteral, *DictionaryLiteral, *RangeExpression, *BinaryExpression,
// *FunctionCall, *SubscriptExpression, *AttemptExpression,
// *InoutExpression, *BracketedExpression or *VariableDeclaration.
type Expression interface {
	expression()
}

type ExpressionStatement struct {
	Expr Expression
}

type ReturnStatement struct {
	Span diag.Span
	Expr Expression
}

// BecomeStatement transitions a stateful contract to another typestate.
type BecomeStatement struct {
	Span  diag.Span
	State Expression
}

type EmitStatement struct {
	Span diag.Span
	Call *FunctionCall
}

type IfStatement struct {
	Condition Expression
	Body      []Statement
	ElseBody  []Statement
}

type ForStatement struct {
	Variable *VariableDeclaration
	Iterable Expression
	Body     []Statement
}

type SelfExpression struct {
	Span diag.Span
}

type LiteralKind int

const (
	BooleanLiteral LiteralKind = iota
	IntegerLiteral
	StringLiteral
	AddressLiteral
)

type Literal struct {
	Kind  LiteralKind
	Value string
	Span  diag.Span
}

type ArrayLiteral struct {
	Elements []Expression
}

type DictionaryEntry struct {
	Key   Expression
	Value Expression
}

type DictionaryLiteral struct {
	Entries []DictionaryEntry
}

type RangeExpression struct {
	Start     Expression
	End       Expression
	Inclusive bool
}

type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpTimes
	OpDivide
	OpPower
	OpPercent
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpTimesAssign
	OpDivideAssign
	OpDot
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpOr
	OpAnd
)

var operatorSpelling = map[Operator]string{
	OpPlus:         "+",
	OpMinus:        "-",
	OpTimes:        "*",
	OpDivide:       "/",
	OpPower:        "**",
	OpPercent:      "%",
	OpAssign:       "=",
	OpPlusAssign:   "+=",
	OpMinusAssign:  "-=",
	OpTimesAssign:  "*=",
	OpDivideAssign: "/=",
	OpDot:          ".",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpOr:           "||",
	OpAnd:          "&&",
}

func (op Operator) String() string {
	if s, ok := operatorSpelling[op]; ok {
		return s
	}
	return "?"
}

// OperatorFromString is the inverse of Operator.String.
func OperatorFromString(s string) (Operator, bool) {
	for op, spelling := range operatorSpelling {
		if spelling == s {
			return op, true
		}
	}
	return 0, false
}

// IsBoolean reports whether the operator always produces a Bool.
func (op Operator) IsBoolean() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpOr, OpAnd:
		return true
	}
	return false
}

func (op Operator) IsAssignment() bool {
	switch op {
	case OpAssign, OpPlusAssign, OpMinusAssign, OpTimesAssign, OpDivideAssign:
		return true
	}
	return false
}

type BinaryExpression struct {
	Op  Operator
	LHS Expression
	RHS Expression
}

type FunctionArgument struct {
	Label *Identifier
	Expr  Expression
}

type FunctionCall struct {
	Identifier Identifier
	Arguments  []FunctionArgument
}

// Call builds an unlabeled call.
func Call(name string, args ...Expression) *FunctionCall {
	fc := &FunctionCall{Identifier: Ident(name)}
	for _, a := range args {
		fc.Arguments = append(fc.Arguments, FunctionArgument{Expr: a})
	}
	return fc
}

type SubscriptExpression struct {
	Base  Expression
	Index Expression
}

type AttemptKind int

const (
	// SoftAttempt (call?) yields whether the call was permitted.
	SoftAttempt AttemptKind = iota
	// HardAttempt (call!) reverts when the call is not permitted.
	HardAttempt
)

type AttemptExpression struct {
	Kind AttemptKind
	Call *FunctionCall
}

type InoutExpression struct {
	Expr Expression
}

type BracketedExpression struct {
	Expr Expression
}

func (*ExpressionStatement) statement() {}
func (*ReturnStatement) statement()     {}
func (*BecomeStatement) statement()     {}
func (*EmitStatement) statement()       {}
func (*IfStatement) statement()         {}
func (*ForStatement) statement()        {}

func (*Identifier) expression()          {}
func (*SelfExpression) expression()      {}
func (*Literal) expression()             {}
func (*ArrayLiteral) expression()        {}
func (*DictionaryLiteral) expression()   {}
func (*RangeExpression) expression()     {}
func (*BinaryExpression) expression()    {}
func (*FunctionCall) expression()        {}
func (*SubscriptExpression) expression() {}
func (*AttemptExpression) expression()   {}
func (*InoutExpression) expression()     {}
func (*BracketedExpression) expression() {}
func (*VariableDeclaration) expression() {}
