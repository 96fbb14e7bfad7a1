package manifest

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/sema"
	"github.com/tos-network/flint/flint/types"
)

const bankManifest = `declarations:
  - contract: Bank
    states: [Open, Closed]
    properties:
      - {name: owner, type: Address}
      - {name: total, type: Int, default: 0}
      - {name: balances, type: "[Address: Int]"}
      - {name: admin, type: Address, default: "0x00000000000000000000000000000000000000aa"}
    events:
      - name: Deposited
        params:
          - {name: amount, type: Int}
  - behaviour: Bank
    protections: [any]
    initializers:
      - {modifiers: [public], params: [{name: owner, type: Address}]}
  - behaviour: Bank
    states: [Open]
    caller: caller
    protections: [owner]
    functions:
      - {name: deposit, modifiers: [public, mutating], params: [{name: amount, type: Int}]}
      - {name: getTotal, modifiers: [public], returns: Int}
  - enum: Color
    type: Int
    cases:
      - {name: red}
      - {name: green, value: 5}
      - {name: blue}
  - trait: Named
    kind: struct
    functions:
      - {name: name, returns: String, signature: true}
`

func TestDecode(t *testing.T) {
	m, err := Decode([]byte(bankManifest), "bank.yaml")
	be.Err(t, err, nil)
	be.Equal(t, len(m.Declarations), 5)

	bank, ok := m.Declarations[0].(*ast.ContractDeclaration)
	be.True(t, ok)
	be.Equal(t, bank.Identifier.Name, "Bank")
	be.Equal(t, bank.Identifier.Span.File, "bank.yaml")
	be.Equal(t, bank.Identifier.Span.Start.Line, 2)
	be.Equal(t, len(bank.States), 2)

	vars := bank.VariableDeclarations()
	be.Equal(t, len(vars), 4)
	be.Equal(t, vars[1].Identifier.Span.Start.Line, 6)
	be.True(t, types.Equal(vars[2].Type, types.Dictionary{Key: types.AddressType, Value: types.IntType}))
	total := vars[1].AssignedExpression.(*ast.Literal)
	be.Equal(t, total.Kind, ast.IntegerLiteral)
	be.Equal(t, total.Value, "0")
	admin := vars[3].AssignedExpression.(*ast.Literal)
	be.Equal(t, admin.Kind, ast.AddressLiteral)

	owned := m.Declarations[2].(*ast.ContractBehaviourDeclaration)
	be.Equal(t, owned.CallerBinding.Name, "caller")
	be.Equal(t, owned.CallerProtections[0].Name(), "owner")
	be.Equal(t, len(owned.Members), 2)
	deposit := owned.Members[0].(*ast.FunctionDeclaration)
	be.True(t, deposit.IsPublic())
	be.True(t, deposit.IsMutating())

	trait := m.Declarations[4].(*ast.TraitDeclaration)
	be.Equal(t, trait.Kind, ast.StructTrait)
	_, isSig := trait.Members[0].(*ast.FunctionSignatureDeclaration)
	be.True(t, isSig)
}

func TestDecodedModuleChecks(t *testing.T) {
	m, err := Decode([]byte(bankManifest), "bank.yaml")
	be.Err(t, err, nil)

	checked, diags := sema.Check(m, sema.Options{})
	be.Equal(t, diags.HasErrors(), false)

	e := checked.Environment
	be.True(t, e.IsStateful("Bank"))
	be.True(t, e.PublicInitializer("Bank") != nil)
	be.Equal(t, len(e.Functions("deposit", "Bank")), 1)

	green, ok := e.EnumRawValue("Color", "green")
	be.True(t, ok)
	be.Equal(t, green, 5)
	blue, _ := e.EnumRawValue("Color", "blue")
	be.Equal(t, blue, 6)
}

func TestDiagnosticsPointIntoManifest(t *testing.T) {
	src := `declarations:
  - struct: Point
    properties:
      - {name: x, type: Int}
  - struct: Point
`
	m, err := Decode([]byte(src), "dup.yaml")
	be.Err(t, err, nil)

	_, diags := sema.Check(m, sema.Options{})
	be.True(t, diags.Contains(diag.CodeSemaInvalidRedeclaration))
	be.Equal(t, diags.Errors()[0].Span.File, "dup.yaml")
	be.Equal(t, diags.Errors()[0].Span.Start.Line, 5)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("declarations: {"), "bad.yaml")
	be.Err(t, err, "parsing bad.yaml")

	_, err = Decode([]byte("declarations:\n  - {contract: A, struct: B}\n"), "two.yaml")
	be.Err(t, err, "two.yaml:2")

	_, err = Decode([]byte("declarations:\n  - contract: A\n    properties:\n      - {name: x, type: \"[Int\"}\n"), "type.yaml")
	be.Err(t, err, "type.yaml")

	_, err = Decode([]byte("declarations:\n  - trait: T\n    kind: global\n"), "kind.yaml")
	be.Err(t, err, "unknown kind")

	_, err = Decode([]byte("declarations:\n  - contract: A\n    functions:\n      - {name: f}\n"), "fn.yaml")
	be.Err(t, err, "behaviour")
}
