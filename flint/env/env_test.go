package env

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/types"
)

const testFile = "test.flint"

func id(name string, line int) ast.Identifier {
	return ast.IdentAt(name, testFile, line, 1)
}

func prot(names ...string) []ast.CallerProtection {
	out := make([]ast.CallerProtection, 0, len(names))
	for _, n := range names {
		out = append(out, ast.CallerProtection{Identifier: ast.Ident(n)})
	}
	return out
}

func states(names ...string) []ast.TypeState {
	out := make([]ast.TypeState, 0, len(names))
	for _, n := range names {
		out = append(out, ast.TypeState{Identifier: ast.Ident(n)})
	}
	return out
}

func param(name string, t types.RawType) *ast.Parameter {
	return &ast.Parameter{Identifier: ast.Ident(name), Type: t}
}

func function(name string, line int, result types.RawType, params ...*ast.Parameter) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{
		Signature: ast.FunctionSignatureDeclaration{
			Identifier: id(name, line),
			Modifiers:  []string{"public"},
			Parameters: params,
			ResultType: result,
		},
	}
}

func variable(name string, t types.RawType, line int, def ast.Expression) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{Identifier: id(name, line), Type: t, AssignedExpression: def}
}

func intLit(v string) *ast.Literal  { return &ast.Literal{Kind: ast.IntegerLiteral, Value: v} }
func boolLit(v string) *ast.Literal { return &ast.Literal{Kind: ast.BooleanLiteral, Value: v} }
func addrLit() *ast.Literal {
	return &ast.Literal{Kind: ast.AddressLiteral, Value: "0x0000000000000000000000000000000000000001"}
}

func equalType(t *testing.T, got, want types.RawType) {
	t.Helper()
	if !types.Equal(got, want) {
		t.Fatalf("type: got %s, want %s", got.Name(), want.Name())
	}
}

func expectFault(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		_, ok := r.(*InvariantError)
		be.True(t, ok)
	}()
	f()
}

func TestCallerProtectionQuantifier(t *testing.T) {
	be.True(t, !AreCallerProtectionsCompatible(prot("A", "B"), prot("A")))
	be.True(t, AreCallerProtectionsCompatible(prot("A", "B"), nil))
	be.True(t, AreCallerProtectionsCompatible(prot("A"), prot("A", "B")))
	be.True(t, AreCallerProtectionsCompatible(prot("A", "B"), prot("any")))
	be.True(t, AreCallerProtectionsCompatible(prot("any"), prot("owner")))
	be.True(t, AreCallerProtectionsCompatible(nil, prot("owner")))
}

func TestTypeStatesCompatible(t *testing.T) {
	be.True(t, AreTypeStatesCompatible(states("Open"), states("Open", "Closed")))
	be.True(t, !AreTypeStatesCompatible(states("Open", "Closed"), states("Open")))
	be.True(t, AreTypeStatesCompatible(states("Open"), nil))
	be.True(t, AreTypeStatesCompatible(states("Open"), states("any")))
}

func TestContractFunctionsCannotOverload(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("Bank", 1)})
	first := function("deposit", 3, nil, param("a", types.IntType))
	same := function("deposit", 5, nil, param("a", types.IntType))
	other := function("deposit", 7, nil, param("a", types.BoolType))
	for _, fn := range []*ast.FunctionDeclaration{first, same, other} {
		e.AddFunction(fn, "Bank", nil, nil)
	}

	conflict, ok := e.ConflictingFunctionDeclaration(same, "Bank")
	be.True(t, ok)
	be.Equal(t, conflict.Span.Start.Line, 3)

	conflict, ok = e.ConflictingFunctionDeclaration(other, "Bank")
	be.True(t, ok)
	be.Equal(t, conflict.Span.Start.Line, 3)

	_, ok = e.ConflictingFunctionDeclaration(first, "Bank")
	be.True(t, !ok)
}

func TestStructFunctionsOverloadOnParameterTypes(t *testing.T) {
	byInt := function("scale", 2, types.IntType, param("a", types.IntType))
	byBool := function("scale", 3, types.IntType, param("a", types.BoolType))
	again := function("scale", 4, types.IntType, param("b", types.IntType))
	e := New()
	e.AddStruct(&ast.StructDeclaration{
		Identifier: id("Vec", 1),
		Members:    []ast.StructMember{byInt, byBool, again},
	})

	_, ok := e.ConflictingFunctionDeclaration(byBool, "Vec")
	be.True(t, !ok)

	conflict, ok := e.ConflictingFunctionDeclaration(again, "Vec")
	be.True(t, ok)
	be.Equal(t, conflict.Span.Start.Line, 2)
}

func TestFunctionMayNotReuseTypeName(t *testing.T) {
	e := New()
	e.AddStruct(&ast.StructDeclaration{Identifier: id("Point", 1)})
	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 2)})
	fn := function("Point", 4, nil)
	e.AddFunction(fn, "C", nil, nil)

	conflict, ok := e.ConflictingFunctionDeclaration(fn, "C")
	be.True(t, ok)
	be.Equal(t, conflict.Name, "Point")
	be.Equal(t, conflict.Span.Start.Line, 1)
}

func TestConflictingTypeDeclarationReportsEarliest(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("Token", 1)})
	e.AddStruct(&ast.StructDeclaration{Identifier: id("Token", 5)})
	e.AddEnum(&ast.EnumDeclaration{Identifier: id("Token", 9), Type: types.IntType})

	conflict, ok := e.ConflictingTypeDeclaration(id("Token", 9))
	be.True(t, ok)
	be.Equal(t, conflict.Span.Start.Line, 1)

	_, ok = e.ConflictingTypeDeclaration(id("Token", 1))
	be.True(t, !ok)
}

func TestConflictingPropertyDeclaration(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{
		Identifier: id("C", 1),
		Members: []ast.ContractMember{
			variable("owner", types.AddressType, 2, nil),
			variable("owner", types.IntType, 3, nil),
		},
	})

	conflict, ok := e.ConflictingPropertyDeclaration(id("owner", 3), "C")
	be.True(t, ok)
	be.Equal(t, conflict.Span.Start.Line, 2)
	// the duplicate does not take a layout slot
	be.Equal(t, e.Properties("C"), []string{"owner"})
	equalType(t, e.PropertyDeclarations("C")[0].RawType(), types.AddressType)
}

func TestConflictingEventDeclaration(t *testing.T) {
	first := &ast.EventDeclaration{Identifier: id("Paid", 2)}
	second := &ast.EventDeclaration{Identifier: id("Paid", 3)}
	e := New()
	e.AddContract(&ast.ContractDeclaration{
		Identifier: id("C", 1),
		Members:    []ast.ContractMember{first, second},
	})

	conflict, ok := e.ConflictingEventDeclaration(second.Identifier, "C")
	be.True(t, ok)
	be.Equal(t, conflict.Span.Start.Line, 2)
}

func TestPropertyOffsets(t *testing.T) {
	e := New()
	e.AddStruct(&ast.StructDeclaration{
		Identifier: id("Slots", 1),
		Members: []ast.StructMember{
			variable("p0", types.IntType, 2, nil),
			variable("p1", types.FixedSizeArray{Elem: types.IntType, Size: 3}, 3, nil),
			variable("p2", types.BoolType, 4, nil),
		},
	})

	for name, want := range map[string]int{"p0": 0, "p1": 1, "p2": 4} {
		got, ok := e.PropertyOffset(name, "Slots")
		be.True(t, ok)
		be.Equal(t, got, want)
	}
	_, ok := e.PropertyOffset("missing", "Slots")
	be.True(t, !ok)
	be.Equal(t, e.Size(types.UserDefined{Identifier: "Slots"}), 5)
}

func TestSizes(t *testing.T) {
	e := New()
	e.AddEnum(&ast.EnumDeclaration{
		Identifier: id("Color", 1),
		Type:       types.IntType,
		Cases:      []*ast.EnumMember{{Identifier: id("red", 2)}, {Identifier: id("green", 3)}},
	})
	e.AddStruct(&ast.StructDeclaration{
		Identifier: id("Pair", 4),
		Members: []ast.StructMember{
			variable("a", types.IntType, 5, nil),
			variable("b", types.Array{Elem: types.IntType}, 6, nil),
		},
	})

	be.Equal(t, e.Size(types.EventType), 0)
	be.Equal(t, e.Size(types.Range{Elem: types.IntType}), 0)
	be.Equal(t, e.Size(types.AddressType), 1)
	be.Equal(t, e.Size(types.Dictionary{Key: types.AddressType, Value: types.IntType}), 1)
	be.Equal(t, e.Size(types.UserDefined{Identifier: "Color"}), 1)
	be.Equal(t, e.Size(types.FixedSizeArray{Elem: types.UserDefined{Identifier: "Pair"}, Size: 4}), 8)
	expectFault(t, func() { e.Size(types.Inout{Elem: types.IntType}) })
	expectFault(t, func() { e.Size(types.UserDefined{Identifier: "Nope"}) })
}

func TestEnumRawValues(t *testing.T) {
	e := New()
	e.AddEnum(&ast.EnumDeclaration{
		Identifier: id("Plain", 1),
		Type:       types.IntType,
		Cases:      []*ast.EnumMember{{Identifier: id("A", 2)}, {Identifier: id("B", 3)}, {Identifier: id("C", 4)}},
	})
	e.AddEnum(&ast.EnumDeclaration{
		Identifier: id("Explicit", 5),
		Type:       types.IntType,
		Cases: []*ast.EnumMember{
			{Identifier: id("A", 6)},
			{Identifier: id("B", 7), HiddenValue: intLit("10")},
			{Identifier: id("C", 8)},
		},
	})

	for enum, want := range map[string][]int{"Plain": {0, 1, 2}, "Explicit": {0, 10, 11}} {
		for i, c := range []string{"A", "B", "C"} {
			v, ok := e.EnumRawValue(enum, c)
			be.True(t, ok)
			be.Equal(t, v, want[i])
		}
	}
	be.True(t, e.IsPropertyConstant("B", "Explicit"))
	equalType(t, e.TypeOf(&ast.BinaryExpression{Op: ast.OpDot, LHS: &ast.Identifier{Name: "Plain"}, RHS: &ast.Identifier{Name: "C"}}, "Plain", nil, nil, nil),
		types.UserDefined{Identifier: "Plain"})
}

func TestStatefulContractSynthesizesStateEnum(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{
		Identifier: id("Auction", 1),
		States:     []ast.TypeState{{Identifier: id("Open", 1)}, {Identifier: id("Closed", 1)}},
	})

	be.True(t, e.IsStateful("Auction"))
	be.True(t, e.IsTypeState("Closed", "Auction"))
	be.True(t, !e.IsTypeState("Paused", "Auction"))
	v, ok := e.EnumRawValue(ContractStateEnum("Auction"), "Closed")
	be.True(t, ok)
	be.Equal(t, v, 1)
	be.True(t, e.IsEnumDeclared(ContractStateEnum("Auction")))
}

func TestPropertiesRoundTrip(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{
		Identifier: id("Wallet", 1),
		Members: []ast.ContractMember{
			variable("owner", types.AddressType, 2, nil),
			variable("balance", types.IntType, 3, intLit("0")),
			variable("limits", types.Dictionary{Key: types.AddressType, Value: types.IntType}, 4, nil),
		},
	})

	be.Equal(t, e.Properties("Wallet"), []string{"owner", "balance", "limits"})
	be.True(t, e.IsPropertyDefined("balance", "Wallet"))
	be.True(t, !e.IsPropertyConstant("balance", "Wallet"))
}

func TestDefaultInitializerSynthesis(t *testing.T) {
	e := New()
	e.AddStruct(&ast.StructDeclaration{
		Identifier: id("Defaults", 1),
		Members:    []ast.StructMember{variable("a", types.IntType, 2, intLit("1"))},
	})
	e.AddStruct(&ast.StructDeclaration{
		Identifier: id("Required", 3),
		Members:    []ast.StructMember{variable("a", types.IntType, 4, nil)},
	})
	e.AddStruct(&ast.StructDeclaration{Identifier: ast.Ident(GlobalFunctionStructName)})

	inits := e.Initializers("Defaults")
	be.Equal(t, len(inits), 1)
	be.True(t, inits[0].IsGenerated())
	be.True(t, inits[0].Declaration.IsPublic())
	be.Equal(t, len(e.Initializers("Required")), 0)
	be.Equal(t, len(e.Initializers(GlobalFunctionStructName)), 0)
}

func TestExternalTraitGetsAddressInitializer(t *testing.T) {
	e := New()
	e.AddTrait(&ast.TraitDeclaration{
		Kind:       ast.ExternalTrait,
		Identifier: id("ERC20", 1),
		Members: []ast.TraitMember{&ast.FunctionSignatureDeclaration{
			Identifier: id("totalSupply", 2),
			ResultType: types.IntType,
		}},
	})

	inits := e.Initializers("ERC20")
	be.Equal(t, len(inits), 1)
	be.True(t, inits[0].IsGenerated())
	be.True(t, inits[0].IsSignature)
	be.True(t, types.EqualLists(inits[0].ParameterTypes(), []types.RawType{types.AddressType}))
	be.Equal(t, len(e.UndefinedInitializers("ERC20")), 0)

	res := e.MatchFunctionCall(ast.Call("ERC20", addrLit()), "ERC20", nil, nil, nil)
	be.Equal(t, res.Kind, MatchedInitializer)
	equalType(t, res.ResultType("ERC20"), types.UserDefined{Identifier: "ERC20"})
	be.True(t, e.Functions("totalSupply", "ERC20")[0].Declaration.IsExternal)
}

func TestUndefinedTraitMembers(t *testing.T) {
	e := New()
	e.AddTrait(&ast.TraitDeclaration{
		Kind:       ast.StructTrait,
		Identifier: id("Named", 1),
		Members: []ast.TraitMember{
			&ast.FunctionSignatureDeclaration{Identifier: id("name", 2), ResultType: types.StringType},
			&ast.SpecialSignatureDeclaration{Kind: ast.InitKind, Parameters: []*ast.Parameter{param("n", types.StringType)}},
		},
	})
	e.AddStruct(&ast.StructDeclaration{Identifier: id("Dog", 4)})
	e.AddConformance("Named", "Dog")

	undefined := e.UndefinedFunctions("Dog")
	be.Equal(t, len(undefined), 1)
	be.Equal(t, undefined[0].Name(), "name")
	be.Equal(t, len(e.UndefinedInitializers("Dog")), 1)

	e.AddFunction(function("name", 5, types.StringType), "Dog", nil, nil)
	e.AddInitializer(&ast.SpecialDeclaration{Signature: ast.SpecialSignatureDeclaration{
		Kind:       ast.InitKind,
		Parameters: []*ast.Parameter{param("n", types.StringType)},
	}}, "Dog", nil, nil)
	be.Equal(t, len(e.UndefinedFunctions("Dog")), 0)
	be.Equal(t, len(e.UndefinedInitializers("Dog")), 0)

	// a mismatched result type does not implement the signature
	e2 := New()
	e2.AddTrait(&ast.TraitDeclaration{
		Kind:       ast.StructTrait,
		Identifier: id("Named", 1),
		Members:    []ast.TraitMember{&ast.FunctionSignatureDeclaration{Identifier: id("name", 2), ResultType: types.StringType}},
	})
	e2.AddStruct(&ast.StructDeclaration{Identifier: id("Cat", 4), Members: []ast.StructMember{function("name", 5, types.IntType)}})
	e2.AddConformance("Named", "Cat")
	be.Equal(t, len(e2.UndefinedFunctions("Cat")), 1)
}

func TestConformanceIsSnapshot(t *testing.T) {
	e := New()
	e.AddTrait(&ast.TraitDeclaration{Kind: ast.StructTrait, Identifier: id("T", 1)})
	e.AddStruct(&ast.StructDeclaration{Identifier: id("S", 2)})
	e.AddConformance("T", "S")
	e.AddFunctionSignature(&ast.FunctionSignatureDeclaration{Identifier: id("late", 3)}, "T", nil, nil, false)

	be.Equal(t, len(e.Functions("late", "S")), 0)
	be.Equal(t, len(e.Conformances("S")), 1)
}

func TestConflictingTraitSignatures(t *testing.T) {
	e := New()
	e.AddTrait(&ast.TraitDeclaration{
		Kind:       ast.StructTrait,
		Identifier: id("A", 1),
		Members:    []ast.TraitMember{&ast.FunctionSignatureDeclaration{Identifier: id("get", 2), ResultType: types.IntType}},
	})
	e.AddTrait(&ast.TraitDeclaration{
		Kind:       ast.StructTrait,
		Identifier: id("B", 3),
		Members:    []ast.TraitMember{&ast.FunctionSignatureDeclaration{Identifier: id("get", 4), ResultType: types.BoolType}},
	})
	e.AddStruct(&ast.StructDeclaration{Identifier: id("S", 5)})
	e.AddConformance("A", "S")
	be.Equal(t, len(e.ConflictingTraitSignatures("S")), 0)
	e.AddConformance("B", "S")
	be.Equal(t, len(e.ConflictingTraitSignatures("S")["get"]), 2)
}

func TestAmbiguousCallFailsWithoutCandidates(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 1)})
	e.AddStruct(&ast.StructDeclaration{
		Identifier: id("Point", 2),
		Members: []ast.StructMember{&ast.SpecialDeclaration{Signature: ast.SpecialSignatureDeclaration{
			Kind:       ast.InitKind,
			Parameters: []*ast.Parameter{param("x", types.IntType)},
		}}},
	})
	e.AddStruct(&ast.StructDeclaration{
		Identifier: ast.Ident(GlobalFunctionStructName),
		Members:    []ast.StructMember{function("Point", 6, types.IntType, param("x", types.IntType))},
	})

	res := e.MatchFunctionCall(ast.Call("Point", intLit("1")), "C", nil, nil, nil)
	be.Equal(t, res.Kind, MatchFailure)
	be.True(t, res.IsAmbiguous())
	be.Equal(t, len(res.Candidates), 0)
	equalType(t, e.TypeOf(ast.Call("Point", intLit("1")), "C", nil, nil, nil), types.ErrorType)
}

func TestNoMatchReportsCandidates(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 1)})
	e.AddFunction(function("f", 2, nil, param("a", types.IntType)), "C", nil, nil)

	res := e.MatchFunctionCall(ast.Call("f", boolLit("true")), "C", nil, nil, nil)
	be.Equal(t, res.Kind, MatchFailure)
	be.True(t, !res.IsAmbiguous())
	be.Equal(t, len(res.Candidates), 1)

	res = e.MatchFunctionCall(ast.Call("g"), "C", nil, nil, nil)
	be.True(t, !res.IsMatched())
	be.Equal(t, len(res.Candidates), 0)
}

func TestMatchHonoursProtectionsAndStates(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{
		Identifier: id("Vault", 1),
		States:     []ast.TypeState{{Identifier: id("Locked", 1)}, {Identifier: id("Open", 1)}},
	})
	withdraw := function("withdraw", 2, nil)
	e.AddFunction(withdraw, "Vault", states("Open"), prot("owner"))

	call := ast.Call("withdraw")
	be.Equal(t, e.MatchFunctionCall(call, "Vault", states("Open"), prot("owner"), nil).Kind, MatchedFunction)
	be.Equal(t, e.MatchFunctionCall(call, "Vault", states("Open"), prot("owner", "admin"), nil).Kind, MatchFailure)
	be.Equal(t, e.MatchFunctionCall(call, "Vault", states("Locked"), prot("owner"), nil).Kind, MatchFailure)

	e.RemoveFunction(withdraw, "Vault", states("Open"), prot("owner"))
	be.Equal(t, len(e.Functions("withdraw", "Vault")), 0)
}

func TestMatchGlobalAndDefaultArguments(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 1)})
	assertFn := function("assert", 2, nil, param("cond", types.BoolType))
	withDefault := function("pay", 3, types.BoolType,
		param("to", types.AddressType),
		&ast.Parameter{Identifier: ast.Ident("memo"), Type: types.StringType, AssignedExpression: &ast.Literal{Kind: ast.StringLiteral}},
	)
	e.AddStruct(&ast.StructDeclaration{
		Identifier: ast.Ident(GlobalFunctionStructName),
		Members:    []ast.StructMember{assertFn, withDefault},
	})

	res := e.MatchFunctionCall(ast.Call("assert", boolLit("true")), "C", nil, nil, nil)
	be.Equal(t, res.Kind, MatchedGlobalFunction)
	be.Equal(t, res.Function.Declaration, assertFn)

	be.Equal(t, e.MatchFunctionCall(ast.Call("pay", addrLit()), "C", nil, nil, nil).Kind, MatchedGlobalFunction)
	equalType(t, e.TypeOf(ast.Call("pay", addrLit()), "C", nil, nil, nil), types.BoolType)
}

func TestMatchEventCall(t *testing.T) {
	transfer := &ast.EventDeclaration{
		Identifier: id("Transfer", 2),
		Variables: []*ast.VariableDeclaration{
			variable("from", types.AddressType, 2, nil),
			variable("note", types.StringType, 2, &ast.Literal{Kind: ast.StringLiteral}),
			variable("value", types.IntType, 2, nil),
		},
	}
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 1), Members: []ast.ContractMember{transfer}})

	be.True(t, e.MatchEventCall(ast.Call("Transfer", addrLit(), intLit("1")), "C", nil, nil, nil).IsMatched())
	label := ast.Ident("value")
	labelled := &ast.FunctionCall{
		Identifier: ast.Ident("Transfer"),
		Arguments: []ast.FunctionArgument{
			{Expr: addrLit()},
			{Label: &label, Expr: intLit("1")},
		},
	}
	be.True(t, e.MatchEventCall(labelled, "C", nil, nil, nil).IsMatched())

	miss := e.MatchEventCall(ast.Call("Transfer", addrLit()), "C", nil, nil, nil)
	be.True(t, !miss.IsMatched())
	be.Equal(t, len(miss.Candidates), 1)
	equalType(t, e.TypeOf(ast.Call("Transfer", addrLit(), intLit("1")), "C", nil, nil, nil), types.EventType)
}

func TestMatchEventCallSkipsDefaultsUnlessNamed(t *testing.T) {
	tick := &ast.EventDeclaration{
		Identifier: id("Tick", 2),
		Variables: []*ast.VariableDeclaration{
			variable("a", types.IntType, 2, intLit("0")),
			variable("b", types.IntType, 2, nil),
		},
	}
	e := New()
	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 1), Members: []ast.ContractMember{tick}})

	be.True(t, e.MatchEventCall(ast.Call("Tick", intLit("5")), "C", nil, nil, nil).IsMatched())
	be.True(t, !e.MatchEventCall(ast.Call("Tick", intLit("5"), intLit("6")), "C", nil, nil, nil).IsMatched())

	a, b := ast.Ident("a"), ast.Ident("b")
	both := &ast.FunctionCall{
		Identifier: ast.Ident("Tick"),
		Arguments:  []ast.FunctionArgument{{Label: &a, Expr: intLit("5")}, {Label: &b, Expr: intLit("6")}},
	}
	be.True(t, e.MatchEventCall(both, "C", nil, nil, nil).IsMatched())

	wrong := &ast.FunctionCall{
		Identifier: ast.Ident("Tick"),
		Arguments:  []ast.FunctionArgument{{Label: &a, Expr: intLit("5")}},
	}
	be.True(t, !e.MatchEventCall(wrong, "C", nil, nil, nil).IsMatched())
}

func TestTypeOf(t *testing.T) {
	e := New()
	e.AddContract(&ast.ContractDeclaration{
		Identifier: id("C", 1),
		Members: []ast.ContractMember{
			variable("balances", types.Dictionary{Key: types.AddressType, Value: types.IntType}, 2, nil),
			variable("history", types.Array{Elem: types.IntType}, 3, nil),
			variable("count", types.IntType, 4, nil),
		},
	})
	get := func(x ast.Expression, scope *ast.ScopeContext) types.RawType {
		return e.TypeOf(x, "C", nil, nil, scope)
	}
	ident := func(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

	equalType(t, get(intLit("1"), nil), types.IntType)
	equalType(t, get(addrLit(), nil), types.AddressType)
	equalType(t, get(&ast.SelfExpression{}, nil), types.UserDefined{Identifier: "C"})
	equalType(t, get(ident("count"), nil), types.IntType)
	equalType(t, get(ident("nothing"), nil), types.ErrorType)

	scope := ast.NewScopeContext([]*ast.Parameter{param("count", types.BoolType)})
	equalType(t, get(ident("count"), scope), types.BoolType)
	scope = scope.Declare(variable("count", types.StringType, 9, nil))
	equalType(t, get(ident("count"), scope), types.StringType)

	equalType(t, get(&ast.ArrayLiteral{Elements: []ast.Expression{intLit("1"), intLit("2")}}, nil), types.Array{Elem: types.IntType})
	equalType(t, get(&ast.ArrayLiteral{Elements: []ast.Expression{intLit("1"), boolLit("true")}}, nil), types.ErrorType)
	equalType(t, get(&ast.ArrayLiteral{}, nil), types.Array{Elem: types.AnyType})
	equalType(t, get(&ast.DictionaryLiteral{}, nil), types.Dictionary{Key: types.AnyType, Value: types.AnyType})
	equalType(t, get(&ast.RangeExpression{Start: intLit("0"), End: intLit("3")}, nil), types.Range{Elem: types.IntType})

	size := &ast.BinaryExpression{Op: ast.OpDot, LHS: ident("history"), RHS: ident("size")}
	equalType(t, get(size, nil), types.IntType)
	selfCount := &ast.BinaryExpression{Op: ast.OpDot, LHS: &ast.SelfExpression{}, RHS: ident("count")}
	equalType(t, get(selfCount, scope), types.IntType)
	equalType(t, get(&ast.BinaryExpression{Op: ast.OpLess, LHS: intLit("1"), RHS: intLit("2")}, nil), types.BoolType)
	equalType(t, get(&ast.BinaryExpression{Op: ast.OpPlus, LHS: intLit("1"), RHS: intLit("2")}, nil), types.IntType)

	equalType(t, get(&ast.SubscriptExpression{Base: ident("balances"), Index: addrLit()}, nil), types.IntType)
	equalType(t, get(&ast.SubscriptExpression{Base: ident("count"), Index: intLit("0")}, nil), types.ErrorType)

	e.AddFunction(function("total", 5, types.IntType), "C", nil, nil)
	equalType(t, get(&ast.AttemptExpression{Kind: ast.SoftAttempt, Call: ast.Call("total")}, nil), types.BoolType)
	equalType(t, get(&ast.AttemptExpression{Kind: ast.HardAttempt, Call: ast.Call("total")}, nil), types.IntType)
	equalType(t, get(&ast.InoutExpression{Expr: ident("count")}, nil), types.Inout{Elem: types.IntType})
	equalType(t, get(&ast.BracketedExpression{Expr: ast.Call("missing")}, nil), types.ErrorType)
}

func TestSelector(t *testing.T) {
	fn := &FunctionInformation{Declaration: function("transfer", 1, types.BoolType,
		param("to", types.AddressType),
		param("value", types.IntType),
	)}
	be.Equal(t, Signature(fn), "transfer(address,uint256)")
	be.Equal(t, Selector(fn), "0xa9059cbb")
}

func TestRegistrarFaults(t *testing.T) {
	e := New()
	expectFault(t, func() { e.AddProperty(variable("x", types.IntType, 1, nil), "Missing") })
	expectFault(t, func() { e.Properties("Missing") })

	e.AddContract(&ast.ContractDeclaration{Identifier: id("C", 1)})
	pub := &ast.SpecialDeclaration{Signature: ast.SpecialSignatureDeclaration{Kind: ast.InitKind, Modifiers: []string{"public"}}}
	e.AddPublicInitializer(pub, "C")
	be.Equal(t, e.PublicInitializer("C"), pub)
	expectFault(t, func() { e.AddPublicInitializer(pub, "C") })
}
