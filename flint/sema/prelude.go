package sema

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/env"
	"github.com/tos-network/flint/flint/types"
)

// The prelude has no source file; its spans sort before any real file so
// user declarations that reuse a prelude name are the ones reported.
func preludeIdent(name string, line int) ast.Identifier {
	return ast.Identifier{
		Name: name,
		Span: diag.Span{Start: diag.Position{Line: line, Column: 1}, End: diag.Position{Line: line, Column: 1 + len(name)}},
	}
}

func preludeParam(name string, t types.RawType) *ast.Parameter {
	return &ast.Parameter{Identifier: ast.Ident(name), Type: t}
}

func preludeFunction(name string, line int, result types.RawType, mods []string, params ...*ast.Parameter) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{Signature: ast.FunctionSignatureDeclaration{
		Identifier: preludeIdent(name, line),
		Modifiers:  mods,
		Parameters: params,
		ResultType: result,
	}}
}

// Prelude declares the standard-library struct Wei and the global functions
// every module may call.
func Prelude() *ast.Module {
	wei := types.Stdlib{Identifier: "Wei"}

	weiStruct := &ast.StructDeclaration{
		Identifier: preludeIdent("Wei", 1),
		Members: []ast.StructMember{
			&ast.VariableDeclaration{
				Identifier:         preludeIdent("rawValue", 2),
				Type:               types.IntType,
				AssignedExpression: &ast.Literal{Kind: ast.IntegerLiteral, Value: "0"},
			},
			&ast.SpecialDeclaration{Signature: ast.SpecialSignatureDeclaration{
				Kind:       ast.InitKind,
				Span:       preludeIdent("init", 3).Span,
				Modifiers:  []string{"public"},
				Parameters: []*ast.Parameter{preludeParam("unsafeRawValue", types.IntType)},
			}},
			&ast.SpecialDeclaration{Signature: ast.SpecialSignatureDeclaration{
				Kind:       ast.InitKind,
				Span:       preludeIdent("init", 4).Span,
				Modifiers:  []string{"public"},
				Parameters: []*ast.Parameter{preludeParam("source", types.Inout{Elem: wei}), preludeParam("amount", types.IntType)},
			}},
			preludeFunction("getRawValue", 5, types.IntType, []string{"public"}),
			preludeFunction("transfer", 6, types.VoidType, []string{"public", "mutating"},
				preludeParam("source", types.Inout{Elem: wei})),
		},
	}

	global := &ast.StructDeclaration{
		Identifier: preludeIdent(env.GlobalFunctionStructName, 10),
		Members: []ast.StructMember{
			preludeFunction("send", 11, types.VoidType, []string{"public"},
				preludeParam("address", types.AddressType), preludeParam("value", types.Inout{Elem: wei})),
			preludeFunction("fatalError", 12, types.VoidType, []string{"public"}),
			preludeFunction("assert", 13, types.VoidType, []string{"public"},
				preludeParam("condition", types.BoolType)),
		},
	}

	return &ast.Module{Declarations: []ast.TopLevelDeclaration{weiStruct, global}}
}
