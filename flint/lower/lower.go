// Package lower turns a checked environment into the per-contract layout a
// code generator consumes: storage slots and a selector dispatch table.
package lower

import (
	"fmt"
	"sort"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/env"
)

// Program is the backend-agnostic lowered form of one contract.
type Program struct {
	ContractName string
	States       []string
	StorageSlots []StorageSlot
	// StorageSize is the number of slots the contract's properties occupy.
	StorageSize          int
	Functions            []Function
	HasPublicInitializer bool
	InitializerParams    []*ast.Parameter
	InitializerBody      []ast.Statement
	HasFallback          bool
	FallbackBody         []ast.Statement
}

type StorageSlot struct {
	Name     string
	Type     string
	Offset   int
	Size     int
	Constant bool
}

// Function is one dispatch table entry.
type Function struct {
	Name              string
	Signature         string
	Selector          string
	CallerProtections []string
	TypeStates        []string
	Mutating          bool
	Params            []*ast.Parameter
	ResultType        string
	Body              []ast.Statement
}

// FromEnvironment lowers every declared contract, in declaration order.
func FromEnvironment(e *env.Environment) ([]*Program, error) {
	if e == nil {
		return nil, fmt.Errorf("[%s] missing environment", diag.CodeLowerInvalidEnvironment)
	}
	seen := map[string]bool{}
	var out []*Program
	for _, id := range e.DeclaredContracts {
		if seen[id.Name] {
			continue
		}
		seen[id.Name] = true
		prog, err := FromContract(e, id.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, prog)
	}
	return out, nil
}

// FromContract lowers a single contract.
func FromContract(e *env.Environment, contract string) (*Program, error) {
	if e == nil || !e.IsContractDeclared(contract) {
		return nil, fmt.Errorf("[%s] contract %q is not declared", diag.CodeLowerInvalidEnvironment, contract)
	}
	out := &Program{ContractName: contract}

	if e.IsStateful(contract) {
		out.States = e.Properties(env.ContractStateEnum(contract))
	}

	for _, p := range e.PropertyDeclarations(contract) {
		name := p.Identifier().Name
		offset, _ := e.PropertyOffset(name, contract)
		size := e.Size(p.StorageType())
		out.StorageSlots = append(out.StorageSlots, StorageSlot{
			Name:     name,
			Type:     p.RawType().Name(),
			Offset:   offset,
			Size:     size,
			Constant: p.IsConstant(),
		})
		out.StorageSize += size
	}

	fns, err := dispatchTable(e, contract)
	if err != nil {
		return nil, err
	}
	out.Functions = fns

	if init := e.PublicInitializer(contract); init != nil {
		out.HasPublicInitializer = true
		out.InitializerParams = cloneParams(init.Signature.Parameters)
		out.InitializerBody = cloneStatements(init.Body)
	}
	if fb := e.PublicFallback(contract); fb != nil {
		out.HasFallback = true
		out.FallbackBody = cloneStatements(fb.Body)
	}
	return out, nil
}

// dispatchTable lists the contract's public functions ordered by name then
// selector. Two entries sharing a selector cannot be dispatched.
func dispatchTable(e *env.Environment, contract string) ([]Function, error) {
	t, _ := e.Type(contract)
	var out []Function
	for _, name := range t.FunctionNames() {
		for _, info := range t.Functions[name] {
			if info.IsSignature || !info.Declaration.IsPublic() {
				continue
			}
			out = append(out, Function{
				Name:              name,
				Signature:         env.Signature(info),
				Selector:          env.Selector(info),
				CallerProtections: protectionNames(info.CallerProtections),
				TypeStates:        stateNames(info.TypeStates),
				Mutating:          info.IsMutating,
				Params:            cloneParams(info.Declaration.Signature.Parameters),
				ResultType:        info.ResultType().Name(),
				Body:              cloneStatements(info.Declaration.Body),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Selector < out[j].Selector
	})

	bySelector := map[string]string{}
	for _, fn := range out {
		if prev, ok := bySelector[fn.Selector]; ok && prev != fn.Signature {
			return nil, fmt.Errorf("[%s] %s and %s in %q share selector %s",
				diag.CodeLowerSelectorCollision, prev, fn.Signature, contract, fn.Selector)
		}
		bySelector[fn.Selector] = fn.Signature
	}
	return out, nil
}

func protectionNames(in []ast.CallerProtection) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		out = append(out, p.Name())
	}
	return out
}

func stateNames(in []ast.TypeState) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, s.Name())
	}
	return out
}

func cloneParams(in []*ast.Parameter) []*ast.Parameter {
	if len(in) == 0 {
		return nil
	}
	out := make([]*ast.Parameter, len(in))
	copy(out, in)
	return out
}

func cloneStatements(in []ast.Statement) []ast.Statement {
	if len(in) == 0 {
		return nil
	}
	out := make([]ast.Statement, len(in))
	copy(out, in)
	return out
}
