package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/env"
	"github.com/tos-network/flint/flint/types"
)

const inspectHelp = `queries:
  types                                   list declared types
  type <Name>                             describe a type
  size <Type>                             storage slots of a type, e.g. size Int[4]
  offset <Type>.<property>                slot offset of a property
  match <Type> <name>(<T>, ...) [as p,..] [in s,..]
                                          resolve a call made from inside <Type>
  event <Type> <Event>(<T>, ...)          resolve an event emission
  quit                                    leave
`

// inspector answers queries against a checked environment. It never
// evaluates Flint code.
type inspector struct {
	env *env.Environment
	out io.Writer
}

func (in *inspector) repl() error {
	rl, err := readline.New("flint> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !in.eval(line) {
			return nil
		}
	}
}

// eval runs one query and reports whether the session continues.
func (in *inspector) eval(line string) (more bool) {
	more = true
	defer func() {
		if r := recover(); r != nil {
			ierr, ok := r.(*env.InvariantError)
			if !ok {
				panic(r)
			}
			fmt.Fprintln(in.out, "error:", ierr.Error())
		}
	}()

	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "":
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprint(in.out, inspectHelp)
	case "types":
		in.listTypes()
	case "type":
		in.describe(rest)
	case "size":
		in.size(rest)
	case "offset":
		in.offset(rest)
	case "match":
		in.match(rest)
	case "event":
		in.event(rest)
	default:
		fmt.Fprintf(in.out, "error: unknown query %q (try help)\n", cmd)
	}
	return true
}

func (in *inspector) listTypes() {
	for _, name := range in.env.TypeNames() {
		t, _ := in.env.Type(name)
		fmt.Fprintf(in.out, "%s %s\n", t.Kind, name)
	}
}

func (in *inspector) describe(name string) {
	t, ok := in.env.Type(name)
	if !ok {
		fmt.Fprintf(in.out, "error: unknown type %q\n", name)
		return
	}
	if err := writeYAML(in.out, describeType(in.env, t)); err != nil {
		fmt.Fprintln(in.out, "error:", err)
	}
}

func (in *inspector) size(spelling string) {
	t, err := types.Parse(spelling)
	if err != nil {
		fmt.Fprintln(in.out, "error:", err)
		return
	}
	fmt.Fprintf(in.out, "%s: %d\n", t.Name(), in.env.Size(t))
}

func (in *inspector) offset(ref string) {
	typ, prop, ok := strings.Cut(ref, ".")
	if !ok {
		fmt.Fprintln(in.out, "error: expected <Type>.<property>")
		return
	}
	if _, known := in.env.Type(typ); !known {
		fmt.Fprintf(in.out, "error: unknown type %q\n", typ)
		return
	}
	off, found := in.env.PropertyOffset(prop, typ)
	if !found {
		fmt.Fprintf(in.out, "error: %s has no property %q\n", typ, prop)
		return
	}
	fmt.Fprintf(in.out, "%s.%s: %d\n", typ, prop, off)
}

// callQuery is "<Type> <name>(<T>, ...) [as p,..] [in s,..]" decoded into a
// call whose arguments are scope bindings of the listed types.
type callQuery struct {
	enclosing   string
	call        *ast.FunctionCall
	scope       *ast.ScopeContext
	protections []ast.CallerProtection
	states      []ast.TypeState
}

func parseCallQuery(q string) (*callQuery, error) {
	enclosing, rest, ok := strings.Cut(strings.TrimSpace(q), " ")
	if !ok {
		return nil, fmt.Errorf("expected <Type> <name>(<T>, ...)")
	}
	open := strings.Index(rest, "(")
	closing := strings.LastIndex(rest, ")")
	if open < 0 || closing < open {
		return nil, fmt.Errorf("expected an argument list in %q", rest)
	}
	out := &callQuery{
		enclosing: enclosing,
		call:      &ast.FunctionCall{Identifier: ast.Ident(strings.TrimSpace(rest[:open]))},
		scope:     &ast.ScopeContext{},
	}
	for i, spelling := range splitTopLevel(rest[open+1 : closing]) {
		t, err := types.Parse(spelling)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("arg%d", i)
		out.scope.Parameters = append(out.scope.Parameters, &ast.Parameter{Identifier: ast.Ident(name), Type: t})
		arg := ast.Ident(name)
		out.call.Arguments = append(out.call.Arguments, ast.FunctionArgument{Expr: &arg})
	}

	clauses := strings.Fields(rest[closing+1:])
	for i := 0; i+1 < len(clauses); i += 2 {
		names := strings.Split(clauses[i+1], ",")
		switch clauses[i] {
		case "as":
			for _, n := range names {
				out.protections = append(out.protections, ast.CallerProtection{Identifier: ast.Ident(n)})
			}
		case "in":
			for _, n := range names {
				out.states = append(out.states, ast.TypeState{Identifier: ast.Ident(n)})
			}
		default:
			return nil, fmt.Errorf("unknown clause %q", clauses[i])
		}
	}
	if len(clauses)%2 != 0 {
		return nil, fmt.Errorf("clause %q needs a value", clauses[len(clauses)-1])
	}
	if len(out.protections) == 0 {
		out.protections = []ast.CallerProtection{{Identifier: ast.Ident("any")}}
	}
	return out, nil
}

// splitTopLevel splits on commas outside brackets and angle brackets.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[', '<', '(':
			depth++
		case ']', '>', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(out) > 0 {
		out = append(out, last)
	}
	return out
}

func (in *inspector) match(q string) {
	cq, err := parseCallQuery(q)
	if err != nil {
		fmt.Fprintln(in.out, "error:", err)
		return
	}
	if _, ok := in.env.Type(cq.enclosing); !ok {
		fmt.Fprintf(in.out, "error: unknown type %q\n", cq.enclosing)
		return
	}
	res := in.env.MatchFunctionCall(cq.call, cq.enclosing, cq.states, cq.protections, cq.scope)
	switch res.Kind {
	case env.MatchedFunction, env.MatchedGlobalFunction:
		fmt.Fprintf(in.out, "%s: %s\n", res.Kind, describeFunction(res.Function).Signature)
	case env.MatchedInitializer, env.MatchedFallback:
		fmt.Fprintf(in.out, "%s: (%s)\n", res.Kind, typeList(res.Special.ParameterTypes()))
	default:
		switch {
		case res.IsAmbiguous():
			fmt.Fprintln(in.out, "ambiguous")
		case len(res.Candidates) == 0:
			fmt.Fprintln(in.out, "no match")
		default:
			fmt.Fprintf(in.out, "no match; %d candidate(s):\n", len(res.Candidates))
			for _, c := range res.Candidates {
				fmt.Fprintf(in.out, "  %s\n", candidateString(c))
			}
		}
	}
}

func candidateString(c env.Candidate) string {
	switch c := c.(type) {
	case *env.FunctionInformation:
		doc := describeFunction(c)
		return fmt.Sprintf("%s as %s", doc.Signature, strings.Join(doc.Protections, ","))
	case *env.SpecialInformation:
		return fmt.Sprintf("%s(%s) as %s", c.Declaration.Signature.Kind, typeList(c.ParameterTypes()),
			strings.Join(protectionNames(c.CallerProtections), ","))
	}
	return "?"
}

func (in *inspector) event(q string) {
	cq, err := parseCallQuery(q)
	if err != nil {
		fmt.Fprintln(in.out, "error:", err)
		return
	}
	if _, ok := in.env.Type(cq.enclosing); !ok {
		fmt.Fprintf(in.out, "error: unknown type %q\n", cq.enclosing)
		return
	}
	res := in.env.MatchEventCall(cq.call, cq.enclosing, cq.states, cq.protections, cq.scope)
	if res.IsMatched() {
		fmt.Fprintf(in.out, "event: %s(%s)\n", res.Event.Name(), typeList(res.Event.ParameterTypes()))
		return
	}
	fmt.Fprintf(in.out, "no match; %d candidate(s)\n", len(res.Candidates))
}
