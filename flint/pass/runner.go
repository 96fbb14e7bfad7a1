package pass

import (
	"github.com/chzyer/logex"

	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/env"
)

// Runner applies passes in order. Each pass starts from a fresh context
// holding only the environment left by the previous pass.
type Runner struct {
	Passes []Pass
	// StopOnError skips the remaining passes once a pass reports an error.
	StopOnError bool
}

// Outcome is the tree, environment and diagnostics after the last pass.
type Outcome struct {
	Module      *ast.Module
	Environment *env.Environment
	Diagnostics diag.Diagnostics
	// Completed lists the passes that ran, in order.
	Completed []string
}

func (r *Runner) Run(m *ast.Module, environment *env.Environment) Outcome {
	out := Outcome{Module: m, Environment: environment}
	if m == nil {
		return out
	}
	for _, p := range r.Passes {
		logex.Debugf("pass %s: start", p.Name())
		res := NewVisitor(p).VisitModule(out.Module, Seed(out.Environment))
		out.Module = res.Element
		if e := res.Context.Env(); e != nil {
			out.Environment = e
		}
		out.Diagnostics = append(out.Diagnostics, res.Diagnostics...)
		out.Completed = append(out.Completed, p.Name())
		logex.Debugf("pass %s: %d diagnostic(s)", p.Name(), len(res.Diagnostics))

		if r.StopOnError && res.Diagnostics.HasErrors() {
			logex.Infof("stopping after %s: %d error(s)", p.Name(), len(res.Diagnostics.Errors()))
			break
		}
	}
	return out
}
