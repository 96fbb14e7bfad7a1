package main

import (
	"fmt"
	"os"

	"github.com/chzyer/logex"

	"github.com/tos-network/flint/flint/env"
)

func main() {
	os.Exit(mainAux(os.Args[1:]))
}

// mainAux runs one subcommand. An invariant violation inside the front end
// ends the process with status 2.
func mainAux(args []string) (status int) {
	defer func() {
		if r := recover(); r != nil {
			ierr, ok := r.(*env.InvariantError)
			if !ok {
				panic(r)
			}
			logex.Error(ierr.StackError())
			fmt.Fprintln(os.Stderr, "flintc: internal error:", ierr.Error())
			status = 2
		}
	}()

	if handled, code := dispatchSubcommand(args); handled {
		return code
	}
	printRootSubcommandUsage()
	return 1
}
