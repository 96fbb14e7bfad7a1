package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/logex"
	"gopkg.in/yaml.v3"

	"github.com/tos-network/flint"
	"github.com/tos-network/flint/flint/config"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/lower"
	"github.com/tos-network/flint/flint/sema"
)

func dispatchSubcommand(args []string) (bool, int) {
	if len(args) == 0 {
		return false, 0
	}
	switch args[0] {
	case "check":
		return true, cmdCheck(args[1:])
	case "layout":
		return true, cmdLayout(args[1:])
	case "env":
		return true, cmdEnv(args[1:])
	case "inspect":
		return true, cmdInspect(args[1:])
	case "--version", "-v", "version":
		fmt.Println(flint.PackageCopyRight)
		return true, 0
	case "--help", "-h", "help":
		printRootSubcommandUsage()
		return true, 0
	default:
		return false, 0
	}
}

func printRootSubcommandUsage() {
	fmt.Print(`Usage:
  flintc <subcommand> [flags] <manifest.yaml>

Subcommands:
  check     run the semantic passes and print diagnostics
  layout    print storage slots and the dispatch table of each contract
  env       dump the semantic environment as YAML
  inspect   query the environment interactively

Global:
  --version print version
  --help    print this help
`)
}

// frontendFlags are shared by every subcommand that runs the passes. Set
// flags override flintc.yaml.
type frontendFlags struct {
	configPath  string
	passes      string
	color       string
	logLevel    string
	stopOnError bool
	noPrelude   bool
}

func (f *frontendFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "configuration file (default ./"+config.FileName+" if present)")
	fs.StringVar(&f.passes, "passes", "", "comma-separated passes to run after the environment builder")
	fs.StringVar(&f.color, "color", "", "diagnostic color: auto|always|never")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: error|debug|info")
	fs.BoolVar(&f.stopOnError, "stop-on-error", false, "stop after the first pass that reports an error")
	fs.BoolVar(&f.noPrelude, "no-prelude", false, "do not register the standard library declarations")
}

func (f *frontendFlags) config() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if strings.TrimSpace(f.configPath) != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.LoadOptional(config.FileName)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.passes) != "" {
		cfg.Passes = strings.Split(f.passes, ",")
	}
	if f.stopOnError {
		cfg.StopOnError = true
	}
	if f.noPrelude {
		off := false
		cfg.Prelude = &off
	}
	if f.color != "" {
		cfg.Color = f.color
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate("command line"); err != nil {
		return nil, err
	}
	cfg.ApplyLogLevel()
	return cfg, nil
}

// analyzeInput loads the configuration and checks the manifest at path.
func analyzeInput(path string, flags *frontendFlags) (*config.Config, *sema.CheckedModule, diag.Diagnostics, error) {
	cfg, err := flags.config()
	if err != nil {
		return nil, nil, nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	logex.Debugf("checking %s", path)
	checked, diags, err := flint.Analyze(source, path, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, checked, diags, nil
}

func parseOneInput(fs *flag.FlagSet, args []string, name string) (string, int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return "", 0, false
		}
		return "", 1, false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one manifest file\n", name)
		fs.Usage()
		return "", 1, false
	}
	return fs.Arg(0), 0, true
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.Writer, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var flags frontendFlags
	flags.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: flintc check [options] <manifest.yaml>")
		fs.PrintDefaults()
	}
	input, code, ok := parseOneInput(fs, args, "check")
	if !ok {
		return code
	}

	cfg, _, diags, err := analyzeInput(input, &flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	if newDiagPrinter(os.Stderr, cfg).printAll(diags) > 0 {
		return 1
	}
	return 0
}

func cmdLayout(args []string) int {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var flags frontendFlags
	var output string
	var asYAML bool
	flags.register(fs)
	fs.StringVar(&output, "o", "", "output path")
	fs.StringVar(&output, "output", "", "output path")
	fs.BoolVar(&asYAML, "yaml", false, "output YAML")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: flintc layout [--yaml] [-o <output>] [options] <manifest.yaml>")
		fs.PrintDefaults()
	}
	input, code, ok := parseOneInput(fs, args, "layout")
	if !ok {
		return code
	}

	cfg, checked, diags, err := analyzeInput(input, &flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	if diags.HasErrors() {
		newDiagPrinter(os.Stderr, cfg).printAll(diags)
		return 1
	}
	progs, err := lower.FromEnvironment(checked.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	w, closeOut, err := openOutput(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	if asYAML {
		err = writeYAML(w, describeLayout(progs))
	} else {
		err = writeLayoutText(w, progs)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func cmdEnv(args []string) int {
	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var flags frontendFlags
	var output string
	var withPrelude bool
	flags.register(fs)
	fs.StringVar(&output, "o", "", "output path")
	fs.StringVar(&output, "output", "", "output path")
	fs.BoolVar(&withPrelude, "with-prelude", false, "include standard library types")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: flintc env [--with-prelude] [-o <output>] [options] <manifest.yaml>")
		fs.PrintDefaults()
	}
	input, code, ok := parseOneInput(fs, args, "env")
	if !ok {
		return code
	}

	cfg, checked, diags, err := analyzeInput(input, &flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	status := 0
	if newDiagPrinter(os.Stderr, cfg).printAll(diags) > 0 {
		status = 1
	}

	w, closeOut, err := openOutput(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	err = writeYAML(w, describeEnvironment(checked.Environment, withPrelude))
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return status
}

func cmdInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var flags frontendFlags
	var script string
	flags.register(fs)
	fs.StringVar(&script, "e", "", "run ';'-separated queries instead of prompting")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: flintc inspect [-e <queries>] [options] <manifest.yaml>")
		fs.PrintDefaults()
	}
	input, code, ok := parseOneInput(fs, args, "inspect")
	if !ok {
		return code
	}

	cfg, checked, diags, err := analyzeInput(input, &flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	newDiagPrinter(os.Stderr, cfg).printAll(diags)

	in := &inspector{env: checked.Environment, out: os.Stdout}
	if script != "" {
		for _, q := range strings.Split(script, ";") {
			if !in.eval(q) {
				break
			}
		}
		return 0
	}
	fmt.Println(flint.PackageCopyRight)
	if err := in.repl(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeLayoutText(w io.Writer, progs []*lower.Program) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range progs {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "contract %s\n", p.ContractName)
		if len(p.States) > 0 {
			fmt.Fprintf(tw, "  states: %s\n", strings.Join(p.States, ", "))
		}
		fmt.Fprintf(tw, "  storage (%d slots):\n", p.StorageSize)
		for _, s := range p.StorageSlots {
			fmt.Fprintf(tw, "    %d\t%s\t%s\t%d\n", s.Offset, s.Name, s.Type, s.Size)
		}
		fmt.Fprintln(tw, "  dispatch:")
		for _, fn := range p.Functions {
			fmt.Fprintf(tw, "    %s\t%s\t-> %s\t%s\n", fn.Selector, fn.Signature, fn.ResultType, strings.Join(fn.CallerProtections, ","))
		}
		if p.HasPublicInitializer {
			fmt.Fprintf(tw, "  init(%s)\n", paramList(p.InitializerParams))
		}
		if p.HasFallback {
			fmt.Fprintln(tw, "  fallback")
		}
	}
	return tw.Flush()
}
