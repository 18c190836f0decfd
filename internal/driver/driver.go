// Package driver implements the top-level REPL/run-file glue: reading from
// stdin one line at a time or a whole file at once, compiling it, and
// running it against a VM, with a distinct process exit code for each
// outcome.
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mna/mainer"

	"simpl/internal/config"
	"simpl/lang/compiler"
	"simpl/lang/debug"
	"simpl/lang/vm"
)

const binName = "simpl"

// Exit codes: 0 on success, 64 for a usage error, 65 for a compile error,
// 70 for a runtime error.
const (
	ExitOK           mainer.ExitCode = 0
	ExitUsage        mainer.ExitCode = 64
	ExitCompileError mainer.ExitCode = 65
	ExitRuntimeError mainer.ExitCode = 70
)

var (
	shortUsage = fmt.Sprintf("usage: %s [path]\n", binName)

	longUsage = fmt.Sprintf(`usage: %[1]s [path]
       %[1]s -h|--help
       %[1]s -v|--version

With no path, %[1]s starts an interactive REPL: each line is compiled and
run against one persistent VM, so a global declared on one line is visible
on the next. A REPL line of the form ":bytecode <source>" compiles
<source> and prints its disassembly instead of running it. With a path,
%[1]s reads, compiles and runs that file once against a fresh VM.

Valid flag options are:
       -h --help       Show this help and exit.
       -v --version    Print version and exit.
       -dump=text|yaml With a path, print the file's disassembled bytecode
                       instead of running it.
`, binName)
)

// Cmd is the mainer.Cmd implementation for the simpl binary.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool   `flag:"h,help"`
	Version bool   `flag:"v,version"`
	Dump    string `flag:"dump"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

// Validate enforces the "at most one path argument" rule and that -dump,
// when given, names a disassembly format this driver knows how to print;
// everything else is decided in Main once flags are known to be
// well-formed.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one path argument is allowed")
	}
	switch c.Dump {
	case "", "text", "yaml":
	default:
		return fmt.Errorf("invalid -dump format %q: must be \"text\" or \"yaml\"", c.Dump)
	}
	if c.Dump != "" && len(c.args) == 0 {
		return errors.New("-dump requires a path")
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: "SIMPL_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return ExitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return ExitOK
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return ExitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return ExitUsage
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if len(c.args) == 0 {
		return repl(ctx, stdio, cfg)
	}
	if c.Dump != "" {
		return dumpFile(stdio, cfg, c.args[0], c.Dump)
	}
	return runFile(ctx, stdio, cfg, c.args[0])
}

// repl reuses a single VM across every line read from stdin, so a global
// declared on one line stays visible on the next.
func repl(ctx context.Context, stdio mainer.Stdio, cfg config.Config) mainer.ExitCode {
	m := newVM(stdio, cfg)
	scanner := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return ExitOK
		}
		if ctx.Err() != nil {
			return ExitOK
		}

		line := scanner.Text()
		if src, ok := strings.CutPrefix(line, ":bytecode "); ok {
			dumpSource(stdio.Stdout, m, src)
			continue
		}

		if _, err := m.Interpret(line); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
}

// dumpSource compiles src against the REPL's own interner, so any string
// literal it mentions is canonicalized the same way a real Interpret call
// would, and disassembles the result without running it.
func dumpSource(w io.Writer, m *vm.VM, src string) {
	c, err := compiler.Compile(src, m.Interner())
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	debug.Disassemble(w, c, "bytecode")
}

// runFile compiles and runs path once against a fresh VM, mapping the
// InterpretResult to the corresponding exit code.
func runFile(ctx context.Context, stdio mainer.Stdio, cfg config.Config, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return ExitUsage
	}

	m := newVM(stdio, cfg)
	result, err := m.Interpret(string(src))
	if err == nil {
		return ExitOK
	}

	fmt.Fprintln(stdio.Stderr, err)
	switch result {
	case vm.InterpretCompileError:
		return ExitCompileError
	default:
		return ExitRuntimeError
	}
}

// dumpFile compiles path and prints its disassembly in the requested
// format instead of running it; a compile error is reported and mapped to
// ExitCompileError exactly as runFile would.
func dumpFile(stdio mainer.Stdio, cfg config.Config, path, format string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return ExitUsage
	}

	m := newVM(stdio, cfg)
	c, err := compiler.Compile(string(src), m.Interner(), compiler.WithMaxLocals(cfg.MaxLocals))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return ExitCompileError
	}

	if format == "yaml" {
		if err := debug.DumpYAML(stdio.Stdout, c, path); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
			return ExitUsage
		}
		return ExitOK
	}
	debug.Disassemble(stdio.Stdout, c, path)
	return ExitOK
}

func newVM(stdio mainer.Stdio, cfg config.Config) *vm.VM {
	opts := []vm.Option{
		vm.WithStackSize(cfg.StackSize),
		vm.WithMaxLocals(cfg.MaxLocals),
	}
	if cfg.TraceExecution {
		opts = append(opts, vm.WithTrace(stdio.Stderr))
	}
	return vm.New(stdio.Stdout, opts...)
}
