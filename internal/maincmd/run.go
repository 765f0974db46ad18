package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/internal/report"
	"github.com/mna/nenuphar-lox/lang/compiler"
	"github.com/mna/nenuphar-lox/lang/machine"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/value"
)

// Run compiles and executes args[0], or starts an interactive REPL over
// stdio if no path is given. The REPL shares one VM (and so one Heap,
// StringPool and globals table) across every line entered, so that `var`
// declarations and function definitions persist across entries.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	heap := value.NewHeap()
	pool := value.NewStringPool()
	heap.SetStringPool(pool)
	vm := machine.New(heap, pool)
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr

	if len(args) == 1 {
		src, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		return runSource(ctx, stdio, vm, args[0], src)
	}
	return repl(ctx, stdio, vm)
}

// runSource scans, compiles and executes src, surfacing every scan/compile
// error found in one batch through a report.Reporter rather than stopping
// at the first one.
func runSource(ctx context.Context, stdio mainer.Stdio, vm *machine.VM, name string, src []byte) error {
	var rep report.Reporter

	toks := scanner.ScanAll(src, func(line int, msg string) {
		rep.Report(report.Scan, line, "%s", msg)
	})

	fn, ok := compiler.Compile(toks, vm.Heap, vm.Pool, func(line int, msg string) {
		rep.Report(report.Compile, line, "%s", msg)
	})
	if !ok {
		for _, err := range rep.Errors() {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return fmt.Errorf("%s: %d error(s)", name, len(rep.Errors()))
	}

	if _, err := vm.Interpret(ctx, fn); err != nil {
		rep.Report(report.Runtime, 0, "%s", err)
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}

func repl(ctx context.Context, stdio mainer.Stdio, vm *machine.VM) error {
	fmt.Fprintln(stdio.Stdout, "nenuphar-lox REPL. Ctrl-D to exit.")
	rd := bufio.NewReader(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		line, err := rd.ReadString('\n')
		if len(line) > 0 {
			// errors during a REPL entry are printed by runSource but don't
			// abort the session.
			_ = runSource(ctx, stdio, vm, "<stdin>", []byte(line))
		}
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(stdio.Stdout)
				return nil
			}
			return err
		}
	}
}
