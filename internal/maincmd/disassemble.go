package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/internal/report"
	"github.com/mna/nenuphar-lox/lang/compiler"
	"github.com/mna/nenuphar-lox/lang/disasm"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/value"
)

// Disassemble compiles args[0] without executing it and prints the
// disassembly of the top-level chunk and every function nested inside it.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var rep report.Reporter
	toks := scanner.ScanAll(src, func(line int, msg string) {
		rep.Report(report.Scan, line, "%s", msg)
	})

	heap := value.NewHeap()
	pool := value.NewStringPool()
	heap.SetStringPool(pool)

	fn, ok := compiler.Compile(toks, heap, pool, func(line int, msg string) {
		rep.Report(report.Compile, line, "%s", msg)
	})
	if !ok {
		for _, err := range rep.Errors() {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return fmt.Errorf("%s: %d error(s)", args[0], len(rep.Errors()))
	}

	disassembleFunction(stdio, fn, "<script>")
	return nil
}

func disassembleFunction(stdio mainer.Stdio, fn *value.Function, name string) {
	disasm.Chunk(stdio.Stdout, &fn.Chunk, name)
	for _, c := range fn.Chunk.Constants {
		if nested, ok := c.(*value.Function); ok {
			nestedName := "<anonymous>"
			if nested.Name != nil {
				nestedName = nested.Name.String()
			}
			fmt.Fprintln(stdio.Stdout)
			disassembleFunction(stdio, nested, nestedName)
		}
	}
}
