package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/internal/report"
	"github.com/mna/nenuphar-lox/lang/scanner"
)

// Tokenize runs only the scanner over args[0] and prints the resulting
// token stream.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var rep report.Reporter
	toks := scanner.ScanAll(src, func(line int, msg string) {
		rep.Report(report.Scan, line, "%s", msg)
	})

	for _, tok := range toks {
		fmt.Fprintf(stdio.Stdout, "%4d %-14s %q\n", tok.Line, tok.Kind, tok.Lexeme)
	}

	for _, err := range rep.Errors() {
		fmt.Fprintln(stdio.Stderr, err)
	}
	if rep.HadError() {
		return fmt.Errorf("%s: %d scan error(s)", args[0], len(rep.Errors()))
	}
	return nil
}
