// Package report implements an accumulating error sink shared by the
// scanner, compiler and virtual machine, so that a caller driving the
// whole pipeline can surface every error found at a stage boundary in one
// batch instead of stopping at the first one.
package report

import "fmt"

// Stage identifies which phase of the pipeline produced an error.
type Stage string

const (
	Scan    Stage = "scan"
	Compile Stage = "compile"
	Runtime Stage = "runtime"
)

// Entry is one reported error.
type Entry struct {
	Stage Stage
	Line  int
	Msg   string
}

func (e Entry) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[line %d] %s error: %s", e.Line, e.Stage, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Stage, e.Msg)
}

// Reporter accumulates errors across one or more stages of compilation or
// execution. The zero value is ready to use.
type Reporter struct {
	entries []Entry
}

// Report records one error at the given stage and source line. A line of 0
// means "no specific line" (e.g. an error discovered only at link time).
func (r *Reporter) Report(stage Stage, line int, format string, args ...interface{}) {
	r.entries = append(r.entries, Entry{Stage: stage, Line: line, Msg: fmt.Sprintf(format, args...)})
}

// HadError reports whether any error has been recorded yet.
func (r *Reporter) HadError() bool { return len(r.entries) > 0 }

// Errors returns every recorded error, in report order, as a []error
// suitable for surfacing to a caller in bulk.
func (r *Reporter) Errors() []error {
	if len(r.entries) == 0 {
		return nil
	}
	out := make([]error, len(r.entries))
	for i, e := range r.entries {
		out[i] = e
	}
	return out
}

// Reset discards every recorded error, so one Reporter can be reused across
// REPL entries.
func (r *Reporter) Reset() { r.entries = nil }
