package maincmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stdio(in string) (mainer.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return mainer.Stdio{
		Stdin:  bytes.NewBufferString(in),
		Stdout: &out,
		Stderr: &errOut,
	}, &out, &errOut
}

func TestRunFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fib.lox")
	require.NoError(t, os.WriteFile(path, []byte(`
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`), 0o644))

	c := Cmd{}
	io, out, errOut := stdio("")
	code := c.Main([]string{binName, path}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "55\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunCommandExplicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lox")
	require.NoError(t, os.WriteFile(path, []byte(`print "foo" + "bar";`), 0o644))

	c := Cmd{}
	io, out, _ := stdio("")
	code := c.Main([]string{binName, "run", path}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "foobar\n", out.String())
}

func TestRunCompileErrorReturnsFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.lox")
	require.NoError(t, os.WriteFile(path, []byte(`var = ;`), 0o644))

	c := Cmd{}
	io, _, errOut := stdio("")
	code := c.Main([]string{binName, path}, io)
	assert.Equal(t, mainer.Failure, code)
	assert.NotEmpty(t, errOut.String())
}

func TestTokenizeCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tok.lox")
	require.NoError(t, os.WriteFile(path, []byte(`var a = 1;`), 0o644))

	c := Cmd{}
	io, out, _ := stdio("")
	code := c.Main([]string{binName, "tokenize", path}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "identifier")
	assert.Contains(t, out.String(), "number")
}

func TestDisassembleCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dis.lox")
	require.NoError(t, os.WriteFile(path, []byte(`print 1 + 2;`), 0o644))

	c := Cmd{}
	io, out, _ := stdio("")
	code := c.Main([]string{binName, "disassemble", path}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "OP_CONSTANT")
	assert.Contains(t, out.String(), "OP_PRINT")
}

func TestREPLPreservesGlobalsAcrossEntries(t *testing.T) {
	c := Cmd{}
	io, out, _ := stdio("var a = 1;\nprint a;\na = a + 1;\nprint a;\n")
	code := c.Main([]string{binName, "run"}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "1\n")
	assert.Contains(t, out.String(), "2\n")
}

func TestHelpAndVersion(t *testing.T) {
	c := Cmd{BuildVersion: "0.1.0", BuildDate: "2026-01-01"}
	io, out, _ := stdio("")
	code := c.Main([]string{binName, "--help"}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "usage:")

	io, out, _ = stdio("")
	code = c.Main([]string{binName, "--version"}, io)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "0.1.0")
}
