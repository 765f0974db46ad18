package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/nenuphar-lox/lang/token"
)

func kinds(toks []token.Tok) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanAllPunctuationAndKeywords(t *testing.T) {
	src := `var a = 1 + 2 * (3 - 4) / 5; if (a == 1 and !false or true) { print a; }`
	toks := ScanAll([]byte(src), nil)
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	require.Contains(t, kinds(toks), token.VAR)
	require.Contains(t, kinds(toks), token.AND)
	require.Contains(t, kinds(toks), token.BANG)
	require.Contains(t, kinds(toks), token.EQUAL_EQUAL)
}

func TestScanNumberLiteral(t *testing.T) {
	toks := ScanAll([]byte("1.5;"), nil)
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, 1.5, toks[0].Literal)
}

func TestScanStringLiteral(t *testing.T) {
	toks := ScanAll([]byte(`"hello world";`), nil)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Literal)
}

func TestScanUnterminatedString(t *testing.T) {
	var errs []string
	toks := ScanAll([]byte(`"oops`), func(line int, msg string) {
		errs = append(errs, msg)
	})
	require.NotEmpty(t, errs)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
}

func TestScanLineComments(t *testing.T) {
	toks := ScanAll([]byte("1; // a comment\n2;"), nil)
	require.Equal(t, 1, toks[0].Line)
	// find the second NUMBER token and check its line
	var second token.Tok
	count := 0
	for _, tk := range toks {
		if tk.Kind == token.NUMBER {
			count++
			if count == 2 {
				second = tk
			}
		}
	}
	require.Equal(t, 2, second.Line)
}

func TestScanTracksLineNumbers(t *testing.T) {
	toks := ScanAll([]byte("var a = 1;\nvar b = 2;\n"), nil)
	var lines []int
	for _, tk := range toks {
		if tk.Kind == token.VAR {
			lines = append(lines, tk.Line)
		}
	}
	require.Equal(t, []int{1, 2}, lines)
}

func TestScanIllegalCharacter(t *testing.T) {
	var msgs []string
	toks := ScanAll([]byte("@"), func(line int, msg string) { msgs = append(msgs, msg) })
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.NotEmpty(t, msgs)
}
