// Package scanner tokenizes Lox source text for the compiler to consume.
//
// The scanner is a minimal external collaborator to the compiler and VM: it
// produces a finite sequence of token.Tok values and otherwise carries no
// interesting state of its own. Errors are reported through an error
// handler callback rather than by stopping early, so that scanning always
// completes and produces a (possibly partial) token stream; the caller
// decides whether to proceed to compilation.
package scanner

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mna/nenuphar-lox/lang/token"
)

// ErrorHandler is called for every malformed lexeme encountered while
// scanning, with the 1-based line it occurred on.
type ErrorHandler func(line int, msg string)

// Scanner tokenizes a single source string.
type Scanner struct {
	src []byte
	err ErrorHandler

	start int // byte offset of the start of the current lexeme
	off   int // byte offset of cur
	roff  int // byte offset following cur
	cur   rune
	line  int
}

// New creates a Scanner over src. errHandler may be nil, in which case scan
// errors are not reported; malformed lexemes still appear in the token
// stream as token.ILLEGAL (the caller should prefer passing a handler that
// records them).
func New(src []byte, errHandler ErrorHandler) *Scanner {
	s := &Scanner{src: src, err: errHandler, line: 1}
	s.advance()
	return s
}

// ScanAll tokenizes the whole source and returns every token, including a
// final token.EOF. It never returns early on a scan error; malformed
// lexemes are reported via the error handler and represented as
// token.ILLEGAL in the stream.
func ScanAll(src []byte, errHandler ErrorHandler) []token.Tok {
	s := New(src, errHandler)
	var toks []token.Tok
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	if s.cur == '\n' {
		s.line++
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) peek() rune {
	if s.roff >= len(s.src) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.src[s.roff:])
	return r
}

func (s *Scanner) match(want rune) bool {
	if s.cur != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) errorf(format string, args ...interface{}) {
	if s.err != nil {
		s.err(s.line, fmt.Sprintf(format, args...))
	}
}

// Scan returns the next token. Once it returns a token.EOF, every
// subsequent call also returns token.EOF.
func (s *Scanner) Scan() token.Tok {
	s.skipIgnored()
	s.start = s.off
	line := s.line

	if s.cur == -1 {
		return token.Tok{Kind: token.EOF, Line: line}
	}

	cur := s.cur
	switch {
	case isAlpha(cur):
		return s.identifier(line)
	case isDigit(cur):
		return s.number(line)
	case cur == '"':
		return s.string(line)
	}

	s.advance()
	mk := func(k token.Token) token.Tok {
		return token.Tok{Kind: k, Lexeme: string(s.src[s.start:s.off]), Line: line}
	}
	switch cur {
	case '(':
		return mk(token.LEFT_PAREN)
	case ')':
		return mk(token.RIGHT_PAREN)
	case '{':
		return mk(token.LEFT_BRACE)
	case '}':
		return mk(token.RIGHT_BRACE)
	case ',':
		return mk(token.COMMA)
	case '.':
		return mk(token.DOT)
	case '-':
		return mk(token.MINUS)
	case '+':
		return mk(token.PLUS)
	case ';':
		return mk(token.SEMICOLON)
	case '*':
		return mk(token.STAR)
	case '/':
		return mk(token.SLASH)
	case '!':
		if s.match('=') {
			return mk(token.BANG_EQUAL)
		}
		return mk(token.BANG)
	case '=':
		if s.match('=') {
			return mk(token.EQUAL_EQUAL)
		}
		return mk(token.EQUAL)
	case '<':
		if s.match('=') {
			return mk(token.LESS_EQUAL)
		}
		return mk(token.LESS)
	case '>':
		if s.match('=') {
			return mk(token.GREATER_EQUAL)
		}
		return mk(token.GREATER)
	default:
		s.errorf("unexpected character %q", cur)
		return mk(token.ILLEGAL)
	}
}

// skipIgnored consumes whitespace and line comments ("//...").
func (s *Scanner) skipIgnored() {
	for {
		switch s.cur {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peek() == '/' {
				for s.cur != '\n' && s.cur != -1 {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier(line int) token.Tok {
	for isAlpha(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	lit := string(s.src[s.start:s.off])
	return token.Tok{Kind: token.LookupIdent(lit), Lexeme: lit, Line: line}
}

func (s *Scanner) number(line int) token.Tok {
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(s.peek()) {
		s.advance()
		for isDigit(s.cur) {
			s.advance()
		}
	}
	lit := string(s.src[s.start:s.off])
	v, _ := strconv.ParseFloat(lit, 64)
	return token.Tok{Kind: token.NUMBER, Lexeme: lit, Line: line, Literal: v}
}

func (s *Scanner) string(line int) token.Tok {
	s.advance() // opening quote
	startLine := line
	for s.cur != '"' && s.cur != -1 {
		s.advance()
	}
	if s.cur == -1 {
		s.errorf("unterminated string")
		return token.Tok{Kind: token.ILLEGAL, Lexeme: string(s.src[s.start:s.off]), Line: startLine}
	}
	val := string(s.src[s.start+1 : s.off])
	s.advance() // closing quote
	lit := string(s.src[s.start:s.off])
	return token.Tok{Kind: token.STRING, Lexeme: lit, Line: startLine, Literal: val}
}

func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
