package token

// Tok pairs a Token kind with its source text and position, and, for
// NUMBER/STRING tokens, its decoded literal value. The compiler consumes a
// flat []Tok produced by the scanner in one pass before compilation begins.
type Tok struct {
	Kind   Token
	Lexeme string
	Line   int

	// Literal holds the decoded value for NUMBER (float64) and STRING (string,
	// already unescaped and unquoted) tokens. Nil for every other kind.
	Literal interface{}
}
