// Package token defines the lexeme stream the engine treats as an input
// alongside the AST.
package token

import "github.com/oxhq/lintcore/internal/ast"

// Kind is a lexical token category.
type Kind int

const (
	NAME Kind = iota
	STRING
	NUMBER
	OP
	COMMENT
	NEWLINE
	INDENT
	DEDENT
	ENDMARKER
)

// StringPayload captures a string literal's quote style and prefix flags,
// needed by rules that rewrite string literals without changing their
// effective value (e.g. quote-normalization fixes).
type StringPayload struct {
	Raw       string // exact source text, including quotes and prefix
	Prefix    string // e.g. "f", "r", "rb", "" for a plain string
	Quote     byte   // '\'' or '"'
	Triple    bool
	IsFString bool
}

// Token is one lexed lexeme.
type Token struct {
	Kind    Kind
	Range   ast.Range
	Text    string // exact source text for this token
	String  *StringPayload // non-nil only for Kind == STRING
}

// Stream is the full token sequence for one file, in source order.
type Stream struct {
	Tokens []Token
}

// At returns the token overlapping the given byte offset, if any.
func (s *Stream) At(offset int) (Token, bool) {
	// Linear scan is adequate: callers query this rarely (noqa extraction,
	// comment lookups) compared to the O(n) traversal cost of one checker
	// pass.
	for _, t := range s.Tokens {
		if offset >= t.Range.Start && offset < t.Range.End {
			return t, true
		}
	}
	return Token{}, false
}

// Comments returns every COMMENT token in source order.
func (s *Stream) Comments() []Token {
	var out []Token
	for _, t := range s.Tokens {
		if t.Kind == COMMENT {
			out = append(out, t)
		}
	}
	return out
}
