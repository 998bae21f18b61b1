package medm

import (
	"strconv"
)

// A TokenType is the type of a Token.
type TokenType uint32

const (
	// ErrorToken means that the lexer could not find the end of a value.
	ErrorToken TokenType = iota
	// NameToken is a bare word, like a block kind or an assignment key.
	NameToken
	// StringToken is a double quoted string, with the quotes removed.
	StringToken
	// NumberToken is a bare word that parses as a number.
	NumberToken
	// OpToken is one of the structural characters: { } ( ) , ; =
	OpToken
	// NewlineToken marks the end of a source line.
	NewlineToken
	// EOFToken is always the last token of a sequence.
	EOFToken
)

// String returns a string representation of the TokenType.
func (t TokenType) String() string {
	switch t {
	case ErrorToken:
		return "Error"
	case NameToken:
		return "Name"
	case StringToken:
		return "String"
	case NumberToken:
		return "Number"
	case OpToken:
		return "Op"
	case NewlineToken:
		return "Newline"
	case EOFToken:
		return "EOF"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// A Token is one lexical element of an .adl file. Line and Column are 1-based.
// Tokens read right after an '=' operator have Value set: their Text is the
// complete value of the assignment, already unquoted.
type Token struct {
	Type   TokenType
	Text   string
	Line   int
	Column int
	Value  bool
}

// Is reports whether the token is the operator op.
func (t Token) Is(op string) bool {
	return t.Type == OpToken && t.Text == op
}

// IsWord reports whether the token can name a block or an assignment key.
func (t Token) IsWord() bool {
	return t.Type == NameToken || t.Type == StringToken || t.Type == NumberToken
}

// String returns a string representation of the Token.
func (t Token) String() string {
	switch t.Type {
	case NewlineToken:
		return "Newline"
	case EOFToken:
		return "EOF"
	case StringToken:
		return strconv.Quote(t.Text)
	}
	return t.Text
}
