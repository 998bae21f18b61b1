package medm

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// adlLexer splits .adl source. An '=' pushes the Value state, which reads the
// whole right hand side of the assignment as one token and pops back to Root.
// Any byte matched by no rule, like a control character, is a lexical error.
var adlLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Newline", Pattern: `\n`},
		{Name: "Blank", Pattern: `[ \t\r\f\v]+`},
		{Name: "Assign", Pattern: `=`, Action: lexer.Push("Value")},
		{Name: "Op", Pattern: `[{}(),;]`},
		{Name: "Quoted", Pattern: `"[^"\n]*"`},
		{Name: "Unterminated", Pattern: `"[^"\n]*`},
		{Name: "Word", Pattern: `[^\x00-\x20\x7f{}(),;="]+`},
	},
	"Value": {
		{Name: "Blank", Pattern: `[ \t\r\f\v]+`},
		{Name: "Quoted", Pattern: `"[^"\n]*"`, Action: lexer.Pop()},
		{Name: "Unterminated", Pattern: `"[^"\n]*`, Action: lexer.Pop()},
		{Name: "Bare", Pattern: `[^\s}]+`, Action: lexer.Pop()},
		// Nothing before the end of the line or the block
		{Name: "Empty", Pattern: ``, Action: lexer.Pop()},
	},
})

var adlSymbols = adlLexer.Symbols()

// valueTypes are the tokens the Value state can produce.
var valueTypes = map[lexer.TokenType]bool{
	adlSymbols["Quoted"]:       true,
	adlSymbols["Unterminated"]: true,
	adlSymbols["Bare"]:         true,
	adlSymbols["Empty"]:        true,
}

// Tokenize splits the contents of an .adl file into a flat sequence of tokens
// terminated by an EOFToken.
//
// After an '=' the lexer switches to value mode and reads the whole value as a
// single token: a quoted value runs up to its closing quote, a bare value up to
// whitespace, '}' or the end of the line. A quoted value without its closing
// quote becomes an ErrorToken, which the parser reports against the assignment.
//
// The only fatal condition is a character that can not start any token.
func Tokenize(fileName string, src []byte) ([]Token, error) {
	lex, err := adlLexer.LexString(fileName, string(src))
	if err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, lexicalError(fileName, src, err)
	}

	tokens := make([]Token, 0, len(raw))
	inValue := false
	for _, r := range raw {
		line, col := r.Pos.Line, r.Pos.Column

		if r.Type == adlSymbols["Blank"] {
			continue
		}
		// An '=' followed by nothing before the end of the line or the block
		if inValue && !valueTypes[r.Type] {
			tokens = append(tokens, Token{Type: StringToken, Line: line, Column: col, Value: true})
			inValue = false
		}

		switch r.Type {
		case lexer.EOF:
			tokens = append(tokens, Token{Type: EOFToken, Line: line, Column: col})
			return tokens, nil

		case adlSymbols["Newline"]:
			tokens = append(tokens, Token{Type: NewlineToken, Text: "\n", Line: line, Column: col})

		case adlSymbols["Assign"]:
			tokens = append(tokens, Token{Type: OpToken, Text: "=", Line: line, Column: col})
			inValue = true
			continue

		case adlSymbols["Op"]:
			tokens = append(tokens, Token{Type: OpToken, Text: r.Value, Line: line, Column: col})

		case adlSymbols["Quoted"]:
			text := r.Value[1 : len(r.Value)-1]
			tokens = append(tokens, Token{Type: StringToken, Text: text, Line: line, Column: col, Value: inValue})

		case adlSymbols["Unterminated"]:
			tokens = append(tokens, Token{Type: ErrorToken, Text: "unterminated string", Line: line, Column: col, Value: inValue})

		case adlSymbols["Word"], adlSymbols["Bare"]:
			tokens = append(tokens, Token{Type: wordType(r.Value), Text: r.Value, Line: line, Column: col, Value: inValue})

		case adlSymbols["Empty"]:
			tokens = append(tokens, Token{Type: StringToken, Line: line, Column: col, Value: true})
		}
		inValue = false
	}

	// ConsumeAll always ends with the EOF token
	return tokens, nil
}

// lexicalError turns the error of the lexer into a SyntaxError pointing at
// the offending character.
func lexicalError(fileName string, src []byte, err error) error {
	var lerr *lexer.Error
	if !errors.As(err, &lerr) {
		return errors.Wrap(err, fileName)
	}
	msg := lerr.Msg
	if off := lerr.Pos.Offset; off >= 0 && off < len(src) {
		msg = fmt.Sprintf("unexpected character %q", src[off])
	}
	return &SyntaxError{
		Filename: fileName,
		Line:     lerr.Pos.Line,
		Column:   lerr.Pos.Column,
		Msg:      msg,
		Block:    NoBlock,
	}
}

func wordType(word string) TokenType {
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return NumberToken
	}
	return NameToken
}
