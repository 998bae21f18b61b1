package medm

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// DefaultMaxDepth is the deepest block nesting accepted by default.
const DefaultMaxDepth = 64

// Options control how a file is read and parsed. The zero value is usable.
type Options struct {
	// Encoding is the character set of the input, like "utf-8" or "iso-8859-1".
	Encoding string
	// MaxDepth limits block nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	Logger   *zap.SugaredLogger
}

// Parser builds a Tree from the tokens of one file.
type Parser struct {
	fileName string
	tokens   []Token
	tree     *Tree
	depth    int
	parens   int
	// open is the innermost block still open at the end of the file
	open     BlockID
	maxDepth int
	log      *zap.SugaredLogger
}

// NewParser returns a parser for the tokens of fileName.
func NewParser(fileName string, tokens []Token, opts Options) *Parser {
	p := &Parser{
		fileName: fileName,
		tokens:   tokens,
		maxDepth: opts.MaxDepth,
		log:      opts.Logger,
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}
	return p
}

// ParseFromFile reads and parses an .adl file, decoding it from opts.Encoding.
func ParseFromFile(fileName string, opts Options) (*Tree, error) {
	src, err := readFile(fileName, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return ParseFromBytes(fileName, src, opts)
}

// ParseFromBytes parses the contents of an .adl file already in memory.
func ParseFromBytes(fileName string, src []byte, opts Options) (*Tree, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, ErrNoContent
	}

	tokens, err := Tokenize(fileName, src)
	if err != nil {
		return nil, err
	}

	return NewParser(fileName, tokens, opts).Parse()
}

func readFile(fileName string, encoding string) ([]byte, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}
	defer f.Close()

	var r io.Reader = f
	if encoding != "" && !strings.EqualFold(encoding, "utf-8") && !strings.EqualFold(encoding, "utf8") {
		r, err = charset.NewReaderLabel(encoding, f)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s as %s", fileName, encoding)
		}
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	return src, nil
}

// Parse builds the block tree. Structural problems are recovered and reported
// in the Warnings of the tree. Lexical and value errors, and nesting deeper
// than the limit, are returned as errors.
func (p *Parser) Parse() (*Tree, error) {
	p.tree = &Tree{
		FileName: p.fileName,
		Blocks:   []Block{{Name: "", Kind: KindGeneric, Parent: NoBlock}},
	}
	p.open = NoBlock

	pos := 0
	for pos < len(p.tokens) && p.tokens[pos].Type != EOFToken {
		var err error
		pos, err = p.parseBody(p.tree.Root(), pos, false)
		if err != nil {
			return nil, err
		}
	}

	eof := p.tokens[len(p.tokens)-1]
	owner := p.open
	if owner == NoBlock {
		owner = p.tree.Root()
	}
	if p.depth > 0 {
		p.warn(owner, eof, fmt.Sprintf("end of file with %d unclosed block(s)", p.depth))
	}
	if p.parens != 0 {
		p.warn(owner, eof, fmt.Sprintf("end of file with %d unbalanced parenthesis", p.parens))
	}

	p.log.Debugw("parsed", "file", p.fileName, "blocks", len(p.tree.Blocks), "warnings", len(p.tree.Warnings))
	return p.tree, nil
}

// parseBody parses the contents of block id starting at token pos, up to and
// including the brace that closes the block. It returns the index of the next
// token to parse. When closable is false there is no opening brace to match,
// and a closing brace is reported and skipped.
func (p *Parser) parseBody(id BlockID, pos int, closable bool) (int, error) {

	for pos < len(p.tokens) {
		tkn := p.tokens[pos]

		switch {
		case tkn.Type == EOFToken:
			if closable && p.open == NoBlock {
				p.open = id
			}
			return pos, nil

		case tkn.Type == NewlineToken:
			pos++

		case tkn.Is("}"):
			if !closable {
				p.warn(id, tkn, "closing brace without a block")
				return pos + 1, nil
			}
			p.depth--
			return pos + 1, nil

		case tkn.Is("{"):
			// A brace without a name. Parse its contents as part of the
			// current block, so nothing below it is lost.
			p.warn(id, tkn, "block without a name")
			if err := p.enter(tkn); err != nil {
				return pos, err
			}
			next, err := p.parseBody(id, pos+1, true)
			if err != nil {
				return next, err
			}
			pos = next

		case tkn.Is("("):
			p.parens++
			pos++

		case tkn.Is(")"):
			p.parens--
			if p.parens < 0 {
				p.warn(id, tkn, "closing parenthesis without an opening one")
				p.parens = 0
			}
			pos++

		case tkn.IsWord() && p.next(pos).Is("="):
			pos = p.parseAssignment(id, pos)

		case tkn.IsWord() && p.next(pos).Is("{"):
			next, err := p.parseBlock(id, pos)
			if err != nil {
				return next, err
			}
			pos = next

		case tkn.Type == ErrorToken:
			p.warn(id, tkn, tkn.Text)
			pos++

		default:
			p.log.Debugw("skipping token", "file", p.fileName, "line", tkn.Line, "column", tkn.Column, "token", tkn.String())
			pos++
		}
	}

	return pos, nil
}

// parseAssignment parses "key = value" at pos and returns the next position.
func (p *Parser) parseAssignment(id BlockID, pos int) int {
	key := p.tokens[pos]
	value := p.next(pos + 1)

	if value.Type == ErrorToken {
		p.warn(id, value, fmt.Sprintf("missing closing quote in value of %q", key.Text))
		return p.skipLine(pos + 2)
	}

	a := &Assignment{
		Key:    key.Text,
		Line:   key.Line,
		Column: key.Column,
	}
	next := pos + 2
	if value.Value {
		a.Value = value.Text
		next = pos + 3
	}

	p.tree.Blocks[id].Children = append(p.tree.Blocks[id].Children, Child{Assignment: a})
	return next
}

// parseBlock parses a named block at pos, whose body starts after the brace.
func (p *Parser) parseBlock(parent BlockID, pos int) (int, error) {
	name := p.tokens[pos]
	kind := Classify(name.Text)

	if err := p.enter(name); err != nil {
		return pos, err
	}

	switch kind {
	case KindObject:
		return p.parseObject(parent, pos+2)
	case KindColors:
		return p.parseColors(parent, pos+2)
	}

	id := BlockID(len(p.tree.Blocks))
	p.tree.Blocks = append(p.tree.Blocks, Block{
		Name:   name.Text,
		Kind:   kind,
		Parent: parent,
		Depth:  p.depth,
		Line:   name.Line,
		Column: name.Column,
	})
	p.tree.Blocks[parent].Children = append(p.tree.Blocks[parent].Children, Child{Block: id})

	if kind == KindPoints {
		return p.parsePoints(id, pos+2)
	}

	p.log.Debugw("block", "name", name.Text, "kind", kind.String(), "line", name.Line, "depth", p.depth)
	return p.parseBody(id, pos+2, true)
}

// parseObject reads the geometry of owner from an object block.
func (p *Parser) parseObject(owner BlockID, pos int) (int, error) {
	start := p.tokens[pos-2]
	values := make(map[string]Token, 4)

	pos, err := p.scanBlock(owner, pos, func(tkn Token, i int) int {
		if tkn.IsWord() && p.next(i).Is("=") {
			value := p.next(i + 1)
			if !value.Value {
				return i + 2
			}
			if value.Type == ErrorToken {
				p.warn(owner, value, fmt.Sprintf("missing closing quote in value of %q", tkn.Text))
				return p.skipLine(i + 2)
			}
			if _, dup := values[tkn.Text]; !dup {
				values[tkn.Text] = value
			}
			return i + 3
		}
		return i + 1
	})
	if err != nil {
		return pos, err
	}

	rect, missing, err := parseGeometry(values)
	if err != nil {
		var ve *ValueError
		if errors.As(err, &ve) {
			ve.Filename = p.fileName
		}
		return pos, err
	}
	if len(missing) > 0 {
		p.warn(owner, start, fmt.Sprintf("object block without %s: geometry ignored", strings.Join(missing, ", ")))
		return pos, nil
	}

	if p.tree.Blocks[owner].Geometry != nil {
		p.warn(owner, start, "duplicate object block: geometry replaced")
	}
	p.tree.Blocks[owner].Geometry = rect
	return pos, nil
}

// parseColors reads the color table of a colors block and stores it in owner
// as a single assignment.
func (p *Parser) parseColors(owner BlockID, pos int) (int, error) {
	start := p.tokens[pos-2]
	var text strings.Builder

	pos, err := p.scanBlock(owner, pos, func(tkn Token, i int) int {
		if tkn.IsWord() {
			text.WriteString(tkn.Text)
			text.WriteByte(' ')
		}
		return i + 1
	})
	if err != nil {
		return pos, err
	}

	colors, err := DecodeColors(text.String())
	if err != nil {
		return pos, &ValueError{
			Filename: p.fileName,
			Line:     start.Line,
			Column:   start.Column,
			Key:      "colors",
			Value:    strings.TrimSpace(text.String()),
			Msg:      err.Error(),
		}
	}

	a := &Assignment{Key: "colors", Colors: colors, Line: start.Line, Column: start.Column}
	p.tree.Blocks[owner].Children = append(p.tree.Blocks[owner].Children, Child{Assignment: a})
	return pos, nil
}

// parsePoints reads the "(x,y)" vertices of a points block. They are stored in
// the block as one assignment with key "points" and the value "x,y x,y ...".
func (p *Parser) parsePoints(id BlockID, pos int) (int, error) {
	var pairs []string
	var current []Token
	var failure error

	pos, err := p.scanBlock(id, pos, func(tkn Token, i int) int {
		switch {
		case tkn.Is("("):
			p.parens++
			current = current[:0]
		case tkn.Is(")"):
			p.parens--
			if p.parens < 0 {
				p.warn(id, tkn, "closing parenthesis without an opening one")
				p.parens = 0
			}
			if len(current) != 2 {
				p.warn(id, tkn, "point without two coordinates ignored")
				break
			}
			for _, c := range current {
				if c.Type != NumberToken && failure == nil {
					failure = &ValueError{
						Filename: p.fileName,
						Line:     c.Line,
						Column:   c.Column,
						Key:      "points",
						Value:    c.Text,
						Msg:      "not a number",
					}
				}
			}
			pairs = append(pairs, current[0].Text+","+current[1].Text)
		case tkn.IsWord():
			current = append(current, tkn)
		}
		return i + 1
	})
	if err != nil {
		return pos, err
	}
	if failure != nil {
		return pos, failure
	}

	b := &p.tree.Blocks[id]
	a := &Assignment{Key: "points", Value: strings.Join(pairs, " "), Line: b.Line, Column: b.Column}
	b.Children = append(b.Children, Child{Assignment: a})
	return pos, nil
}

// scanBlock feeds every token of a block body to fn, up to the brace that
// closes the block, and returns the position after it. fn returns the position
// of the next token to look at. Nested braces are tracked but not parsed.
func (p *Parser) scanBlock(owner BlockID, pos int, fn func(tkn Token, i int) int) (int, error) {
	level := 0
	for pos < len(p.tokens) {
		tkn := p.tokens[pos]
		switch {
		case tkn.Type == EOFToken:
			if p.open == NoBlock {
				p.open = owner
			}
			return pos, nil
		case tkn.Is("{"):
			p.warn(owner, tkn, "unexpected nested block")
			if err := p.enter(tkn); err != nil {
				return pos, err
			}
			level++
			pos++
		case tkn.Is("}"):
			p.depth--
			pos++
			if level == 0 {
				return pos, nil
			}
			level--
		case tkn.Type == NewlineToken:
			pos++
		default:
			pos = fn(tkn, pos)
		}
	}
	return pos, nil
}

// enter accounts for one more level of nesting.
func (p *Parser) enter(tkn Token) error {
	p.depth++
	if p.depth > p.maxDepth {
		return errors.Wrapf(ErrNestingTooDeep, "%s:%d:%d: more than %d levels", p.fileName, tkn.Line, tkn.Column, p.maxDepth)
	}
	return nil
}

// next returns the token after pos, or the EOF token.
func (p *Parser) next(pos int) Token {
	if pos+1 < len(p.tokens) {
		return p.tokens[pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// skipLine returns the position of the first token of the next line.
func (p *Parser) skipLine(pos int) int {
	for pos < len(p.tokens) {
		switch p.tokens[pos].Type {
		case NewlineToken:
			return pos + 1
		case EOFToken:
			return pos
		}
		pos++
	}
	return pos
}

// warn records a recovered problem found at tkn inside block id.
func (p *Parser) warn(id BlockID, tkn Token, msg string) {
	p.tree.Warnings = append(p.tree.Warnings, &SyntaxError{
		Filename: p.fileName,
		Line:     tkn.Line,
		Column:   tkn.Column,
		Msg:      msg,
		Block:    id,
		Kind:     p.tree.Label(id),
	})
	p.log.Debugw("syntax warning", "file", p.fileName, "line", tkn.Line, "column", tkn.Column, "block", p.tree.Label(id), "msg", msg)
}
