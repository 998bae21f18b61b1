package medm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoContent is returned for an input without any token.
	ErrNoContent = errors.New("no content")
	// ErrNestingTooDeep is returned when blocks nest deeper than the configured limit.
	ErrNestingTooDeep = errors.New("blocks nested too deep")
)

// SyntaxError is a problem found in the structure of the file. Lexical errors
// are returned as a SyntaxError and stop the parse. Structural problems are
// recovered and collected in Tree.Warnings, together with the block they
// were found in.
type SyntaxError struct {
	Filename string
	Line     int
	Column   int
	Msg      string
	// Block and Kind are only set on recovered warnings.
	Block    BlockID
	Kind     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Msg)
}

// ValueError is a value that can not be converted to what its position
// requires, like a malformed color or a non-numeric coordinate. It is fatal
// for the file.
type ValueError struct {
	Filename string
	Line     int
	Column   int
	Key      string
	Value    string
	Msg      string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid value %q for %s: %s", e.Filename, e.Line, e.Column, e.Value, e.Key, e.Msg)
}
