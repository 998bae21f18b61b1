package medm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Color is one entry of the color table of a display.
type Color struct {
	R, G, B uint8
}

// Hex returns the color in the "#rrggbb" notation.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// DecodeColors converts the contents of a colors block into a color table. The
// entries are six hex digit tokens separated by commas, spaces or newlines.
// Any other token is an error.
func DecodeColors(text string) ([]Color, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	colors := make([]Color, 0, len(fields))
	for i, f := range fields {
		c, err := decodeColor(f)
		if err != nil {
			return nil, errors.Wrapf(err, "color %d", i)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

func decodeColor(s string) (Color, error) {
	if len(s) != 6 {
		return Color{}, errors.Errorf("malformed color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, errors.Errorf("malformed color %q: not hexadecimal", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
