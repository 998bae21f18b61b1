package pydm

import (
	"strconv"

	"github.com/hesusruiz/adl2pydm/medm"
)

// A ValueType is the Qt Designer type of a property value.
type ValueType uint32

const (
	StringValue ValueType = iota
	BoolValue
	NumberValue
	DoubleValue
	EnumValue
	SetValue
	StringListValue
	RectValue
	ColorValue
	BrushValue
)

var valueTypeNames = [...]string{
	StringValue:     "string",
	BoolValue:       "bool",
	NumberValue:     "number",
	DoubleValue:     "double",
	EnumValue:       "enum",
	SetValue:        "set",
	StringListValue: "stringlist",
	RectValue:       "rect",
	ColorValue:      "color",
	BrushValue:      "brush",
}

// String returns the name of the element that holds a value of this type.
func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// RGBA is a color with its alpha channel.
type RGBA struct {
	R, G, B, A uint8
}

// Opaque returns the color of the table entry c with full alpha.
func Opaque(c medm.Color) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Value is a typed property value. Only the fields that correspond to Type
// are meaningful.
type Value struct {
	Type    ValueType
	Text    string
	Strings []string
	Bool    bool
	Int     int
	Float   float64
	Rect    medm.Rectangle
	Color   RGBA
}

func NewString(s string) Value { return Value{Type: StringValue, Text: s} }
func NewBool(b bool) Value { return Value{Type: BoolValue, Bool: b} }
func NewNumber(n int) Value { return Value{Type: NumberValue, Int: n} }
func NewDouble(f float64) Value { return Value{Type: DoubleValue, Float: f} }
func NewEnum(s string) Value { return Value{Type: EnumValue, Text: s} }
func NewSet(s string) Value { return Value{Type: SetValue, Text: s} }
func NewRect(r medm.Rectangle) Value { return Value{Type: RectValue, Rect: r} }
func NewColor(c RGBA) Value { return Value{Type: ColorValue, Color: c} }
func NewStringList(s ...string) Value { return Value{Type: StringListValue, Strings: s} }

// NewBrush returns a brush with the given Qt::BrushStyle name, like "SolidPattern".
func NewBrush(style string, c RGBA) Value {
	return Value{Type: BrushValue, Text: style, Color: c}
}

// Equal reports whether two values have the same type and content.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case StringValue, EnumValue, SetValue:
		return v.Text == o.Text
	case BoolValue:
		return v.Bool == o.Bool
	case NumberValue:
		return v.Int == o.Int
	case DoubleValue:
		return v.Float == o.Float
	case RectValue:
		return v.Rect == o.Rect
	case ColorValue:
		return v.Color == o.Color
	case BrushValue:
		return v.Text == o.Text && v.Color == o.Color
	case StringListValue:
		if len(v.Strings) != len(o.Strings) {
			return false
		}
		for i := range v.Strings {
			if v.Strings[i] != o.Strings[i] {
				return false
			}
		}
		return true
	}
	return false
}

// formatDouble writes a double the way Qt Designer does: integral values
// without a fractional part.
func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
