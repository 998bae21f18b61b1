package medm

import (
	"fmt"
	"strconv"
)

// Rectangle is the position and size of a widget, in pixels, as given by its
// object block.
type Rectangle struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Offset returns the rectangle moved so that its coordinates are relative to origin.
func (r Rectangle) Offset(origin Point) Rectangle {
	return Rectangle{X: r.X - origin.X, Y: r.Y - origin.Y, Width: r.Width, Height: r.Height}
}

// Origin returns the top-left corner of the rectangle.
func (r Rectangle) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Point is a vertex of a polyline or polygon.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

var geometryFields = [...]string{"x", "y", "width", "height"}

// parseGeometry builds a Rectangle from the values of an object block. All four
// fields must be present for a rectangle to exist: with some missing it returns
// nil and the list of absent fields. A present but non-numeric field is an error.
func parseGeometry(values map[string]Token) (*Rectangle, []string, error) {
	var nums [4]int
	var missing []string

	for i, field := range geometryFields {
		tkn, ok := values[field]
		if !ok {
			missing = append(missing, field)
			continue
		}
		n, err := strconv.Atoi(tkn.Text)
		if err != nil {
			return nil, nil, &ValueError{
				Line:   tkn.Line,
				Column: tkn.Column,
				Key:    field,
				Value:  tkn.Text,
				Msg:    "not an integer",
			}
		}
		nums[i] = n
	}

	if len(missing) > 0 {
		return nil, missing, nil
	}

	return &Rectangle{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, nil, nil
}
