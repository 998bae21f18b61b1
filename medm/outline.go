package medm

import "strings"

// Outline is a plain view of a block, suitable for encoding as YAML or JSON.
type Outline struct {
	Name     string     `yaml:"name,omitempty"`
	Kind     string     `yaml:"kind"`
	Line     int        `yaml:"line,omitempty"`
	Geometry *Rectangle `yaml:"geometry,omitempty"`
	// Values holds the assignments as "key=value", in file order.
	Values   []string   `yaml:"values,omitempty"`
	Children []*Outline `yaml:"children,omitempty"`
}

// Outline returns the plain view of block id and everything below it.
func (t *Tree) Outline(id BlockID) *Outline {
	b := t.Block(id)
	o := &Outline{
		Name:     b.Name,
		Kind:     b.Kind.String(),
		Line:     b.Line,
		Geometry: b.Geometry,
	}
	for _, c := range b.Children {
		if c.IsBlock() {
			o.Children = append(o.Children, t.Outline(c.Block))
			continue
		}
		a := c.Assignment
		if a.Colors != nil {
			hex := make([]string, len(a.Colors))
			for i, col := range a.Colors {
				hex[i] = col.Hex()
			}
			o.Values = append(o.Values, a.Key+"="+strings.Join(hex, " "))
			continue
		}
		o.Values = append(o.Values, a.Key+"="+a.Value)
	}
	return o
}
