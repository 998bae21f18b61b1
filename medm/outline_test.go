package medm

import (
	"reflect"
	"testing"
)

func TestOutline(t *testing.T) {
	tree := mustParse(t, `
"color map" {
	ncolors=2
	colors {
		ffffff,
		fd0000,
	}
}
"text update" {
	monitor {
		chan="m1.RBV"
		clr=1
	}
	align="horiz. centered"
}
`)

	got := tree.Outline(tree.Root())
	want := &Outline{
		Kind: "generic",
		Children: []*Outline{
			{
				Name:   "color map",
				Kind:   "color map",
				Line:   2,
				Values: []string{"ncolors=2", "colors=#ffffff #fd0000"},
			},
			{
				Name:   "text update",
				Kind:   "text update",
				Line:   9,
				Values: []string{"align=horiz. centered"},
				Children: []*Outline{
					{Name: "monitor", Kind: "monitor", Line: 10, Values: []string{"chan=m1.RBV", "clr=1"}},
				},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Outline() = %+v, want %+v", got, want)
	}
}
