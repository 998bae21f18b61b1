package pydm

import (
	"fmt"
	"strings"
)

// D2 describes the widget hierarchy of the document in the D2 diagram
// language. Every widget is a node labelled with its name and class, linked to
// the widget that contains it.
func (d *Document) D2() string {
	var b strings.Builder
	b.WriteString("direction: right\n")
	d.Screen.Walk(func(w *Widget) {
		fmt.Fprintf(&b, "%s: %q\n", w.Name, w.Name+" ("+w.Class+")")
		for _, c := range w.Children {
			fmt.Fprintf(&b, "%s -> %s\n", w.Name, c.Name)
		}
	})
	return b.String()
}
