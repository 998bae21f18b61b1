package pydm

import (
	"github.com/hesusruiz/adl2pydm/medm"
)

// Property is a named value of a widget. Properties that are not part of the
// Qt standard set of the class are written with stdset="0".
type Property struct {
	Name        string
	Value       Value
	NonStandard bool
}

// Widget is one element of the output screen. Properties keep the order in
// which they were set.
type Widget struct {
	Class      string
	Name       string
	Geometry   *medm.Rectangle
	Properties []Property
	Children   []*Widget
	Stacking   []ZOrderEntry

	// Source locates the block the widget was made from, for diagnostics.
	Source medm.BlockID
}

// Set adds a standard property, unless the value is the default of the class.
func (w *Widget) Set(name string, v Value) {
	w.set(name, v, false)
}

// SetCustom adds a property defined by the PyDM class, unless the value is
// the default of the class.
func (w *Widget) SetCustom(name string, v Value) {
	w.set(name, v, true)
}

func (w *Widget) set(name string, v Value, nonStandard bool) {
	if IsDefault(w.Class, name, v) {
		return
	}
	for i := range w.Properties {
		if w.Properties[i].Name == name {
			w.Properties[i] = Property{Name: name, Value: v, NonStandard: nonStandard}
			return
		}
	}
	w.Properties = append(w.Properties, Property{Name: name, Value: v, NonStandard: nonStandard})
}

// Property returns the property with the given name.
func (w *Widget) Property(name string) (Property, bool) {
	for _, p := range w.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Add appends a child widget. MEDM has no stacking hints: a widget is drawn
// over the ones before it in the file. So the stacking key is the position
// among the children and the resolved z-order is the file order.
func (w *Widget) Add(child *Widget) {
	w.Stacking = append(w.Stacking, ZOrderEntry{Name: child.Name, Order: len(w.Children)})
	w.Children = append(w.Children, child)
}

// Walk calls fn for w and every widget below it, depth first.
func (w *Widget) Walk(fn func(w *Widget)) {
	fn(w)
	for _, c := range w.Children {
		c.Walk(fn)
	}
}

// Count returns the number of widgets below w, w excluded.
func (w *Widget) Count() int {
	n := 0
	for _, c := range w.Children {
		n += 1 + c.Count()
	}
	return n
}
