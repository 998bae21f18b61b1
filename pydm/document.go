package pydm

import (
	"io"
	"sort"
)

// CustomWidget declares a PyDM class to Qt Designer.
type CustomWidget struct {
	Class   string
	Extends string
	Header  string
}

var customWidgets = map[string]CustomWidget{
	"PyDMLabel":                   {"PyDMLabel", "QLabel", "pydm.widgets.label"},
	"PyDMLineEdit":                {"PyDMLineEdit", "QLineEdit", "pydm.widgets.line_edit"},
	"PyDMEnumComboBox":            {"PyDMEnumComboBox", "QComboBox", "pydm.widgets.enum_combo_box"},
	"PyDMEnumButton":              {"PyDMEnumButton", "QWidget", "pydm.widgets.enum_button"},
	"PyDMPushButton":              {"PyDMPushButton", "QPushButton", "pydm.widgets.pushbutton"},
	"PyDMRelatedDisplayButton":    {"PyDMRelatedDisplayButton", "QPushButton", "pydm.widgets.related_display_button"},
	"PyDMShellCommand":            {"PyDMShellCommand", "QPushButton", "pydm.widgets.shell_command"},
	"PyDMFrame":                   {"PyDMFrame", "QFrame", "pydm.widgets.frame"},
	"PyDMEmbeddedDisplay":         {"PyDMEmbeddedDisplay", "QFrame", "pydm.widgets.embedded_display"},
	"PyDMDrawingRectangle":        {"PyDMDrawingRectangle", "QWidget", "pydm.widgets.drawing"},
	"PyDMDrawingEllipse":          {"PyDMDrawingEllipse", "QWidget", "pydm.widgets.drawing"},
	"PyDMDrawingArc":              {"PyDMDrawingArc", "QWidget", "pydm.widgets.drawing"},
	"PyDMDrawingPie":              {"PyDMDrawingPie", "QWidget", "pydm.widgets.drawing"},
	"PyDMDrawingPolyline":         {"PyDMDrawingPolyline", "QWidget", "pydm.widgets.drawing"},
	"PyDMDrawingIrregularPolygon": {"PyDMDrawingIrregularPolygon", "QWidget", "pydm.widgets.drawing"},
	"PyDMDrawingImage":            {"PyDMDrawingImage", "QWidget", "pydm.widgets.drawing"},
	"PyDMScaleIndicator":          {"PyDMScaleIndicator", "QFrame", "pydm.widgets.scale"},
	"PyDMByteIndicator":           {"PyDMByteIndicator", "QWidget", "pydm.widgets.byte"},
	"PyDMSlider":                  {"PyDMSlider", "QFrame", "pydm.widgets.slider"},
	"PyDMSpinbox":                 {"PyDMSpinbox", "QDoubleSpinBox", "pydm.widgets.spinbox"},
	"PyDMTimePlot":                {"PyDMTimePlot", "QGraphicsView", "pydm.widgets.timeplot"},
	"PyDMScatterPlot":             {"PyDMScatterPlot", "QGraphicsView", "pydm.widgets.scatterplot"},
}

// Document is a complete screen ready to be written.
type Document struct {
	// Class is the text of the <class> element.
	Class       string
	Screen      *Widget
	Diagnostics []Diagnostic
}

// CustomWidgets returns the declarations of the PyDM classes used in the
// document, sorted by class name.
func (d *Document) CustomWidgets() []CustomWidget {
	seen := make(map[string]bool)
	var list []CustomWidget
	d.Screen.Walk(func(w *Widget) {
		cw, ok := customWidgets[w.Class]
		if !ok || seen[w.Class] {
			return
		}
		seen[w.Class] = true
		list = append(list, cw)
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].Class < list[j].Class
	})
	return list
}

// Write serializes the document as a Qt Designer .ui file.
func (d *Document) Write(out io.Writer) error {
	w, err := NewWriter(out)
	if err != nil {
		return err
	}

	w.Root().Element("class", d.Class)
	writeWidget(w, w.Root(), d.Screen)

	if cws := d.CustomWidgets(); len(cws) > 0 {
		list := w.Root().Open("customwidgets")
		for _, cw := range cws {
			tag := list.Open("customwidget")
			tag.Element("class", cw.Class)
			tag.Element("extends", cw.Extends)
			tag.Element("header", cw.Header)
			tag.Close()
		}
		list.Close()
	}

	return w.Close()
}

func writeWidget(w *Writer, parent *Tag, widget *Widget) {
	tag := parent.Open("widget", attr("class", widget.Class), attr("name", widget.Name))

	if widget.Geometry != nil {
		w.WriteProperty(tag, Property{Name: "geometry", Value: NewRect(*widget.Geometry)})
	}
	for _, p := range widget.Properties {
		w.WriteProperty(tag, p)
	}
	for _, child := range widget.Children {
		writeWidget(w, tag, child)
	}
	for _, name := range ResolveZOrder(widget.Stacking) {
		tag.Element("zorder", name)
	}

	tag.Close()
}
