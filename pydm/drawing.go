package pydm

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/pkg/errors"
)

// MEDM angles are in 1/64th of a degree.
const arcUnits = 64

// black is the color of the MEDM drawing pen when the basic attribute does
// not set one.
var black = RGBA{A: 255}

// drawing sets the pen and the brush of the drawing widgets from the basic
// attribute, and the rules from the dynamic attribute.
func drawing(t *Translator, w *Widget, id medm.BlockID) error {
	attr := t.attribute(id, medm.KindBasicAttribute)

	clr, err := t.color(attr, "clr")
	if err != nil {
		return err
	}
	if clr == nil {
		clr = &black
	}
	width, err := t.float(attr, "width", 0)
	if err != nil {
		return err
	}

	w.Set("toolTip", NewString(w.Name))

	outline := t.value(attr, "fill") == "outline"
	if outline {
		w.SetCustom("brush", NewBrush("NoBrush", *clr))
		if width < 1 {
			width = 1
		}
	} else {
		w.SetCustom("brush", NewBrush("SolidPattern", *clr))
	}

	if t.value(attr, "style") == "dash" {
		w.SetCustom("penStyle", NewEnum("Qt::DashLine"))
	} else {
		w.SetCustom("penStyle", NewEnum("Qt::SolidLine"))
	}
	w.SetCustom("penColor", NewColor(*clr))
	w.SetCustom("penWidth", NewDouble(width))

	return t.applyDynamic(w, id)
}

func translateRectangle(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMDrawingRectangle"
	return drawing(t, w, id)
}

func translateOval(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMDrawingEllipse"
	return drawing(t, w, id)
}

// translateArc makes a pie of a filled arc and an arc of an outlined one.
func translateArc(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMDrawingArc"
	if t.value(t.attribute(id, medm.KindBasicAttribute), "fill") != "outline" {
		w.Class = "PyDMDrawingPie"
	}
	if err := drawing(t, w, id); err != nil {
		return err
	}

	begin, err := t.number(id, "begin", 0)
	if err != nil {
		return err
	}
	path, err := t.number(id, "path", 90*arcUnits)
	if err != nil {
		return err
	}
	w.SetCustom("startAngle", NewDouble(float64(begin)/arcUnits))
	w.SetCustom("spanAngle", NewDouble(float64(path)/arcUnits))
	return nil
}

func translatePolyline(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMDrawingPolyline"
	return polyline(t, w, id)
}

func translatePolygon(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMDrawingIrregularPolygon"
	return polyline(t, w, id)
}

// polyline sets the vertices of the shape, relative to the widget.
func polyline(t *Translator, w *Widget, id medm.BlockID) error {
	if err := drawing(t, w, id); err != nil {
		return err
	}

	origin := medm.Point{}
	if g := t.tree.Block(id).Geometry; g != nil {
		origin = g.Origin()
	}

	pts := t.value(t.sub(id, medm.KindPoints), "points")
	if pts == "" {
		return errors.New("no points")
	}

	var list []string
	for _, pair := range strings.Fields(pts) {
		x, y, _ := strings.Cut(pair, ",")
		p, err := parsePoint(x, y)
		if err != nil {
			return err
		}
		list = append(list, formatPoint(p.X-origin.X, p.Y-origin.Y))
	}
	w.SetCustom("points", NewStringList(list...))
	return nil
}

func translateImage(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMDrawingImage"

	w.Set("toolTip", NewString(w.Name))
	name := t.text(id, "image name")
	if name == "" {
		t.report(SeverityWarning, id, w.Name, "image without a file name")
	}
	w.SetCustom("filename", NewString(name))
	return t.applyDynamic(w, id)
}

func parsePoint(x, y string) (medm.Point, error) {
	px, errx := strconv.Atoi(x)
	py, erry := strconv.Atoi(y)
	if errx != nil || erry != nil {
		return medm.Point{}, errors.Errorf("point (%s,%s) is not a pair of integers", x, y)
	}
	return medm.Point{X: px, Y: py}, nil
}

func formatPoint(x, y int) string {
	return strconv.Itoa(x) + ", " + strconv.Itoa(y)
}
