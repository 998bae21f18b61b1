package pydm

import (
	"fmt"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/hesusruiz/adl2pydm/sliceedit"
	"github.com/pkg/errors"
)

// timeCurve is the JSON form of a curve of a PyDMTimePlot.
type timeCurve struct {
	Name      string `json:"name"`
	Channel   string `json:"channel"`
	Color     string `json:"color"`
	LineStyle int    `json:"lineStyle"`
	LineWidth int    `json:"lineWidth"`
}

// scatterCurve is the JSON form of a curve of a PyDMScatterPlot.
type scatterCurve struct {
	Name      string `json:"name"`
	XChannel  string `json:"x_channel"`
	YChannel  string `json:"y_channel"`
	Color     string `json:"color"`
	LineStyle int    `json:"lineStyle"`
	Symbol    string `json:"symbol,omitempty"`
	BlockSize int    `json:"block_size,omitempty"`
}

// Qt::PenStyle values used in curves.
const (
	noPen     = 0
	solidLine = 1
)

// seconds per unit of the strip chart period.
var periodUnits = map[string]float64{
	"":             1,
	"second":       1,
	"minute":       60,
	"milli-second": 0.001,
}

// plotFrame sets the title, labels and colors common to both plots.
func plotFrame(t *Translator, w *Widget, id medm.BlockID) error {
	com := t.sub(id, medm.KindPlotcom)
	fg, bg, err := t.colorPair(com, "clr", "bclr")
	if err != nil {
		return err
	}

	w.SetCustom("title", NewString(t.text(com, "title")))
	if x := t.text(com, "xlabel"); x != "" {
		w.SetCustom("xLabels", NewStringList(x))
	}
	if y := t.text(com, "ylabel"); y != "" {
		w.SetCustom("yLabels", NewStringList(y))
	}
	if bg != nil {
		w.SetCustom("backgroundColor", NewColor(*bg))
	}
	if fg != nil {
		w.SetCustom("axisColor", NewColor(*fg))
	}
	return nil
}

// curveColor returns the color of a pen or trace in the "#rrggbb" notation.
func curveColor(t *Translator, id medm.BlockID, key string) (string, error) {
	c, err := t.color(id, key)
	if err != nil || c == nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

func translateStripChart(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMTimePlot"

	if err := plotFrame(t, w, id); err != nil {
		return err
	}

	period, err := t.float(id, "period", 60)
	if err != nil {
		return err
	}
	unit, ok := periodUnits[t.value(id, "units")]
	if !ok {
		return errors.Errorf("unknown period units %q", t.value(id, "units"))
	}
	w.SetCustom("timeSpan", NewDouble(period*unit))

	var curves []string
	for _, pen := range listEntries(t, id, "pen") {
		ch := t.value(pen, "chan")
		if ch == "" {
			continue
		}
		color, err := curveColor(t, pen, "clr")
		if err != nil {
			return err
		}
		curve, err := encodeJSON(timeCurve{
			Name:      sliceedit.ConvertMacros(ch),
			Channel:   t.channel(ch),
			Color:     color,
			LineStyle: solidLine,
			LineWidth: 1,
		})
		if err != nil {
			return err
		}
		curves = append(curves, curve)
	}
	if len(curves) > 0 {
		w.SetCustom("curves", NewStringList(curves...))
	}
	return nil
}

func translateCartesianPlot(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMScatterPlot"

	if err := plotFrame(t, w, id); err != nil {
		return err
	}

	count, err := t.number(id, "count", 0)
	if err != nil {
		return err
	}
	style := t.value(id, "style")

	var curves []string
	for _, trace := range listEntries(t, id, "trace") {
		x, y := t.value(trace, "xdata"), t.value(trace, "ydata")
		if x == "" && y == "" {
			continue
		}
		color, err := curveColor(t, trace, "data_clr")
		if err != nil {
			return err
		}

		curve := scatterCurve{
			Name:      fmt.Sprintf("x=%s, y=%s", sliceedit.ConvertMacros(x), sliceedit.ConvertMacros(y)),
			XChannel:  t.channel(x),
			YChannel:  t.channel(y),
			Color:     color,
			LineStyle: solidLine,
			BlockSize: count,
		}
		if style == "point" {
			curve.LineStyle = noPen
			curve.Symbol = "o"
		}

		text, err := encodeJSON(curve)
		if err != nil {
			return err
		}
		curves = append(curves, text)
	}
	if len(curves) > 0 {
		w.SetCustom("curves", NewStringList(curves...))
	}
	return nil
}
