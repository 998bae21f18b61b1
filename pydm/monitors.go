package pydm

import (
	"github.com/hesusruiz/adl2pydm/medm"
)

func vertical(direction string) bool {
	return direction == "up" || direction == "down"
}

// translateScale handles bar, meter and indicator, which PyDM draws with the
// same scale widget.
func translateScale(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMScaleIndicator"

	mon := t.sub(id, medm.KindMonitor)
	fg, bg, err := t.colorPair(mon, "clr", "bclr")
	if err != nil {
		return err
	}
	w.SetCustom("channel", NewString(t.channel(t.pv(mon))))
	if fg != nil {
		w.SetCustom("indicatorColor", NewColor(*fg))
	}
	if bg != nil {
		w.SetCustom("backgroundColor", NewColor(*bg))
	}

	if t.tree.Block(id).Kind == medm.KindBar {
		w.SetCustom("barIndicator", NewBool(true))
	}
	if vertical(t.value(id, "direction")) {
		w.SetCustom("orientation", NewEnum("Qt::Vertical"))
	}

	switch t.value(id, "label") {
	case "no decorations":
		w.SetCustom("showValue", NewBool(false))
		w.SetCustom("showLimits", NewBool(false))
		w.SetCustom("showTicks", NewBool(false))
	case "outline":
		w.SetCustom("showValue", NewBool(false))
		w.SetCustom("showLimits", NewBool(false))
	case "limits":
		w.SetCustom("showValue", NewBool(false))
	}

	setAlarmMode(t, w, id)
	return setLimits(t, w, id)
}

func translateByte(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMByteIndicator"

	mon := t.sub(id, medm.KindMonitor)
	fg, bg, err := t.colorPair(mon, "clr", "bclr")
	if err != nil {
		return err
	}
	start, err := t.number(id, "sbit", 15)
	if err != nil {
		return err
	}
	end, err := t.number(id, "ebit", 0)
	if err != nil {
		return err
	}

	w.SetCustom("channel", NewString(t.channel(t.pv(mon))))
	if fg != nil {
		w.SetCustom("onColor", NewColor(*fg))
	}
	if bg != nil {
		w.SetCustom("offColor", NewColor(*bg))
	}
	if vertical(t.value(id, "direction")) {
		w.SetCustom("orientation", NewEnum("Qt::Vertical"))
	} else {
		w.SetCustom("orientation", NewEnum("Qt::Horizontal"))
	}
	w.SetCustom("showLabels", NewBool(false))
	w.SetCustom("bigEndian", NewBool(start > end))

	bits := start - end
	if bits < 0 {
		bits = -bits
	}
	w.SetCustom("numBits", NewNumber(bits+1))
	return nil
}

func translateValuator(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMSlider"

	if _, err := channelWidget(t, w, id, medm.KindControl); err != nil {
		return err
	}
	if vertical(t.value(id, "direction")) {
		w.SetCustom("orientation", NewEnum("Qt::Vertical"))
	}

	switch t.value(id, "label") {
	case "", "none", "no decorations", "outline":
		w.SetCustom("showLimitLabels", NewBool(false))
		w.SetCustom("showValueLabel", NewBool(false))
	case "limits":
		w.SetCustom("showValueLabel", NewBool(false))
	}

	setAlarmMode(t, w, id)
	return setLimits(t, w, id)
}

func translateWheelSwitch(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMSpinbox"

	if _, err := channelWidget(t, w, id, medm.KindControl); err != nil {
		return err
	}
	setAlarmMode(t, w, id)
	return setLimits(t, w, id)
}
