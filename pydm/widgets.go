package pydm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/hesusruiz/adl2pydm/sliceedit"
)

var alignments = map[string]string{
	"horiz. centered": "Qt::AlignCenter",
	"horiz. right":    "Qt::AlignRight|Qt::AlignTrailing|Qt::AlignVCenter",
}

var displayFormats = map[string]string{
	"exponential":    "Exponential",
	"engr. notation": "Exponential",
	"string":         "String",
	"hexadecimal":    "Hex",
	"binary":         "Binary",
	"decimal":        "Decimal",
}

func setAlignment(t *Translator, w *Widget, id medm.BlockID) {
	if a, ok := alignments[t.value(id, "align")]; ok {
		w.Set("alignment", NewSet(a))
	}
}

func setDisplayFormat(t *Translator, w *Widget, id medm.BlockID) {
	if f, ok := displayFormats[t.value(id, "format")]; ok {
		w.SetCustom("displayFormat", NewEnum(w.Class+"::"+f))
	}
}

func setAlarmMode(t *Translator, w *Widget, id medm.BlockID) {
	if t.value(id, "clrmod") == "alarm" {
		w.SetCustom("alarmSensitiveContent", NewBool(true))
	}
}

// setLimits maps a limits block. Limits and precision taken from the channel
// are the PyDM defaults, so only the "default" sources produce properties.
func setLimits(t *Translator, w *Widget, id medm.BlockID) error {
	limits := t.sub(id, medm.KindLimits)
	if limits == medm.NoBlock {
		return nil
	}

	if t.value(limits, "loprSrc") == "default" || t.value(limits, "hoprSrc") == "default" {
		hi, err := t.float(limits, "hoprDefault", 0)
		if err != nil {
			return err
		}
		lo, err := t.float(limits, "loprDefault", 0)
		if err != nil {
			return err
		}
		w.SetCustom("limitsFromChannel", NewBool(false))
		w.SetCustom("userUpperLimit", NewDouble(hi))
		w.SetCustom("userLowerLimit", NewDouble(lo))
	}

	if t.value(limits, "precSrc") == "default" {
		prec, err := t.number(limits, "precDefault", 0)
		if err != nil {
			return err
		}
		w.SetCustom("precisionFromPV", NewBool(false))
		w.SetCustom("precision", NewNumber(prec))
	}
	return nil
}

// channelWidget does the common part of the widgets attached to a process
// variable through a control or monitor block: channel and colors.
func channelWidget(t *Translator, w *Widget, id medm.BlockID, kind medm.Kind) (medm.BlockID, error) {
	pv := t.sub(id, kind)
	fg, bg, err := t.colorPair(pv, "clr", "bclr")
	if err != nil {
		return pv, err
	}
	setStyle(w, fg, bg)
	w.SetCustom("channel", NewString(t.channel(t.pv(pv))))
	return pv, nil
}

func translateText(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMLabel"

	fg, err := t.color(t.attribute(id, medm.KindBasicAttribute), "clr")
	if err != nil {
		return err
	}
	setStyle(w, fg, nil)
	w.Set("text", NewString(t.text(id, "textix")))
	setAlignment(t, w, id)
	return t.applyDynamic(w, id)
}

func translateTextUpdate(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMLabel"

	if _, err := channelWidget(t, w, id, medm.KindMonitor); err != nil {
		return err
	}
	w.Set("textInteractionFlags", NewSet("Qt::TextSelectableByKeyboard|Qt::TextSelectableByMouse"))
	setAlignment(t, w, id)
	setDisplayFormat(t, w, id)
	setAlarmMode(t, w, id)
	return setLimits(t, w, id)
}

func translateTextEntry(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMLineEdit"

	if _, err := channelWidget(t, w, id, medm.KindControl); err != nil {
		return err
	}
	setDisplayFormat(t, w, id)
	setAlarmMode(t, w, id)
	return setLimits(t, w, id)
}

func translateMenu(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMEnumComboBox"

	if _, err := channelWidget(t, w, id, medm.KindControl); err != nil {
		return err
	}
	setAlarmMode(t, w, id)
	return nil
}

func translateChoiceButton(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMEnumButton"

	if _, err := channelWidget(t, w, id, medm.KindControl); err != nil {
		return err
	}
	switch t.value(id, "stacking") {
	case "row", "row column":
		w.SetCustom("orientation", NewEnum("Qt::Horizontal"))
	}
	setAlarmMode(t, w, id)
	return nil
}

func translateMessageButton(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMPushButton"

	pv, err := channelWidget(t, w, id, medm.KindControl)
	if err != nil {
		return err
	}
	w.Set("toolTip", NewString(sliceedit.ConvertMacros(t.pv(pv))))
	w.Set("text", NewString(t.text(id, "label")))
	w.SetCustom("pressValue", NewString(t.value(id, "press_msg")))
	if release := t.value(id, "release_msg"); release != "" {
		w.SetCustom("releaseValue", NewString(release))
		w.SetCustom("writeWhenRelease", NewBool(true))
	}
	setAlarmMode(t, w, id)
	return nil
}

// listEntries returns the blocks named prefix[n] inside id, ordered by n.
// Entries with the same index keep their file order.
func listEntries(t *Translator, id medm.BlockID, prefix string) []medm.BlockID {
	type entry struct {
		id    medm.BlockID
		index int
	}
	var list []entry
	for _, c := range t.tree.ChildBlocks(id) {
		name := t.tree.Block(c).Name
		if !strings.HasPrefix(name, prefix+"[") || !strings.HasSuffix(name, "]") {
			continue
		}
		n, err := strconv.Atoi(name[len(prefix)+1 : len(name)-1])
		if err != nil {
			continue
		}
		list = append(list, entry{c, n})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].index < list[j].index
	})

	ids := make([]medm.BlockID, len(list))
	for i, e := range list {
		ids[i] = e.id
	}
	return ids
}

// buttonLabel returns the text of a menu button. A leading '-' in MEDM hides
// the icon of the button.
func buttonLabel(t *Translator, id medm.BlockID) (string, bool) {
	label := t.text(id, "label")
	if strings.HasPrefix(label, "-") {
		return label[1:], false
	}
	return label, true
}

func translateRelatedDisplay(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMRelatedDisplayButton"

	fg, bg, err := t.colorPair(id, "clr", "bclr")
	if err != nil {
		return err
	}
	label, icon := buttonLabel(t, id)
	w.Set("toolTip", NewString(w.Name))
	setStyle(w, fg, bg)
	w.Set("text", NewString(label))
	w.SetCustom("showIcon", NewBool(icon))

	var filenames, titles, macros []string
	newWindow := false
	for i, entry := range listEntries(t, id, "display") {
		name := t.value(entry, "name")
		if name == "" {
			continue
		}
		filenames = append(filenames, sliceedit.ReplaceExtension(sliceedit.ConvertMacros(name), ".adl", ".ui"))
		titles = append(titles, t.text(entry, "label"))
		macros = append(macros, t.text(entry, "args"))
		if i == 0 {
			newWindow = t.value(entry, "policy") != "replace display"
		}
	}
	if len(filenames) == 0 {
		t.report(SeverityWarning, id, w.Name, "related display without displays")
		return nil
	}

	w.SetCustom("filenames", NewStringList(filenames...))
	w.SetCustom("titles", NewStringList(titles...))
	w.SetCustom("macros", NewStringList(macros...))
	w.SetCustom("openInNewWindow", NewBool(newWindow))
	return nil
}

func translateShellCommand(t *Translator, w *Widget, id medm.BlockID) error {
	w.Class = "PyDMShellCommand"

	fg, bg, err := t.colorPair(id, "clr", "bclr")
	if err != nil {
		return err
	}
	label, icon := buttonLabel(t, id)
	setStyle(w, fg, bg)
	w.Set("text", NewString(label))
	w.SetCustom("showIcon", NewBool(icon))

	var commands, titles []string
	for _, entry := range listEntries(t, id, "command") {
		name := t.text(entry, "name")
		if name == "" {
			continue
		}
		// MEDM runs commands ending in '&' in the background, which is
		// what PyDM always does.
		cmd := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name+" "+t.text(entry, "args")), "&"))
		commands = append(commands, cmd)
		titles = append(titles, t.text(entry, "label"))
	}
	if len(commands) == 0 {
		t.report(SeverityWarning, id, w.Name, "shell command without commands")
		return nil
	}

	w.SetCustom("commands", NewStringList(commands...))
	w.SetCustom("titles", NewStringList(titles...))
	return nil
}

// translateComposite makes a frame holding the widgets of the composite, or an
// embedded display when the composite comes from another file.
func translateComposite(t *Translator, w *Widget, id medm.BlockID) error {
	if file := t.value(id, "composite file"); file != "" {
		return translateEmbedded(t, w, id, file)
	}

	w.Class = "PyDMFrame"
	if err := t.applyDynamic(w, id); err != nil {
		return err
	}

	children, ok := t.tree.Find(id, medm.KindChildren)
	if !ok {
		return nil
	}
	origin := medm.Point{}
	if g := t.tree.Block(id).Geometry; g != nil {
		origin = g.Origin()
	}
	t.translateChildren(w, children, origin)
	return nil
}

// translateEmbedded handles "composite file", which holds the file name and
// optionally the macros to pass, separated by ';'.
func translateEmbedded(t *Translator, w *Widget, id medm.BlockID, file string) error {
	w.Class = "PyDMEmbeddedDisplay"

	name, args, _ := strings.Cut(file, ";")
	name = sliceedit.ReplaceExtension(strings.TrimSpace(name), ".adl", ".ui")
	w.Set("toolTip", NewString(w.Name))
	w.SetCustom("filename", NewString(sliceedit.ConvertMacros(name)))

	var macros []string
	for _, key := range sliceedit.MacroNames(args) {
		macros = append(macros, fmt.Sprintf("%s=${%s}", key, key))
	}
	w.SetCustom("macros", NewString(strings.Join(macros, ",")))
	return t.applyDynamic(w, id)
}
