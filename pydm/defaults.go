package pydm

import "strings"

// Values that PyDM widgets take when the property is absent. Setting one of
// them is a no-op, which keeps the output close to what Qt Designer saves.
var commonDefaults = map[string]Value{
	"toolTip":               NewString(""),
	"styleSheet":            NewString(""),
	"windowTitle":           NewString(""),
	"text":                  NewString(""),
	"title":                 NewString(""),
	"channel":               NewString(""),
	"rules":                 NewString(""),
	"alarmSensitiveContent": NewBool(false),
	"precisionFromPV":       NewBool(true),
	"precision":             NewNumber(0),
	"limitsFromChannel":     NewBool(true),
}

var drawingDefaults = map[string]Value{
	"penWidth":   NewDouble(0),
	"penStyle":   NewEnum("Qt::NoPen"),
	"rotation":   NewDouble(0),
	"startAngle": NewDouble(0),
	"spanAngle":  NewDouble(90),
	"filename":   NewString(""),
}

var classDefaults = map[string]map[string]Value{
	"PyDMLabel": {
		"displayFormat": NewEnum("PyDMLabel::Default"),
	},
	"PyDMLineEdit": {
		"displayFormat": NewEnum("PyDMLineEdit::Default"),
	},
	"PyDMEnumButton": {
		"orientation": NewEnum("Qt::Vertical"),
	},
	"PyDMPushButton": {
		"pressValue":       NewString(""),
		"releaseValue":     NewString(""),
		"writeWhenRelease": NewBool(false),
	},
	"PyDMRelatedDisplayButton": {
		"openInNewWindow": NewBool(false),
		"showIcon":        NewBool(true),
	},
	"PyDMShellCommand": {
		"showIcon": NewBool(true),
	},
	"PyDMEmbeddedDisplay": {
		"filename": NewString(""),
		"macros":   NewString(""),
	},
	"PyDMScaleIndicator": {
		"showValue":    NewBool(true),
		"showLimits":   NewBool(true),
		"showTicks":    NewBool(true),
		"barIndicator": NewBool(false),
		"orientation":  NewEnum("Qt::Horizontal"),
	},
	"PyDMByteIndicator": {
		"bigEndian":   NewBool(false),
		"showLabels":  NewBool(true),
		"numBits":     NewNumber(1),
		"orientation": NewEnum("Qt::Vertical"),
	},
	"PyDMSlider": {
		"orientation":     NewEnum("Qt::Horizontal"),
		"showLimitLabels": NewBool(true),
		"showValueLabel":  NewBool(true),
	},
	"PyDMTimePlot": {
		"timeSpan": NewDouble(60),
	},
}

// IsDefault reports whether v is the value property name already has in a
// fresh widget of the given class.
func IsDefault(class, name string, v Value) bool {
	if d, ok := classDefaults[class][name]; ok {
		return d.Equal(v)
	}
	if strings.HasPrefix(class, "PyDMDrawing") {
		if d, ok := drawingDefaults[name]; ok {
			return d.Equal(v)
		}
	}
	if d, ok := commonDefaults[name]; ok {
		return d.Equal(v)
	}
	return false
}
