package medm

import (
	"strconv"
	"strings"
)

// A Kind classifies a block by its name.
type Kind uint32

const (
	// KindGeneric is any block whose name is not in the registry.
	KindGeneric Kind = iota

	// Structural and attribute blocks
	KindFile
	KindDisplay
	KindColorMap
	KindColors
	KindObject
	KindBasicAttribute
	KindDynamicAttribute
	KindControl
	KindMonitor
	KindLimits
	KindChildren
	KindPoints
	KindPlotcom
	KindXAxis
	KindY1Axis
	KindY2Axis

	// Graphics
	KindText
	KindRectangle
	KindOval
	KindArc
	KindPolyline
	KindPolygon
	KindImage
	KindComposite

	// Monitors
	KindTextUpdate
	KindBar
	KindByte
	KindMeter
	KindIndicator
	KindStripChart
	KindCartesianPlot

	// Controllers
	KindTextEntry
	KindMenu
	KindChoiceButton
	KindMessageButton
	KindRelatedDisplay
	KindShellCommand
	KindValuator
	KindWheelSwitch
)

var kindNames = [...]string{
	KindGeneric:          "generic",
	KindFile:             "file",
	KindDisplay:          "display",
	KindColorMap:         "color map",
	KindColors:           "colors",
	KindObject:           "object",
	KindBasicAttribute:   "basic attribute",
	KindDynamicAttribute: "dynamic attribute",
	KindControl:          "control",
	KindMonitor:          "monitor",
	KindLimits:           "limits",
	KindChildren:         "children",
	KindPoints:           "points",
	KindPlotcom:          "plotcom",
	KindXAxis:            "x_axis",
	KindY1Axis:           "y1_axis",
	KindY2Axis:           "y2_axis",
	KindText:             "text",
	KindRectangle:        "rectangle",
	KindOval:             "oval",
	KindArc:              "arc",
	KindPolyline:         "polyline",
	KindPolygon:          "polygon",
	KindImage:            "image",
	KindComposite:        "composite",
	KindTextUpdate:       "text update",
	KindBar:              "bar",
	KindByte:             "byte",
	KindMeter:            "meter",
	KindIndicator:        "indicator",
	KindStripChart:       "strip chart",
	KindCartesianPlot:    "cartesian plot",
	KindTextEntry:        "text entry",
	KindMenu:             "menu",
	KindChoiceButton:     "choice button",
	KindMessageButton:    "message button",
	KindRelatedDisplay:   "related display",
	KindShellCommand:     "shell command",
	KindValuator:         "valuator",
	KindWheelSwitch:      "wheel switch",
}

var kindRegistry = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if Kind(k) == KindGeneric {
			continue
		}
		m[name] = Kind(k)
	}
	return m
}()

// Classify returns the Kind for a block name. Names with an array suffix, like
// "display[0]" or "pen[1]", are entries of a list owned by their parent and
// always classify as KindGeneric.
func Classify(name string) Kind {
	if strings.ContainsRune(name, '[') {
		return KindGeneric
	}
	if k, ok := kindRegistry[name]; ok {
		return k
	}
	return KindGeneric
}

// String returns the name of the Kind as it appears in an .adl file.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsWidget reports whether blocks of this kind are screen elements, as opposed
// to structural or attribute blocks.
func (k Kind) IsWidget() bool {
	return k >= KindText && int(k) < len(kindNames)
}
