package pydm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hesusruiz/adl2pydm/medm"
)

// Colors 0 to 4 of the table used in the tests.
var (
	white  = RGBA{255, 255, 255, 255}
	light  = RGBA{236, 236, 236, 255}
	blue   = RGBA{88, 147, 255, 255}
	red    = RGBA{253, 0, 0, 255}
	ink    = RGBA{0, 0, 0, 255}
	yellow = RGBA{251, 243, 74, 255}
)

const testHeader = `
file {
	name="/tmp/test.adl"
	version=030111
}
display {
	object {
		x=10
		y=20
		width=400
		height=300
	}
	clr=4
	bclr=1
}
"color map" {
	ncolors=6
	colors {
		ffffff,
		ececec,
		5893ff,
		fd0000,
		000000,
		fbf34a,
	}
}
`

func translateSource(t *testing.T, body string) *Document {
	t.Helper()
	return translateSourceWith(t, body, Options{Title: "test"})
}

func translateSourceWith(t *testing.T, body string, opts Options) *Document {
	t.Helper()
	tree, err := medm.ParseFromBytes("test.adl", []byte(testHeader+body), medm.Options{})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(tree.Warnings) > 0 {
		t.Fatalf("parse warnings: %v", tree.Warnings)
	}
	doc, err := Translate(tree, opts)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	return doc
}

func propertyMap(w *Widget) map[string]Value {
	m := make(map[string]Value)
	for _, p := range w.Properties {
		m[p.Name] = p.Value
	}
	return m
}

func propertyNames(w *Widget) []string {
	var names []string
	for _, p := range w.Properties {
		names = append(names, p.Name)
	}
	return names
}

func checkProperty(t *testing.T, w *Widget, name string, want Value) {
	t.Helper()
	p, ok := w.Property(name)
	if !ok {
		t.Errorf("%s: property %q missing", w.Name, name)
		return
	}
	if !p.Value.Equal(want) {
		t.Errorf("%s: %s = %+v, want %+v", w.Name, name, p.Value, want)
	}
}

func TestTranslateScreen(t *testing.T) {
	doc := translateSource(t, "")

	s := doc.Screen
	if s.Class != "QWidget" || s.Name != "screen" {
		t.Errorf("screen = %s %s", s.Class, s.Name)
	}
	if want := (medm.Rectangle{X: 10, Y: 20, Width: 400, Height: 300}); s.Geometry == nil || *s.Geometry != want {
		t.Errorf("geometry = %v, want %v", s.Geometry, want)
	}
	checkProperty(t, s, "styleSheet", NewString("QWidget#screen {\n  color: rgb(0, 0, 0);\n  background-color: rgb(236, 236, 236);\n  }"))
	checkProperty(t, s, "windowTitle", NewString("test"))
	if len(doc.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v", doc.Diagnostics)
	}
}

func TestTranslateRectangles(t *testing.T) {
	doc := translateSource(t, `
rectangle {
	object {
		x=5
		y=6
		width=50
		height=60
	}
	"basic attribute" {
		clr=3
		fill="outline"
	}
	"dynamic attribute" {
		vis="if zero"
		chan="$(P)alldone"
	}
}
rectangle {
	object {
		x=1
		y=2
		width=3
		height=4
	}
	"basic attribute" {
		clr=5
		style="dash"
		width=3
	}
}
`)

	if n := len(doc.Screen.Children); n != 2 {
		t.Fatalf("children = %d, want 2", n)
	}
	outline, solid := doc.Screen.Children[0], doc.Screen.Children[1]

	if outline.Name != "rectangle" || solid.Name != "rectangle_1" {
		t.Errorf("names = %s, %s", outline.Name, solid.Name)
	}
	if outline.Class != "PyDMDrawingRectangle" {
		t.Errorf("class = %s", outline.Class)
	}

	want := []string{"toolTip", "brush", "penStyle", "penColor", "penWidth", "rules"}
	if got := propertyNames(outline); !reflect.DeepEqual(got, want) {
		t.Errorf("properties = %q, want %q", got, want)
	}
	checkProperty(t, outline, "toolTip", NewString("rectangle"))
	checkProperty(t, outline, "brush", NewBrush("NoBrush", red))
	checkProperty(t, outline, "penStyle", NewEnum("Qt::SolidLine"))
	checkProperty(t, outline, "penColor", NewColor(red))
	checkProperty(t, outline, "penWidth", NewDouble(1))
	checkProperty(t, outline, "rules", NewString(`[{"name":"rule_0","property":"Visible","channels":[{"channel":"${P}alldone","trigger":true}],"expression":"ch[0] == 0"}]`))

	checkProperty(t, solid, "brush", NewBrush("SolidPattern", yellow))
	checkProperty(t, solid, "penStyle", NewEnum("Qt::DashLine"))
	checkProperty(t, solid, "penWidth", NewDouble(3))
	if _, ok := solid.Property("rules"); ok {
		t.Errorf("static rectangle should have no rules")
	}

	if p, _ := outline.Property("rules"); !p.NonStandard {
		t.Errorf("rules should be a non standard property")
	}
}

func TestTranslateDefaultsOmitted(t *testing.T) {
	doc := translateSource(t, `
oval {
	object {
		x=0
		y=0
		width=10
		height=10
	}
	"basic attribute" {
		clr=3
	}
}
`)
	oval := doc.Screen.Children[0]
	if oval.Class != "PyDMDrawingEllipse" {
		t.Errorf("class = %s", oval.Class)
	}
	if _, ok := oval.Property("penWidth"); ok {
		t.Errorf("penWidth 0 should be omitted")
	}
}

func TestTranslateTextUpdate(t *testing.T) {
	doc := translateSource(t, `
"text update" {
	object {
		x=10
		y=20
		width=100
		height=20
	}
	monitor {
		chan="$(P)m1.RBV"
		clr=2
		bclr=1
	}
	align="horiz. centered"
	format="exponential"
	limits {
		precSrc="default"
		precDefault=3
	}
}
`)
	w := doc.Screen.Children[0]
	if w.Class != "PyDMLabel" || w.Name != "text_update" {
		t.Fatalf("widget = %s %s", w.Class, w.Name)
	}
	checkProperty(t, w, "styleSheet", NewString("PyDMLabel#text_update {\n  color: rgb(88, 147, 255);\n  background-color: rgb(236, 236, 236);\n  }"))
	checkProperty(t, w, "channel", NewString("ca://${P}m1.RBV"))
	checkProperty(t, w, "textInteractionFlags", NewSet("Qt::TextSelectableByKeyboard|Qt::TextSelectableByMouse"))
	checkProperty(t, w, "alignment", NewSet("Qt::AlignCenter"))
	checkProperty(t, w, "displayFormat", NewEnum("PyDMLabel::Exponential"))
	checkProperty(t, w, "precisionFromPV", NewBool(false))
	checkProperty(t, w, "precision", NewNumber(3))
}

func TestTranslateText(t *testing.T) {
	doc := translateSource(t, `
text {
	object {
		x=0
		y=0
		width=100
		height=20
	}
	"basic attribute" {
		clr=4
	}
	textix="Motor $(M)"
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "text", NewString("Motor ${M}"))
	checkProperty(t, w, "styleSheet", NewString("PyDMLabel#text {\n  color: rgb(0, 0, 0);\n  }"))
	if _, ok := w.Property("alignment"); ok {
		t.Errorf("left alignment should be omitted")
	}
}

func TestTranslateMessageButton(t *testing.T) {
	doc := translateSource(t, `
"message button" {
	object {
		x=0
		y=0
		width=60
		height=20
	}
	control {
		chan="$(P)stop"
		clr=4
		bclr=3
	}
	label="Stop"
	press_msg="1"
}
`)
	w := doc.Screen.Children[0]
	if w.Class != "PyDMPushButton" {
		t.Fatalf("class = %s", w.Class)
	}
	checkProperty(t, w, "toolTip", NewString("${P}stop"))
	checkProperty(t, w, "text", NewString("Stop"))
	checkProperty(t, w, "pressValue", NewString("1"))
	checkProperty(t, w, "channel", NewString("ca://${P}stop"))
}

func TestTranslateRelatedDisplay(t *testing.T) {
	doc := translateSource(t, `
"related display" {
	object {
		x=0
		y=0
		width=60
		height=20
	}
	display[1] {
		label="Second"
		name="two.adl"
		args="P=$(P)"
	}
	display[0] {
		label="First"
		name="one.adl"
		policy="replace display"
	}
	clr=4
	bclr=1
	label="-More"
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "text", NewString("More"))
	checkProperty(t, w, "showIcon", NewBool(false))
	checkProperty(t, w, "filenames", NewStringList("one.ui", "two.ui"))
	checkProperty(t, w, "titles", NewStringList("First", "Second"))
	checkProperty(t, w, "macros", NewStringList("", "P=${P}"))
	if _, ok := w.Property("openInNewWindow"); ok {
		t.Errorf("replace display should keep the default window policy")
	}
}

func TestTranslateShellCommand(t *testing.T) {
	doc := translateSource(t, `
"shell command" {
	object {
		x=0
		y=0
		width=60
		height=20
	}
	command[0] {
		label="Edit"
		name="gedit"
		args="$(P).txt &"
	}
	clr=4
	bclr=1
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "commands", NewStringList("gedit ${P}.txt"))
	checkProperty(t, w, "titles", NewStringList("Edit"))
}

func TestTranslateEmbeddedComposite(t *testing.T) {
	doc := translateSource(t, `
composite {
	object {
		x=0
		y=0
		width=200
		height=100
	}
	"composite name"=""
	"composite file"="configMenu.adl;P=$(P),CONFIG=$(CONFIG)"
}
`)
	w := doc.Screen.Children[0]
	if w.Class != "PyDMEmbeddedDisplay" {
		t.Fatalf("class = %s", w.Class)
	}
	checkProperty(t, w, "filename", NewString("configMenu.ui"))
	checkProperty(t, w, "macros", NewString("P=${P},CONFIG=${CONFIG}"))
}

func TestTranslateCompositeChildren(t *testing.T) {
	doc := translateSource(t, `
composite {
	object {
		x=100
		y=50
		width=200
		height=100
	}
	"composite name"=""
	children {
		rectangle {
			object {
				x=110
				y=60
				width=10
				height=10
			}
			"basic attribute" {
				clr=3
			}
		}
		oval {
			object {
				x=150
				y=80
				width=10
				height=10
			}
			"basic attribute" {
				clr=3
			}
		}
	}
}
rectangle {
	object {
		x=0
		y=0
		width=10
		height=10
	}
	"basic attribute" {
		clr=3
	}
}
`)
	frame := doc.Screen.Children[0]
	if frame.Class != "PyDMFrame" || len(frame.Children) != 2 {
		t.Fatalf("frame = %s with %d children", frame.Class, len(frame.Children))
	}
	if g := *frame.Children[0].Geometry; g != (medm.Rectangle{X: 10, Y: 10, Width: 10, Height: 10}) {
		t.Errorf("child geometry = %v, want relative to the composite", g)
	}
	if got := ResolveZOrder(frame.Stacking); !reflect.DeepEqual(got, []string{"rectangle", "oval"}) {
		t.Errorf("frame zorder = %q", got)
	}
	if name := doc.Screen.Children[1].Name; name != "rectangle_1" {
		t.Errorf("names are not unique across containers: %s", name)
	}
}

func TestTranslateArc(t *testing.T) {
	doc := translateSource(t, `
arc {
	object {
		x=0
		y=0
		width=50
		height=50
	}
	"basic attribute" {
		clr=5
	}
	begin=1280
	path=-20480
}
arc {
	object {
		x=0
		y=0
		width=50
		height=50
	}
	"basic attribute" {
		clr=5
		fill="outline"
	}
}
`)
	pie, arc := doc.Screen.Children[0], doc.Screen.Children[1]
	if pie.Class != "PyDMDrawingPie" || arc.Class != "PyDMDrawingArc" {
		t.Errorf("classes = %s, %s", pie.Class, arc.Class)
	}
	checkProperty(t, pie, "startAngle", NewDouble(20))
	checkProperty(t, pie, "spanAngle", NewDouble(-320))
	if props := propertyMap(arc); props["spanAngle"].Type == DoubleValue || props["startAngle"].Type == DoubleValue {
		t.Errorf("default angles should be omitted: %v", propertyNames(arc))
	}
}

func TestTranslatePolyline(t *testing.T) {
	doc := translateSource(t, `
polyline {
	object {
		x=10
		y=20
		width=30
		height=40
	}
	"basic attribute" {
		clr=4
		width=2
	}
	points {
		(10,20)
		(40,60)
	}
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "points", NewStringList("0, 0", "30, 40"))
	checkProperty(t, w, "penWidth", NewDouble(2))
}

func TestTranslateMeter(t *testing.T) {
	doc := translateSource(t, `
meter {
	object {
		x=0
		y=0
		width=100
		height=60
	}
	monitor {
		chan="$(P)temp"
		clr=4
		bclr=1
	}
	label="limits"
	limits {
		loprSrc="default"
		hoprSrc="default"
		hoprDefault=100
		loprDefault=-5.5
	}
}
`)
	w := doc.Screen.Children[0]
	if w.Class != "PyDMScaleIndicator" {
		t.Fatalf("class = %s", w.Class)
	}
	checkProperty(t, w, "limitsFromChannel", NewBool(false))
	checkProperty(t, w, "userUpperLimit", NewDouble(100))
	checkProperty(t, w, "userLowerLimit", NewDouble(-5.5))
	checkProperty(t, w, "showValue", NewBool(false))
	checkProperty(t, w, "indicatorColor", NewColor(ink))
}

func TestTranslateByte(t *testing.T) {
	doc := translateSource(t, `
byte {
	object {
		x=0
		y=0
		width=100
		height=20
	}
	monitor {
		chan="$(P)status"
		clr=3
		bclr=0
	}
	sbit=7
	ebit=0
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "numBits", NewNumber(8))
	checkProperty(t, w, "bigEndian", NewBool(true))
	checkProperty(t, w, "showLabels", NewBool(false))
	checkProperty(t, w, "onColor", NewColor(red))
	checkProperty(t, w, "offColor", NewColor(white))
	checkProperty(t, w, "orientation", NewEnum("Qt::Horizontal"))
}

func TestTranslateStripChart(t *testing.T) {
	doc := translateSource(t, `
"strip chart" {
	object {
		x=0
		y=0
		width=300
		height=200
	}
	plotcom {
		title="Temperatures"
		clr=4
		bclr=0
	}
	period=2
	units="minute"
	pen[0] {
		chan="$(P)t1"
		clr=3
	}
	pen[1] {
		chan="$(P)t2"
		clr=2
	}
}
`)
	w := doc.Screen.Children[0]
	if w.Class != "PyDMTimePlot" {
		t.Fatalf("class = %s", w.Class)
	}
	checkProperty(t, w, "title", NewString("Temperatures"))
	checkProperty(t, w, "timeSpan", NewDouble(120))
	checkProperty(t, w, "curves", NewStringList(
		`{"name":"${P}t1","channel":"ca://${P}t1","color":"#fd0000","lineStyle":1,"lineWidth":1}`,
		`{"name":"${P}t2","channel":"ca://${P}t2","color":"#5893ff","lineStyle":1,"lineWidth":1}`,
	))
}

func TestTranslateCartesianPlot(t *testing.T) {
	doc := translateSource(t, `
"cartesian plot" {
	object {
		x=0
		y=0
		width=300
		height=200
	}
	plotcom {
		title="Scan"
		xlabel="position"
		clr=4
		bclr=0
	}
	style="point"
	count=100
	trace[0] {
		xdata="$(P)x"
		ydata="$(P)y"
		data_clr=3
	}
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "xLabels", NewStringList("position"))
	checkProperty(t, w, "curves", NewStringList(
		`{"name":"x=${P}x, y=${P}y","x_channel":"ca://${P}x","y_channel":"ca://${P}y","color":"#fd0000","lineStyle":0,"symbol":"o","block_size":100}`,
	))
}

func TestTranslateCartesianPlotLine(t *testing.T) {
	doc := translateSource(t, `
"cartesian plot" {
	object {
		x=0
		y=0
		width=300
		height=200
	}
	count=8
	trace[0] {
		xdata="$(P)x"
		ydata="$(P)y"
		data_clr=4
	}
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "curves", NewStringList(
		`{"name":"x=${P}x, y=${P}y","x_channel":"ca://${P}x","y_channel":"ca://${P}y","color":"#000000","lineStyle":1,"block_size":8}`,
	))
}

func TestTranslateCalcRule(t *testing.T) {
	doc := translateSource(t, `
rectangle {
	object {
		x=0
		y=0
		width=10
		height=10
	}
	"basic attribute" {
		clr=3
	}
	"dynamic attribute" {
		vis="calc"
		calc="A=B"
		chan="$(P)a"
		chanB="$(P)b"
	}
}
`)
	w := doc.Screen.Children[0]
	checkProperty(t, w, "rules", NewString(`[{"name":"rule_0","property":"Visible","channels":[{"channel":"${P}a","trigger":true},{"channel":"${P}b","trigger":true}],"expression":"ch[0]==ch[1]"}]`))
}

func TestTranslateOldAttributes(t *testing.T) {
	doc := translateSource(t, `
"basic attribute" {
	attr {
		clr=3
		fill="outline"
	}
}
rectangle {
	object {
		x=0
		y=0
		width=10
		height=10
	}
}
oval {
	object {
		x=0
		y=0
		width=10
		height=10
	}
}
`)
	for _, w := range doc.Screen.Children {
		checkProperty(t, w, "brush", NewBrush("NoBrush", red))
	}
}

func TestTranslateUnknownKind(t *testing.T) {
	doc := translateSource(t, `
gizmo {
	object {
		x=1
		y=2
		width=3
		height=4
	}
}
`)
	w := doc.Screen.Children[0]
	if w.Class != "QFrame" || w.Name != "gizmo" {
		t.Errorf("widget = %s %s, want a QFrame", w.Class, w.Name)
	}
	if len(doc.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v", doc.Diagnostics)
	}
	d := doc.Diagnostics[0]
	if d.Severity != SeverityWarning || d.Kind != "gizmo" || d.Line == 0 || !strings.Contains(d.Message, "unknown") {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestTranslateUnknownKindWithoutGeometry(t *testing.T) {
	doc := translateSource(t, `
composite {
	object {
		x=100
		y=100
		width=200
		height=200
	}
	children {
		wrapper {
			rectangle {
				object {
					x=110
					y=120
					width=10
					height=10
				}
				"basic attribute" {
					clr=3
				}
			}
		}
	}
}
`)
	frame := doc.Screen.Children[0]
	if len(frame.Children) != 1 || len(frame.Children[0].Children) != 1 {
		t.Fatalf("composite = %d children", len(frame.Children))
	}
	wrapper := frame.Children[0]
	if wrapper.Class != "QFrame" || wrapper.Geometry != nil {
		t.Errorf("wrapper = %s at %v, want a QFrame without geometry", wrapper.Class, wrapper.Geometry)
	}
	rect := wrapper.Children[0]
	if want := (medm.Rectangle{X: 10, Y: 20, Width: 10, Height: 10}); rect.Geometry == nil || *rect.Geometry != want {
		t.Errorf("rectangle geometry = %v, want %v", rect.Geometry, want)
	}
}

func TestTranslateRuleChannelsWithoutProtocol(t *testing.T) {
	doc := translateSourceWith(t, `
"text update" {
	object {
		x=0
		y=0
		width=10
		height=10
	}
	monitor {
		chan="$(P)m1"
		clr=4
		bclr=1
	}
}
text {
	object {
		x=0
		y=20
		width=10
		height=10
	}
	"basic attribute" {
		clr=3
	}
	"dynamic attribute" {
		vis="if not zero"
		chan=" $(P)busy "
	}
	textix="busy"
}
`, Options{Protocol: "pva"})
	update, label := doc.Screen.Children[0], doc.Screen.Children[1]
	checkProperty(t, update, "channel", NewString("pva://${P}m1"))
	checkProperty(t, label, "rules", NewString(`[{"name":"rule_0","property":"Visible","channels":[{"channel":"${P}busy","trigger":true}],"expression":"ch[0] != 0"}]`))
}

func TestTranslateBadColorSkipsWidget(t *testing.T) {
	doc := translateSource(t, `
rectangle {
	object {
		x=0
		y=0
		width=10
		height=10
	}
	"basic attribute" {
		clr=99
	}
}
oval {
	object {
		x=0
		y=0
		width=10
		height=10
	}
}
`)
	if n := len(doc.Screen.Children); n != 1 || doc.Screen.Children[0].Class != "PyDMDrawingEllipse" {
		t.Fatalf("children = %d, want only the oval", n)
	}
	if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Severity != SeverityError || doc.Diagnostics[0].Widget != "rectangle" {
		t.Errorf("diagnostics = %v", doc.Diagnostics)
	}
	if got := ResolveZOrder(doc.Screen.Stacking); !reflect.DeepEqual(got, []string{"oval"}) {
		t.Errorf("zorder = %q", got)
	}
}

func TestConvertCalc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A=B", "ch[0]==ch[1]"},
		{"A#0", "ch[0]!=0"},
		{"(A>=1)&&(b<=2)", "(ch[0]>=1)&&(ch[1]<=2)"},
		{"C==D", "ch[2]==ch[3]"},
		{"ABS(A)>5", "ABS(ch[0])>5"},
		{"E=1", "E==1"},
	}
	for _, tt := range tests {
		if got := ConvertCalc(tt.in); got != tt.want {
			t.Errorf("ConvertCalc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
