package medm

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleDisplay = `
file {
	name="/tmp/sample.adl"
	version=030111
}
display {
	object {
		x=10
		y=20
		width=400
		height=300
	}
	clr=14
	bclr=4
}
"color map" {
	ncolors=3
	colors {
		ffffff,
		000000,
		fd0000,
	}
}
rectangle {
	object {
		x=5
		y=6
		width=7
		height=8
	}
	"basic attribute" {
		clr=2
		fill="outline"
	}
	"dynamic attribute" {
		vis="if zero"
		chan="$(P)alldone"
	}
}
`

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := ParseFromBytes("test.adl", []byte(src), Options{})
	if err != nil {
		t.Fatalf("ParseFromBytes() error = %v", err)
	}
	return tree
}

func TestParseDisplay(t *testing.T) {
	tree := mustParse(t, sampleDisplay)

	if len(tree.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", tree.Warnings)
	}

	var names []string
	for _, id := range tree.ChildBlocks(tree.Root()) {
		names = append(names, tree.Block(id).Name)
	}
	if want := []string{"file", "display", "color map", "rectangle"}; !reflect.DeepEqual(names, want) {
		t.Errorf("top level blocks = %q, want %q", names, want)
	}

	display, ok := tree.Display()
	if !ok {
		t.Fatal("display block not found")
	}
	if got, want := tree.Block(display).Geometry, (&Rectangle{X: 10, Y: 20, Width: 400, Height: 300}); !reflect.DeepEqual(got, want) {
		t.Errorf("display geometry = %v, want %v", got, want)
	}
	if got := tree.Value(display, "bclr"); got != "4" {
		t.Errorf("bclr = %q, want 4", got)
	}

	colors := tree.ColorTable()
	want := []Color{{255, 255, 255}, {0, 0, 0}, {253, 0, 0}}
	if !reflect.DeepEqual(colors, want) {
		t.Errorf("ColorTable() = %v, want %v", colors, want)
	}

	rect, _ := tree.Find(tree.Root(), KindRectangle)
	dyn, ok := tree.Find(rect, KindDynamicAttribute)
	if !ok {
		t.Fatal("dynamic attribute not found")
	}
	if got := tree.Value(dyn, "chan"); got != "$(P)alldone" {
		t.Errorf("chan = %q", got)
	}
	if d := tree.Block(dyn).Depth; d != 2 {
		t.Errorf("dynamic attribute depth = %d, want 2", d)
	}
}

func TestParseOneLineObject(t *testing.T) {
	tree := mustParse(t, `oval { object { x=10 y=20 width=30 height=40 } }`)

	oval, ok := tree.Find(tree.Root(), KindOval)
	if !ok {
		t.Fatal("oval not found")
	}
	want := &Rectangle{X: 10, Y: 20, Width: 30, Height: 40}
	if got := tree.Block(oval).Geometry; !reflect.DeepEqual(got, want) {
		t.Errorf("geometry = %v, want %v", got, want)
	}
	if n := len(tree.ChildBlocks(oval)); n != 0 {
		t.Errorf("object should not be a child block, got %d children", n)
	}
}

func TestParsePartialObject(t *testing.T) {
	tree := mustParse(t, "oval {\n object {\n x=10\n y=20\n }\n}\n")

	oval, _ := tree.Find(tree.Root(), KindOval)
	if g := tree.Block(oval).Geometry; g != nil {
		t.Errorf("partial object produced geometry %v", g)
	}
	if len(tree.Warnings) != 1 || !strings.Contains(tree.Warnings[0].Msg, "width, height") {
		t.Errorf("warnings = %v, want one about width, height", tree.Warnings)
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		key  string
	}{
		{"non numeric geometry", "oval { object { x=ten y=20 width=30 height=40 } }", "x"},
		{"bad color", "\"color map\" {\n colors {\n ffffff,\n 12345g,\n }\n}", "colors"},
		{"short color", "\"color map\" {\n colors {\n fff,\n }\n}", "colors"},
		{"bad point", "polyline {\n points {\n (1,a)\n }\n}", "points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFromBytes("bad.adl", []byte(tt.src), Options{})
			var ve *ValueError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want a *ValueError", err)
			}
			if ve.Key != tt.key || ve.Filename != "bad.adl" {
				t.Errorf("error = %+v, want key %q in bad.adl", ve, tt.key)
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		blocks   []string
		warnings int
		kind     string
	}{
		{
			name:     "unclosed block",
			src:      "text {\n textix=\"a\"\n",
			blocks:   []string{"text"},
			warnings: 1,
			kind:     "text",
		},
		{
			name:     "stray closing brace",
			src:      "}\ntext {\n}\n",
			blocks:   []string{"text"},
			warnings: 1,
			kind:     "file",
		},
		{
			name:     "bare brace",
			src:      "composite {\n children {\n {\n rectangle {\n }\n }\n }\n}\noval {\n}\n",
			blocks:   []string{"composite", "children", "rectangle", "oval"},
			warnings: 1,
			kind:     "children",
		},
		{
			name:     "unterminated value",
			src:      "text {\n textix=\"abc\n x=1\n}\noval {\n}\n",
			blocks:   []string{"text", "oval"},
			warnings: 1,
			kind:     "text",
		},
		{
			name:     "unbalanced parenthesis",
			src:      "polyline {\n points {\n (1,2\n }\n}\n",
			blocks:   []string{"polyline", "points"},
			warnings: 1,
			kind:     "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.src)

			var names []string
			tree.Walk(tree.Root(), func(id BlockID) bool {
				names = append(names, tree.Block(id).Name)
				return true
			})
			if !reflect.DeepEqual(names, tt.blocks) {
				t.Errorf("blocks = %q, want %q", names, tt.blocks)
			}
			if len(tree.Warnings) != tt.warnings {
				t.Fatalf("warnings = %v, want %d", tree.Warnings, tt.warnings)
			}
			if got := tree.Warnings[0].Kind; got != tt.kind {
				t.Errorf("warning kind = %q, want %q", got, tt.kind)
			}
			if got := tree.Label(tree.Warnings[0].Block); got != tt.kind {
				t.Errorf("label of the warning block = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestParseUnterminatedKeepsSiblings(t *testing.T) {
	tree := mustParse(t, "text {\n textix=\"abc\n x=1\n}\n")

	text, _ := tree.Find(tree.Root(), KindText)
	if _, ok := tree.Lookup(text, "textix"); ok {
		t.Errorf("unterminated assignment should be dropped")
	}
	if got := tree.Value(text, "x"); got != "1" {
		t.Errorf("x = %q, want 1", got)
	}
}

func TestParseNestingTooDeep(t *testing.T) {
	src := strings.Repeat("a {\n", 5) + strings.Repeat("}\n", 5)

	if _, err := ParseFromBytes("deep.adl", []byte(src), Options{MaxDepth: 5}); err != nil {
		t.Fatalf("depth 5 should be accepted: %v", err)
	}
	_, err := ParseFromBytes("deep.adl", []byte(src), Options{MaxDepth: 4})
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("error = %v, want ErrNestingTooDeep", err)
	}
}

func TestParseArrayBlocks(t *testing.T) {
	tree := mustParse(t, "\"related display\" {\n display[0] {\n label=\"one\"\n name=\"one.adl\"\n }\n display[1] {\n name=\"two.adl\"\n }\n}\n")

	rd, _ := tree.Find(tree.Root(), KindRelatedDisplay)
	entries := tree.ChildBlocks(rd)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, id := range entries {
		if k := tree.Block(id).Kind; k != KindGeneric {
			t.Errorf("%s kind = %v, want generic", tree.Block(id).Name, k)
		}
	}
	if got := tree.Value(entries[0], "label"); got != "one" {
		t.Errorf("label = %q", got)
	}
}

func TestParsePoints(t *testing.T) {
	tree := mustParse(t, "polygon {\n points {\n (10,20)\n (30,40)\n (50,60)\n }\n}\n")

	poly, _ := tree.Find(tree.Root(), KindPolygon)
	pts, ok := tree.Find(poly, KindPoints)
	if !ok {
		t.Fatal("points not found")
	}
	if got := tree.Value(pts, "points"); got != "10,20 30,40 50,60" {
		t.Errorf("points = %q", got)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	tree := mustParse(t, "text {\n textix=\"first\"\n textix=\"second\"\n}\n")

	text, _ := tree.Find(tree.Root(), KindText)
	if got := tree.Value(text, "textix"); got != "first" {
		t.Errorf("textix = %q, want the first assignment", got)
	}
	if n := len(tree.Assignments(text)); n != 2 {
		t.Errorf("assignments = %d, want both kept", n)
	}
}

func TestParseNoContent(t *testing.T) {
	if _, err := ParseFromBytes("empty.adl", []byte(" \n\t\n"), Options{}); !errors.Is(err, ErrNoContent) {
		t.Errorf("error = %v, want ErrNoContent", err)
	}
}

func TestParseFromFileLatin1(t *testing.T) {
	name := filepath.Join(t.TempDir(), "latin1.adl")
	// "Température" in ISO-8859-1
	src := []byte("text {\n textix=\"Temp\xe9rature\"\n}\n")
	if err := os.WriteFile(name, src, 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := ParseFromFile(name, Options{Encoding: "iso-8859-1"})
	if err != nil {
		t.Fatalf("ParseFromFile() error = %v", err)
	}
	text, _ := tree.Find(tree.Root(), KindText)
	if got := tree.Value(text, "textix"); got != "Température" {
		t.Errorf("textix = %q", got)
	}
}

func TestParseFromFileMissing(t *testing.T) {
	_, err := ParseFromFile(filepath.Join(t.TempDir(), "nothing.adl"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want not exist", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"text update", KindTextUpdate},
		{"basic attribute", KindBasicAttribute},
		{"color map", KindColorMap},
		{"display", KindDisplay},
		{"display[0]", KindGeneric},
		{"pen[3]", KindGeneric},
		{"gizmo", KindGeneric},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if KindBasicAttribute.IsWidget() || !KindStripChart.IsWidget() || KindGeneric.IsWidget() {
		t.Errorf("IsWidget misclassifies kinds")
	}
}

func TestDecodeColors(t *testing.T) {
	got, err := DecodeColors("ffffff, ececec,\n5893FF")
	if err != nil {
		t.Fatal(err)
	}
	want := []Color{{255, 255, 255}, {236, 236, 236}, {88, 147, 255}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeColors() = %v, want %v", got, want)
	}
	if h := want[2].Hex(); h != "#5893ff" {
		t.Errorf("Hex() = %q", h)
	}
}
