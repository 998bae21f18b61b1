package pydm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/hesusruiz/adl2pydm/sliceedit"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options control the translation of a block tree.
type Options struct {
	// Protocol is the scheme prefixed to every channel, "ca" by default.
	Protocol string
	// ScreenName is the object name of the top level widget, "screen" by default.
	ScreenName string
	// Title is the window title of the screen.
	Title  string
	Logger *zap.SugaredLogger
}

// A handler fills in a widget from its block. The geometry and the name of
// the widget are already set.
type handler func(t *Translator, w *Widget, id medm.BlockID) error

var handlers map[medm.Kind]handler

func init() {
	handlers = map[medm.Kind]handler{
		medm.KindText:           translateText,
		medm.KindTextUpdate:     translateTextUpdate,
		medm.KindTextEntry:      translateTextEntry,
		medm.KindMenu:           translateMenu,
		medm.KindChoiceButton:   translateChoiceButton,
		medm.KindMessageButton:  translateMessageButton,
		medm.KindRelatedDisplay: translateRelatedDisplay,
		medm.KindShellCommand:   translateShellCommand,
		medm.KindComposite:      translateComposite,
		medm.KindRectangle:      translateRectangle,
		medm.KindOval:           translateOval,
		medm.KindArc:            translateArc,
		medm.KindPolyline:       translatePolyline,
		medm.KindPolygon:        translatePolygon,
		medm.KindImage:          translateImage,
		medm.KindBar:            translateScale,
		medm.KindMeter:          translateScale,
		medm.KindIndicator:      translateScale,
		medm.KindByte:           translateByte,
		medm.KindValuator:       translateValuator,
		medm.KindWheelSwitch:    translateWheelSwitch,
		medm.KindStripChart:     translateStripChart,
		medm.KindCartesianPlot:  translateCartesianPlot,
	}
}

// Translator maps the block tree of one file to a widget tree. A Translator
// is used for a single file and is not safe for concurrent use.
type Translator struct {
	tree   *medm.Tree
	opts   Options
	colors []medm.Color
	counts map[string]int
	diags  []Diagnostic
	log    *zap.SugaredLogger

	// Attribute blocks of the old file format, which apply to all the
	// widgets that follow them in the same container.
	basic   medm.BlockID
	dynamic medm.BlockID

	// origin is the point the geometry of the widget being translated is
	// relative to.
	origin medm.Point
}

// NewTranslator returns a Translator for tree.
func NewTranslator(tree *medm.Tree, opts Options) *Translator {
	if opts.Protocol == "" {
		opts.Protocol = "ca"
	}
	if opts.ScreenName == "" {
		opts.ScreenName = "screen"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Translator{
		tree:    tree,
		opts:    opts,
		colors:  tree.ColorTable(),
		counts:  make(map[string]int),
		log:     opts.Logger,
		basic:   medm.NoBlock,
		dynamic: medm.NoBlock,
	}
}

// Translate converts tree into a Document.
func Translate(tree *medm.Tree, opts Options) (*Document, error) {
	return NewTranslator(tree, opts).Translate()
}

// Translate builds the screen. Problems with single widgets are reported as
// diagnostics of the document and the widget is left out. Only a display
// whose own colors can not be resolved is an error.
func (t *Translator) Translate() (*Document, error) {
	name := t.opts.ScreenName
	screen := &Widget{Class: "QWidget", Name: name, Source: t.tree.Root()}

	display, ok := t.tree.Display()
	if ok {
		screen.Source = display
		screen.Geometry = t.tree.Block(display).Geometry
		if screen.Geometry == nil {
			t.report(SeverityWarning, display, name, "display without geometry")
		}

		fg, err := t.color(display, "clr")
		if err != nil {
			return nil, errors.Wrap(err, "display")
		}
		bg, err := t.color(display, "bclr")
		if err != nil {
			return nil, errors.Wrap(err, "display")
		}
		screen.Set("styleSheet", NewString(styleSheet("QWidget", name, fg, bg)))
	} else {
		t.report(SeverityWarning, t.tree.Root(), name, "file without a display block")
	}
	screen.Set("windowTitle", NewString(t.opts.Title))

	t.translateChildren(screen, t.tree.Root(), medm.Point{})

	doc := &Document{
		Class:       name,
		Screen:      screen,
		Diagnostics: t.diags,
	}
	t.log.Debugw("translated", "file", t.tree.FileName, "widgets", screen.Count(), "diagnostics", len(t.diags))
	return doc, nil
}

// translateChildren adds to parent a widget for each widget block directly
// inside container. Geometry is made relative to origin.
func (t *Translator) translateChildren(parent *Widget, container medm.BlockID, origin medm.Point) {
	basic, dynamic := t.basic, t.dynamic
	defer func() {
		t.basic, t.dynamic = basic, dynamic
	}()

	for _, id := range t.tree.ChildBlocks(container) {
		b := t.tree.Block(id)

		switch {
		case b.Kind == medm.KindBasicAttribute:
			t.basic = id
		case b.Kind == medm.KindDynamicAttribute:
			t.dynamic = id
		case b.Kind.IsWidget() || b.Kind == medm.KindGeneric:
			if w := t.translateWidget(id, origin); w != nil {
				parent.Add(w)
			}
		default:
			t.log.Debugw("block ignored", "file", t.tree.FileName, "block", b.Name, "line", b.Line)
		}
	}
}

// translateWidget builds the widget for block id, including all the widgets
// below it. On failure it reports the problem and returns nil, so nothing of
// the widget reaches the output.
func (t *Translator) translateWidget(id medm.BlockID, origin medm.Point) *Widget {
	b := t.tree.Block(id)

	h, ok := handlers[b.Kind]
	if !ok {
		h = translateGeneric
	}

	w := &Widget{Name: t.nextName(b), Source: id}
	if b.Geometry != nil {
		g := b.Geometry.Offset(origin)
		w.Geometry = &g
	} else if b.Kind != medm.KindGeneric {
		t.report(SeverityWarning, id, w.Name, "widget without geometry")
	}

	saved := t.origin
	t.origin = origin
	err := h(t, w, id)
	t.origin = saved
	if err != nil {
		t.report(SeverityError, id, w.Name, err.Error()+": widget skipped")
		return nil
	}
	return w
}

// translateGeneric keeps the place of an unknown block with a plain frame.
// Widget blocks nested in it are translated as its children. Without a
// geometry of its own the frame does not move them.
func translateGeneric(t *Translator, w *Widget, id medm.BlockID) error {
	b := t.tree.Block(id)
	w.Class = "QFrame"
	t.report(SeverityWarning, id, w.Name, fmt.Sprintf("unknown block kind %q", b.Name))

	origin := t.origin
	if b.Geometry != nil {
		origin = b.Geometry.Origin()
	}
	t.translateChildren(w, id, origin)
	return nil
}

// nextName returns a unique object name derived from the kind of the block:
// "rectangle", "rectangle_1", "rectangle_2"...
func (t *Translator) nextName(b *medm.Block) string {
	base := b.Kind.String()
	if b.Kind == medm.KindGeneric {
		base = b.Name
	}
	base = identifier(base)

	n := t.counts[base]
	t.counts[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "_" + strconv.Itoa(n)
}

// identifier replaces the characters that can not be part of a Qt object name.
func identifier(s string) string {
	id := strings.Map(func(r rune) rune {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return r
		}
		return '_'
	}, s)
	if id == "" || ('0' <= id[0] && id[0] <= '9') {
		id = "_" + id
	}
	return id
}

func (t *Translator) report(sev Severity, id medm.BlockID, widget, msg string) {
	b := t.tree.Block(id)
	t.diags = append(t.diags, Diagnostic{
		Severity: sev,
		File:     t.tree.FileName,
		Line:     b.Line,
		Column:   b.Column,
		Kind:     t.tree.Label(id),
		Widget:   widget,
		Message:  msg,
	})
	t.log.Debugw("diagnostic", "file", t.tree.FileName, "line", b.Line, "widget", widget, "severity", sev.String(), "msg", msg)
}

// attribute returns the block holding the values of an attribute of widget
// id: its own block of that kind, or the one in effect in the old file format.
// Values nested in an "attr" block are found too.
func (t *Translator) attribute(id medm.BlockID, kind medm.Kind) medm.BlockID {
	a, ok := t.tree.Find(id, kind)
	if !ok {
		switch kind {
		case medm.KindBasicAttribute:
			a = t.basic
		case medm.KindDynamicAttribute:
			a = t.dynamic
		}
		if a == medm.NoBlock {
			return medm.NoBlock
		}
	}
	if inner, ok := t.tree.FindNamed(a, "attr"); ok {
		return inner
	}
	return a
}

// sub returns the child block of the given kind, or NoBlock.
func (t *Translator) sub(id medm.BlockID, kind medm.Kind) medm.BlockID {
	if s, ok := t.tree.Find(id, kind); ok {
		return s
	}
	return medm.NoBlock
}

// value returns the value of key in block id, with surrounding blanks removed.
// It is safe to call with NoBlock.
func (t *Translator) value(id medm.BlockID, key string) string {
	return strings.TrimSpace(t.tree.Value(id, key))
}

// number returns the integer value of key in block id, or def when absent.
func (t *Translator) number(id medm.BlockID, key string, def int) (int, error) {
	v := t.value(id, key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("%s=%q is not an integer", key, v)
	}
	return n, nil
}

// float returns the numeric value of key in block id, or def when absent.
func (t *Translator) float(id medm.BlockID, key string, def float64) (float64, error) {
	v := t.value(id, key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("%s=%q is not a number", key, v)
	}
	return f, nil
}

// color resolves the color index assigned to key in block id. It returns nil
// when the key is absent.
func (t *Translator) color(id medm.BlockID, key string) (*RGBA, error) {
	v := t.value(id, key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.Errorf("%s=%q is not a color index", key, v)
	}
	if n < 0 || n >= len(t.colors) {
		return nil, errors.Errorf("%s=%d is out of the color table of %d colors", key, n, len(t.colors))
	}
	c := Opaque(t.colors[n])
	return &c, nil
}

// colorPair resolves the foreground and background colors of block id.
func (t *Translator) colorPair(id medm.BlockID, fgKey, bgKey string) (fg, bg *RGBA, err error) {
	if fg, err = t.color(id, fgKey); err != nil {
		return nil, nil, err
	}
	if bg, err = t.color(id, bgKey); err != nil {
		return nil, nil, err
	}
	return fg, bg, nil
}

// channel returns the address of a process variable, with the protocol
// prefix and macros in PyDM notation. Empty names stay empty.
func (t *Translator) channel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = sliceedit.ConvertMacros(name)
	if strings.Contains(name, "://") {
		return name
	}
	return t.opts.Protocol + "://" + name
}

// pv returns the process variable of a control or monitor block, which older
// files name rdbk or ctrl instead of chan.
func (t *Translator) pv(id medm.BlockID) string {
	for _, key := range []string{"chan", "rdbk", "ctrl"} {
		if v := t.value(id, key); v != "" {
			return v
		}
	}
	return ""
}

// text returns the value of key with macros in PyDM notation.
func (t *Translator) text(id medm.BlockID, key string) string {
	return sliceedit.ConvertMacros(t.tree.Value(id, key))
}

// styleSheet returns the Qt style sheet giving the colors to a widget, or ""
// when both are nil.
func styleSheet(class, name string, fg, bg *RGBA) string {
	if fg == nil && bg == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s#%s {\n", class, name)
	if fg != nil {
		fmt.Fprintf(&sb, "  color: rgb(%d, %d, %d);\n", fg.R, fg.G, fg.B)
	}
	if bg != nil {
		fmt.Fprintf(&sb, "  background-color: rgb(%d, %d, %d);\n", bg.R, bg.G, bg.B)
	}
	sb.WriteString("  }")
	return sb.String()
}

// setStyle sets the style sheet of w from a pair of colors.
func setStyle(w *Widget, fg, bg *RGBA) {
	w.Set("styleSheet", NewString(styleSheet(w.Class, w.Name, fg, bg)))
}
