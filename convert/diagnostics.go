package convert

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/hesusruiz/adl2pydm/pydm"
)

// Diagnostics receives the problems found while converting files. Report may
// be called from several conversions at the same time.
type Diagnostics interface {
	Report(d pydm.Diagnostic)
}

// LogDiagnostics writes every diagnostic to a zap logger.
type LogDiagnostics struct {
	Log *zap.SugaredLogger
}

func (l LogDiagnostics) Report(d pydm.Diagnostic) {
	kv := []any{
		"file", d.File,
		"line", d.Line,
		"column", d.Column,
	}
	if d.Kind != "" {
		kv = append(kv, "kind", d.Kind)
	}
	if d.Widget != "" {
		kv = append(kv, "widget", d.Widget)
	}

	switch d.Severity {
	case pydm.SeverityError:
		l.Log.Errorw(d.Message, kv...)
	case pydm.SeverityWarning:
		l.Log.Warnw(d.Message, kv...)
	default:
		l.Log.Infow(d.Message, kv...)
	}
}

// Collector keeps the diagnostics in memory.
type Collector struct {
	mu    sync.Mutex
	items []pydm.Diagnostic
}

func (c *Collector) Report(d pydm.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Items returns a copy of the diagnostics received so far.
func (c *Collector) Items() []pydm.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]pydm.Diagnostic(nil), c.items...)
}

// fromSyntaxError turns a recovered parse problem into a diagnostic. widget
// is the name of the output widget holding the block of the problem.
func fromSyntaxError(e *medm.SyntaxError, widget string) pydm.Diagnostic {
	return pydm.Diagnostic{
		Severity: pydm.SeverityWarning,
		File:     e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Kind:     e.Kind,
		Widget:   widget,
		Message:  e.Msg,
	}
}

// widgetNames maps the blocks of tree to the names of the widgets made from
// them. The root stands for the screen. It is empty when doc is nil.
func widgetNames(tree *medm.Tree, doc *pydm.Document) map[medm.BlockID]string {
	names := make(map[medm.BlockID]string)
	if doc == nil {
		return names
	}
	doc.Screen.Walk(func(w *pydm.Widget) {
		names[w.Source] = w.Name
	})
	names[tree.Root()] = doc.Screen.Name
	return names
}

// widgetOf returns the name of the widget made from block id or from the
// closest block above it that became a widget.
func widgetOf(tree *medm.Tree, names map[medm.BlockID]string, id medm.BlockID) string {
	for id != medm.NoBlock {
		if name, ok := names[id]; ok {
			return name
		}
		id = tree.Block(id).Parent
	}
	return ""
}
