package pydm

import (
	"bufio"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var (
	// ErrWriterClosed is returned when using a Writer after Close.
	ErrWriterClosed = errors.New("xml writer already closed")
	// ErrTagClosed is returned when closing a tag for the second time, or
	// writing into a closed tag.
	ErrTagClosed = errors.New("tag already closed")
)

// Writer produces an indented Qt Designer document. The XML declaration and
// the <ui version="4.0"> root element are written when the Writer is created,
// and the root is closed by Close.
//
// The first error stops all output and is returned by every later call.
type Writer struct {
	bw     *bufio.Writer
	enc    *xml.Encoder
	root   *Tag
	stack  []*Tag
	err    error
	closed bool
}

// Tag is a handle to an open element. It must be closed exactly once, after
// all the elements opened inside it.
type Tag struct {
	w      *Writer
	name   string
	closed bool
}

// NewWriter starts a document on out.
func NewWriter(out io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(out)
	w := &Writer{bw: bw}

	if _, err := bw.WriteString(xml.Header); err != nil {
		return nil, errors.Wrap(err, "writing declaration")
	}

	w.enc = xml.NewEncoder(bw)
	w.enc.Indent("", "  ")

	w.root = w.open("ui", attr("version", "4.0"))
	if w.err != nil {
		return nil, w.err
	}
	return w, nil
}

// Root returns the <ui> element.
func (w *Writer) Root() *Tag {
	return w.root
}

// Close closes the root element and flushes the document. Tags still open
// inside the root are an error.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	if w.err != nil {
		return w.err
	}
	if len(w.stack) > 1 {
		return errors.Errorf("closing document with <%s> still open", w.stack[len(w.stack)-1].name)
	}
	if err := w.root.Close(); err != nil {
		return err
	}
	if err := w.enc.Flush(); err != nil {
		return errors.Wrap(err, "flushing document")
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "flushing document")
	}
	return errors.Wrap(w.bw.Flush(), "flushing document")
}

func (w *Writer) open(name string, attrs ...xml.Attr) *Tag {
	t := &Tag{w: w, name: name}
	if w.err != nil {
		return t
	}
	if w.closed {
		w.err = ErrWriterClosed
		return t
	}
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := w.enc.EncodeToken(start); err != nil {
		w.err = errors.Wrapf(err, "opening <%s>", name)
		return t
	}
	w.stack = append(w.stack, t)
	return t
}

// inner checks that t is the innermost open element.
func (w *Writer) inner(t *Tag) error {
	if t.closed {
		return errors.Wrapf(ErrTagClosed, "<%s>", t.name)
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1] != t {
		return errors.Errorf("<%s> is not the innermost open element", t.name)
	}
	return nil
}

// Open starts a child element of t.
func (t *Tag) Open(name string, attrs ...xml.Attr) *Tag {
	w := t.w
	if w.err == nil {
		if err := w.inner(t); err != nil {
			w.err = err
		}
	}
	return w.open(name, attrs...)
}

// Text writes escaped character data inside t.
func (t *Tag) Text(s string) {
	w := t.w
	if w.err != nil {
		return
	}
	if err := w.inner(t); err != nil {
		w.err = err
		return
	}
	if err := w.enc.EncodeToken(xml.CharData(s)); err != nil {
		w.err = errors.Wrapf(err, "writing text of <%s>", t.name)
	}
}

// Element writes a complete child element holding only text.
func (t *Tag) Element(name, text string, attrs ...xml.Attr) {
	child := t.Open(name, attrs...)
	child.Text(text)
	child.Close()
}

// Close ends the element. Closing a tag twice is an error.
func (t *Tag) Close() error {
	w := t.w
	if t.closed {
		return errors.Wrapf(ErrTagClosed, "<%s>", t.name)
	}
	if w.err != nil {
		t.closed = true
		return w.err
	}
	if err := w.inner(t); err != nil {
		w.err = err
		return err
	}
	t.closed = true
	w.stack = w.stack[:len(w.stack)-1]
	if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: t.name}}); err != nil {
		w.err = errors.Wrapf(err, "closing <%s>", t.name)
	}
	return w.err
}

// WriteProperty writes p as a <property> element of parent.
func (w *Writer) WriteProperty(parent *Tag, p Property) {
	attrs := []xml.Attr{attr("name", p.Name)}
	if p.NonStandard {
		attrs = append(attrs, attr("stdset", "0"))
	}
	prop := parent.Open("property", attrs...)
	writeValue(prop, p.Value)
	prop.Close()
}

func writeValue(t *Tag, v Value) {
	switch v.Type {
	case StringValue:
		t.Element("string", v.Text)
	case BoolValue:
		t.Element("bool", strconv.FormatBool(v.Bool))
	case NumberValue:
		t.Element("number", strconv.Itoa(v.Int))
	case DoubleValue:
		t.Element("double", formatDouble(v.Float))
	case EnumValue:
		t.Element("enum", v.Text)
	case SetValue:
		t.Element("set", v.Text)
	case StringListValue:
		list := t.Open("stringlist")
		for _, s := range v.Strings {
			list.Element("string", s)
		}
		list.Close()
	case RectValue:
		rect := t.Open("rect")
		rect.Element("x", strconv.Itoa(v.Rect.X))
		rect.Element("y", strconv.Itoa(v.Rect.Y))
		rect.Element("width", strconv.Itoa(v.Rect.Width))
		rect.Element("height", strconv.Itoa(v.Rect.Height))
		rect.Close()
	case ColorValue:
		writeColor(t, v.Color)
	case BrushValue:
		brush := t.Open("brush", attr("brushstyle", v.Text))
		writeColor(brush, v.Color)
		brush.Close()
	default:
		if t.w.err == nil {
			t.w.err = errors.Errorf("unknown value type %v", v.Type)
		}
	}
}

func writeColor(t *Tag, c RGBA) {
	color := t.Open("color", attr("alpha", strconv.Itoa(int(c.A))))
	color.Element("red", strconv.Itoa(int(c.R)))
	color.Element("green", strconv.Itoa(int(c.G)))
	color.Element("blue", strconv.Itoa(int(c.B)))
	color.Close()
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
