package main

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/pkg/errors"
)

// highlight writes the XML in data to w with terminal colors, using the named
// chroma style.
func highlight(w io.Writer, data []byte, styleName string) error {
	l := lexers.Get("xml")
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	s := styles.Get(styleName)
	f := formatters.Get("terminal256")

	it, err := l.Tokenise(nil, string(data))
	if err != nil {
		return errors.Wrap(err, "highlighting output")
	}
	return errors.Wrap(f.Format(w, s, it), "highlighting output")
}
