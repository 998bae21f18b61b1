// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit rewrites the macro references and file names that MEDM
// screens embed in their values, queuing all the edits of a value in a single
// rsc.io/edit buffer.
package sliceedit

import (
	"bytes"
	"strings"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed *edit.Buffer
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The buffer keeps a reference to the data, which must not change until the
// buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{ed: edit.NewBuffer(buf)}
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}
	if len(item) == 0 {
		return found
	}

	offset := 0
	for {
		i := bytes.Index(buf[offset:], []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, offset+i)
		offset += i + len(item)
	}
}

// Replace replaces the bytes in [start, end) with new.
func (b *Buffer) Replace(start, end int, new string) {
	b.ed.Replace(start, end, new)
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}

// macroRefs returns the start of every "$(" that has a closing parenthesis,
// paired with the position of that parenthesis.
func macroRefs(buf []byte) [][2]int {
	var refs [][2]int
	for _, start := range FindAll(buf, "$(") {
		end := bytes.IndexAny(buf[start+2:], "()")
		if end == -1 || buf[start+2+end] != ')' {
			continue
		}
		refs = append(refs, [2]int{start, start + 2 + end})
	}
	return refs
}

// ConvertMacros rewrites the MEDM macro references "$(NAME)" of s into the
// "${NAME}" form used by PyDM. Unclosed references are left as they are.
func ConvertMacros(s string) string {
	if !strings.Contains(s, "$(") {
		return s
	}
	buf := []byte(s)
	b := NewBuffer(buf)
	for _, ref := range macroRefs(buf) {
		b.Replace(ref[0], ref[0]+2, "${")
		b.Replace(ref[1], ref[1]+1, "}")
	}
	return b.String()
}

// MacroNames returns the keys of a macro definition list like
// "P=$(P),R=motor1:", in order.
func MacroNames(s string) []string {
	var names []string
	for _, def := range strings.Split(s, ",") {
		key, _, found := strings.Cut(def, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		names = append(names, key)
	}
	return names
}

// ReplaceExtension replaces the extension oldExt at the end of name with
// newExt. The comparison ignores case. A name with another extension is
// returned unchanged.
func ReplaceExtension(name, oldExt, newExt string) string {
	if len(name) < len(oldExt) || !strings.EqualFold(name[len(name)-len(oldExt):], oldExt) {
		return name
	}
	b := NewBuffer([]byte(name))
	b.Replace(len(name)-len(oldExt), len(name), newExt)
	return b.String()
}
