package pydm

import (
	"fmt"
	"strconv"
)

// Severity grades a Diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "Severity(" + strconv.Itoa(int(s)) + ")"
}

// Diagnostic is a problem found while converting a file that did not stop the
// conversion.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Column   int
	Kind     string
	Widget   string
	Message  string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Severity)
	if d.Widget != "" {
		s += " [" + d.Widget + "]"
	} else if d.Kind != "" {
		s += " [" + d.Kind + "]"
	}
	return s + ": " + d.Message
}
