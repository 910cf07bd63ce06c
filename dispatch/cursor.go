// Package dispatch implements the single-pass, spec-driven record and
// array dispatchers: the byte-level state machine at the core of GSL.
package dispatch

import (
	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/spec"
)

// state names the four phases of record-body scanning. It serves as
// documentation only and is not referenced by the parser or its
// diagnostics: the actual control flow lives in the parseBody loop rather
// than a literal transition table, since Go's switch-over-byte-class
// expresses the same automaton without a boolean ladder.
type state int

const (
	stateOutOfField state = iota
	stateImplied
	stateFieldTag
	stateTerminalValue
)

func (s state) String() string {
	switch s {
	case stateOutOfField:
		return "out_of_field"
	case stateImplied:
		return "in_implied"
	case stateFieldTag:
		return "in_field_tag"
	case stateTerminalValue:
		return "in_terminal_value"
	default:
		return "state(?)"
	}
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isOpener(b byte) bool {
	return b == '{' || b == '(' || b == '['
}

// closerFor returns the single closing byte expected for a record
// flavour. Array flavours both close on ']'.
func closerFor(f spec.Flavour) byte {
	switch f {
	case spec.SetRecord:
		return ')'
	case spec.GetArray, spec.SetArray:
		return ']'
	default:
		return '}'
	}
}

func openerFor(f spec.Flavour) byte {
	switch f {
	case spec.SetRecord:
		return '('
	case spec.GetArray, spec.SetArray:
		return '['
	default:
		return '{'
	}
}

// childFlavourOf returns the flavour a child enclosure should be looked
// up under, given the byte that opened it and the flavour of the record
// currently being scanned. Braces are unambiguous ('{' is always
// get-record, '(' always set-record); arrays share a single bracket
// character for both get- and set-array, so an array child's get/set-ness
// is inherited from its enclosing record (see DESIGN.md, Open Questions).
func childFlavourOf(opener byte, parent spec.Flavour) spec.Flavour {
	switch opener {
	case '{':
		return spec.GetRecord
	case '(':
		return spec.SetRecord
	case '[':
		if parent == spec.SetRecord || parent == spec.SetArray {
			return spec.SetArray
		}
		return spec.GetArray
	default:
		return spec.GetRecord
	}
}

func errAt(kind gslerr.Kind, offset int) *gslerr.Error {
	return gslerr.New(kind, offset)
}
