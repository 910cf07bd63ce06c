package dispatch

import (
	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/spec"
)

// parseComment skips a child whose tag begins with '-': a balanced
// enclosure of the given flavour. Nested braces of the same flavour are
// counted and must each be matched; braces of other flavours are ignored.
// The floating-boundary extension ("{-...-}", a trailing '-' immediately
// before the closing brace) is accepted but never required — it is
// consumed as ordinary comment body content.
func parseComment(data []byte, flavour spec.Flavour) (int, *gslerr.Error) {
	open := openerFor(flavour)
	shut := closerFor(flavour)

	depth := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case open:
			depth++
		case shut:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, errAt(gslerr.Fail, len(data))
}
