package dispatch

import (
	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/spec"
)

// ParseArray drives the array dispatcher over the body of an already
// opened '[...]' enclosure — the bytes immediately after '['. The array
// is atomic iff item.NewItemTable is nil.
func ParseArray(item *spec.FieldSpec, data []byte, opts ...Option) (int, *gslerr.Error) {
	cfg := resolveOptions(opts)
	if item.NewItemTable == nil {
		return parseAtomicArray(item, data)
	}
	return parseRecordArray(item, data, cfg)
}

func parseAtomicArray(item *spec.FieldSpec, data []byte) (int, *gslerr.Error) {
	pos := 0
	index := 0
	for pos < len(data) {
		b := data[pos]
		switch {
		case isWhitespace(b):
			pos++
		case b == ']':
			return pos + 1, nil
		case isOpener(b):
			return 0, errAt(gslerr.Format, pos)
		default:
			start := pos
			for pos < len(data) && !isWhitespace(data[pos]) && data[pos] != ']' {
				if isOpener(data[pos]) {
					return 0, errAt(gslerr.Format, pos)
				}
				pos++
			}
			if _, err := item.Alloc(item.Accu, data[start:pos], index); err != nil {
				return 0, rebase(err, start)
			}
			index++
		}
	}
	return 0, errAt(gslerr.Fail, pos)
}

func parseRecordArray(item *spec.FieldSpec, data []byte, cfg *options) (int, *gslerr.Error) {
	pos := 0
	index := 0
	for pos < len(data) {
		b := data[pos]
		switch {
		case isWhitespace(b):
			pos++
		case b == ']':
			return pos + 1, nil
		case b == '{' || b == '(':
			elemFlavour := spec.GetRecord
			if b == '(' {
				elemFlavour = spec.SetRecord
			}
			it, err := item.Alloc(item.Accu, nil, index)
			if err != nil {
				return 0, rebase(err, pos)
			}
			table := item.NewItemTable(it)
			n, perr := ParseRecordBody(data[pos+1:], table, elemFlavour, WithMaxNameSize(cfg.maxNameSize))
			if perr != nil {
				perr.Offset += pos + 1
				return 0, perr
			}
			if pos+1+n > len(data) || data[pos+n] != closerFor(elemFlavour) {
				return 0, errAt(gslerr.Format, pos+1+n)
			}
			if err := item.Append(item.Accu, it); err != nil {
				return 0, rebase(err, pos)
			}
			pos = pos + 1 + n
			index++
		default:
			return 0, errAt(gslerr.Format, pos)
		}
	}
	return 0, errAt(gslerr.Fail, pos)
}

// AsArrayParseCallback returns a ParseAction.Parse function for a named
// array-flavoured field. The record dispatcher already consumed the
// field's own opening '[' and its tag before invoking this callback, so
// rec starts right after the tag — the array body, possibly preceded by
// the whitespace separating tag from value — and ParseArray is handed
// rec with that whitespace skipped.
func AsArrayParseCallback(item *spec.FieldSpec, opts ...Option) func(obj any, rec []byte) (int, error) {
	return func(_ any, rec []byte) (int, error) {
		skip := 0
		for skip < len(rec) && isWhitespace(rec[skip]) {
			skip++
		}
		n, err := ParseArray(item, rec[skip:], opts...)
		if err != nil {
			err.Offset += skip
			return skip + n, err
		}
		return skip + n, nil
	}
}
