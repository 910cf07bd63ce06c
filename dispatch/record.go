package dispatch

import (
	"bytes"

	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/log"
	"github.com/globbie/gsl-go/spec"
)

// DefaultMaxNameSize is the name-size ceiling applied unless
// WithMaxNameSize overrides it, matching the original C library's
// GSL_NAME_SIZE.
const DefaultMaxNameSize = 512

type options struct {
	maxNameSize int
}

// Option configures a ParseTask/ParseRecordBody/ParseArray call.
type Option func(*options)

// WithMaxNameSize overrides the name-size ceiling: a tag exceeding it is
// reported as error.Limit.
func WithMaxNameSize(n int) Option {
	return func(o *options) {
		o.maxNameSize = n
	}
}

func resolveOptions(opts []Option) *options {
	o := &options{maxNameSize: DefaultMaxNameSize}
	for _, f := range opts {
		f(o)
	}
	return o
}

// ParseTask drives the record dispatcher over an unenclosed root: bytes
// is the entire input, with no outer '{' or '(' of its own. consumed is
// the number of bytes read up to and including the last byte processed
// — the whole input for a well-formed root, or the offending byte's
// offset on error.
func ParseTask(data []byte, t spec.Table, opts ...Option) (consumed int, err *gslerr.Error) {
	n, err := parseBody(data, t, spec.GetRecord, true, resolveOptions(opts))
	if err != nil {
		return err.Offset, err
	}
	return n, nil
}

// ParseRecordBody drives the record dispatcher over the body of an
// already-opened enclosure of the given flavour — the bytes immediately
// after its opening brace. consumed counts up to and including the
// matching closing brace. This is what a ParseAction.Parse callback
// reenters for a nested record field; AsParseCallback wraps the common
// case.
func ParseRecordBody(data []byte, t spec.Table, flavour spec.Flavour, opts ...Option) (consumed int, err *gslerr.Error) {
	return parseBody(data, t, flavour, false, resolveOptions(opts))
}

// AsParseCallback returns a ParseAction.Parse function that simply drives
// ParseRecordBody over the named field's nested table. Most ParseAction
// fields in practice are exactly this.
func AsParseCallback(t spec.Table, flavour spec.Flavour, opts ...Option) func(obj any, rec []byte) (int, error) {
	return func(_ any, rec []byte) (int, error) {
		n, err := ParseRecordBody(rec, t, flavour, opts...)
		if err != nil {
			return n, err
		}
		return n, nil
	}
}

func parseBody(data []byte, t spec.Table, flavour spec.Flavour, root bool, cfg *options) (int, *gslerr.Error) {
	prog := spec.NewProgress(t)
	closer := closerFor(flavour)

	pos := 0
	impliedStart := -1
	impliedFired := false

	flushImplied := func(end int) *gslerr.Error {
		if impliedStart < 0 {
			return nil
		}
		start := impliedStart
		impliedStart = -1
		value := bytes.TrimSpace(data[start:end])
		if len(value) == 0 {
			return nil
		}
		if impliedFired {
			return errAt(gslerr.Format, start)
		}
		impliedFired = true
		impSpec := spec.Implied(t, flavour)
		if impSpec == nil {
			return errAt(gslerr.NoMatch, start)
		}
		if err := fireTerminal(impSpec, value, start); err != nil {
			return err
		}
		prog.MarkFired(impSpec)
		return nil
	}

	finish := func(end int) (int, *gslerr.Error) {
		if err := flushImplied(end); err != nil {
			return 0, err
		}
		if prog.AnyNonSelectorFired(flavour) {
			return end, nil
		}
		if def := spec.Default(t, flavour); def != nil {
			run, ok := def.Action.(spec.RunAction)
			if !ok {
				return 0, errAt(gslerr.Format, end)
			}
			if err := callRun(run, nil, end); err != nil {
				return 0, err
			}
			prog.MarkFired(def)
			return end, nil
		}
		return 0, errAt(gslerr.NoMatch, end)
	}

	for pos < len(data) {
		b := data[pos]
		switch {
		case isWhitespace(b):
			pos++
		case b == closer:
			if err := flushImplied(pos); err != nil {
				return 0, err
			}
			return finish(pos + 1)
		case isOpener(b):
			if err := flushImplied(pos); err != nil {
				return 0, err
			}
			n, err := parseChildField(data[pos:], t, flavour, prog, cfg)
			if err != nil {
				err.Offset += pos
				return 0, err
			}
			pos += n
		default:
			if impliedStart < 0 {
				impliedStart = pos
			}
			pos++
		}
	}

	if !root {
		return pos, errAt(gslerr.Fail, pos)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		// An empty or whitespace-only root is accepted and fires nothing.
		return len(data), nil
	}
	return finish(len(data))
}

// parseChildField parses one '{...}'/'( ...)'/'[...]' child, including a
// leading comment field, starting at data[0] == an opener byte.
func parseChildField(data []byte, t spec.Table, parentFlavour spec.Flavour, prog *spec.Progress, cfg *options) (int, *gslerr.Error) {
	opener := data[0]
	childFlavour := childFlavourOf(opener, parentFlavour)

	if len(data) > 1 && data[1] == '-' {
		return parseComment(data, childFlavour)
	}

	pos := 1
	tagStart := pos
	for pos < len(data) && !isWhitespace(data[pos]) && !isOpener(data[pos]) && data[pos] != closerFor(childFlavour) {
		pos++
	}
	tag := data[tagStart:pos]
	if len(tag) == 0 {
		return 0, errAt(gslerr.Format, tagStart)
	}
	if len(tag) > cfg.maxNameSize {
		return 0, errAt(gslerr.Limit, tagStart)
	}

	s, found := spec.Lookup(t, childFlavour, tag)
	if !found {
		return 0, errAt(gslerr.NoMatch, tagStart)
	}
	if s.Role == spec.RoleNamed && prog.Fired(s) {
		return 0, errAt(gslerr.Exists, 0)
	}

	rest := data[pos:]

	switch a := s.Action.(type) {
	case spec.BufferAction, spec.RunAction:
		valStart := pos
		p := pos
		for p < len(data) && data[p] != closerFor(childFlavour) {
			if isOpener(data[p]) {
				return 0, errAt(gslerr.Format, p)
			}
			p++
		}
		if p >= len(data) {
			return 0, errAt(gslerr.Fail, p)
		}
		value := bytes.TrimSpace(data[valStart:p])
		if len(value) == 0 {
			return 0, errAt(gslerr.Format, valStart)
		}
		if err := fireTerminal(s, value, valStart); err != nil {
			return 0, err
		}
		prog.MarkFired(s)
		log.Logf("dispatch: fired %q (%v)", tag, s.Flavour)
		return p + 1, nil

	case spec.ParseAction:
		n, cberr := a.Parse(a.Obj, rest)
		if cberr != nil {
			return 0, rebase(cberr, pos)
		}
		if pos+n > len(data) || data[pos+n-1] != closerFor(childFlavour) {
			return 0, errAt(gslerr.Format, pos+n)
		}
		prog.MarkFired(s)
		return pos + n, nil

	case spec.ValidateAction:
		n, cberr := a.Validate(a.Obj, tag, rest)
		if cberr != nil {
			return 0, rebase(cberr, pos)
		}
		if pos+n > len(data) || data[pos+n-1] != closerFor(childFlavour) {
			return 0, errAt(gslerr.Format, pos+n)
		}
		prog.MarkFired(s)
		return pos + n, nil

	default:
		return 0, errAt(gslerr.Format, tagStart)
	}
}

func fireTerminal(s *spec.FieldSpec, value []byte, offset int) *gslerr.Error {
	switch a := s.Action.(type) {
	case spec.BufferAction:
		if a.Len == nil || len(a.Buf) == 0 {
			return errAt(gslerr.Format, offset)
		}
		if len(value) > len(a.Buf) {
			return errAt(gslerr.Limit, offset)
		}
		copy(a.Buf, value)
		*a.Len = len(value)
		return nil
	case spec.RunAction:
		return callRun(a, value, offset)
	default:
		return errAt(gslerr.Format, offset)
	}
}

func callRun(a spec.RunAction, value []byte, offset int) *gslerr.Error {
	if a.Run == nil {
		return errAt(gslerr.Format, offset)
	}
	if err := a.Run(a.Obj, value); err != nil {
		return rebase(err, offset)
	}
	return nil
}

// rebase converts a callback's returned error into a *gslerr.Error
// positioned at the absolute offset of the call site: an already-typed
// *gslerr.Error from a nested dispatch call is rebased and passed through
// verbatim — no error is recovered or altered in kind — while any other
// error is wrapped as External at offset.
func rebase(err error, offset int) *gslerr.Error {
	if ge, ok := err.(*gslerr.Error); ok {
		ge.Offset += offset
		return ge
	}
	return gslerr.NewExternal(offset, err)
}
