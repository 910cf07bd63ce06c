package spec

import "bytes"

// Lookup scans t linearly for a RoleNamed spec of the given flavour whose
// Name matches name, deferring to the flavour's RoleValidator spec (if
// any) when no name matches. Tables are small in practice, so gsl-go
// keeps the linear scan rather than pre-partitioning into a map.
func Lookup(t Table, flavour Flavour, name []byte) (*FieldSpec, bool) {
	var validator *FieldSpec
	for _, s := range t {
		if s.Flavour != flavour {
			continue
		}
		if s.Role == RoleNamed && bytes.Equal(s.Name, name) {
			return s, true
		}
		if s.Role == RoleValidator {
			validator = s
		}
	}
	if validator != nil {
		return validator, true
	}
	return nil, false
}

// inScope reports whether a child spec's flavour belongs to a record
// being parsed at parentFlavour — either matching it directly ('{'/'('
// children) or matching its paired array flavour ('[' children, whose
// get/set-ness is inherited from the enclosing record per DESIGN.md's
// array-flavour-inheritance decision). A single record's table mixes
// both: a GetRecord body can carry GetRecord-flavoured buffer/parse
// children alongside GetArray-flavoured array children.
func inScope(s Flavour, parentFlavour Flavour) bool {
	if s == parentFlavour {
		return true
	}
	switch parentFlavour {
	case GetRecord:
		return s == GetArray
	case SetRecord:
		return s == SetArray
	default:
		return false
	}
}

// Default returns the flavour's RoleDefault spec, if any.
func Default(t Table, flavour Flavour) *FieldSpec {
	for _, s := range t {
		if inScope(s.Flavour, flavour) && s.Role == RoleDefault {
			return s
		}
	}
	return nil
}

// Implied returns the flavour's RoleImplied spec, if any.
func Implied(t Table, flavour Flavour) *FieldSpec {
	for _, s := range t {
		if inScope(s.Flavour, flavour) && s.Role == RoleImplied {
			return s
		}
	}
	return nil
}

// Progress is the per-spec "has this fired in the current record scope"
// latch, owned by one parse call rather than mutating the Table itself
// (see DESIGN.md). A fresh Progress must be allocated per
// ParseTask/ParseArray invocation over a Table; a Table may be safely
// reused across sequential, non-overlapping parse calls without any
// caller-side reset.
type Progress struct {
	t     Table
	fired map[*FieldSpec]bool
}

// NewProgress allocates a Progress for one parse call over t.
func NewProgress(t Table) *Progress {
	return &Progress{t: t, fired: make(map[*FieldSpec]bool, len(t))}
}

// Fired reports whether s has already fired in this scope.
func (p *Progress) Fired(s *FieldSpec) bool {
	return p.fired[s]
}

// MarkFired records that s has fired in this scope.
func (p *Progress) MarkFired(s *FieldSpec) {
	p.fired[s] = true
}

// AnyNonSelectorFired reports whether any non-default, non-selector spec
// in scope for flavour (named, implied or validator) has fired — the §4.2
// "default check" predicate.
func (p *Progress) AnyNonSelectorFired(flavour Flavour) bool {
	for _, s := range p.t {
		if !inScope(s.Flavour, flavour) {
			continue
		}
		if s.Role == RoleDefault {
			continue
		}
		if s.Selector {
			continue
		}
		if p.fired[s] {
			return true
		}
	}
	return false
}
