// Package tester provides a fixture-driven test harness for gsl-go: it
// drives dispatch.ParseTask against a table compiled from a small
// YAML-describable FixtureSpec, and compares the captured tree against a
// fixture's expected value.
//
// FieldSpec.Action carries Go closures, so a live spec.Table cannot be
// expressed as pure data in general. FixtureSpec describes only the
// restricted subset of tables that round-trip into a generic
// map[string]any/[]string tree: named buffer fields, named atomic-array
// fields, named nested records, and unnamed implied (buffer) and default
// fields. That is enough to exercise the
// dispatcher end-to-end from a file without host-language callbacks.
package tester

import (
	"fmt"

	"github.com/globbie/gsl-go/dispatch"
	"github.com/globbie/gsl-go/spec"
)

// FieldKind selects which of the restricted action shapes a FixtureField
// compiles to.
type FieldKind string

const (
	KindBuffer FieldKind = "buffer"
	KindArray  FieldKind = "array"
	KindRecord FieldKind = "record"
)

// FixtureField is one YAML-describable node of a FixtureSpec's field
// table. Name is omitted (empty) for Role default/implied/validator,
// matching spec.FieldSpec's own "Name nil iff Role != RoleNamed" rule.
type FixtureField struct {
	Name       string         `yaml:"name,omitempty"`
	Role       string         `yaml:"role,omitempty"` // named (default), default, implied, validator
	Selector   bool           `yaml:"selector,omitempty"`
	Kind       FieldKind      `yaml:"kind"`
	BufferSize int            `yaml:"buffer-size,omitempty"` // KindBuffer only, default 256
	Flavour    string         `yaml:"flavour,omitempty"`     // KindRecord only: get-record|set-record (default get-record); KindArray takes get/set from its enclosing table
	Fields     []FixtureField `yaml:"fields,omitempty"`      // KindRecord only
}

// FixtureSpec is the root field table. dispatch.ParseTask always drives
// the root as a get-record enclosure, so unlike a nested KindRecord field
// a FixtureSpec carries no Flavour of its own.
type FixtureSpec struct {
	Fields []FixtureField `yaml:"fields"`
}

func parseFlavour(s string) (spec.Flavour, error) {
	switch s {
	case "", "get-record":
		return spec.GetRecord, nil
	case "set-record":
		return spec.SetRecord, nil
	case "get-array":
		return spec.GetArray, nil
	case "set-array":
		return spec.SetArray, nil
	default:
		return 0, fmt.Errorf("tester: unknown flavour %q", s)
	}
}

func parseRole(s string) (spec.Role, error) {
	switch s {
	case "", "named":
		return spec.RoleNamed, nil
	case "default":
		return spec.RoleDefault, nil
	case "implied":
		return spec.RoleImplied, nil
	case "validator":
		return spec.RoleValidator, nil
	default:
		return 0, fmt.Errorf("tester: unknown role %q", s)
	}
}

// Compile builds a live spec.Table from fs, returning it alongside the
// captured tree it writes matched values into. Run the table with
// dispatch.ParseTask (root flavour GetRecord) or hand it to
// dispatch.ParseRecordBody for a nested call; the returned map is filled
// in place as fields fire.
func Compile(fs FixtureSpec) (spec.Table, map[string]any, error) {
	captured := map[string]any{}
	table, err := compileFields(fs.Fields, spec.GetRecord, captured)
	if err != nil {
		return nil, nil, err
	}
	return table, captured, nil
}

func compileFields(fields []FixtureField, flavour spec.Flavour, captured map[string]any) (spec.Table, error) {
	table := make(spec.Table, 0, len(fields))
	for _, f := range fields {
		s, err := compileField(f, flavour, captured)
		if err != nil {
			return nil, err
		}
		table = append(table, s)
	}
	return table, nil
}

func compileField(f FixtureField, flavour spec.Flavour, captured map[string]any) (*spec.FieldSpec, error) {
	role, err := parseRole(f.Role)
	if err != nil {
		return nil, err
	}
	if role == spec.RoleNamed && f.Name == "" {
		return nil, fmt.Errorf("tester: named field requires a name")
	}

	s := &spec.FieldSpec{
		Flavour:  flavour,
		Role:     role,
		Selector: f.Selector,
	}
	if role == spec.RoleNamed {
		s.Name = []byte(f.Name)
	}

	key := f.Name
	if key == "" {
		switch role {
		case spec.RoleDefault:
			key = "$default"
		case spec.RoleValidator:
			key = "$validator"
		default:
			key = "$implied"
		}
	}

	switch f.Kind {
	case "", KindBuffer:
		if role == spec.RoleDefault {
			// RoleDefault fires via RunAction with a nil value (record.go's
			// finish() asserts the Action is a RunAction); captured records
			// only that it fired, not a value.
			fired := false
			s.Action = spec.RunAction{
				Obj: captured,
				Run: func(_ any, _ []byte) error {
					fired = true
					return nil
				},
			}
			captured[key] = defaultView{fired: &fired}
			break
		}
		size := f.BufferSize
		if size == 0 {
			size = 256
		}
		buf := make([]byte, size)
		var n int
		s.Action = spec.BufferAction{Buf: buf, Len: &n}
		captured[key] = bufferView{buf: buf, n: &n}

	case KindArray:
		var items []string
		item := &spec.FieldSpec{
			Role: spec.RoleListItem,
			Alloc: func(_ any, atom []byte, _ int) (any, error) {
				items = append(items, string(atom))
				return nil, nil
			},
		}
		arrayFlavour := spec.GetArray
		if !flavour.IsGet() {
			arrayFlavour = spec.SetArray
		}
		s.Flavour = arrayFlavour
		s.Action = spec.ParseAction{Parse: dispatch.AsArrayParseCallback(item)}
		captured[key] = arrayView{items: &items}

	case KindRecord:
		childFlavour, err := parseFlavour(f.Flavour)
		if err != nil {
			return nil, err
		}
		childCaptured := map[string]any{}
		childTable, err := compileFields(f.Fields, childFlavour, childCaptured)
		if err != nil {
			return nil, err
		}
		s.Flavour = childFlavour
		s.Action = spec.ParseAction{Parse: dispatch.AsParseCallback(childTable, childFlavour)}
		captured[key] = childCaptured

	default:
		return nil, fmt.Errorf("tester: unknown field kind %q", f.Kind)
	}

	return s, nil
}

// bufferView and arrayView are the lazily-resolved captured leaves
// Resolve flattens into the final map[string]any/[]string/... tree after
// a parse call completes, once *Len and the array slice are settled.
type bufferView struct {
	buf []byte
	n   *int
}

type arrayView struct {
	items *[]string
}

// defaultView is RoleDefault's captured leaf: whether the default action
// ran, not a value (RoleDefault fires with a nil terminal).
type defaultView struct {
	fired *bool
}

// Resolve walks a captured tree produced by Compile, replacing every
// bufferView/arrayView/defaultView leaf with its final string/[]string/
// bool value so the result compares cleanly against a fixture's Want
// tree.
func Resolve(captured map[string]any) map[string]any {
	out := make(map[string]any, len(captured))
	for k, v := range captured {
		switch leaf := v.(type) {
		case bufferView:
			out[k] = string(leaf.buf[:*leaf.n])
		case arrayView:
			if *leaf.items == nil {
				out[k] = []string{}
			} else {
				out[k] = *leaf.items
			}
		case defaultView:
			out[k] = *leaf.fired
		case map[string]any:
			out[k] = Resolve(leaf)
		default:
			out[k] = v
		}
	}
	return out
}
