// Package spec declares the field-spec table the dispatch package
// consumes: what field names a record or array expects, and what action
// fires for each.
package spec

// Flavour distinguishes the four bracket worlds a FieldSpec can match.
type Flavour int

const (
	GetRecord Flavour = iota
	SetRecord
	GetArray
	SetArray
)

func (f Flavour) String() string {
	switch f {
	case GetRecord:
		return "get-record"
	case SetRecord:
		return "set-record"
	case GetArray:
		return "get-array"
	case SetArray:
		return "set-array"
	default:
		return "flavour(?)"
	}
}

// IsArray reports whether f names an array enclosure ('[...]').
func (f Flavour) IsArray() bool {
	return f == GetArray || f == SetArray
}

// IsGet reports whether f opens with '{' rather than '('.
func (f Flavour) IsGet() bool {
	return f == GetRecord || f == GetArray
}

// Role is the mutually-exclusive role a FieldSpec plays in its table.
// It replaces the is_default/is_implied/is_validator/is_list boolean
// ladder of the original C struct with enum exhaustiveness (Design
// Notes §9).
type Role int

const (
	// RoleNamed is an ordinary field matched by name. Name must be set.
	RoleNamed Role = iota
	// RoleDefault fires once at record end if no non-selector field fired.
	RoleDefault
	// RoleImplied accepts the leading unnamed value of the enclosing record.
	RoleImplied
	// RoleValidator is the catch-all matched when no named spec matches.
	RoleValidator
	// RoleListItem is the per-element spec supplied to ParseArray.
	RoleListItem
)

func (r Role) String() string {
	switch r {
	case RoleNamed:
		return "named"
	case RoleDefault:
		return "default"
	case RoleImplied:
		return "implied"
	case RoleValidator:
		return "validator"
	case RoleListItem:
		return "list-item"
	default:
		return "role(?)"
	}
}

// Action is a tagged union of the four ways a FieldSpec can consume its
// matched value. Exactly one concrete type populates FieldSpec.Action.
type Action interface {
	isAction()
}

// BufferAction copies a terminal atom into a caller-owned buffer. Len
// must point at a caller-owned int that starts at 0; the dispatcher sets
// *Len to the number of bytes copied into Buf.
type BufferAction struct {
	Buf []byte
	Len *int
}

func (BufferAction) isAction() {}

// RunAction invokes Run with the matched terminal atom's bytes (or nil
// for a fired RoleDefault spec, which has no value to report). A
// RoleImplied spec fires only with a non-empty value.
type RunAction struct {
	Obj any
	Run func(obj any, val []byte) error
}

func (RunAction) isAction() {}

// ParseAction re-enters record parsing for a nested record or array
// field. The dispatcher invokes Parse with rec positioned right after the
// field's tag — the body that belongs to this field, not bracketed by a
// fresh opening brace of its own (an implied value and any further named
// children share the same enclosing pair the tag was found in). Parse
// must return the number of bytes of rec it consumed, up to and
// including the enclosure's matching closing brace.
type ParseAction struct {
	Obj   any
	Parse func(obj any, rec []byte) (consumed int, err error)
}

func (ParseAction) isAction() {}

// ValidateAction is the action of a RoleValidator spec: it receives the
// unmatched tag in addition to the record tail, and is otherwise framed
// exactly like ParseAction.
type ValidateAction struct {
	Obj      any
	Validate func(obj any, name []byte, rec []byte) (consumed int, err error)
}

func (ValidateAction) isAction() {}

// FieldSpec declares one expected construct within an enclosing record or
// array.
//
// Flavour names the bracket kind a RoleNamed spec's own enclosure opens
// with — GetRecord/SetRecord for '{'/'(' children, GetArray/SetArray for
// '[' children. A record's table therefore routinely mixes flavours: a
// get-record containing both an ordinary named field (Flavour:
// GetRecord) and an array-valued one (Flavour: GetArray) is normal,
// since '[' is unambiguous on its own and an array field carries no
// extra wrapping brace of its own — its tag is read directly inside its
// '[...]', the same as a record field's tag is read inside its '{...}'.
type FieldSpec struct {
	Flavour  Flavour
	Name     []byte // nil iff Role != RoleNamed
	Role     Role
	Selector bool // orthogonal to Role; only meaningful when Role == RoleNamed
	Action   Action

	// List-item protocol, RoleListItem only. Alloc creates the i-th item
	// (receiving the element atom for atomic arrays, empty for record
	// arrays). Accu is the caller-owned accumulator passed through to
	// Alloc and Append.
	//
	// The array is atomic iff NewItemTable is nil: Alloc is called once
	// per whitespace-separated token and no Append is expected. When
	// NewItemTable is set, each '{...}'/'(...)' item is allocated empty,
	// its body is parsed by the table NewItemTable(item) returns (with
	// item supplied as the Obj every action in that table should use),
	// and Append finalises it.
	Accu        any
	Alloc       func(accu any, name []byte, index int) (item any, err error)
	NewItemTable func(item any) Table
	Append      func(accu any, item any) error
}

// Table is an ordered collection of field specs, immutable for the
// duration of a parse call. Unlike the original C gslTaskSpec, a Table
// carries no mutable "completed" latch — see Progress in table.go.
type Table []*FieldSpec
