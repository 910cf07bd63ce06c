package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globbie/gsl-go/dispatch"
	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/spec"
)

// bufSpec builds a named buffer field spec for flavour f.
func bufSpec(name string, f spec.Flavour, buf []byte, n *int) *spec.FieldSpec {
	return &spec.FieldSpec{
		Flavour: f,
		Name:    []byte(name),
		Role:    spec.RoleNamed,
		Action:  spec.BufferAction{Buf: buf, Len: n},
	}
}

func TestParseTask_FlatBufferField(t *testing.T) {
	// Scenario 1: user{name(buf)} / {user John Smith} / OK, consumed=17
	buf := make([]byte, 32)
	var n int
	table := spec.Table{bufSpec("user", spec.GetRecord, buf, &n)}

	consumed, err := dispatch.ParseTask([]byte("{user John Smith}"), table)
	require.Nil(t, err)
	assert.Equal(t, 17, consumed)
	assert.Equal(t, "John Smith", string(buf[:n]))
}

func TestParseTask_NestedImpliedAndNamedChild(t *testing.T) {
	// Scenario 2: user{name(buf), sid(buf)} /
	// {user John Smith{sid 123456}} / OK, name="John Smith", sid="123456"
	nameBuf := make([]byte, 32)
	sidBuf := make([]byte, 32)
	var nameN, sidN int

	childTable := spec.Table{
		{
			Flavour: spec.GetRecord,
			Role:    spec.RoleImplied,
			Action:  spec.BufferAction{Buf: nameBuf, Len: &nameN},
		},
		bufSpec("sid", spec.GetRecord, sidBuf, &sidN),
	}

	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action: spec.ParseAction{
			Parse: dispatch.AsParseCallback(childTable, spec.GetRecord),
		},
	}
	rootTable := spec.Table{userSpec}

	consumed, err := dispatch.ParseTask([]byte("{user John Smith{sid 123456}}"), rootTable)
	require.Nil(t, err)
	assert.Equal(t, 29, consumed)
	assert.Equal(t, "John Smith", string(nameBuf[:nameN]))
	assert.Equal(t, "123456", string(sidBuf[:sidN]))
}

func TestParseTask_Default(t *testing.T) {
	// Scenario 3: user{name(buf), default->"(none)"} / {user} / OK, name="(none)"
	nameBuf := make([]byte, 32)
	var nameN int
	defaultFired := false

	childTable := spec.Table{
		bufSpec("name", spec.GetRecord, nameBuf, &nameN),
		{
			Flavour: spec.GetRecord,
			Role:    spec.RoleDefault,
			Action: spec.RunAction{
				Obj: &nameN,
				Run: func(obj any, val []byte) error {
					defaultFired = true
					n := copy(nameBuf, "(none)")
					*(obj.(*int)) = n
					return nil
				},
			},
		},
	}
	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(childTable, spec.GetRecord)},
	}
	rootTable := spec.Table{userSpec}

	_, err := dispatch.ParseTask([]byte("{user}"), rootTable)
	require.Nil(t, err)
	assert.True(t, defaultFired)
	assert.Equal(t, "(none)", string(nameBuf[:nameN]))
}

func TestParseTask_Validator(t *testing.T) {
	// Scenario 4: user{email(validate)} distinguishing home/work.
	var kind, addr string

	emailTable := spec.Table{
		{
			Flavour: spec.GetRecord,
			Role:    spec.RoleValidator,
			Action: spec.ValidateAction{
				Obj: nil,
				Validate: func(_ any, name []byte, rec []byte) (int, error) {
					var buf [64]byte
					var n int
					addrTable := spec.Table{
						{
							Flavour: spec.GetRecord,
							Role:    spec.RoleImplied,
							Action:  spec.BufferAction{Buf: buf[:], Len: &n},
						},
					}
					consumed, err := dispatch.ParseRecordBody(rec, addrTable, spec.GetRecord)
					if err != nil {
						return consumed, err
					}
					kind = string(name)
					addr = string(buf[:n])
					return consumed, nil
				},
			},
		},
	}
	emailSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("email"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(emailTable, spec.GetRecord)},
	}
	userTable := spec.Table{emailSpec}
	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(userTable, spec.GetRecord)},
	}
	rootTable := spec.Table{userSpec}

	_, err := dispatch.ParseTask([]byte("{user {email {home john@x.com}}}"), rootTable)
	require.Nil(t, err)
	assert.Equal(t, "home", kind)
	assert.Equal(t, "john@x.com", addr)
}

func TestParseTask_BufferLimit(t *testing.T) {
	// Scenario 6: sid(buf cap 6) / {user {sid 1234567}} / LIMIT, buffer untouched
	sidBuf := make([]byte, 6)
	var sidN int
	childTable := spec.Table{bufSpec("sid", spec.GetRecord, sidBuf, &sidN)}
	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(childTable, spec.GetRecord)},
	}
	rootTable := spec.Table{userSpec}

	_, err := dispatch.ParseTask([]byte("{user {sid 1234567}}"), rootTable)
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Limit, err.Kind)
	assert.Equal(t, 0, sidN)
}

func TestParseTask_DuplicateFieldIsExists(t *testing.T) {
	// Scenario 7: sid fires twice -> EXISTS, first write retained.
	sidBuf := make([]byte, 32)
	var sidN int
	childTable := spec.Table{bufSpec("sid", spec.GetRecord, sidBuf, &sidN)}
	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(childTable, spec.GetRecord)},
	}
	rootTable := spec.Table{userSpec}

	_, err := dispatch.ParseTask([]byte("{user {sid 123456} {sid 111}}"), rootTable)
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Exists, err.Kind)
	assert.Equal(t, "123456", string(sidBuf[:sidN]))
}

func TestParseTask_BraceInsideTerminalIsFormat(t *testing.T) {
	// Scenario 8: {user John{Smith}} / FORMAT, offset at inner '{'
	buf := make([]byte, 32)
	var n int
	table := spec.Table{bufSpec("user", spec.GetRecord, buf, &n)}

	_, err := dispatch.ParseTask([]byte("{user John{Smith}}"), table)
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Format, err.Kind)
	assert.Equal(t, 10, err.Offset) // index of the inner '{'
}

func TestParseTask_EmptyAndWhitespaceInput(t *testing.T) {
	table := spec.Table{}

	consumed, err := dispatch.ParseTask([]byte(""), table)
	require.Nil(t, err)
	assert.Equal(t, 0, consumed)

	consumed, err = dispatch.ParseTask([]byte("   \t\n"), table)
	require.Nil(t, err)
	assert.Equal(t, 5, consumed)
}

func TestParseTask_NoMatchWithoutDefault(t *testing.T) {
	table := spec.Table{}
	_, err := dispatch.ParseTask([]byte("}"), table)
	require.NotNil(t, err)
	assert.Equal(t, gslerr.NoMatch, err.Kind)
}

func TestParseTask_UnknownTagIsNoMatch(t *testing.T) {
	buf := make([]byte, 32)
	var n int
	table := spec.Table{bufSpec("user", spec.GetRecord, buf, &n)}

	_, err := dispatch.ParseTask([]byte("{stranger x}"), table)
	require.NotNil(t, err)
	assert.Equal(t, gslerr.NoMatch, err.Kind)
}

func TestParseTask_EmptyTagIsFormat(t *testing.T) {
	table := spec.Table{}
	_, err := dispatch.ParseTask([]byte("{ x}"), table)
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Format, err.Kind)
}

func TestParseTask_CommentInsideTerminalIsFormat(t *testing.T) {
	buf := make([]byte, 32)
	var n int
	table := spec.Table{bufSpec("user", spec.GetRecord, buf, &n)}

	consumed, err := dispatch.ParseTask([]byte("{user John{- a nested {note} -}}"), table)
	require.NotNil(t, err) // comment only valid as a child, not inside a terminal value
	assert.Equal(t, gslerr.Format, err.Kind)
	_ = consumed
}

func TestParseTask_CommentFieldAmongChildren(t *testing.T) {
	nameBuf := make([]byte, 32)
	var nameN int
	childTable := spec.Table{
		{
			Flavour: spec.GetRecord,
			Role:    spec.RoleImplied,
			Action:  spec.BufferAction{Buf: nameBuf, Len: &nameN},
		},
	}
	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(childTable, spec.GetRecord)},
	}
	rootTable := spec.Table{userSpec}

	_, err := dispatch.ParseTask([]byte("{user John Smith{- ignored {still ignored} -}}"), rootTable)
	require.Nil(t, err)
	assert.Equal(t, "John Smith", string(nameBuf[:nameN]))
}
