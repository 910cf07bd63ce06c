package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globbie/gsl-go/dispatch"
	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/spec"
)

func TestParseArray_Atomic(t *testing.T) {
	var tags []string
	item := &spec.FieldSpec{
		Role: spec.RoleListItem,
		Alloc: func(accu any, atom []byte, index int) (any, error) {
			tags = append(tags, string(atom))
			return nil, nil
		},
	}

	n, err := dispatch.ParseArray(item, []byte("red green blue]"))
	require.Nil(t, err)
	assert.Equal(t, 15, n)
	assert.Equal(t, []string{"red", "green", "blue"}, tags)
}

func TestParseArray_Empty(t *testing.T) {
	var calls int
	item := &spec.FieldSpec{
		Role: spec.RoleListItem,
		Alloc: func(accu any, atom []byte, index int) (any, error) {
			calls++
			return nil, nil
		},
	}
	n, err := dispatch.ParseArray(item, []byte("]"))
	require.Nil(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, calls)
}

type contact struct {
	name string
}

func TestParseArray_Records(t *testing.T) {
	var contacts []*contact

	item := &spec.FieldSpec{
		Role: spec.RoleListItem,
		Alloc: func(accu any, _ []byte, index int) (any, error) {
			return &contact{}, nil
		},
		NewItemTable: func(it any) spec.Table {
			c := it.(*contact)
			return spec.Table{
				{
					Flavour: spec.GetRecord,
					Role:    spec.RoleImplied,
					Action: spec.RunAction{
						Obj: c,
						Run: func(obj any, val []byte) error {
							obj.(*contact).name = string(val)
							return nil
						},
					},
				},
			}
		},
		Append: func(accu any, it any) error {
			contacts = append(contacts, it.(*contact))
			return nil
		},
	}

	n, err := dispatch.ParseArray(item, []byte("{Ann} {Bob}]"))
	require.Nil(t, err)
	assert.Equal(t, 12, n)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Ann", contacts[0].name)
	assert.Equal(t, "Bob", contacts[1].name)
}

func TestParseArray_BraceInAtomicTokenIsFormat(t *testing.T) {
	item := &spec.FieldSpec{
		Role: spec.RoleListItem,
		Alloc: func(accu any, atom []byte, index int) (any, error) {
			return nil, nil
		},
	}
	_, err := dispatch.ParseArray(item, []byte("red{green]"))
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Format, err.Kind)
}

func TestAsArrayParseCallback_NamedArrayField(t *testing.T) {
	// Array-valued fields use their own '[...]' as the field's sole
	// enclosure — no extra wrapping brace; the child-field tag-reading
	// rule applies uniformly to '{', '(' and '[' children.
	var tags []string
	item := &spec.FieldSpec{
		Role: spec.RoleListItem,
		Alloc: func(accu any, atom []byte, index int) (any, error) {
			tags = append(tags, string(atom))
			return nil, nil
		},
	}
	tagsSpec := &spec.FieldSpec{
		Flavour: spec.GetArray,
		Name:    []byte("tags"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsArrayParseCallback(item)},
	}
	rootTable := spec.Table{tagsSpec}

	consumed, err := dispatch.ParseTask([]byte("[tags red green]"), rootTable)
	require.Nil(t, err)
	assert.Equal(t, 16, consumed)
	assert.Equal(t, []string{"red", "green"}, tags)
}

func TestAsArrayParseCallback_NamedArrayFieldInsideRecord(t *testing.T) {
	var tags []string
	item := &spec.FieldSpec{
		Role: spec.RoleListItem,
		Alloc: func(accu any, atom []byte, index int) (any, error) {
			tags = append(tags, string(atom))
			return nil, nil
		},
	}
	tagsSpec := &spec.FieldSpec{
		Flavour: spec.GetArray,
		Name:    []byte("tags"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsArrayParseCallback(item)},
	}
	userSpec := &spec.FieldSpec{
		Flavour: spec.GetRecord,
		Name:    []byte("user"),
		Role:    spec.RoleNamed,
		Action:  spec.ParseAction{Parse: dispatch.AsParseCallback(spec.Table{tagsSpec}, spec.GetRecord)},
	}
	rootTable := spec.Table{userSpec}

	consumed, err := dispatch.ParseTask([]byte("{user [tags red green]}"), rootTable)
	require.Nil(t, err)
	assert.Equal(t, 23, consumed)
	assert.Equal(t, []string{"red", "green"}, tags)
}
