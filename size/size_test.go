package size_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/size"
)

func TestParseSize_Basic(t *testing.T) {
	var n uint64
	consumed, err := size.ParseSize(&n, []byte("12345"))
	require.Nil(t, err)
	assert.Equal(t, 5, consumed)
	assert.Equal(t, uint64(12345), n)
}

func TestParseSize_TrailingWhitespaceIgnored(t *testing.T) {
	var n uint64
	consumed, err := size.ParseSize(&n, []byte("42   "))
	require.Nil(t, err)
	assert.Equal(t, 5, consumed)
	assert.Equal(t, uint64(42), n)
}

func TestParseSize_NonDigitIsFormat(t *testing.T) {
	var n uint64
	_, err := size.ParseSize(&n, []byte("abc"))
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Format, err.Kind)
}

func TestParseSize_TrailingJunkIsFormat(t *testing.T) {
	var n uint64
	_, err := size.ParseSize(&n, []byte("123abc"))
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Format, err.Kind)
}

func TestParseSize_Overflow(t *testing.T) {
	var n uint64
	_, err := size.ParseSize(&n, []byte("99999999999999999999999999"))
	require.NotNil(t, err)
	assert.Equal(t, gslerr.Limit, err.Kind)
}

func TestParseSize_Empty(t *testing.T) {
	var n uint64
	consumed, err := size.ParseSize(&n, []byte(""))
	require.Nil(t, err)
	assert.Equal(t, 0, consumed)
	assert.Equal(t, uint64(0), n)
}
