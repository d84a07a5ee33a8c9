package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btf/btfdump/pkg/btf/wire"
)

func TestStringPoolGet(t *testing.T) {
	pool, err := wire.NewStringPool([]byte("\x00foo\x00bar\x00"))
	require.NoError(t, err)

	s, err := pool.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = pool.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "foo", s)

	s, err = pool.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "bar", s)
}

func TestStringPoolRejectsMissingLeadingNull(t *testing.T) {
	_, err := wire.NewStringPool([]byte("foo\x00"))
	assert.Error(t, err)
}

func TestStringPoolRejectsOutOfBoundsOffset(t *testing.T) {
	pool, err := wire.NewStringPool([]byte("\x00foo\x00"))
	require.NoError(t, err)
	_, err = pool.Get(100)
	assert.ErrorIs(t, err, wire.ErrBadStringOffset)
}

func TestStringPoolRejectsUnterminated(t *testing.T) {
	pool, err := wire.NewStringPool([]byte{0, 'a', 'b'})
	require.NoError(t, err)
	_, err = pool.Get(1)
	assert.ErrorIs(t, err, wire.ErrBadStringOffset)
}
