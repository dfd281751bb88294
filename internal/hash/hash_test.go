package hash

import (
	"bytes"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	var err error

	testFunc := func(vs ...interface{}) error {
		h := New("test")
		for _, v := range vs {
			err = h.WriteAny(v)
			if err != nil {
				return err
			}
		}
		return nil
	}

	assert.NoError(t, testFunc(int64(35)))
	assert.NoError(t, testFunc([]int64{2, 3, 4}))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc(&BytesWithDomain{TheDomain: "x", Bytes: []byte{1}}))

	assert.Error(t, testFunc("not supported"))

	assert.NoError(t, testFunc(int64(35), []byte{1, 4, 6}))
}

func TestHash_DomainSeparation(t *testing.T) {
	a, b := New("a"), New("b")
	assert.False(t, bytes.Equal(a.Sum(), b.Sum()))

	// the same bytes under different types must not collide
	h1, h2 := New("test"), New("test")
	require.NoError(t, h1.WriteAny(int64(1)))
	require.NoError(t, h2.WriteAny([]int64{1}))
	assert.False(t, bytes.Equal(h1.Sum(), h2.Sum()))
}

func TestHash_Commit(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	h := New("commit")

	c, d, err := h.Commit(r, int64(17), int64(2753))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	require.NoError(t, d.Validate())

	assert.True(t, h.Decommit(c, d, int64(17), int64(2753)))
	assert.False(t, h.Decommit(c, d, int64(17), int64(2754)))

	d[0] ^= 1
	assert.False(t, h.Decommit(c, d, int64(17), int64(2753)))
}
