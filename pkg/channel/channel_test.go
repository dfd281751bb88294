package channel

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

func openers(t *testing.T) map[string]*FS {
	osOpener, err := NewOSOpener(t.TempDir())
	require.NoError(t, err)
	return map[string]*FS{
		"os":     osOpener,
		"memory": NewMemoryOpener(),
	}
}

func TestRecords(t *testing.T) {
	for name, o := range openers(t) {
		t.Run(name, func(t *testing.T) {
			ch, err := o.Open("records")
			require.NoError(t, err)
			defer ch.Close()

			require.NoError(t, WriteUint64(ch, 1<<63+5))
			require.NoError(t, WriteInt32(ch, -42))
			require.NoError(t, WriteInt64(ch, -57623))

			off, err := Offset(ch)
			require.NoError(t, err)
			assert.Equal(t, int64(20), off)

			size, err := Size(ch)
			require.NoError(t, err)
			assert.Equal(t, int64(20), size)

			require.NoError(t, Rewind(ch))
			u, err := ReadUint64(ch)
			require.NoError(t, err)
			assert.Equal(t, uint64(1<<63+5), u)
			i32, err := ReadInt32(ch)
			require.NoError(t, err)
			assert.Equal(t, int32(-42), i32)
			i64, err := ReadInt64(ch)
			require.NoError(t, err)
			assert.Equal(t, int64(-57623), i64)

			_, err = ReadInt32(ch)
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestPartialRecord(t *testing.T) {
	ch, err := NewMemoryOpener().Open("partial")
	require.NoError(t, err)
	require.NoError(t, WriteInt32(ch, 7))
	require.NoError(t, Rewind(ch))

	_, err = ReadInt64(ch)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
}

func TestStringRecord(t *testing.T) {
	ch, err := NewMemoryOpener().Open("strings")
	require.NoError(t, err)
	require.NoError(t, WriteString(ch, "3f2504e0-4f89-11d3-9a0c-0305e82c3301-3"))
	require.NoError(t, WriteString(ch, ""))
	require.NoError(t, Rewind(ch))

	s, err := ReadString(ch)
	require.NoError(t, err)
	assert.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301-3", s)
	s, err = ReadString(ch)
	require.NoError(t, err)
	assert.Empty(t, s)
	_, err = ReadString(ch)
	assert.Equal(t, io.EOF, err)

	// length prefix without its bytes
	require.NoError(t, WriteUint64(ch, 4))
	_, err = ch.Seek(-8, io.SeekEnd)
	require.NoError(t, err)
	_, err = ReadString(ch)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))

	require.NoError(t, WriteUint64(ch, MaxStringLength+1))
	_, err = ch.Seek(-8, io.SeekEnd)
	require.NoError(t, err)
	_, err = ReadString(ch)
	assert.True(t, errors.Is(err, protocol.ErrProtocolViolation))
}

func TestOpenTruncates(t *testing.T) {
	o := NewMemoryOpener()
	ch, err := o.Open("a")
	require.NoError(t, err)
	require.NoError(t, WriteInt64(ch, 1))
	require.NoError(t, ch.Close())

	again, err := o.Reopen("a")
	require.NoError(t, err)
	v, err := ReadInt64(again)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	require.NoError(t, again.Close())

	ch, err = o.Open("a")
	require.NoError(t, err)
	size, err := Size(ch)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestOpenFailure(t *testing.T) {
	o := NewFSOpener(afero.NewReadOnlyFs(afero.NewMemMapFs()))
	_, err := o.Open("nope")
	assert.True(t, errors.Is(err, protocol.ErrResource))

	_, err = NewMemoryOpener().Reopen("missing")
	assert.True(t, errors.Is(err, protocol.ErrResource))
}
