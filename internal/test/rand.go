// Package test contains helpers shared by the tests of every package.
package test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
)

// Rand returns a deterministic source of randomness, distinct for every test and info.
func Rand(t testing.TB, info string) io.Reader {
	t.Helper()
	r, err := sample.NewSeededReader([]byte(t.Name()), info)
	require.NoError(t, err)
	return r
}

// SafeModulus returns 2p + 1 for a safe prime p.
func SafeModulus(t testing.TB, rand io.Reader) int64 {
	t.Helper()
	p, err := sample.SafePrime(rand, nil)
	require.NoError(t, err)
	return 2*p + 1
}

// Channel opens a fresh in-memory channel, closed when the test ends.
func Channel(t testing.TB, name string) channel.Channel {
	t.Helper()
	ch, err := channel.NewMemoryOpener().Open(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })
	return ch
}
