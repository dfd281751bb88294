package keys

import (
	"encoding"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/internal/test"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/pool"
)

type keySet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Validate() error
}

func roundTrip(t *testing.T, k keySet, empty keySet) {
	data, err := k.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, empty.UnmarshalBinary(data))
	assert.Equal(t, k, empty)
}

func TestRSA(t *testing.T) {
	rand := test.Rand(t, "keys")
	for i := 0; i < 10; i++ {
		k, err := GenerateRSA(rand)
		require.NoError(t, err)
		require.NoError(t, k.Validate())
		assert.Equal(t, int64(params.RSAPublicExponent), k.E)
		assert.Less(t, k.N, int64(1<<31-1))

		for _, m := range []int64{0, 1, 2, 48, 102, 255} {
			c := arith.PowMod(m, k.E, k.N)
			assert.Equal(t, m, arith.PowMod(c, k.D, k.N))
		}
	}

	k, err := GenerateVoting(rand)
	require.NoError(t, err)
	roundTrip(t, k, new(RSA))

	k.D++
	assert.Error(t, k.Validate())
	data, err := k.MarshalBinary()
	require.NoError(t, err)
	assert.Error(t, new(RSA).UnmarshalBinary(data))
}

func TestShamir(t *testing.T) {
	k, err := GenerateShamir(test.Rand(t, "keys"))
	require.NoError(t, err)
	require.NoError(t, k.Validate())
	assert.GreaterOrEqual(t, k.Sender.C, int64(params.MinShamirPrime))
	assert.Less(t, k.Receiver.C, k.Modulus)
	roundTrip(t, k, new(Shamir))

	k.Receiver.D++
	assert.Error(t, k.Validate())
}

func TestElGamal(t *testing.T) {
	k, err := GenerateElGamal(test.Rand(t, "keys"), pool.NewPool(0))
	require.NoError(t, err)
	require.NoError(t, k.Validate())
	roundTrip(t, k, new(ElGamal))

	other, err := GenerateElGamalFromDomain(test.Rand(t, "keys"), k.DomainParams)
	require.NoError(t, err)
	assert.Equal(t, k.DomainParams, other.DomainParams)

	k.Y = arith.Mod(k.Y+1, k.Modulus)
	assert.Error(t, k.Validate())
}

func TestGOST(t *testing.T) {
	k, err := GenerateGOST(test.Rand(t, "keys"))
	require.NoError(t, err)
	require.NoError(t, k.Validate())
	assert.GreaterOrEqual(t, k.Q, int64(params.MinGOSTOrder))
	assert.LessOrEqual(t, k.P, int64(params.MaxGOSTModulus))
	roundTrip(t, k, new(GOST))

	k.A = 1
	assert.Error(t, k.Validate())
}

func TestUnmarshalGarbage(t *testing.T) {
	for _, k := range []keySet{new(RSA), new(Shamir), new(ElGamal), new(GOST)} {
		assert.Error(t, k.UnmarshalBinary([]byte{0xff, 0x00}))
	}
}
