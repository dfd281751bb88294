package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations: %w", maxIterations, protocol.ErrKeyGenerationExhausted)

// modN samples an element of ℤₙ.
//
// The bits above the length of n are cleared before comparing, so each attempt
// succeeds with probability at least 1/2.
func modN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	out := new(saferith.Nat)
	bitLen := n.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	mask := byte(0xff >> (8*len(buf) - bitLen))
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, fmt.Errorf("sample: read randomness: %w", err)
		}
		buf[0] &= mask
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			return out, nil
		}
	}
	return nil, ErrMaxIterations
}

// Interval returns a uniform x ∈ [lo, hi].
func Interval(rand io.Reader, lo, hi int64) (int64, error) {
	if hi < lo {
		return 0, fmt.Errorf("sample: empty interval [%d, %d]", lo, hi)
	}
	if hi == lo {
		return lo, nil
	}
	n := saferith.ModulusFromUint64(uint64(hi-lo) + 1)
	x, err := modN(rand, n)
	if err != nil {
		return 0, err
	}
	return lo + int64(x.Big().Uint64()), nil
}

// Unit returns x ∈ [lo, hi] with gcd(x, m) = 1, together with x⁻¹ (mod m) ∈ [0, m).
func Unit(rand io.Reader, lo, hi, m int64) (x, inv int64, err error) {
	for i := 0; i < maxIterations; i++ {
		x, err = Interval(rand, lo, hi)
		if err != nil {
			return 0, 0, err
		}
		var ok bool
		if inv, ok = arith.Inverse(x, m); ok {
			return x, inv, nil
		}
	}
	return 0, 0, ErrMaxIterations
}

// Shuffle permutes xs in place, uniformly, using Fisher-Yates.
func Shuffle(rand io.Reader, xs []int64) error {
	for i := len(xs) - 1; i > 0; i-- {
		j, err := Interval(rand, 0, int64(i))
		if err != nil {
			return err
		}
		xs[i], xs[j] = xs[j], xs[i]
	}
	return nil
}
