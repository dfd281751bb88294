package signature

import (
	"fmt"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
)

// SignElGamal appends the pair (r, s) for every digest character h, where
// r = gᵏ and s = k⁻¹(h - x⋅r) (mod p-1), with a fresh k per character.
func SignElGamal(rand io.Reader, k *keys.ElGamal, ch io.ReadWriteSeeker) error {
	p := k.Modulus
	return sign(ch, func(h int64) ([]int64, error) {
		session, inv, err := sample.Unit(rand, 1, p-2, p-1)
		if err != nil {
			return nil, fmt.Errorf("signature: elgamal session key: %w", err)
		}
		r := arith.PowMod(k.Base, session, p)
		s := arith.Mod(inv*arith.Mod(h-arith.Mod(k.X*r, p-1), p-1), p-1)
		return []int64{r, s}, nil
	})
}

// VerifyElGamal checks yʳ⋅rˢ ≡ gʰ (mod p) for every pair (r, s).
func VerifyElGamal(pub keys.ElGamalPublic, ch io.ReadSeeker) (bool, error) {
	p := pub.Modulus
	return verify(ch, 2, func(h int64, rs []int64) bool {
		r, s := rs[0], rs[1]
		if r <= 0 || r >= p || s < 0 || s >= p-1 {
			return false
		}
		lhs := arith.Mod(arith.PowMod(pub.Y, r, p)*arith.PowMod(r, s, p), p)
		return lhs == arith.PowMod(pub.Base, h, p)
	})
}
