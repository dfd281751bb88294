package signature

import (
	"fmt"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

const maxSessionAttempts = 255

// SignGOST appends the pair (r, s) for every digest character h, where
// r = (aᵏ mod p) mod q and s = x⋅r + k⋅h (mod q), both non zero.
func SignGOST(rand io.Reader, k *keys.GOST, ch io.ReadWriteSeeker) error {
	return sign(ch, func(h int64) ([]int64, error) {
		for i := 0; i < maxSessionAttempts; i++ {
			session, err := sample.Interval(rand, 1, k.Q-1)
			if err != nil {
				return nil, fmt.Errorf("signature: gost session key: %w", err)
			}
			r := arith.PowMod(k.A, session, k.P) % k.Q
			if r == 0 {
				continue
			}
			s := (k.X*r + session*h) % k.Q
			if s == 0 {
				continue
			}
			return []int64{r, s}, nil
		}
		return nil, fmt.Errorf("signature: gost: %w", protocol.ErrKeyGenerationExhausted)
	})
}

// VerifyGOST checks, with v = h^(q-2) (mod q), that (a^(s⋅v) ⋅ y^((q-r)⋅v) mod p) mod q = r.
func VerifyGOST(pub keys.GOSTPublic, ch io.ReadSeeker) (bool, error) {
	q, p := pub.Q, pub.P
	return verify(ch, 2, func(h int64, rs []int64) bool {
		r, s := rs[0], rs[1]
		if r <= 0 || r >= q || s <= 0 || s >= q {
			return false
		}
		v := arith.PowMod(h, q-2, q)
		z1 := s * v % q
		z2 := (q - r) * v % q
		u := arith.PowMod(pub.A, z1, p) * arith.PowMod(pub.Y, z2, p) % p % q
		return u == r
	})
}
