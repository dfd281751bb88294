package signature

import (
	"io"

	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
)

// SignRSA appends hᵈ (mod N) for every digest character h.
func SignRSA(k *keys.RSA, ch io.ReadWriteSeeker) error {
	return sign(ch, func(h int64) ([]int64, error) {
		return []int64{arith.PowMod(h, k.D, k.N)}, nil
	})
}

// VerifyRSA checks sᵉ ≡ h (mod N) for every record s.
func VerifyRSA(pub keys.RSAPublic, ch io.ReadSeeker) (bool, error) {
	return verify(ch, 1, func(h int64, rs []int64) bool {
		return arith.PowMod(rs[0], pub.E, pub.N) == h
	})
}
