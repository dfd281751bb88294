package cipher

import (
	"bufio"
	"fmt"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
)

// EncryptElGamal writes the pair (gᵏ, b⋅yᵏ) for every byte b of src, with a fresh
// session key k ∈ [1, p-2] invertible modulo p - 1 per byte.
func EncryptElGamal(rand io.Reader, pub keys.ElGamalPublic, src io.Reader, dst io.Writer) error {
	p := pub.Modulus
	w := bufio.NewWriter(dst)
	err := eachByte(src, func(b byte) error {
		k, _, err := sample.Unit(rand, 1, p-2, p-1)
		if err != nil {
			return fmt.Errorf("cipher: elgamal session key: %w", err)
		}
		if err = channel.WriteInt64(w, arith.PowMod(pub.Base, k, p)); err != nil {
			return err
		}
		return channel.WriteInt64(w, arith.Mod(int64(b)*arith.PowMod(pub.Y, k, p), p))
	})
	if err != nil {
		return err
	}
	return flush(w)
}

// DecryptElGamal recovers b = c₂⋅c₁^(p-1-x) from every pair of records.
func DecryptElGamal(k *keys.ElGamal, src io.Reader, dst io.Writer) error {
	p := k.Modulus
	w := bufio.NewWriter(dst)
	err := eachRecord(src, 2, func(rs []int64) error {
		b := arith.Mod(arith.Mod(rs[1], p)*arith.PowMod(rs[0], p-1-k.X, p), p)
		return writeByte(w, b)
	})
	if err != nil {
		return err
	}
	return flush(w)
}
