package cipher

import (
	"bufio"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
)

// EncryptRSA writes bᵉ (mod N) for every byte b of src.
func EncryptRSA(pub keys.RSAPublic, src io.Reader, dst io.Writer) error {
	w := bufio.NewWriter(dst)
	err := eachByte(src, func(b byte) error {
		return channel.WriteInt64(w, arith.PowMod(int64(b), pub.E, pub.N))
	})
	if err != nil {
		return err
	}
	return flush(w)
}

// DecryptRSA writes cᵈ (mod N) for every record c of src.
func DecryptRSA(k *keys.RSA, src io.Reader, dst io.Writer) error {
	w := bufio.NewWriter(dst)
	err := eachRecord(src, 1, func(rs []int64) error {
		return writeByte(w, arith.PowMod(arith.Mod(rs[0], k.N), k.D, k.N))
	})
	if err != nil {
		return err
	}
	return flush(w)
}
