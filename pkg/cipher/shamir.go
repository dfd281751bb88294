package cipher

import (
	"bufio"
	"io"

	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// EncryptShamir runs the first two passes of the three-pass protocol on every
// byte of src: the sender's exponent, then the receiver's.
//
// Bytes are taken as signed, so bytes above 0x7f are encrypted as negative
// numbers and their records are negative.
func EncryptShamir(k *keys.Shamir, src io.Reader, dst io.Writer) error {
	w := bufio.NewWriter(dst)
	err := eachByte(src, func(b byte) error {
		m := int64(int8(b))
		c := arith.PowMod(arith.PowMod(m, k.Sender.C, k.Modulus), k.Receiver.C, k.Modulus)
		return channel.WriteInt64(w, c)
	})
	if err != nil {
		return err
	}
	return flush(w)
}

// DecryptShamir removes the sender's layer, then the receiver's.
func DecryptShamir(k *keys.Shamir, src io.Reader, dst io.Writer) error {
	w := bufio.NewWriter(dst)
	err := eachRecord(src, 1, func(rs []int64) error {
		m := arith.PowMod(arith.PowMod(rs[0], k.Sender.D, k.Modulus), k.Receiver.D, k.Modulus)
		if m < -0x80 || m > 0x7f {
			return protocol.Violation("decrypt", "", "record decrypts to %d, not a byte", m)
		}
		return writeByte(w, int64(byte(int8(m))))
	})
	if err != nil {
		return err
	}
	return flush(w)
}
