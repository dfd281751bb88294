package keys

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
)

// ShamirParty holds the exponent pair of one side of the three-pass cipher.
// C⋅D ≡ 1 (mod Modulus - 1).
type ShamirParty struct {
	C, D int64
}

// Shamir is the parameter set of the three-pass cipher: a prime modulus and
// the exponent pairs of the sender and the receiver.
type Shamir struct {
	Modulus  int64
	Sender   ShamirParty
	Receiver ShamirParty
}

// GenerateShamir samples a prime in [params.MinShamirPrime, params.MaxShamirPrime]
// and an exponent pair for each side.
func GenerateShamir(rand io.Reader) (*Shamir, error) {
	mod, err := sample.Prime(rand, params.MinShamirPrime, params.MaxShamirPrime)
	if err != nil {
		return nil, fmt.Errorf("keys: shamir: %w", err)
	}
	sender, err := generateShamirParty(rand, mod)
	if err != nil {
		return nil, err
	}
	receiver, err := generateShamirParty(rand, mod)
	if err != nil {
		return nil, err
	}
	return &Shamir{Modulus: mod, Sender: sender, Receiver: receiver}, nil
}

func generateShamirParty(rand io.Reader, mod int64) (ShamirParty, error) {
	c, d, err := sample.Unit(rand, params.MinShamirPrime, mod-1, mod-1)
	if err != nil {
		return ShamirParty{}, fmt.Errorf("keys: shamir: %w", err)
	}
	return ShamirParty{C: c, D: d}, nil
}

func (k *Shamir) Validate() error {
	if k == nil {
		return fmt.Errorf("keys: shamir: nil key")
	}
	if !arith.IsPrime(k.Modulus) {
		return fmt.Errorf("keys: shamir: modulus %d is not prime", k.Modulus)
	}
	for _, p := range []ShamirParty{k.Sender, k.Receiver} {
		if arith.Mod(p.C*p.D, k.Modulus-1) != 1 {
			return fmt.Errorf("keys: shamir: c⋅d ≢ 1 (mod %d)", k.Modulus-1)
		}
	}
	return nil
}

type shamirMarshal struct {
	Modulus              int64
	SenderC, SenderD     int64
	ReceiverC, ReceiverD int64
}

func (k *Shamir) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&shamirMarshal{
		Modulus:   k.Modulus,
		SenderC:   k.Sender.C,
		SenderD:   k.Sender.D,
		ReceiverC: k.Receiver.C,
		ReceiverD: k.Receiver.D,
	})
}

func (k *Shamir) UnmarshalBinary(data []byte) error {
	var m shamirMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("keys: shamir: %w", err)
	}
	*k = Shamir{
		Modulus:  m.Modulus,
		Sender:   ShamirParty{C: m.SenderC, D: m.SenderD},
		Receiver: ShamirParty{C: m.ReceiverC, D: m.ReceiverD},
	}
	return k.Validate()
}
