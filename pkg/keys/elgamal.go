package keys

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
	"github.com/taurusgroup/libcrypt/pkg/pool"
)

// ElGamalPublic is the public part of an ElGamal key: Y = Base^X (mod Modulus).
type ElGamalPublic struct {
	arith.DomainParams
	Y int64
}

// ElGamal is a key over a Diffie-Hellman domain.
type ElGamal struct {
	ElGamalPublic
	X int64
}

// GenerateElGamal samples a fresh domain, and a private key X ∈ [2, Modulus-2].
func GenerateElGamal(rand io.Reader, pl *pool.Pool) (*ElGamal, error) {
	domain, err := sample.DHDomain(rand, pl)
	if err != nil {
		return nil, fmt.Errorf("keys: elgamal: %w", err)
	}
	return GenerateElGamalFromDomain(rand, domain)
}

// GenerateElGamalFromDomain samples a private key over an existing domain.
func GenerateElGamalFromDomain(rand io.Reader, domain arith.DomainParams) (*ElGamal, error) {
	x, err := sample.Interval(rand, 2, domain.Modulus-2)
	if err != nil {
		return nil, fmt.Errorf("keys: elgamal: %w", err)
	}
	return &ElGamal{
		ElGamalPublic: ElGamalPublic{
			DomainParams: domain,
			Y:            arith.PowMod(domain.Base, x, domain.Modulus),
		},
		X: x,
	}, nil
}

func (k *ElGamal) Public() ElGamalPublic {
	return k.ElGamalPublic
}

func (k *ElGamal) Validate() error {
	if k == nil {
		return fmt.Errorf("keys: elgamal: nil key")
	}
	if err := k.DomainParams.Validate(); err != nil {
		return fmt.Errorf("keys: elgamal: %w", err)
	}
	if k.X < 2 || k.X > k.Modulus-2 {
		return fmt.Errorf("keys: elgamal: private key out of range")
	}
	if arith.PowMod(k.Base, k.X, k.Modulus) != k.Y {
		return fmt.Errorf("keys: elgamal: public key does not match private key")
	}
	return nil
}

type elgamalMarshal struct {
	Base, Modulus int64
	X, Y          int64
}

func (k *ElGamal) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&elgamalMarshal{Base: k.Base, Modulus: k.Modulus, X: k.X, Y: k.Y})
}

func (k *ElGamal) UnmarshalBinary(data []byte) error {
	var m elgamalMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("keys: elgamal: %w", err)
	}
	*k = ElGamal{
		ElGamalPublic: ElGamalPublic{
			DomainParams: arith.DomainParams{Base: m.Base, Modulus: m.Modulus},
			Y:            m.Y,
		},
		X: m.X,
	}
	return k.Validate()
}
