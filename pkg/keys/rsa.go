// Package keys generates and persists the parameter sets of every scheme.
//
// Each key set is created by rejection sampling from an io.Reader and is
// immutable afterwards. Key sets are stored as CBOR.
package keys

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// maxAttempts caps the outer loops that redraw a whole key set.
const maxAttempts = 255

// RSAPublic is the public part of an RSA key.
type RSAPublic struct {
	N, E int64
}

// RSA is a key pair with E⋅D ≡ 1 (mod φ(N)).
type RSA struct {
	RSAPublic
	D int64
	// P and Q are the factors of N.
	P, Q int64
}

// GenerateRSA returns a key with public exponent 3, and N the product of two
// distinct primes in [params.MinRSAPrime, params.MaxRSAPrime].
func GenerateRSA(rand io.Reader) (*RSA, error) {
	e := int64(params.RSAPublicExponent)
	for i := 0; i < maxAttempts; i++ {
		p, err := sample.Prime(rand, params.MinRSAPrime, params.MaxRSAPrime)
		if err != nil {
			return nil, err
		}
		q, err := sample.Prime(rand, params.MinRSAPrime, params.MaxRSAPrime)
		if err != nil {
			return nil, err
		}
		if p == q {
			continue
		}
		phi := (p - 1) * (q - 1)
		d, ok := arith.Inverse(e, phi)
		if !ok {
			continue
		}
		return &RSA{
			RSAPublic: RSAPublic{N: p * q, E: e},
			D:         d,
			P:         p,
			Q:         q,
		}, nil
	}
	return nil, fmt.Errorf("keys: rsa: %w", protocol.ErrKeyGenerationExhausted)
}

// GenerateVoting returns the key of a voting server: an RSA key whose modulus
// leaves room for a hex digit times any residue in a signed 32-bit record.
func GenerateVoting(rand io.Reader) (*RSA, error) {
	return GenerateRSA(rand)
}

// Public returns the public part of the key.
func (k *RSA) Public() RSAPublic {
	return k.RSAPublic
}

// Phi returns (P-1)(Q-1).
func (k *RSA) Phi() int64 {
	return (k.P - 1) * (k.Q - 1)
}

// Validate checks that the key is consistent.
func (k *RSA) Validate() error {
	if k == nil {
		return fmt.Errorf("keys: rsa: nil key")
	}
	if !arith.IsPrime(k.P) || !arith.IsPrime(k.Q) || k.P == k.Q {
		return fmt.Errorf("keys: rsa: factors %d, %d are not distinct primes", k.P, k.Q)
	}
	if k.N != k.P*k.Q {
		return fmt.Errorf("keys: rsa: modulus %d is not %d⋅%d", k.N, k.P, k.Q)
	}
	phi := k.Phi()
	if arith.Mod(k.E*k.D, phi) != 1 {
		return fmt.Errorf("keys: rsa: e⋅d ≢ 1 (mod φ)")
	}
	return nil
}

type rsaMarshal struct {
	N, E, D, P, Q int64
}

func (k *RSA) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&rsaMarshal{N: k.N, E: k.E, D: k.D, P: k.P, Q: k.Q})
}

func (k *RSA) UnmarshalBinary(data []byte) error {
	var m rsaMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("keys: rsa: %w", err)
	}
	*k = RSA{
		RSAPublic: RSAPublic{N: m.N, E: m.E},
		D:         m.D,
		P:         m.P,
		Q:         m.Q,
	}
	return k.Validate()
}
