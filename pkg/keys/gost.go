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

// GOSTPublic holds the group of a GOST signature: P = B⋅Q + 1 prime, A of order Q
// modulo P, and the public key Y = A^X (mod P).
type GOSTPublic struct {
	P, Q, A int64
	Y       int64
}

// GOST is a signing key over the order-Q subgroup of ℤₚˣ.
type GOST struct {
	GOSTPublic
	X int64
}

// GenerateGOST samples Q ∈ [params.MinGOSTOrder, params.MaxGOSTOrder] prime, then
// a cofactor B so that P = B⋅Q + 1 is a prime below params.MaxGOSTModulus, then
// A = T^B (mod P) > 1 and a private key X ∈ [1, Q-1].
func GenerateGOST(rand io.Reader) (*GOST, error) {
	q, err := sample.Prime(rand, params.MinGOSTOrder, params.MaxGOSTOrder)
	if err != nil {
		return nil, fmt.Errorf("keys: gost: %w", err)
	}

	var b, p int64
	found := false
	for i := 0; i < 1<<16; i++ {
		if b, err = sample.Interval(rand, params.MinGOSTCofactor, params.MaxGOSTModulus/q-1); err != nil {
			return nil, fmt.Errorf("keys: gost: %w", err)
		}
		p = b*q + 1
		if arith.IsPrime(p) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("keys: gost: no prime modulus for order %d: %w", q, protocol.ErrKeyGenerationExhausted)
	}

	var a int64
	for i := 0; i < maxAttempts && a <= 1; i++ {
		t, err := sample.Interval(rand, 1, p-1)
		if err != nil {
			return nil, fmt.Errorf("keys: gost: %w", err)
		}
		a = arith.PowMod(t, b, p)
	}
	if a <= 1 {
		return nil, fmt.Errorf("keys: gost: generator: %w", protocol.ErrKeyGenerationExhausted)
	}

	x, err := sample.Interval(rand, 1, q-1)
	if err != nil {
		return nil, fmt.Errorf("keys: gost: %w", err)
	}
	return &GOST{
		GOSTPublic: GOSTPublic{P: p, Q: q, A: a, Y: arith.PowMod(a, x, p)},
		X:          x,
	}, nil
}

func (k *GOST) Public() GOSTPublic {
	return k.GOSTPublic
}

func (k *GOST) Validate() error {
	if k == nil {
		return fmt.Errorf("keys: gost: nil key")
	}
	if !arith.IsPrime(k.Q) || !arith.IsPrime(k.P) {
		return fmt.Errorf("keys: gost: p = %d and q = %d must be prime", k.P, k.Q)
	}
	if (k.P-1)%k.Q != 0 {
		return fmt.Errorf("keys: gost: q = %d does not divide p - 1", k.Q)
	}
	if k.A <= 1 || arith.PowMod(k.A, k.Q, k.P) != 1 {
		return fmt.Errorf("keys: gost: a = %d does not have order q", k.A)
	}
	if k.X < 1 || k.X >= k.Q {
		return fmt.Errorf("keys: gost: private key out of range")
	}
	if arith.PowMod(k.A, k.X, k.P) != k.Y {
		return fmt.Errorf("keys: gost: public key does not match private key")
	}
	return nil
}

type gostMarshal struct {
	P, Q, A, X, Y int64
}

func (k *GOST) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&gostMarshal{P: k.P, Q: k.Q, A: k.A, X: k.X, Y: k.Y})
}

func (k *GOST) UnmarshalBinary(data []byte) error {
	var m gostMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("keys: gost: %w", err)
	}
	*k = GOST{
		GOSTPublic: GOSTPublic{P: m.P, Q: m.Q, A: m.A, Y: m.Y},
		X:          m.X,
	}
	return k.Validate()
}
