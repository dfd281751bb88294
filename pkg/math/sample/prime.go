package sample

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/taurusgroup/libcrypt/internal/params"
	"github.com/taurusgroup/libcrypt/pkg/math/arith"
	"github.com/taurusgroup/libcrypt/pkg/pool"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// maxPrimeIterations caps the number of candidates tried by a prime search.
//
// Safe primes near 2³⁰ have a density of about 1/400, so this leaves plenty of room.
const maxPrimeIterations = 1 << 20

// Prime returns a prime p ∈ [lo, hi].
func Prime(rand io.Reader, lo, hi int64) (int64, error) {
	for i := 0; i < maxPrimeIterations; i++ {
		p, err := Interval(rand, lo, hi)
		if err != nil {
			return 0, err
		}
		if arith.IsPrime(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("sample: no prime in [%d, %d] after %d candidates: %w", lo, hi, maxPrimeIterations, protocol.ErrKeyGenerationExhausted)
}

// SafePrime returns a prime p such that 2p + 1 is also prime,
// with p ∈ [params.MinSafePrime, params.MaxSafePrime].
//
// The search is spread over the workers of pl, which may be nil.
func SafePrime(rand io.Reader, pl *pool.Pool) (int64, error) {
	reader := pool.NewLockedReader(rand)
	var (
		readErr  error
		readOnce sync.Once
	)
	p, err := pool.Search(context.Background(), pl, maxPrimeIterations, func() (int64, bool) {
		// safe primes are 3 mod 4, so p itself must be odd
		p, err := Interval(reader, params.MinSafePrime, params.MaxSafePrime)
		if err != nil {
			readOnce.Do(func() { readErr = err })
			return 0, false
		}
		p |= 1
		return p, arith.IsPrime(p) && arith.IsPrime(2*p+1)
	})
	if errors.Is(err, pool.ErrSearchExhausted) {
		// Search has returned, so no worker writes readErr anymore
		if readErr != nil {
			return 0, readErr
		}
		return 0, fmt.Errorf("sample: safe prime: %w: %w", err, protocol.ErrKeyGenerationExhausted)
	}
	return p, err
}

// DHDomain returns a modulus 2p + 1 with p a safe prime, and a base of order 2p.
func DHDomain(rand io.Reader, pl *pool.Pool) (arith.DomainParams, error) {
	p, err := SafePrime(rand, pl)
	if err != nil {
		return arith.DomainParams{}, err
	}
	modulus := 2*p + 1
	for i := 0; i < maxIterations; i++ {
		base, err := Interval(rand, 2, p)
		if err != nil {
			return arith.DomainParams{}, err
		}
		if arith.PowMod(base, p, modulus) != 1 {
			return arith.DomainParams{Base: base, Modulus: modulus}, nil
		}
	}
	return arith.DomainParams{}, ErrMaxIterations
}
