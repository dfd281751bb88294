package arith

import "fmt"

// DomainParams holds a generator and a safe prime modulus for discrete-log based schemes.
//
// Modulus = 2p + 1 with p prime, and Base^p ≢ 1 (mod Modulus).
type DomainParams struct {
	Base    int64
	Modulus int64
}

// Order returns p = (Modulus - 1) / 2.
func (d DomainParams) Order() int64 {
	return (d.Modulus - 1) / 2
}

// Validate checks that Modulus is a safe prime and that Base satisfies Base^p ≠ 1.
func (d DomainParams) Validate() error {
	if !IsPrime(d.Modulus) {
		return fmt.Errorf("domain: modulus %d is not prime", d.Modulus)
	}
	p := d.Order()
	if !IsPrime(p) {
		return fmt.Errorf("domain: (modulus - 1) / 2 = %d is not prime", p)
	}
	if d.Base < 2 || d.Base > p {
		return fmt.Errorf("domain: base %d not in [2, %d]", d.Base, p)
	}
	if PowMod(d.Base, p, d.Modulus) == 1 {
		return fmt.Errorf("domain: base %d has order dividing %d", d.Base, p)
	}
	return nil
}
