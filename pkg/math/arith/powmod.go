// Package arith implements the number-theoretic primitives used by every scheme
// in this module: modular exponentiation, the extended Euclidean algorithm,
// trial-division primality and baby-step giant-step discrete logarithms.
//
// All values are int64. Moduli are expected to stay below 2³¹ so that the
// product of two residues fits in an int64.
package arith

// PowMod returns baseᵉˣᵖ (mod modulus) using square-and-multiply.
//
// The base is reduced with Go's truncating remainder, so a negative base keeps
// its sign and the result may be negative: PowMod(-b, e, m) = -PowMod(b, e, m)
// when e is odd. This convention is relied upon by the ciphers and must not be
// replaced with a canonical residue.
//
// PowMod(b, 0, m) = 1 for every b, including 0. A negative exponent is treated as 0.
func PowMod(base, exp, modulus int64) int64 {
	result := int64(1)
	base %= modulus
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % modulus
		}
		base = (base * base) % modulus
		exp >>= 1
	}
	return result
}

// Mod returns the canonical residue of a modulo m, in [0, m).
func Mod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
