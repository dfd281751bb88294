package arith

// ExtendedGCD returns (gcd, x, y) such that a⋅x + b⋅y = gcd.
//
// The operands are swapped when a < b, so that the result only depends on the
// unordered pair {a, b}: x is always the coefficient of the larger operand and
// y the coefficient of the smaller one.
func ExtendedGCD(a, b int64) (gcd, x, y int64) {
	if a < b {
		a, b = b, a
	}
	// (r, s, t) with r = a⋅s + b⋅t
	r0, s0, t0 := a, int64(1), int64(0)
	r1, s1, t1 := b, int64(0), int64(1)
	for r1 != 0 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		s0, s1 = s1, s0-q*s1
		t0, t1 = t1, t0-q*t1
	}
	return r0, s0, t0
}

// Inverse returns a⁻¹ (mod m) in [0, m).
// The second return value is false if gcd(a, m) ≠ 1.
func Inverse(a, m int64) (int64, bool) {
	gcd, _, y := ExtendedGCD(Mod(a, m), m)
	if gcd != 1 {
		return 0, false
	}
	return Mod(y, m), true
}

// IsCoprime returns true if gcd(a, b) = 1.
func IsCoprime(a, b int64) bool {
	gcd, _, _ := ExtendedGCD(a, b)
	return gcd == 1
}
