package arith

// IsPrime checks n for primality by trial division up to ⌊√n⌋.
//
// This is only meant for the small moduli used in this module (up to ~2³¹).
func IsPrime(n int64) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := int64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
