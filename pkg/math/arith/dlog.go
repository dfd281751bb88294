package arith

// BabyStepGiantStep solves baseˣ ≡ target (mod modulus) in O(√modulus) time and space.
//
// With m = ⌈√modulus⌉, the giant steps base^(m⋅i) are tabulated for i = 1..m,
// a later i replacing an earlier one when two steps collide. The baby steps
// target⋅baseʲ are then scanned for j = 0..m and the first hit returns i⋅m - j.
// The exponent returned is therefore the first one found in this order, not
// necessarily the smallest, and may exceed the modulus.
//
// -1 is returned when no solution is found, for instance when base and modulus
// share a factor.
func BabyStepGiantStep(base, target, modulus int64) int64 {
	m := ceilSqrt(modulus)

	giant := PowMod(base, m, modulus)
	steps := make(map[int64]int64, m)
	cur := int64(1)
	for i := int64(1); i <= m; i++ {
		cur = (cur * giant) % modulus
		steps[cur] = i
	}

	cur = target % modulus
	for j := int64(0); j <= m; j++ {
		if i, ok := steps[cur]; ok {
			return i*m - j
		}
		cur = (cur * (base % modulus)) % modulus
	}
	return -1
}

// ceilSqrt returns ⌈√n⌉ for n ≥ 0.
func ceilSqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	// Newton iteration on integers for ⌊√n⌋
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	if x*x < n {
		x++
	}
	return x
}
