package arith

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowMod(t *testing.T) {
	assert.Equal(t, int64(342), PowMod(595, 703, 991))
	assert.Equal(t, int64(57623), PowMod(37612783631, 645813790211, 64581))
	assert.Equal(t, int64(1), PowMod(0, 0, 5))
	assert.Equal(t, int64(0), PowMod(0, 3, 5))
}

func TestPowMod_NegativeBase(t *testing.T) {
	assert.Equal(t, int64(-57623), PowMod(-37612783631, 645813790211, 64581))
	// an even exponent drops the sign
	assert.Equal(t, PowMod(5, 2, 7), PowMod(-5, 2, 7))
	assert.Equal(t, -PowMod(5, 3, 7), PowMod(-5, 3, 7))
}

func TestPowMod_MatchesSaferith(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	for i := 0; i < 200; i++ {
		mod := r.Int63n(1<<31-3) + 2
		base := r.Int63()
		exp := r.Int63()

		m := saferith.ModulusFromUint64(uint64(mod))
		x := new(saferith.Nat).SetUint64(uint64(base % mod))
		e := new(saferith.Nat).SetUint64(uint64(exp))
		expected := new(saferith.Nat).Exp(x, e, m)

		require.Equal(t, expected.Big().Uint64(), uint64(PowMod(base, exp, mod)), "base %d exp %d mod %d", base, exp, mod)
	}
}

func TestMod(t *testing.T) {
	assert.Equal(t, int64(2), Mod(-5, 7))
	assert.Equal(t, int64(5), Mod(5, 7))
	assert.Equal(t, int64(0), Mod(-14, 7))
}

func TestExtendedGCD(t *testing.T) {
	gcd, x, y := ExtendedGCD(240, 46)
	assert.Equal(t, []int64{2, -9, 47}, []int64{gcd, x, y})

	gcd, x, y = ExtendedGCD(1524345121234, 3124312425)
	assert.Equal(t, []int64{13, -30561593, 14910933623}, []int64{gcd, x, y})
}

func TestExtendedGCD_Symmetric(t *testing.T) {
	g1, x1, y1 := ExtendedGCD(3124312425, 1524345121234)
	g2, x2, y2 := ExtendedGCD(1524345121234, 3124312425)
	assert.Equal(t, []int64{13, -30561593, 14910933623}, []int64{g1, x1, y1})
	assert.Equal(t, []int64{g1, x1, y1}, []int64{g2, x2, y2})
}

// bezout checks a⋅x + b⋅y = gcd without overflowing.
func bezout(a, b, gcd, x, y int64) bool {
	if a < b {
		a, b = b, a
	}
	lhs := new(big.Int).Mul(big.NewInt(a), big.NewInt(x))
	lhs.Add(lhs, new(big.Int).Mul(big.NewInt(b), big.NewInt(y)))
	return lhs.Cmp(big.NewInt(gcd)) == 0
}

func TestExtendedGCD_Bezout(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	for i := 0; i < 500; i++ {
		a, b := r.Int63()+1, r.Int63()+1
		gcd, x, y := ExtendedGCD(a, b)
		assert.True(t, bezout(a, b, gcd, x, y), "a = %d, b = %d", a, b)
		assert.Zero(t, a%gcd)
		assert.Zero(t, b%gcd)
	}
}

func FuzzExtendedGCD(f *testing.F) {
	f.Add(int64(240), int64(46))
	f.Add(int64(3124312425), int64(1524345121234))
	f.Add(int64(1), int64(1))

	f.Fuzz(func(t *testing.T, a, b int64) {
		if a <= 0 || b <= 0 {
			t.Skip()
		}
		g1, x1, y1 := ExtendedGCD(a, b)
		g2, x2, y2 := ExtendedGCD(b, a)
		if g1 != g2 || x1 != x2 || y1 != y2 {
			t.Errorf("not symmetric: (%d, %d, %d) != (%d, %d, %d)", g1, x1, y1, g2, x2, y2)
		}
		if !bezout(a, b, g1, x1, y1) {
			t.Errorf("%d, %d are not Bezout coefficients of %d and %d", x1, y1, a, b)
		}
	})
}

func TestInverse(t *testing.T) {
	inv, ok := Inverse(17, 3120)
	require.True(t, ok)
	assert.Equal(t, int64(2753), inv)

	inv, ok = Inverse(3, 40)
	require.True(t, ok)
	assert.Equal(t, int64(27), inv)

	_, ok = Inverse(6, 40)
	assert.False(t, ok)
}

func TestIsPrime(t *testing.T) {
	for _, p := range []int64{2, 3, 5, 7, 991, 14947, 65537, 2147483647} {
		assert.True(t, IsPrime(p), p)
	}
	for _, n := range []int64{-7, 0, 1, 4, 9, 64581, 65535, 2147483649} {
		assert.False(t, IsPrime(n), n)
	}
}

func TestBabyStepGiantStep(t *testing.T) {
	x := BabyStepGiantStep(7, 777, 14947)
	assert.Equal(t, int64(832), x)
	assert.Equal(t, int64(777), PowMod(7, x, 14947))
}

func TestBabyStepGiantStep_NegativeBase(t *testing.T) {
	assert.Equal(t, int64(64991), BabyStepGiantStep(-37612783631, -57623, 64581))
}

func TestBabyStepGiantStep_NoSolution(t *testing.T) {
	assert.Equal(t, int64(-1), BabyStepGiantStep(4, 776, 14947))
}

func TestBabyStepGiantStep_RoundTrip(t *testing.T) {
	const modulus = 14947
	r := mrand.New(mrand.NewSource(2))
	for i := 0; i < 50; i++ {
		e := r.Int63n(modulus - 1)
		target := PowMod(5, e, modulus)
		x := BabyStepGiantStep(5, target, modulus)
		require.NotEqual(t, int64(-1), x)
		assert.Equal(t, target, PowMod(5, x, modulus))
	}
}

func TestDomainParams_Validate(t *testing.T) {
	// 14947 = 2⋅7473 + 1 but 7473 = 3⋅47⋅53
	assert.Error(t, DomainParams{Base: 7, Modulus: 14947}.Validate())
	// 1019 = 2⋅509 + 1, 2 is a generator
	assert.NoError(t, DomainParams{Base: 2, Modulus: 1019}.Validate())
	// 4 is a square, so its order divides 509
	assert.Error(t, DomainParams{Base: 4, Modulus: 1019}.Validate())
}
