package willcrypt

import (
	"github.com/holiman/uint256"
)

// Curve constants for secp256k1. These are compile-time initialized and never
// mutated, so they are safe to share across concurrent callers.
var (
	// curveP is the field prime 2^256 - 2^32 - 977.
	curveP = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")

	// curveN is the group order of the secp256k1 generator.
	curveN = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	// curveNHalf is floor(n/2), the canonical-form boundary for s.
	curveNHalf = uint256.MustFromHex("0x7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0")

	// curveB is the constant term of the curve equation y^2 = x^3 + 7.
	curveB = uint256.NewInt(7)

	// sqrtExp is (p+1)/4. Because p = 3 mod 4, a^sqrtExp is a square root
	// of a whenever one exists.
	sqrtExp = uint256.MustFromHex("0x3fffffffffffffffffffffffffffffffffffffffffffffffffffffffbfffff0c")
)

// FieldElement is an integer modulo the secp256k1 field prime, always held
// reduced into [0, p). Operations are value-to-value: no method mutates its
// receiver or arguments.
type FieldElement struct {
	n uint256.Int
}

// feFromBytes builds a field element from a 32-byte big-endian encoding,
// reducing modulo p.
func feFromBytes(b []byte) (FieldElement, error) {
	if len(b) != 32 {
		return FieldElement{}, errFormatf("field element: need 32 bytes, got %d", len(b))
	}
	var fe FieldElement
	fe.n.SetBytes(b)
	fe.n.Mod(&fe.n, curveP)
	return fe, nil
}

// feFromUint builds a small field element.
func feFromUint(v uint64) FieldElement {
	var fe FieldElement
	fe.n.SetUint64(v)
	return fe
}

// Add returns a+b mod p.
func (a FieldElement) Add(b FieldElement) FieldElement {
	var r FieldElement
	r.n.AddMod(&a.n, &b.n, curveP)
	return r
}

// Sub returns a-b mod p.
func (a FieldElement) Sub(b FieldElement) FieldElement {
	var r FieldElement
	if a.n.Lt(&b.n) {
		var d uint256.Int
		d.Sub(&b.n, &a.n)
		r.n.Sub(curveP, &d)
	} else {
		r.n.Sub(&a.n, &b.n)
	}
	return r
}

// Mul returns a*b mod p.
func (a FieldElement) Mul(b FieldElement) FieldElement {
	var r FieldElement
	r.n.MulMod(&a.n, &b.n, curveP)
	return r
}

// Square returns a^2 mod p.
func (a FieldElement) Square() FieldElement {
	return a.Mul(a)
}

// Neg returns -a mod p.
func (a FieldElement) Neg() FieldElement {
	var r FieldElement
	if !a.n.IsZero() {
		r.n.Sub(curveP, &a.n)
	}
	return r
}

// Inv returns a^-1 mod p. It panics on zero: inverting a non-invertible
// element is a contract violation, not a recoverable runtime condition.
func (a FieldElement) Inv() FieldElement {
	var r FieldElement
	r.n = *modInverse(&a.n, curveP)
	return r
}

// Sqrt returns a square root of a when one exists. Since p = 3 mod 4 the
// candidate root is a^((p+1)/4); the ok result reports whether squaring the
// candidate gives back a.
func (a FieldElement) Sqrt() (FieldElement, bool) {
	var r FieldElement
	r.n = *modPow(&a.n, sqrtExp, curveP)
	var check uint256.Int
	check.MulMod(&r.n, &r.n, curveP)
	return r, check.Eq(&a.n)
}

// IsZero reports whether a is the zero element.
func (a FieldElement) IsZero() bool { return a.n.IsZero() }

// IsOdd reports the parity of the reduced representative.
func (a FieldElement) IsOdd() bool { return a.n[0]&1 == 1 }

// Equal reports whether two field elements have the same reduced value.
func (a FieldElement) Equal(b FieldElement) bool { return a.n.Eq(&b.n) }

// Bytes32 returns the 32-byte big-endian encoding.
func (a FieldElement) Bytes32() [32]byte { return a.n.Bytes32() }

// bit extracts bit i (little-endian bit order) of x.
func bit(x *uint256.Int, i int) uint64 {
	return (x[i/64] >> (uint(i) % 64)) & 1
}

// modPow computes base^exp mod m by square-and-multiply over the binary
// expansion of exp, most significant bit first.
func modPow(base, exp, m *uint256.Int) *uint256.Int {
	result := uint256.NewInt(1)
	var b uint256.Int
	b.Mod(base, m)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result.MulMod(result, result, m)
		if bit(exp, i) == 1 {
			result.MulMod(result, &b, m)
		}
	}
	return result
}

// modInverse computes x with a*x = 1 mod m via the extended Euclidean
// algorithm. The Bezout coefficient is kept reduced into [0, m) at every
// step so no signed bookkeeping is needed. It panics when gcd(a, m) != 1;
// callers guarantee m prime and a != 0 mod m.
func modInverse(a, m *uint256.Int) *uint256.Int {
	r0 := m.Clone()
	r1 := new(uint256.Int).Mod(a, m)
	t0 := uint256.NewInt(0)
	t1 := uint256.NewInt(1)

	var q, tmp, qt uint256.Int
	for !r1.IsZero() {
		q.Div(r0, r1)

		tmp.Mul(&q, r1)
		tmp.Sub(r0, &tmp)
		r0, r1 = r1, tmp.Clone()

		qt.MulMod(&q, t1, m)
		var tNext uint256.Int
		if t0.Lt(&qt) {
			var d uint256.Int
			d.Sub(&qt, t0)
			tNext.Sub(m, &d)
		} else {
			tNext.Sub(t0, &qt)
		}
		t0, t1 = t1, tNext.Clone()
	}
	if !r0.Eq(uint256.NewInt(1)) {
		panic("willcrypt: modular inverse of non-invertible value")
	}
	return t0
}
