package willcrypt

import (
	"github.com/holiman/uint256"
)

// Scalar is an integer modulo the secp256k1 group order n, always held
// reduced into [0, n). Signature components and private keys are scalars.
type Scalar struct {
	d uint256.Int
}

// scalarFromBytes builds a scalar from a 32-byte big-endian encoding,
// reducing modulo n.
func scalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, errFormatf("scalar: need 32 bytes, got %d", len(b))
	}
	var s Scalar
	s.d.SetBytes(b)
	s.d.Mod(&s.d, curveN)
	return s, nil
}

// scalarFromSecretBytes builds a scalar from 32 big-endian bytes without
// reduction, requiring the value to already lie in [1, n-1]. This is the
// constructor for private keys and nonces, where silent reduction would
// accept out-of-range key material.
func scalarFromSecretBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, errFormatf("secret scalar: need 32 bytes, got %d", len(b))
	}
	var s Scalar
	s.d.SetBytes(b)
	if s.d.IsZero() || !s.d.Lt(curveN) {
		return Scalar{}, errDomainf("secret scalar outside [1, n-1]")
	}
	return s, nil
}

// scalarFromUint builds a small scalar.
func scalarFromUint(v uint64) Scalar {
	var s Scalar
	s.d.SetUint64(v)
	return s
}

// Add returns a+b mod n.
func (a Scalar) Add(b Scalar) Scalar {
	var r Scalar
	r.d.AddMod(&a.d, &b.d, curveN)
	return r
}

// Mul returns a*b mod n.
func (a Scalar) Mul(b Scalar) Scalar {
	var r Scalar
	r.d.MulMod(&a.d, &b.d, curveN)
	return r
}

// Inv returns a^-1 mod n. Panics on zero, matching FieldElement.Inv.
func (a Scalar) Inv() Scalar {
	var r Scalar
	r.d = *modInverse(&a.d, curveN)
	return r
}

// Neg returns n-a (the additive inverse mod n).
func (a Scalar) Neg() Scalar {
	var r Scalar
	if !a.d.IsZero() {
		r.d.Sub(curveN, &a.d)
	}
	return r
}

// IsZero reports whether the scalar is zero.
func (a Scalar) IsZero() bool { return a.d.IsZero() }

// IsHigh reports whether a > n/2, i.e. whether a signature s component is in
// the malleable upper half of the range.
func (a Scalar) IsHigh() bool { return a.d.Gt(curveNHalf) }

// Equal reports whether two scalars have the same reduced value.
func (a Scalar) Equal(b Scalar) bool { return a.d.Eq(&b.d) }

// Bytes32 returns the 32-byte big-endian encoding.
func (a Scalar) Bytes32() [32]byte { return a.d.Bytes32() }

// fieldElement reinterprets the scalar value as a field element. Valid
// because n < p, so every reduced scalar is already a reduced field value.
func (a Scalar) fieldElement() FieldElement {
	var fe FieldElement
	fe.n = a.d
	return fe
}
