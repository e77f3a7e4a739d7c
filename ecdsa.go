package willcrypt

import (
	"github.com/cockroachdb/errors"
)

// recoveryIDUnknown marks a signature whose recovery id was not produced
// alongside it (for example one parsed from a bare (r, s) pair).
const recoveryIDUnknown = int8(-1)

// Signature is an ECDSA signature over secp256k1. Signatures produced by
// Sign are always canonical (s <= n/2) and carry the recovery id of the
// nonce point.
type Signature struct {
	r, s  Scalar
	recID int8
}

// NewSignature builds a signature from raw r and s scalars, with no
// recovery id attached. No range validation happens here; Verify treats
// out-of-range components as a verification failure, not an error.
func NewSignature(r, s Scalar) *Signature {
	return &Signature{r: r, s: s, recID: recoveryIDUnknown}
}

// R returns the r component.
func (sig *Signature) R() Scalar { return sig.r }

// S returns the s component.
func (sig *Signature) S() Scalar { return sig.s }

// RecoveryID returns the recovery id when one is attached.
func (sig *Signature) RecoveryID() (byte, bool) {
	if sig.recID == recoveryIDUnknown {
		return 0, false
	}
	return byte(sig.recID), true
}

// IsCanonical reports whether s is in the lower half of the scalar range.
func (sig *Signature) IsCanonical() bool { return !sig.s.IsHigh() }

// normalize forces a signature into canonical low-s form. A raw ECDSA
// signature is valid under both s and n-s; downstream consumers expect the
// unique low-s form, so the high-s twin is folded down and the recovery id
// parity flipped with it.
func (sig *Signature) normalize() {
	if sig.s.IsHigh() {
		sig.s = sig.s.Neg()
		if sig.recID != recoveryIDUnknown {
			sig.recID ^= 1
		}
	}
}

// KeyPair is a secp256k1 private scalar with its derived public point. The
// private key is never logged or serialized by this package; it leaves the
// struct only through explicit signing calls.
type KeyPair struct {
	priv Scalar
	pub  Point
}

// GenerateKeyPair draws a private key uniformly from [1, n-1] and derives
// the public point.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := randomScalar()
	if err != nil {
		return nil, errors.Wrap(err, "generating private key")
	}
	return &KeyPair{priv: priv, pub: ScalarBaseMult(priv)}, nil
}

// NewKeyPair builds a key pair from 32 bytes of existing key material.
func NewKeyPair(secret []byte) (*KeyPair, error) {
	priv, err := scalarFromSecretBytes(secret)
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, pub: ScalarBaseMult(priv)}, nil
}

// Public returns the public point.
func (kp *KeyPair) Public() Point { return kp.pub }

// Sign signs a 32-byte message hash with this key pair's private key.
func (kp *KeyPair) Sign(hash32 []byte) (*Signature, error) {
	return Sign(hash32, kp.priv)
}

// hashToScalar maps a 32-byte digest into the scalar field.
func hashToScalar(hash32 []byte) (Scalar, error) {
	if len(hash32) != 32 {
		return Scalar{}, errFormatf("message hash: need 32 bytes, got %d", len(hash32))
	}
	return scalarFromBytes(hash32)
}

// Sign produces a canonical ECDSA signature of a 32-byte hash. Nonces are
// drawn fresh from the secure source; degenerate draws (k = 0, r = 0,
// s = 0, or an r whose x coordinate overflowed the scalar range) are
// discarded and redrawn inside a bounded loop.
func Sign(hash32 []byte, priv Scalar) (*Signature, error) {
	e, err := hashToScalar(hash32)
	if err != nil {
		return nil, err
	}
	if priv.IsZero() {
		return nil, errDomainf("private key scalar is zero")
	}

	for attempt := 0; attempt < maxScalarAttempts; attempt++ {
		k, err := randomScalar()
		if err != nil {
			return nil, errors.Wrap(err, "generating signature nonce")
		}

		rp := ScalarBaseMult(k)
		rx, ry, _ := rp.Coords()

		// Keeping the recovery id in {0, 1} requires R.x < n, so the
		// rare overflow case is redrawn along with r = 0.
		rxb := rx.Bytes32()
		r, err := scalarFromSecretBytes(rxb[:])
		if err != nil {
			continue
		}

		// s = k^-1 * (e + r*priv) mod n
		s := k.Inv().Mul(e.Add(r.Mul(priv)))
		if s.IsZero() {
			continue
		}

		sig := &Signature{r: r, s: s}
		if ry.IsOdd() {
			sig.recID = 1
		}
		sig.normalize()
		return sig, nil
	}
	return nil, errors.New("signing exceeded nonce attempt ceiling")
}

// Verify checks an ECDSA signature against a 32-byte hash and a public
// point. It is a total boolean function: malformed components (r or s
// outside (0, n), a public point off the curve or at infinity) make it
// return false rather than fail.
func Verify(hash32 []byte, sig *Signature, pub Point) bool {
	if len(hash32) != 32 || sig == nil {
		return false
	}
	if sig.r.IsZero() || sig.s.IsZero() {
		return false
	}
	px, py, ok := pub.Coords()
	if !ok || !isOnCurve(px, py) {
		return false
	}
	e, err := hashToScalar(hash32)
	if err != nil {
		return false
	}

	w := sig.s.Inv()
	u1 := e.Mul(w)
	u2 := sig.r.Mul(w)
	point := ScalarBaseMult(u1).Add(pub.ScalarMult(u2))
	x, _, ok := point.Coords()
	if !ok {
		return false
	}
	xb := x.Bytes32()
	got, err := scalarFromBytes(xb[:])
	if err != nil {
		return false
	}
	return got.Equal(sig.r)
}

// RecoverPublicKey reconstructs the signing public key from a signature and
// its recovery id. The candidate nonce point has x = r; its y coordinate is
// the square root of x^3 + 7 whose parity matches recID (valid because
// p = 3 mod 4). Inconsistent inputs yield a domain error.
func RecoverPublicKey(hash32 []byte, sig *Signature, recID byte) (Point, error) {
	if recID > 1 {
		return Point{}, errDomainf("recovery id must be 0 or 1, got %d", recID)
	}
	if sig.r.IsZero() || sig.s.IsZero() {
		return Point{}, errDomainf("signature component is zero")
	}
	e, err := hashToScalar(hash32)
	if err != nil {
		return Point{}, err
	}

	x := sig.r.fieldElement()
	alpha := x.Square().Mul(x).Add(FieldElement{n: *curveB})
	y, ok := alpha.Sqrt()
	if !ok {
		return Point{}, errDomainf("signature r is not the x coordinate of a curve point")
	}
	if y.IsOdd() != (recID == 1) {
		y = y.Neg()
	}
	rp, err := NewPoint(x, y)
	if err != nil {
		return Point{}, err
	}

	// pub = r^-1 * (s*R - e*G)
	rInv := sig.r.Inv()
	pub := rp.ScalarMult(sig.s).Add(ScalarBaseMult(e).Neg()).ScalarMult(rInv)
	if pub.IsInfinity() {
		return Point{}, errDomainf("recovered key is the point at infinity")
	}
	if !Verify(hash32, sig, pub) {
		return Point{}, errDomainf("recovered key does not verify the signature")
	}
	return pub, nil
}

// FindRecoveryID brute-forces the recovery id against an expected public
// key. It exists to build wire-format signatures for recovery-based
// ecosystems from bare (r, s) pairs.
func FindRecoveryID(hash32 []byte, sig *Signature, pub Point) (byte, error) {
	for recID := byte(0); recID <= 1; recID++ {
		candidate, err := RecoverPublicKey(hash32, sig, recID)
		if err != nil {
			continue
		}
		if candidate.Equal(pub) {
			return recID, nil
		}
	}
	return 0, errDomainf("no recovery id reproduces the expected public key")
}
