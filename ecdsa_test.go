package willcrypt

import (
	"crypto/rand"
	"testing"

	"github.com/cockroachdb/errors"
)

func testKeyPair(t *testing.T) *KeyPair {
	t.Helper()
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	return kp
}

func testDigest(t *testing.T) []byte {
	t.Helper()
	h := make([]byte, 32)
	if _, err := rand.Read(h); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestSignVerify(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)

	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(hash, sig, kp.Public()) {
		t.Fatal("valid signature rejected")
	}
	if !sig.IsCanonical() {
		t.Error("Sign produced a high-s signature")
	}
	if _, ok := sig.RecoveryID(); !ok {
		t.Error("Sign did not attach a recovery id")
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}

	one := scalarFromUint(1)

	if Verify(hash, NewSignature(sig.R().Add(one), sig.S()), kp.Public()) {
		t.Error("signature with perturbed r verified")
	}
	if Verify(hash, NewSignature(sig.R(), sig.S().Add(one)), kp.Public()) {
		t.Error("signature with perturbed s verified")
	}

	bad := make([]byte, 32)
	copy(bad, hash)
	bad[7] ^= 0x01
	if Verify(bad, sig, kp.Public()) {
		t.Error("signature verified against a different hash")
	}

	other := testKeyPair(t)
	if Verify(hash, sig, other.Public()) {
		t.Error("signature verified under the wrong key")
	}
	if Verify(hash, sig, Infinity()) {
		t.Error("signature verified against the point at infinity")
	}
	if Verify(hash[:31], sig, kp.Public()) {
		t.Error("short hash accepted")
	}
	if Verify(hash, NewSignature(Scalar{}, sig.S()), kp.Public()) {
		t.Error("zero r accepted")
	}
}

func TestVerifyAcceptsHighSTwin(t *testing.T) {
	// Raw ECDSA verification accepts both s and n-s; only serialization
	// insists on the canonical form.
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}

	twin := NewSignature(sig.R(), sig.S().Neg())
	if twin.IsCanonical() {
		t.Fatal("negated low s should be high")
	}
	if !Verify(hash, twin, kp.Public()) {
		t.Error("high-s twin must still verify")
	}
}

func TestRecoverPublicKey(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}
	recID, ok := sig.RecoveryID()
	if !ok {
		t.Fatal("missing recovery id")
	}

	pub, err := RecoverPublicKey(hash, sig, recID)
	if err != nil {
		t.Fatal(err)
	}
	if !pub.Equal(kp.Public()) {
		t.Fatal("recovered key differs from the signer's")
	}

	// The other id either fails or yields a different valid key; it must
	// never reproduce the signer.
	if other, err := RecoverPublicKey(hash, sig, recID^1); err == nil {
		if other.Equal(kp.Public()) {
			t.Error("wrong recovery id reproduced the signing key")
		}
	}

	if _, err := RecoverPublicKey(hash, sig, 2); !errors.Is(err, ErrDomain) {
		t.Error("recovery id 2 should be a domain error")
	}
	if _, err := RecoverPublicKey(hash, NewSignature(Scalar{}, sig.S()), recID); !errors.Is(err, ErrDomain) {
		t.Error("zero r should be a domain error")
	}
}

func TestFindRecoveryID(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := sig.RecoveryID()

	// Strip the id and rediscover it from the public key.
	bare := NewSignature(sig.R(), sig.S())
	got, err := FindRecoveryID(hash, bare, kp.Public())
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("recovery id: got %d, want %d", got, want)
	}

	other := testKeyPair(t)
	if _, err := FindRecoveryID(hash, bare, other.Public()); !errors.Is(err, ErrDomain) {
		t.Error("unrelated key should not match any recovery id")
	}
}

func TestNewKeyPairValidation(t *testing.T) {
	if _, err := NewKeyPair(make([]byte, 32)); !errors.Is(err, ErrDomain) {
		t.Error("zero secret accepted")
	}
	if _, err := NewKeyPair(make([]byte, 31)); !errors.Is(err, ErrFormat) {
		t.Error("short secret accepted")
	}

	secret := make([]byte, 32)
	secret[31] = 1
	kp, err := NewKeyPair(secret)
	if err != nil {
		t.Fatal(err)
	}
	if !kp.Public().Equal(Generator()) {
		t.Error("public key of secret 1 must be G")
	}
}

func TestCompactRoundTrip(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}

	wire, err := sig.Compact()
	if err != nil {
		t.Fatal(err)
	}
	if len(wire) != CompactSignatureSize {
		t.Fatalf("compact length %d", len(wire))
	}
	if wire[64] != 27 && wire[64] != 28 {
		t.Fatalf("recovery marker %d", wire[64])
	}

	parsed, err := ParseCompact(wire)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.R().Equal(sig.R()) || !parsed.S().Equal(sig.S()) {
		t.Error("compact round-trip changed r or s")
	}
	gotID, _ := parsed.RecoveryID()
	wantID, _ := sig.RecoveryID()
	if gotID != wantID {
		t.Error("compact round-trip changed the recovery id")
	}
	if !Verify(hash, parsed, kp.Public()) {
		t.Error("round-tripped signature does not verify")
	}
}

func TestCompactHexRoundTrip(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}

	h, err := sig.CompactHex()
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 130 {
		t.Fatalf("hex length %d, want 130", len(h))
	}

	for _, in := range []string{h, "0x" + h} {
		parsed, err := ParseCompactHex(in)
		if err != nil {
			t.Fatal(err)
		}
		if !Verify(hash, parsed, kp.Public()) {
			t.Error("hex round-tripped signature does not verify")
		}
	}
}

func TestParseCompactErrors(t *testing.T) {
	kp := testKeyPair(t)
	hash := testDigest(t)
	sig, err := kp.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := sig.Compact()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseCompact(wire[:64]); !errors.Is(err, ErrFormat) {
		t.Error("short input accepted")
	}

	bad := append([]byte(nil), wire...)
	bad[64] = 29
	if _, err := ParseCompact(bad); !errors.Is(err, ErrFormat) {
		t.Error("recovery marker 29 accepted")
	}

	zeroR := append([]byte(nil), wire...)
	for i := 0; i < 32; i++ {
		zeroR[i] = 0
	}
	if _, err := ParseCompact(zeroR); !errors.Is(err, ErrFormat) {
		t.Error("zero r accepted")
	}

	overS := append([]byte(nil), wire...)
	nb := curveN.Bytes32()
	copy(overS[32:64], nb[:])
	if _, err := ParseCompact(overS); !errors.Is(err, ErrFormat) {
		t.Error("s = n accepted")
	}

	if _, err := ParseCompactHex("zz"); !errors.Is(err, ErrFormat) {
		t.Error("invalid hex accepted")
	}

	bare := NewSignature(sig.R(), sig.S())
	if _, err := bare.Compact(); !errors.Is(err, ErrDomain) {
		t.Error("serializing without a recovery id should fail")
	}
}

func TestUncompressedPubKeyRoundTrip(t *testing.T) {
	kp := testKeyPair(t)

	wire, err := kp.Public().SerializeUncompressed()
	if err != nil {
		t.Fatal(err)
	}
	if len(wire) != UncompressedPubKeySize || wire[0] != 0x04 {
		t.Fatalf("bad framing: len %d, lead 0x%02x", len(wire), wire[0])
	}

	parsed, err := ParseUncompressed(wire)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(kp.Public()) {
		t.Error("uncompressed round-trip changed the point")
	}

	if _, err := Infinity().SerializeUncompressed(); !errors.Is(err, ErrDomain) {
		t.Error("infinity has no uncompressed encoding")
	}
	if _, err := ParseUncompressed(wire[:64]); !errors.Is(err, ErrFormat) {
		t.Error("short key accepted")
	}

	badLead := append([]byte(nil), wire...)
	badLead[0] = 0x02
	if _, err := ParseUncompressed(badLead); !errors.Is(err, ErrFormat) {
		t.Error("compressed lead byte accepted")
	}

	offCurve := append([]byte(nil), wire...)
	offCurve[64] ^= 0x01
	if _, err := ParseUncompressed(offCurve); !errors.Is(err, ErrDomain) {
		t.Error("off-curve coordinates accepted")
	}
}
