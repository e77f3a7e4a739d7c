package willcrypt

import (
	"encoding/hex"
	"strings"
)

// Wire-format constants. Compact signatures follow the Ethereum convention:
// 32 bytes of r, 32 bytes of s, one recovery marker byte with value 27 or 28.
const (
	CompactSignatureSize   = 65
	UncompressedPubKeySize = 65
	compactRecoveryBase    = 27
)

// Compact serializes the signature to the 65-byte wire format. The
// signature must carry a recovery id; use FindRecoveryID for signatures
// built from bare (r, s) pairs.
func (sig *Signature) Compact() ([]byte, error) {
	recID, ok := sig.RecoveryID()
	if !ok {
		return nil, errDomainf("signature has no recovery id attached")
	}
	out := make([]byte, CompactSignatureSize)
	rb := sig.r.Bytes32()
	sb := sig.s.Bytes32()
	copy(out[0:32], rb[:])
	copy(out[32:64], sb[:])
	out[64] = compactRecoveryBase + recID
	return out, nil
}

// CompactHex serializes the signature to the 130-character hex form.
func (sig *Signature) CompactHex() (string, error) {
	b, err := sig.Compact()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParseCompact parses a 65-byte compact signature. The recovery marker must
// be 27 or 28 and both scalars must be in (0, n), so that serialization is a
// lossless round-trip.
func ParseCompact(b []byte) (*Signature, error) {
	if len(b) != CompactSignatureSize {
		return nil, errFormatf("compact signature: need %d bytes, got %d", CompactSignatureSize, len(b))
	}
	marker := b[64]
	if marker != compactRecoveryBase && marker != compactRecoveryBase+1 {
		return nil, errFormatf("compact signature: recovery marker must be 27 or 28, got %d", marker)
	}
	r, err := scalarFromSecretBytes(b[0:32])
	if err != nil {
		return nil, errFormatf("compact signature: r out of range")
	}
	s, err := scalarFromSecretBytes(b[32:64])
	if err != nil {
		return nil, errFormatf("compact signature: s out of range")
	}
	return &Signature{r: r, s: s, recID: int8(marker - compactRecoveryBase)}, nil
}

// ParseCompactHex parses the 130-character hex wire form, with or without a
// 0x prefix.
func ParseCompactHex(s string) (*Signature, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errFormatf("compact signature: invalid hex: %v", err)
	}
	return ParseCompact(b)
}

// SerializeUncompressed encodes the point as 0x04 || x || y (65 bytes).
// The point at infinity has no uncompressed encoding.
func (p Point) SerializeUncompressed() ([]byte, error) {
	x, y, ok := p.Coords()
	if !ok {
		return nil, errDomainf("point at infinity has no uncompressed encoding")
	}
	out := make([]byte, UncompressedPubKeySize)
	out[0] = 0x04
	xb := x.Bytes32()
	yb := y.Bytes32()
	copy(out[1:33], xb[:])
	copy(out[33:65], yb[:])
	return out, nil
}

// ParseUncompressed decodes a 65-byte 0x04 || x || y public key, rejecting
// coordinates that are not on the curve.
func ParseUncompressed(b []byte) (Point, error) {
	if len(b) != UncompressedPubKeySize {
		return Point{}, errFormatf("uncompressed public key: need %d bytes, got %d", UncompressedPubKeySize, len(b))
	}
	if b[0] != 0x04 {
		return Point{}, errFormatf("uncompressed public key: leading byte must be 0x04, got 0x%02x", b[0])
	}
	x, err := feFromBytes(b[1:33])
	if err != nil {
		return Point{}, err
	}
	y, err := feFromBytes(b[33:65])
	if err != nil {
		return Point{}, err
	}
	return NewPoint(x, y)
}
