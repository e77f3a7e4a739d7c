package willcrypt

import (
	"crypto/subtle"
	"encoding/binary"
)

// Authenticated mode parameters shared by GCM and the CTR variant.
const (
	GCMIVSize  = 12
	GCMTagSize = 16
)

// gf128 is an element of GF(2^128) in GHASH's bit-reflected representation:
// hi holds the first eight bytes of the block, lo the last eight.
type gf128 struct {
	hi, lo uint64
}

func gf128FromBlock(b [aesBlockSize]byte) gf128 {
	return gf128{
		hi: binary.BigEndian.Uint64(b[0:8]),
		lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

func (x gf128) block() [aesBlockSize]byte {
	var b [aesBlockSize]byte
	binary.BigEndian.PutUint64(b[0:8], x.hi)
	binary.BigEndian.PutUint64(b[8:16], x.lo)
	return b
}

// gf128Mul multiplies x by y in GF(2^128) modulo the GHASH polynomial
// x^128 + x^7 + x^2 + x + 1, walking y's bits most significant first.
func gf128Mul(x, y gf128) gf128 {
	var z gf128
	v := x
	for i := 0; i < 128; i++ {
		var yBit uint64
		if i < 64 {
			yBit = (y.hi >> (63 - uint(i))) & 1
		} else {
			yBit = (y.lo >> (127 - uint(i))) & 1
		}
		if yBit == 1 {
			z.hi ^= v.hi
			z.lo ^= v.lo
		}
		carry := v.lo & 1
		v.lo = v.lo>>1 | v.hi<<63
		v.hi >>= 1
		if carry == 1 {
			v.hi ^= 0xe100000000000000
		}
	}
	return z
}

// ghash computes GHASH(H; aad, data): both inputs are zero-padded to block
// boundaries and followed by the 64-bit bit lengths of each.
func ghash(h gf128, aad, data []byte) [aesBlockSize]byte {
	var y gf128
	absorb := func(v []byte) {
		for off := 0; off < len(v); off += aesBlockSize {
			var block [aesBlockSize]byte
			copy(block[:], v[off:])
			b := gf128FromBlock(block)
			y.hi ^= b.hi
			y.lo ^= b.lo
			y = gf128Mul(y, h)
		}
	}
	absorb(aad)
	absorb(data)

	var lengths [aesBlockSize]byte
	binary.BigEndian.PutUint64(lengths[0:8], uint64(len(aad))*8)
	binary.BigEndian.PutUint64(lengths[8:16], uint64(len(data))*8)
	l := gf128FromBlock(lengths)
	y.hi ^= l.hi
	y.lo ^= l.lo
	y = gf128Mul(y, h)
	return y.block()
}

// inc32 increments the 32-bit big-endian counter in the last four bytes of
// a counter block, wrapping modulo 2^32.
func inc32(counter [aesBlockSize]byte) [aesBlockSize]byte {
	c := binary.BigEndian.Uint32(counter[12:16])
	binary.BigEndian.PutUint32(counter[12:16], c+1)
	return counter
}

// ctrXOR XORs src with the counter-mode keystream starting at counter and
// returns the result.
func ctrXOR(ks *RoundKeySchedule, counter [aesBlockSize]byte, src []byte) []byte {
	out := make([]byte, len(src))
	for off := 0; off < len(src); off += aesBlockSize {
		keystream := ks.EncryptBlock(counter)
		n := len(src) - off
		if n > aesBlockSize {
			n = aesBlockSize
		}
		for i := 0; i < n; i++ {
			out[off+i] = src[off+i] ^ keystream[i]
		}
		counter = inc32(counter)
	}
	return out
}

// j0 builds the pre-counter block for a 12-byte IV: iv || 0x00000001.
func j0(iv []byte) [aesBlockSize]byte {
	var block [aesBlockSize]byte
	copy(block[:GCMIVSize], iv)
	block[aesBlockSize-1] = 1
	return block
}

// SealGCM encrypts plaintext under AES-GCM, returning the ciphertext and
// the 16-byte authentication tag separately (the envelope stores them as
// separate fields). The IV must be exactly 12 bytes.
func SealGCM(key, iv, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	ks, err := ExpandKey(key)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != GCMIVSize {
		return nil, nil, errFormatf("iv: need %d bytes, got %d", GCMIVSize, len(iv))
	}

	h := gf128FromBlock(ks.EncryptBlock([aesBlockSize]byte{}))
	pre := j0(iv)
	ciphertext = ctrXOR(ks, inc32(pre), plaintext)

	s := ghash(h, aad, ciphertext)
	tagBlock := ks.EncryptBlock(pre)
	tag = make([]byte, GCMTagSize)
	for i := range tag {
		tag[i] = tagBlock[i] ^ s[i]
	}
	return ciphertext, tag, nil
}

// OpenGCM authenticates and decrypts an AES-GCM ciphertext. A tag mismatch
// yields ErrAuthentication with no plaintext and no detail about where the
// mismatch occurred.
func OpenGCM(key, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	ks, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != GCMIVSize {
		return nil, errFormatf("iv: need %d bytes, got %d", GCMIVSize, len(iv))
	}
	if len(tag) != GCMTagSize {
		return nil, errFormatf("authTag: need %d bytes, got %d", GCMTagSize, len(tag))
	}

	h := gf128FromBlock(ks.EncryptBlock([aesBlockSize]byte{}))
	pre := j0(iv)
	s := ghash(h, aad, ciphertext)
	tagBlock := ks.EncryptBlock(pre)
	expect := make([]byte, GCMTagSize)
	for i := range expect {
		expect[i] = tagBlock[i] ^ s[i]
	}
	if subtle.ConstantTimeCompare(expect, tag) != 1 {
		return nil, ErrAuthentication
	}
	return ctrXOR(ks, inc32(pre), ciphertext), nil
}

// SealCTR encrypts plaintext under the counter-mode variant. The tag is the
// first 16 bytes of Keccak-256(key || iv || ciphertext), so the envelope
// shape matches GCM exactly.
func SealCTR(key, iv, plaintext []byte) (ciphertext, tag []byte, err error) {
	ks, err := ExpandKey(key)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != GCMIVSize {
		return nil, nil, errFormatf("iv: need %d bytes, got %d", GCMIVSize, len(iv))
	}
	ciphertext = ctrXOR(ks, j0(iv), plaintext)
	tag = Keccak256(key, iv, ciphertext)[:GCMTagSize]
	return ciphertext, tag, nil
}

// OpenCTR authenticates and decrypts a counter-mode ciphertext.
func OpenCTR(key, iv, ciphertext, tag []byte) ([]byte, error) {
	ks, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != GCMIVSize {
		return nil, errFormatf("iv: need %d bytes, got %d", GCMIVSize, len(iv))
	}
	if len(tag) != GCMTagSize {
		return nil, errFormatf("authTag: need %d bytes, got %d", GCMTagSize, len(tag))
	}
	expect := Keccak256(key, iv, ciphertext)[:GCMTagSize]
	if subtle.ConstantTimeCompare(expect, tag) != 1 {
		return nil, ErrAuthentication
	}
	return ctrXOR(ks, j0(iv), ciphertext), nil
}
