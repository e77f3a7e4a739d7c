package willcrypt

import (
	"encoding/hex"
	"math/bits"
)

// Keccak-256 sponge parameters: 1088-bit rate, 512-bit capacity over the
// 1600-bit keccak-f permutation.
const (
	KeccakRate      = 136
	keccakRounds    = 24
	keccakStateSize = 200
	keccakDigestLen = 32
)

// keccakRoundConstants are the iota-step constants, one per round.
var keccakRoundConstants = [keccakRounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// keccakRhoOffsets are the per-lane rotation amounts, indexed x + 5y.
var keccakRhoOffsets = [25]int{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

// KeccakState is the 1600-bit permutation state as 25 little-endian 64-bit
// lanes on a 5x5 grid, lane (x, y) at index x + 5y. The byte and bit views
// below are lossless alternative encodings of the same state. All transforms
// are value-to-value.
type KeccakState [25]uint64

// theta XORs each lane with the parity of its two neighbouring columns.
func theta(s KeccakState) KeccakState {
	var c, d [5]uint64
	for x := 0; x < 5; x++ {
		c[x] = s[x] ^ s[x+5] ^ s[x+10] ^ s[x+15] ^ s[x+20]
	}
	for x := 0; x < 5; x++ {
		d[x] = c[(x+4)%5] ^ bits.RotateLeft64(c[(x+1)%5], 1)
	}
	var out KeccakState
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			out[x+5*y] = s[x+5*y] ^ d[x]
		}
	}
	return out
}

// rho rotates every lane left by its fixed offset.
func rho(s KeccakState) KeccakState {
	var out KeccakState
	for i := 0; i < 25; i++ {
		out[i] = bits.RotateLeft64(s[i], keccakRhoOffsets[i])
	}
	return out
}

// pi moves lane (x, y) to position (y, 2x+3y mod 5).
func pi(s KeccakState) KeccakState {
	var out KeccakState
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			out[y+5*((2*x+3*y)%5)] = s[x+5*y]
		}
	}
	return out
}

// chi applies the nonlinear row mix: each lane is XORed with the AND of the
// complement of its right neighbour and the lane after that, indices mod 5
// within the row.
func chi(s KeccakState) KeccakState {
	var out KeccakState
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			out[x+5*y] = s[x+5*y] ^ (^s[(x+1)%5+5*y] & s[(x+2)%5+5*y])
		}
	}
	return out
}

// iotaRC XORs the round constant into lane (0, 0) only.
func iotaRC(s KeccakState, round int) KeccakState {
	s[0] ^= keccakRoundConstants[round]
	return s
}

// Permute runs the full 24-round keccak-f[1600] permutation.
func (s KeccakState) Permute() KeccakState {
	for round := 0; round < keccakRounds; round++ {
		s = iotaRC(chi(pi(rho(theta(s)))), round)
	}
	return s
}

// AbsorbBlock XORs one rate-sized block into the first 17 lanes and runs
// the permutation. The block must be exactly KeccakRate bytes; shorter
// inputs are the padder's problem, not this function's.
func (s KeccakState) AbsorbBlock(block []byte) KeccakState {
	if len(block) != KeccakRate {
		panic("willcrypt: absorb block must be exactly the sponge rate")
	}
	for i := 0; i < KeccakRate/8; i++ {
		var lane uint64
		for j := 7; j >= 0; j-- {
			lane = lane<<8 | uint64(block[8*i+j])
		}
		s[i] ^= lane
	}
	return s.Permute()
}

// Squeeze extracts the 256-bit digest from the first four lanes. A single
// rate block covers 32 bytes, so no further permutations are needed.
func (s KeccakState) Squeeze() [keccakDigestLen]byte {
	var out [keccakDigestLen]byte
	for i := 0; i < keccakDigestLen/8; i++ {
		lane := s[i]
		for j := 0; j < 8; j++ {
			out[8*i+j] = byte(lane >> (8 * j))
		}
	}
	return out
}

// Bytes returns the 200-byte view of the state: lane i occupies bytes
// 8i..8i+7, little-endian.
func (s KeccakState) Bytes() [keccakStateSize]byte {
	var out [keccakStateSize]byte
	for i := 0; i < 25; i++ {
		for j := 0; j < 8; j++ {
			out[8*i+j] = byte(s[i] >> (8 * j))
		}
	}
	return out
}

// SetBytes rebuilds a state from its 200-byte view.
func (s *KeccakState) SetBytes(b [keccakStateSize]byte) {
	for i := 0; i < 25; i++ {
		var lane uint64
		for j := 7; j >= 0; j-- {
			lane = lane<<8 | uint64(b[8*i+j])
		}
		s[i] = lane
	}
}

// Bits returns the 1600-entry bit view of the state, one bit per byte,
// least significant bit of each state byte first (Keccak bit ordering).
func (s KeccakState) Bits() [8 * keccakStateSize]byte {
	raw := s.Bytes()
	var out [8 * keccakStateSize]byte
	for i, b := range raw {
		for j := 0; j < 8; j++ {
			out[8*i+j] = (b >> j) & 1
		}
	}
	return out
}

// SetBits rebuilds a state from its bit view.
func (s *KeccakState) SetBits(bv [8 * keccakStateSize]byte) {
	var raw [keccakStateSize]byte
	for i := range raw {
		var b byte
		for j := 7; j >= 0; j-- {
			b = b<<1 | (bv[8*i+j] & 1)
		}
		raw[i] = b
	}
	s.SetBytes(raw)
}

// keccakPad applies the original Keccak multi-rate padding: a single 1 bit
// (0x01 in LSB-first byte order), zero fill, and a final 1 bit forced into
// the last byte of the block. There is deliberately no SHA3 domain
// separation suffix; Ethereum's hash predates it and downstream address and
// identifier derivation depends on this exact variant.
func keccakPad(data []byte) []byte {
	padLen := KeccakRate - len(data)%KeccakRate
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	padded[len(data)] = 0x01
	padded[len(padded)-1] |= 0x80
	return padded
}

// Keccak256 hashes the concatenation of the given byte slices.
func Keccak256(data ...[]byte) []byte {
	var msg []byte
	for _, d := range data {
		msg = append(msg, d...)
	}
	padded := keccakPad(msg)

	var state KeccakState
	for off := 0; off < len(padded); off += KeccakRate {
		state = state.AbsorbBlock(padded[off : off+KeccakRate])
	}
	digest := state.Squeeze()
	return digest[:]
}

// Keccak256Hex hashes data and formats the digest as the canonical
// lowercase 0x-prefixed 64-character hex string.
func Keccak256Hex(data []byte) string {
	return "0x" + hex.EncodeToString(Keccak256(data))
}
