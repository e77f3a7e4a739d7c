package willcrypt

// AES block cipher engine: FIPS-197 key expansion and round transforms for
// 128/192/256-bit keys. The 16-byte state is column-major (byte i sits at
// row i%4, column i/4), so row r occupies indices r, r+4, r+8, r+12. All
// transforms take and return state values; nothing is mutated in place.

const aesBlockSize = 16

// aesSBox is the fixed AES substitution box.
var aesSBox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

// aesInvSBox is the inverse substitution box.
var aesInvSBox = [256]byte{
	0x52, 0x09, 0x6a, 0xd5, 0x30, 0x36, 0xa5, 0x38, 0xbf, 0x40, 0xa3, 0x9e, 0x81, 0xf3, 0xd7, 0xfb,
	0x7c, 0xe3, 0x39, 0x82, 0x9b, 0x2f, 0xff, 0x87, 0x34, 0x8e, 0x43, 0x44, 0xc4, 0xde, 0xe9, 0xcb,
	0x54, 0x7b, 0x94, 0x32, 0xa6, 0xc2, 0x23, 0x3d, 0xee, 0x4c, 0x95, 0x0b, 0x42, 0xfa, 0xc3, 0x4e,
	0x08, 0x2e, 0xa1, 0x66, 0x28, 0xd9, 0x24, 0xb2, 0x76, 0x5b, 0xa2, 0x49, 0x6d, 0x8b, 0xd1, 0x25,
	0x72, 0xf8, 0xf6, 0x64, 0x86, 0x68, 0x98, 0x16, 0xd4, 0xa4, 0x5c, 0xcc, 0x5d, 0x65, 0xb6, 0x92,
	0x6c, 0x70, 0x48, 0x50, 0xfd, 0xed, 0xb9, 0xda, 0x5e, 0x15, 0x46, 0x57, 0xa7, 0x8d, 0x9d, 0x84,
	0x90, 0xd8, 0xab, 0x00, 0x8c, 0xbc, 0xd3, 0x0a, 0xf7, 0xe4, 0x58, 0x05, 0xb8, 0xb3, 0x45, 0x06,
	0xd0, 0x2c, 0x1e, 0x8f, 0xca, 0x3f, 0x0f, 0x02, 0xc1, 0xaf, 0xbd, 0x03, 0x01, 0x13, 0x8a, 0x6b,
	0x3a, 0x91, 0x11, 0x41, 0x4f, 0x67, 0xdc, 0xea, 0x97, 0xf2, 0xcf, 0xce, 0xf0, 0xb4, 0xe6, 0x73,
	0x96, 0xac, 0x74, 0x22, 0xe7, 0xad, 0x35, 0x85, 0xe2, 0xf9, 0x37, 0xe8, 0x1c, 0x75, 0xdf, 0x6e,
	0x47, 0xf1, 0x1a, 0x71, 0x1d, 0x29, 0xc5, 0x89, 0x6f, 0xb7, 0x62, 0x0e, 0xaa, 0x18, 0xbe, 0x1b,
	0xfc, 0x56, 0x3e, 0x4b, 0xc6, 0xd2, 0x79, 0x20, 0x9a, 0xdb, 0xc0, 0xfe, 0x78, 0xcd, 0x5a, 0xf4,
	0x1f, 0xdd, 0xa8, 0x33, 0x88, 0x07, 0xc7, 0x31, 0xb1, 0x12, 0x10, 0x59, 0x27, 0x80, 0xec, 0x5f,
	0x60, 0x51, 0x7f, 0xa9, 0x19, 0xb5, 0x4a, 0x0d, 0x2d, 0xe5, 0x7a, 0x9f, 0x93, 0xc9, 0x9c, 0xef,
	0xa0, 0xe0, 0x3b, 0x4d, 0xae, 0x2a, 0xf5, 0xb0, 0xc8, 0xeb, 0xbb, 0x3c, 0x83, 0x53, 0x99, 0x61,
	0x17, 0x2b, 0x04, 0x7e, 0xba, 0x77, 0xd6, 0x26, 0xe1, 0x69, 0x14, 0x63, 0x55, 0x21, 0x0c, 0x7d,
}

// aesRcon holds the round constants for the key schedule, 01 through 36.
var aesRcon = [10]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// RoundKeySchedule is the expanded key: exactly 4*(Nr+1) words. Immutable
// once derived.
type RoundKeySchedule struct {
	words  []uint32
	rounds int
}

// Rounds returns Nr for the schedule's key size (10, 12 or 14).
func (ks *RoundKeySchedule) Rounds() int { return ks.rounds }

// subWord applies the S-box to each byte of a word.
func subWord(w uint32) uint32 {
	return uint32(aesSBox[w>>24])<<24 |
		uint32(aesSBox[w>>16&0xff])<<16 |
		uint32(aesSBox[w>>8&0xff])<<8 |
		uint32(aesSBox[w&0xff])
}

// rotWord rotates a word left by one byte.
func rotWord(w uint32) uint32 {
	return w<<8 | w>>24
}

// ExpandKey derives the round-key schedule from a 16, 24 or 32-byte key
// using the FIPS-197 recurrence: every Nk-th word is rotated, substituted
// and mixed with a round constant, and 256-bit keys take an extra S-box
// pass at the half-way word.
func ExpandKey(key []byte) (*RoundKeySchedule, error) {
	nk := len(key) / 4
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, errDomainf("unsupported AES key size %d (want 16, 24 or 32 bytes)", len(key))
	}
	nr := nk + 6

	words := make([]uint32, 4*(nr+1))
	for i := 0; i < nk; i++ {
		words[i] = uint32(key[4*i])<<24 | uint32(key[4*i+1])<<16 |
			uint32(key[4*i+2])<<8 | uint32(key[4*i+3])
	}
	for i := nk; i < len(words); i++ {
		temp := words[i-1]
		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp)) ^ uint32(aesRcon[i/nk-1])<<24
		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}
		words[i] = words[i-nk] ^ temp
	}
	return &RoundKeySchedule{words: words, rounds: nr}, nil
}

// SubBytes substitutes every state byte through the S-box.
func SubBytes(state [aesBlockSize]byte) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for i, b := range state {
		out[i] = aesSBox[b]
	}
	return out
}

// invSubBytes substitutes through the inverse S-box.
func invSubBytes(state [aesBlockSize]byte) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for i, b := range state {
		out[i] = aesInvSBox[b]
	}
	return out
}

// ShiftRows cyclically shifts row r of the column-major state left by r
// positions; row 0 is untouched.
func ShiftRows(state [aesBlockSize]byte) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r+4*c] = state[r+4*((c+r)%4)]
		}
	}
	return out
}

// invShiftRows shifts row r right by r positions.
func invShiftRows(state [aesBlockSize]byte) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r+4*c] = state[r+4*((c-r+4)%4)]
		}
	}
	return out
}

// gmul multiplies two elements of GF(2^8) with the AES reduction polynomial
// x^8 + x^4 + x^3 + x + 1.
func gmul(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 == 1 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= 0x1b
		}
		b >>= 1
	}
	return p
}

// MixColumn multiplies one 4-byte column by the fixed MDS matrix.
func MixColumn(col [4]byte) [4]byte {
	return [4]byte{
		gmul(col[0], 2) ^ gmul(col[1], 3) ^ col[2] ^ col[3],
		col[0] ^ gmul(col[1], 2) ^ gmul(col[2], 3) ^ col[3],
		col[0] ^ col[1] ^ gmul(col[2], 2) ^ gmul(col[3], 3),
		gmul(col[0], 3) ^ col[1] ^ col[2] ^ gmul(col[3], 2),
	}
}

// invMixColumn applies the inverse MDS matrix to one column.
func invMixColumn(col [4]byte) [4]byte {
	return [4]byte{
		gmul(col[0], 0x0e) ^ gmul(col[1], 0x0b) ^ gmul(col[2], 0x0d) ^ gmul(col[3], 0x09),
		gmul(col[0], 0x09) ^ gmul(col[1], 0x0e) ^ gmul(col[2], 0x0b) ^ gmul(col[3], 0x0d),
		gmul(col[0], 0x0d) ^ gmul(col[1], 0x09) ^ gmul(col[2], 0x0e) ^ gmul(col[3], 0x0b),
		gmul(col[0], 0x0b) ^ gmul(col[1], 0x0d) ^ gmul(col[2], 0x09) ^ gmul(col[3], 0x0e),
	}
}

// MixColumns applies MixColumn to each of the four state columns.
func MixColumns(state [aesBlockSize]byte) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for c := 0; c < 4; c++ {
		col := MixColumn([4]byte{state[4*c], state[4*c+1], state[4*c+2], state[4*c+3]})
		copy(out[4*c:4*c+4], col[:])
	}
	return out
}

// invMixColumns applies the inverse mix to each column.
func invMixColumns(state [aesBlockSize]byte) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for c := 0; c < 4; c++ {
		col := invMixColumn([4]byte{state[4*c], state[4*c+1], state[4*c+2], state[4*c+3]})
		copy(out[4*c:4*c+4], col[:])
	}
	return out
}

// AddRoundKey XORs round key words 4*round..4*round+3 into the state
// columns.
func AddRoundKey(state [aesBlockSize]byte, ks *RoundKeySchedule, round int) [aesBlockSize]byte {
	var out [aesBlockSize]byte
	for c := 0; c < 4; c++ {
		w := ks.words[4*round+c]
		out[4*c+0] = state[4*c+0] ^ byte(w>>24)
		out[4*c+1] = state[4*c+1] ^ byte(w>>16)
		out[4*c+2] = state[4*c+2] ^ byte(w>>8)
		out[4*c+3] = state[4*c+3] ^ byte(w)
	}
	return out
}

// EncryptBlock runs the AES forward cipher on one block: an initial
// AddRoundKey, Nr-1 full rounds, and a final round without MixColumns.
func (ks *RoundKeySchedule) EncryptBlock(block [aesBlockSize]byte) [aesBlockSize]byte {
	state := AddRoundKey(block, ks, 0)
	for round := 1; round < ks.rounds; round++ {
		state = AddRoundKey(MixColumns(ShiftRows(SubBytes(state))), ks, round)
	}
	return AddRoundKey(ShiftRows(SubBytes(state)), ks, ks.rounds)
}

// DecryptBlock runs the inverse cipher.
func (ks *RoundKeySchedule) DecryptBlock(block [aesBlockSize]byte) [aesBlockSize]byte {
	state := AddRoundKey(block, ks, ks.rounds)
	for round := ks.rounds - 1; round > 0; round-- {
		state = invMixColumns(AddRoundKey(invSubBytes(invShiftRows(state)), ks, round))
	}
	return AddRoundKey(invSubBytes(invShiftRows(state)), ks, 0)
}
