package willcrypt

import (
	"encoding/hex"
	"testing"

	"github.com/cockroachdb/errors"
)

func hexBlock(t *testing.T, s string) [aesBlockSize]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != aesBlockSize {
		t.Fatalf("bad block fixture %q", s)
	}
	var out [aesBlockSize]byte
	copy(out[:], b)
	return out
}

// FIPS-197 appendix C example vectors, one per key size.
var aesBlockVectors = []struct {
	key string
	ct  string
}{
	{"000102030405060708090a0b0c0d0e0f", "69c4e0d86a7b0430d8cdb78070b4c55a"},
	{"000102030405060708090a0b0c0d0e0f1011121314151617", "dda97ca4864cdfe06eaf70a0ec0d7191"},
	{"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "8ea2b7ca516745bfeafc49904b496089"},
}

func TestEncryptBlockVectors(t *testing.T) {
	pt := hexBlock(t, "00112233445566778899aabbccddeeff")
	for _, tc := range aesBlockVectors {
		key, err := hex.DecodeString(tc.key)
		if err != nil {
			t.Fatal(err)
		}
		ks, err := ExpandKey(key)
		if err != nil {
			t.Fatal(err)
		}

		got := ks.EncryptBlock(pt)
		if want := hexBlock(t, tc.ct); got != want {
			t.Errorf("key size %d: encrypt = %x, want %s", len(key), got, tc.ct)
		}
		if back := ks.DecryptBlock(got); back != pt {
			t.Errorf("key size %d: decrypt did not invert encrypt", len(key))
		}
	}
}

func TestExpandKey(t *testing.T) {
	for _, tc := range []struct {
		size, rounds int
	}{{16, 10}, {24, 12}, {32, 14}} {
		ks, err := ExpandKey(make([]byte, tc.size))
		if err != nil {
			t.Fatal(err)
		}
		if ks.Rounds() != tc.rounds {
			t.Errorf("key size %d: %d rounds, want %d", tc.size, ks.Rounds(), tc.rounds)
		}
		if len(ks.words) != 4*(tc.rounds+1) {
			t.Errorf("key size %d: %d schedule words", tc.size, len(ks.words))
		}
	}

	for _, size := range []int{0, 15, 20, 33} {
		if _, err := ExpandKey(make([]byte, size)); !errors.Is(err, ErrDomain) {
			t.Errorf("key size %d accepted", size)
		}
	}
}

func TestExpandKeyScheduleVector(t *testing.T) {
	// FIPS-197 appendix A.1: the final expanded word of the example
	// AES-128 key is b6630ca6.
	key, _ := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	ks, err := ExpandKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if got := ks.words[43]; got != 0xb6630ca6 {
		t.Errorf("w43 = %08x, want b6630ca6", got)
	}
}

func TestSubBytesInverts(t *testing.T) {
	var state [aesBlockSize]byte
	for i := range state {
		state[i] = byte(i * 17)
	}
	sub := SubBytes(state)
	if sub == state {
		t.Fatal("SubBytes is the identity")
	}
	if invSubBytes(sub) != state {
		t.Fatal("invSubBytes does not invert SubBytes")
	}
	// Spot-check the table: S(0x00) = 0x63, S(0x53) = 0xed.
	if aesSBox[0x00] != 0x63 || aesSBox[0x53] != 0xed {
		t.Fatal("substitution table corrupted")
	}
}

func TestShiftRows(t *testing.T) {
	// State laid out column-major with byte value == index: row r of the
	// output is row r of the input rotated left by r positions.
	var state [aesBlockSize]byte
	for i := range state {
		state[i] = byte(i)
	}
	want := [aesBlockSize]byte{0, 5, 10, 15, 4, 9, 14, 3, 8, 13, 2, 7, 12, 1, 6, 11}
	got := ShiftRows(state)
	if got != want {
		t.Fatalf("ShiftRows = %v, want %v", got, want)
	}
	if invShiftRows(got) != state {
		t.Fatal("invShiftRows does not invert ShiftRows")
	}
}

func TestMixColumn(t *testing.T) {
	if got := MixColumn([4]byte{0, 0, 0, 0}); got != [4]byte{0, 0, 0, 0} {
		t.Errorf("MixColumn(0) = %v", got)
	}
	// The unit column picks out the first column of the MDS matrix.
	if got := MixColumn([4]byte{0x01, 0, 0, 0}); got != [4]byte{0x02, 0x01, 0x01, 0x03} {
		t.Errorf("MixColumn(e0) = %v", got)
	}

	col := [4]byte{0xdb, 0x13, 0x53, 0x45}
	if got := invMixColumn(MixColumn(col)); got != col {
		t.Error("invMixColumn does not invert MixColumn")
	}

	var state [aesBlockSize]byte
	for i := range state {
		state[i] = byte(i * 31)
	}
	if invMixColumns(MixColumns(state)) != state {
		t.Error("invMixColumns does not invert MixColumns")
	}
}

func TestAddRoundKeyInvolution(t *testing.T) {
	ks, err := ExpandKey(make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	var state [aesBlockSize]byte
	for i := range state {
		state[i] = byte(200 - i)
	}
	once := AddRoundKey(state, ks, 3)
	if AddRoundKey(once, ks, 3) != state {
		t.Fatal("AddRoundKey applied twice is not the identity")
	}
}
