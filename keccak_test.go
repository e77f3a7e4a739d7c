package willcrypt

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"
)

// Reference digests for the Ethereum Keccak-256 variant (original multi-rate
// padding, no SHA3 suffix).
var keccak256Vectors = []struct {
	in   string
	want string
}{
	{"", "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
	{"Hello World", "592fa743889fc7f92ac2a37bb1f5ba1daf2a5c84741ca0e0061d243a2e6707ba"},
	{"The quick brown fox jumps over the lazy dog", "4d741b6f1eb29cb2a9b9911c82f56fa8d73b04959d3d9d222895df6c0b28aa15"},
}

func TestKeccak256Vectors(t *testing.T) {
	for _, tc := range keccak256Vectors {
		got := hex.EncodeToString(Keccak256([]byte(tc.in)))
		if got != tc.want {
			t.Errorf("Keccak256(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestKeccak256Concatenation(t *testing.T) {
	// Hashing split inputs must equal hashing their concatenation.
	msg := []byte("The quick brown fox jumps over the lazy dog")
	if !bytes.Equal(Keccak256(msg[:17], msg[17:]), Keccak256(msg)) {
		t.Error("split input hashed differently from concatenated input")
	}
	if !bytes.Equal(Keccak256(), Keccak256(nil)) {
		t.Error("no arguments and a nil argument should hash identically")
	}
}

func TestKeccak256MultiBlock(t *testing.T) {
	// Inputs straddling the 136-byte rate exercise multi-block absorption;
	// nearby lengths must not collide.
	long := bytes.Repeat([]byte{0xa5}, 3*KeccakRate+11)
	d1 := Keccak256(long)
	d2 := Keccak256(long[:len(long)-1])
	if bytes.Equal(d1, d2) {
		t.Error("distinct inputs produced the same digest")
	}
	if len(d1) != 32 {
		t.Errorf("digest length %d", len(d1))
	}

	// Exactly one rate of data forces a full extra padding block.
	if len(Keccak256(make([]byte, KeccakRate))) != 32 {
		t.Error("rate-aligned input failed")
	}
}

func TestKeccak256Hex(t *testing.T) {
	got := Keccak256Hex(nil)
	if !strings.HasPrefix(got, "0x") || len(got) != 66 {
		t.Fatalf("bad format: %q", got)
	}
	if got != "0x"+keccak256Vectors[0].want {
		t.Errorf("Keccak256Hex(nil) = %s", got)
	}
	if got != strings.ToLower(got) {
		t.Error("digest hex must be lowercase")
	}
}

func TestKeccakStateViews(t *testing.T) {
	var state KeccakState
	seed := make([]byte, keccakStateSize)
	if _, err := rand.Read(seed); err != nil {
		t.Fatal(err)
	}
	var raw [keccakStateSize]byte
	copy(raw[:], seed)
	state.SetBytes(raw)

	if got := state.Bytes(); got != raw {
		t.Fatal("byte view round-trip lost information")
	}

	var fromBits KeccakState
	fromBits.SetBits(state.Bits())
	if fromBits != state {
		t.Fatal("bit view round-trip lost information")
	}

	// Bit ordering: bit j of state byte i lives at index 8i+j.
	bv := state.Bits()
	for _, idx := range []int{0, 7, 8, 63, 64, 1599} {
		want := (raw[idx/8] >> (idx % 8)) & 1
		if bv[idx] != want {
			t.Fatalf("bit %d: got %d, want %d", idx, bv[idx], want)
		}
	}
}

func TestKeccakPermuteChangesState(t *testing.T) {
	// keccak-f has no fixed point at zero thanks to the round constants.
	var zero KeccakState
	if zero.Permute() == zero {
		t.Fatal("permutation fixed the all-zero state")
	}

	// Determinism.
	if zero.Permute() != zero.Permute() {
		t.Fatal("permutation is not deterministic")
	}
}

func TestAbsorbBlockPanicsOnBadLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AbsorbBlock accepted a short block")
		}
	}()
	var s KeccakState
	s.AbsorbBlock(make([]byte, KeccakRate-1))
}
