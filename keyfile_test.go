package willcrypt

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeyEncodings(t *testing.T) {
	key := make([]byte, PayloadKeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}

	for _, in := range []string{
		hex.EncodeToString(key),
		"0x" + hex.EncodeToString(key),
		strings.ToUpper(hex.EncodeToString(key)),
		base64.StdEncoding.EncodeToString(key),
		"  " + hex.EncodeToString(key) + "\n",
	} {
		got, err := DecodeKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, key, got, in)
	}
}

func TestDecodeKeyRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"deadbeef",
		hex.EncodeToString(make([]byte, 31)),
		hex.EncodeToString(make([]byte, 33)),
		base64.StdEncoding.EncodeToString(make([]byte, 16)),
		"zz" + strings.Repeat("00", 31),
	} {
		_, err := DecodeKey(in)
		assert.ErrorIs(t, err, ErrFormat, "input %q", in)
	}
}

func TestDecodeKeyWarnsOnDegenerateKeys(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	zero := strings.Repeat("00", PayloadKeySize)
	_, err := DecodeKey(zero)
	require.NoError(t, err, "weak keys are accepted, only warned about")
	assert.Contains(t, buf.String(), "degenerate key material")
	assert.Contains(t, buf.String(), "fingerprint")

	buf.Reset()
	ones := strings.Repeat("ff", PayloadKeySize)
	_, err = DecodeKey(ones)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "degenerate key material")

	// A normal key stays silent.
	buf.Reset()
	normal := make([]byte, PayloadKeySize)
	normal[5] = 0x5a
	_, err = DecodeKey(hex.EncodeToString(normal))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestKeyFingerprint(t *testing.T) {
	key := make([]byte, PayloadKeySize)
	fp := KeyFingerprint(key)
	assert.Len(t, fp, 16, "eight bytes of hex")
	assert.NotEqual(t, fp, KeyFingerprint(bytes.Repeat([]byte{1}, PayloadKeySize)))
	assert.Equal(t, fp, KeyFingerprint(key), "fingerprint is deterministic")
	assert.NotContains(t, fp, hex.EncodeToString(key)[:16], "fingerprint must not leak key bytes")
}
