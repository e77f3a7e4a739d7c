package willcrypt

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"

	sha256simd "github.com/minio/sha256-simd"
	"github.com/rs/zerolog"
)

// keyLogger receives weak-key warnings. It defaults to a nop logger so the
// library stays silent unless the caller opts in; there is no implicit
// environment configuration.
var keyLogger = zerolog.Nop()

// SetLogger installs the logger used for weak-key warnings.
func SetLogger(l zerolog.Logger) { keyLogger = l }

// DecodeKey decodes a symmetric key string as read from a key file. Both
// encodings found in the wild are accepted: base64, and hex (with or
// without a 0x prefix). The decoded length must be exactly 32 bytes.
// Degenerate all-0x00 or all-0xFF keys are accepted but logged, since they
// usually mean an uninitialized key file rather than a chosen key.
func DecodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errFormatf("key: missing")
	}

	// A 32-byte key is 64 hex characters or 44 base64 characters, so the
	// two encodings never collide at the right length.
	var key []byte
	if h, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil && len(h) == PayloadKeySize {
		key = h
	} else if b, err := base64.StdEncoding.DecodeString(s); err == nil && len(b) == PayloadKeySize {
		key = b
	} else {
		return nil, errFormatf("key: not a %d-byte hex or base64 value", PayloadKeySize)
	}

	if weakKey(key) {
		keyLogger.Warn().
			Str("fingerprint", KeyFingerprint(key)).
			Msg("degenerate key material: key is all-zero or all-0xFF bytes")
	}
	return key, nil
}

// weakKey reports the two degenerate patterns worth warning about.
func weakKey(key []byte) bool {
	return bytes.Equal(key, make([]byte, len(key))) ||
		bytes.Equal(key, bytes.Repeat([]byte{0xff}, len(key)))
}

// KeyFingerprint returns a short identifier for key material that is safe
// to log: the first eight bytes of its SHA-256, hex encoded.
func KeyFingerprint(key []byte) string {
	sum := sha256simd.Sum256(key)
	return hex.EncodeToString(sum[:8])
}
