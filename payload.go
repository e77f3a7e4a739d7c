package willcrypt

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// Supported payload encryption algorithm identifiers.
const (
	AlgorithmGCM = "aes-256-gcm"
	AlgorithmCTR = "aes-256-ctr"
)

// Payload limits. The key must be exactly an AES-256 key and the ciphertext
// is capped to keep a tampered length field from driving allocation.
const (
	PayloadKeySize    = 32
	MaxCiphertextSize = 16 << 20
)

// EncryptedPayload is the persisted form of an encrypted will document. The
// byte fields are the decoded values; the file form carries them base64
// encoded (see Encode and ParsePayload).
type EncryptedPayload struct {
	Algorithm  string
	IV         []byte
	AuthTag    []byte
	Ciphertext []byte
	Timestamp  time.Time
}

// payloadFile is the JSON wire form.
type payloadFile struct {
	Algorithm  string `json:"algorithm"`
	IV         string `json:"iv"`
	AuthTag    string `json:"authTag"`
	Ciphertext string `json:"ciphertext"`
	Timestamp  string `json:"timestamp"`
}

// EncryptPayload encrypts a will document under AES-256 with a fresh
// random 12-byte IV, producing a complete envelope.
func EncryptPayload(plaintext, key []byte, algorithm string) (*EncryptedPayload, error) {
	if len(key) != PayloadKeySize {
		return nil, errDomainf("payload key: need %d bytes, got %d", PayloadKeySize, len(key))
	}
	if len(plaintext) == 0 {
		return nil, errFormatf("ciphertext: plaintext must be non-empty")
	}
	if len(plaintext) > MaxCiphertextSize {
		return nil, errFormatf("ciphertext: plaintext exceeds maximum size %d", MaxCiphertextSize)
	}

	iv := make([]byte, GCMIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "generating payload iv")
	}

	var ciphertext, tag []byte
	var err error
	switch algorithm {
	case AlgorithmGCM:
		ciphertext, tag, err = SealGCM(key, iv, plaintext, nil)
	case AlgorithmCTR:
		ciphertext, tag, err = SealCTR(key, iv, plaintext)
	default:
		return nil, errDomainf("unsupported algorithm %q", algorithm)
	}
	if err != nil {
		return nil, err
	}

	return &EncryptedPayload{
		Algorithm:  algorithm,
		IV:         iv,
		AuthTag:    tag,
		Ciphertext: ciphertext,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// DecryptPayload authenticates and decrypts an envelope. Validation order
// matters: every format and domain check happens before any cryptographic
// work, and only a genuine tag mismatch surfaces as ErrAuthentication.
func DecryptPayload(p *EncryptedPayload, key []byte) ([]byte, error) {
	if len(key) != PayloadKeySize {
		return nil, errDomainf("payload key: need %d bytes, got %d", PayloadKeySize, len(key))
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	switch p.Algorithm {
	case AlgorithmGCM:
		return OpenGCM(key, p.IV, p.Ciphertext, p.AuthTag, nil)
	case AlgorithmCTR:
		return OpenCTR(key, p.IV, p.Ciphertext, p.AuthTag)
	default:
		return nil, errDomainf("unsupported algorithm %q", p.Algorithm)
	}
}

// validate applies the strict decrypt-side field checks.
func (p *EncryptedPayload) validate() error {
	if p.Algorithm != AlgorithmGCM && p.Algorithm != AlgorithmCTR {
		return errDomainf("unsupported algorithm %q", p.Algorithm)
	}
	if len(p.IV) != GCMIVSize {
		return errFormatf("iv: need %d bytes, got %d", GCMIVSize, len(p.IV))
	}
	if len(p.AuthTag) != GCMTagSize {
		return errFormatf("authTag: need %d bytes, got %d", GCMTagSize, len(p.AuthTag))
	}
	if len(p.Ciphertext) == 0 {
		return errFormatf("ciphertext: must be non-empty")
	}
	if len(p.Ciphertext) > MaxCiphertextSize {
		return errFormatf("ciphertext: exceeds maximum size %d", MaxCiphertextSize)
	}
	return nil
}

// Encode renders the envelope to its JSON file form.
func (p *EncryptedPayload) Encode() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(payloadFile{
		Algorithm:  p.Algorithm,
		IV:         base64.StdEncoding.EncodeToString(p.IV),
		AuthTag:    base64.StdEncoding.EncodeToString(p.AuthTag),
		Ciphertext: base64.StdEncoding.EncodeToString(p.Ciphertext),
		Timestamp:  p.Timestamp.UTC().Format(time.RFC3339),
	})
}

// ParsePayload parses and validates an envelope file. All four data fields
// are mandatory; a missing field, a base64 decode failure, a too-short
// iv/tag, an oversized or empty ciphertext, or an unparseable timestamp is
// rejected here, before any cryptographic work, with the offending field
// named. Parse-side length checks are the looser file-format bounds (iv at
// least 12 bytes, tag at least 16); DecryptPayload enforces the exact sizes
// the cipher needs.
func ParsePayload(raw []byte) (*EncryptedPayload, error) {
	var file payloadFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errFormatf("payload: not valid JSON: %v", err)
	}
	if file.Algorithm == "" {
		return nil, errFormatf("algorithm: missing")
	}

	decode := func(field, value string) ([]byte, error) {
		if value == "" {
			return nil, errFormatf("%s: missing", field)
		}
		b, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, errFormatf("%s: invalid base64: %v", field, err)
		}
		return b, nil
	}

	iv, err := decode("iv", file.IV)
	if err != nil {
		return nil, err
	}
	if len(iv) < GCMIVSize {
		return nil, errFormatf("iv: need at least %d bytes, got %d", GCMIVSize, len(iv))
	}
	tag, err := decode("authTag", file.AuthTag)
	if err != nil {
		return nil, err
	}
	if len(tag) < GCMTagSize {
		return nil, errFormatf("authTag: need at least %d bytes, got %d", GCMTagSize, len(tag))
	}
	ciphertext, err := decode("ciphertext", file.Ciphertext)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 {
		return nil, errFormatf("ciphertext: must be non-empty")
	}
	if len(ciphertext) > MaxCiphertextSize {
		return nil, errFormatf("ciphertext: exceeds maximum size %d", MaxCiphertextSize)
	}

	if file.Timestamp == "" {
		return nil, errFormatf("timestamp: missing")
	}
	ts, err := time.Parse(time.RFC3339, file.Timestamp)
	if err != nil {
		return nil, errFormatf("timestamp: not a valid ISO-8601 instant: %v", err)
	}

	return &EncryptedPayload{
		Algorithm:  file.Algorithm,
		IV:         iv,
		AuthTag:    tag,
		Ciphertext: ciphertext,
		Timestamp:  ts,
	}, nil
}
