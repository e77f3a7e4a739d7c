// Package signer abstracts the ECDSA signature algorithm behind a small
// interface with two interchangeable backends: the local willcrypt engine
// and the btcec reference implementation. The cross-validation harness
// drives both against the same inputs.
package signer

// Signer signs 32-byte message hashes over secp256k1 and exposes its public
// key in the uncompressed 0x04 || x || y form. Signatures use the 65-byte
// compact wire format (r || s || recovery marker) with canonical low s.
type Signer interface {
	// Generate creates a fresh key pair from system entropy.
	Generate() error

	// InitSec initializes the signer from 32 bytes of secret key material
	// and derives the public key.
	InitSec(sec []byte) error

	// Pub returns the uncompressed 65-byte public key, or nil before
	// initialization.
	Pub() []byte

	// Sign signs a 32-byte message hash, returning the compact wire form.
	Sign(msghash []byte) ([]byte, error)

	// Verify checks a compact signature against a 32-byte message hash
	// under this signer's public key.
	Verify(msghash, sig []byte) (bool, error)
}
