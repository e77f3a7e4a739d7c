package signer

import (
	"github.com/cockroachdb/errors"

	"github.com/willvault/willcrypt"
)

// LocalSigner implements Signer on top of the willcrypt engine.
type LocalSigner struct {
	keypair *willcrypt.KeyPair
}

// NewLocalSigner creates an uninitialized LocalSigner.
func NewLocalSigner() *LocalSigner {
	return &LocalSigner{}
}

// Generate creates a fresh key pair from system entropy.
func (s *LocalSigner) Generate() error {
	kp, err := willcrypt.GenerateKeyPair()
	if err != nil {
		return err
	}
	s.keypair = kp
	return nil
}

// InitSec initializes the signer from raw secret key bytes.
func (s *LocalSigner) InitSec(sec []byte) error {
	kp, err := willcrypt.NewKeyPair(sec)
	if err != nil {
		return err
	}
	s.keypair = kp
	return nil
}

// Pub returns the uncompressed public key.
func (s *LocalSigner) Pub() []byte {
	if s.keypair == nil {
		return nil
	}
	pub, err := s.keypair.Public().SerializeUncompressed()
	if err != nil {
		return nil
	}
	return pub
}

// Sign signs a 32-byte message hash, returning the 65-byte compact form.
func (s *LocalSigner) Sign(msghash []byte) ([]byte, error) {
	if s.keypair == nil {
		return nil, errors.New("signer has no secret key")
	}
	sig, err := s.keypair.Sign(msghash)
	if err != nil {
		return nil, err
	}
	return sig.Compact()
}

// Verify checks a compact signature against this signer's public key.
func (s *LocalSigner) Verify(msghash, sig []byte) (bool, error) {
	if s.keypair == nil {
		return false, errors.New("signer has no public key")
	}
	parsed, err := willcrypt.ParseCompact(sig)
	if err != nil {
		return false, err
	}
	return willcrypt.Verify(msghash, parsed, s.keypair.Public()), nil
}
