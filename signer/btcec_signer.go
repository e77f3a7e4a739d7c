package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"
	becdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cockroachdb/errors"
)

// BtcecSigner implements Signer using btcec, the pure-Go reference
// implementation the harness cross-validates against.
type BtcecSigner struct {
	privKey *btcec.PrivateKey
	pubKey  *btcec.PublicKey
}

// NewBtcecSigner creates an uninitialized BtcecSigner.
func NewBtcecSigner() *BtcecSigner {
	return &BtcecSigner{}
}

// Generate creates a fresh key pair from system entropy.
func (s *BtcecSigner) Generate() error {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	s.privKey = privKey
	s.pubKey = privKey.PubKey()
	return nil
}

// InitSec initializes the signer from raw secret key bytes.
func (s *BtcecSigner) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return errors.New("secret key must be 32 bytes")
	}
	privKey, pubKey := btcec.PrivKeyFromBytes(sec)
	if privKey.Key.IsZero() {
		return errors.New("secret key is zero")
	}
	s.privKey = privKey
	s.pubKey = pubKey
	return nil
}

// Pub returns the uncompressed public key.
func (s *BtcecSigner) Pub() []byte {
	if s.pubKey == nil {
		return nil
	}
	return s.pubKey.SerializeUncompressed()
}

// Sign signs a 32-byte message hash. btcec's compact form carries the
// recovery marker first; this reorders it to the r || s || marker layout
// the rest of the system uses.
func (s *BtcecSigner) Sign(msghash []byte) ([]byte, error) {
	if s.privKey == nil {
		return nil, errors.New("signer has no secret key")
	}
	if len(msghash) != 32 {
		return nil, errors.New("message hash must be 32 bytes")
	}
	compact := becdsa.SignCompact(s.privKey, msghash, false)
	out := make([]byte, 65)
	copy(out[0:64], compact[1:65])
	out[64] = compact[0]
	return out, nil
}

// Verify checks a compact signature against this signer's public key.
func (s *BtcecSigner) Verify(msghash, sig []byte) (bool, error) {
	if s.pubKey == nil {
		return false, errors.New("signer has no public key")
	}
	if len(sig) != 65 {
		return false, errors.New("compact signature must be 65 bytes")
	}
	var r, sc btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[0:32]); overflow {
		return false, nil
	}
	if overflow := sc.SetByteSlice(sig[32:64]); overflow {
		return false, nil
	}
	return becdsa.NewSignature(&r, &sc).Verify(msghash, s.pubKey), nil
}
