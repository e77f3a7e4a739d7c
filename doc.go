// Package willcrypt is a from-scratch implementation of the cryptographic
// primitives behind the willvault digital-will system: secp256k1 field,
// group, and ECDSA arithmetic with public key recovery, the Ethereum
// variant of Keccak-256, and AES-256 in GCM and authenticated counter mode
// wrapped in a JSON payload envelope.
//
// Every primitive is built from its mathematical definition rather than
// delegated, so each intermediate state (sponge lanes, cipher rounds, curve
// points) is inspectable by the zk-circuit toolchain under circuit/. The
// test suite cross-validates the engine against btcec, go-ethereum,
// x/crypto, and the standard library.
//
// This package is not hardened against timing side channels on the signing
// path; keep it away from hostile-timing environments and use the signer
// package's btcec backend where that matters.
package willcrypt
