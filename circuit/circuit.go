// Package circuit holds the zk-circuit boundary of the library: a gnark
// circuit asserting ECDSA verification over emulated secp256k1. The native
// engine is the golden oracle for this circuit; cmd/willcrypt-testgen emits
// the witness test cases the external circuit toolchain consumes.
package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_emulated"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/signature/ecdsa"
)

// VerifyCircuit constrains a secp256k1 ECDSA signature to verify against a
// public key. The signature and hash are private witnesses; the key is the
// public input.
type VerifyCircuit struct {
	R       emulated.Element[emulated.Secp256k1Fr] `gnark:",secret"`
	S       emulated.Element[emulated.Secp256k1Fr] `gnark:",secret"`
	MsgHash emulated.Element[emulated.Secp256k1Fr] `gnark:",secret"`

	PubKeyX emulated.Element[emulated.Secp256k1Fp] `gnark:",public"`
	PubKeyY emulated.Element[emulated.Secp256k1Fp] `gnark:",public"`
}

// Define declares the verification constraint.
func (circuit *VerifyCircuit) Define(api frontend.API) error {
	curveParams := sw_emulated.GetCurveParams[emulated.Secp256k1Fp]()

	pubKey := ecdsa.PublicKey[emulated.Secp256k1Fp, emulated.Secp256k1Fr]{
		X: circuit.PubKeyX,
		Y: circuit.PubKeyY,
	}
	sig := ecdsa.Signature[emulated.Secp256k1Fr]{
		R: circuit.R,
		S: circuit.S,
	}

	pubKey.Verify(api, curveParams, &circuit.MsgHash, &sig)
	return nil
}
