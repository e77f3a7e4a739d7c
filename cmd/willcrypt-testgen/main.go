// willcrypt-testgen signs a message with the native engine and emits the
// test-case JSON the zk-circuit toolchain consumes as its witness input.
// With -check, it also compiles the verification circuit and confirms the
// generated case solves it.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/rs/zerolog"

	"github.com/willvault/willcrypt"
	"github.com/willvault/willcrypt/circuit"
)

// TestCase is the witness file format shared with the circuit toolchain.
type TestCase struct {
	R       string `json:"r"`
	S       string `json:"s"`
	MsgHash string `json:"msghash"`
	PubKeyX string `json:"pubkey_x"`
	PubKeyY string `json:"pubkey_y"`
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	keyHex := flag.String("key", "", "32-byte private key, hex; a fresh key is generated when empty")
	msg := flag.String("msg", "willcrypt circuit test vector", "message to hash and sign")
	out := flag.String("out", "", "output file; stdout when empty")
	check := flag.Bool("check", false, "compile the verification circuit and confirm the case solves it")
	flag.Parse()

	var kp *willcrypt.KeyPair
	var err error
	if *keyHex == "" {
		kp, err = willcrypt.GenerateKeyPair()
	} else {
		var sec []byte
		sec, err = hex.DecodeString(*keyHex)
		if err == nil {
			kp, err = willcrypt.NewKeyPair(sec)
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("loading key")
	}

	hash := willcrypt.Keccak256([]byte(*msg))
	sig, err := kp.Sign(hash)
	if err != nil {
		log.Fatal().Err(err).Msg("signing")
	}

	x, y, _ := kp.Public().Coords()
	tc := TestCase{
		R:       scalarDec(sig.R().Bytes32()),
		S:       scalarDec(sig.S().Bytes32()),
		MsgHash: scalarDec([32]byte(hash)),
		PubKeyX: scalarDec(x.Bytes32()),
		PubKeyY: scalarDec(y.Bytes32()),
	}

	raw, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encoding test case")
	}
	if *out == "" {
		os.Stdout.Write(append(raw, '\n'))
	} else if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("writing test case")
	}

	if *check {
		if err := solve(tc); err != nil {
			log.Fatal().Err(err).Msg("circuit check failed")
		}
		log.Info().Msg("circuit check passed")
	}
}

// scalarDec renders a 32-byte big-endian value as the decimal string the
// toolchain's witness parser expects.
func scalarDec(b [32]byte) string {
	return new(big.Int).SetBytes(b[:]).String()
}

// solve compiles the verification circuit and checks the test case against
// it with a full witness.
func solve(tc TestCase) error {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit.VerifyCircuit{})
	if err != nil {
		return err
	}

	assignment := circuit.VerifyCircuit{
		R:       emulated.ValueOf[emulated.Secp256k1Fr](mustBig(tc.R)),
		S:       emulated.ValueOf[emulated.Secp256k1Fr](mustBig(tc.S)),
		MsgHash: emulated.ValueOf[emulated.Secp256k1Fr](mustBig(tc.MsgHash)),
		PubKeyX: emulated.ValueOf[emulated.Secp256k1Fp](mustBig(tc.PubKeyX)),
		PubKeyY: emulated.ValueOf[emulated.Secp256k1Fp](mustBig(tc.PubKeyY)),
	}
	witness, err := frontend.NewWitness(&assignment, ecc.BN254.ScalarField())
	if err != nil {
		return err
	}
	return ccs.IsSolved(witness)
}

func mustBig(dec string) *big.Int {
	v, ok := new(big.Int).SetString(dec, 10)
	if !ok {
		panic("test case field is not a decimal integer: " + dec)
	}
	return v
}
