package willcrypt

import (
	"crypto/rand"

	"github.com/cockroachdb/errors"
)

// maxScalarAttempts bounds the rejection-sampling loops for key and nonce
// generation. A single draw fails with probability below 2^-128, so hitting
// the ceiling indicates a broken entropy source rather than bad luck.
const maxScalarAttempts = 64

// randomScalar draws a uniformly random scalar in [1, n-1] from the
// process's cryptographically secure source. Out-of-range draws are
// discarded and redrawn, never reduced, so the result carries no modular
// bias.
func randomScalar() (Scalar, error) {
	var buf [32]byte
	for attempt := 0; attempt < maxScalarAttempts; attempt++ {
		if _, err := rand.Read(buf[:]); err != nil {
			return Scalar{}, errors.Wrap(err, "reading random scalar bytes")
		}
		s, err := scalarFromSecretBytes(buf[:])
		if err != nil {
			continue
		}
		return s, nil
	}
	return Scalar{}, errors.New("random scalar generation exceeded attempt ceiling")
}
