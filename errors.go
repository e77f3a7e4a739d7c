package willcrypt

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors for the three failure classes callers branch on. Every
// error this package returns wraps exactly one of them, so errors.Is works
// across wrapping with both the standard library and cockroachdb/errors.
var (
	// ErrFormat marks structurally invalid input: wrong lengths, bad
	// encodings, missing envelope fields.
	ErrFormat = errors.New("malformed input")

	// ErrAuthentication marks a failed payload authentication check. It
	// deliberately carries no detail about where the mismatch occurred.
	ErrAuthentication = errors.New("payload authentication failed")

	// ErrDomain marks values that parse fine but fall outside the
	// cryptographic domain: out-of-range scalars, off-curve points,
	// unsupported algorithms and key sizes.
	ErrDomain = errors.New("value outside cryptographic domain")
)

func errFormatf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrFormat, format, args...)
}

func errDomainf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDomain, format, args...)
}
