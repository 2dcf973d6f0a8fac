package libsaispacked

import "errors"

// Sentinel errors returned by the engine and the alphabet compactor.
// cmd/build-ssa wraps these with call-site context via github.com/pkg/errors
// while preserving errors.Is matching against these values.
var (
	// ErrInvalidInput is returned by BuildSparseSuffixArray when the
	// sparseness factor is less than 1.
	ErrInvalidInput = errors.New("libsais-packed: invalid input")

	// ErrAllocationFailure is returned when a requested buffer size is
	// implausible to honor, most concretely when ReadSACompressed or
	// ReadSARaw is asked to size a suffix array from a length that is
	// corrupt, adversarial, or otherwise absurd. Go's allocator panics
	// rather than returning nil on true exhaustion, so this is the
	// closest analogue to the C driver's malloc-returned-null checks:
	// catch the bad size before it reaches make(), not after.
	ErrAllocationFailure = errors.New("libsais-packed: allocation failure")

	// ErrAlphabetTooLarge is returned when bits_per_char * sparseness
	// factor exceeds 32, the largest packed symbol width this engine
	// supports.
	ErrAlphabetTooLarge = errors.New("libsais-packed: alphabet too large")
)
