package libsaispacked

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBuildSparseSuffixArrayInvalidSparseness(t *testing.T) {
	_, _, err := BuildSparseSuffixArray([]byte("acgt"), Options{Sparseness: 0, Mode: ModeDNA})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildSparseSuffixArrayEmptyInput(t *testing.T) {
	sa, _, err := BuildSparseSuffixArray(nil, Options{Sparseness: 3, Mode: ModeDNA})
	require.NoError(t, err)
	require.Empty(t, sa)
}

func TestBuildSparseSuffixArraySingleCharacter(t *testing.T) {
	sa, _, err := BuildSparseSuffixArray([]byte("A"), Options{Sparseness: 1, Mode: ModeDNA, Optimized: true})
	require.NoError(t, err)
	require.Equal(t, []int64{0}, sa)
}

func TestBuildSparseSuffixArrayAllIdentical(t *testing.T) {
	text := []byte("AAAAAAAAAA")
	sa, _, err := BuildSparseSuffixArray(text, Options{Sparseness: 2, Mode: ModeDNA, Optimized: true})
	require.NoError(t, err)
	require.Len(t, sa, 5)
	for _, v := range sa {
		require.Zero(t, v%2)
	}
}

func TestBuildSparseSuffixArrayCountsUnrecognizedDNABytes(t *testing.T) {
	text := []byte("ACGTNNRACGT")
	_, unrecognized, err := BuildSparseSuffixArray(text, Options{Sparseness: 2, Mode: ModeDNA, Optimized: true})
	require.NoError(t, err)
	require.Equal(t, 3, unrecognized)
}

func TestBuildSparseSuffixArrayOptimizedMatchesUnoptimized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabets := map[Mode]string{
		ModeDNA:     "ACGT",
		ModeProtein: "ACDEFGHIKLMNPQRSTVWY",
	}
	for mode, alphabet := range alphabets {
		for _, k := range []int{1, 2, 3, 5} {
			for trial := 0; trial < 5; trial++ {
				n := rng.Intn(150) + 1
				text := make([]byte, n)
				for i := range text {
					text[i] = alphabet[rng.Intn(len(alphabet))]
				}

				opt, _, err := BuildSparseSuffixArray(text, Options{Sparseness: k, Mode: mode, Optimized: true})
				require.NoError(t, err)
				unopt, _, err := BuildSparseSuffixArray(text, Options{Sparseness: k, Mode: mode, Optimized: false})
				require.NoError(t, err)

				if diff := cmp.Diff(unopt, opt); diff != "" {
					t.Fatalf("mode=%v k=%d n=%d: optimized/unoptimized mismatch (-unopt +opt):\n%s", mode, k, n, diff)
				}
			}
		}
	}
}

// TestBuildSparseSuffixArrayOptimizedMatchesUnoptimizedLargeScale is the
// large-scale counterpart to TestBuildSparseSuffixArrayOptimizedMatchesUnoptimized:
// random DNA at n0 = 100,003 (deliberately not a multiple of any tested
// k, so every trial's packed stream ends in a genuinely zero-padded
// final word). Optimized and unoptimized construction must still agree,
// because that padded word is always the single last element of the
// packed stream; whichever suffix it starts never gets compared past
// its own end, so the padding rank never competes against a real
// continuation the way it would if it could be followed by more packed
// words. k=1 is excluded: it bypasses packing entirely (see ssa.go's
// buildOptimized special case), so it never produces a padded word.
func TestBuildSparseSuffixArrayOptimizedMatchesUnoptimizedLargeScale(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const alphabet = "ACGT"
	const n0 = 100_003

	text := make([]byte, n0)
	for i := range text {
		text[i] = alphabet[rng.Intn(len(alphabet))]
	}

	for _, k := range []int{2, 3, 4, 5} {
		require.NotZero(t, n0%k, "k=%d: n0 must not be a multiple of k for this test to cover the padded case", k)

		opt, _, err := BuildSparseSuffixArray(text, Options{Sparseness: k, Mode: ModeDNA, Optimized: true})
		require.NoError(t, err)
		unopt, _, err := BuildSparseSuffixArray(text, Options{Sparseness: k, Mode: ModeDNA, Optimized: false})
		require.NoError(t, err)

		if diff := cmp.Diff(unopt, opt); diff != "" {
			t.Fatalf("k=%d n0=%d: optimized/unoptimized mismatch (-unopt +opt):\n%s", k, n0, diff)
		}
	}
}

func TestBuildSparseSuffixArrayProteinAlphabetTooLarge(t *testing.T) {
	// bits_per_char for a 20-symbol protein alphabet is 5; k=7 needs 35
	// bits per packed word, past the 32-bit ceiling.
	alphabet := "ACDEFGHIKLMNPQRSTVWY"
	text := make([]byte, 64)
	for i := range text {
		text[i] = alphabet[i%len(alphabet)]
	}

	_, _, err := BuildSparseSuffixArray(text, Options{Sparseness: 7, Mode: ModeProtein, Optimized: true})
	require.ErrorIs(t, err, ErrAlphabetTooLarge)
}
