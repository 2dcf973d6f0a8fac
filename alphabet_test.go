package libsaispacked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRankTableDNA(t *testing.T) {
	rt := BuildRankTable(ModeDNA, []byte("$ACGT"))
	require.EqualValues(t, 2, rt.BitsPerChar)
	require.Equal(t, 4, rt.AlphabetSize)

	// The '$' / 'A' collision is a known, preserved quirk of the
	// upstream rank table: both map to rank 0.
	require.EqualValues(t, 0, rt.Rank('$'))
	require.EqualValues(t, 0, rt.Rank('A'))
	require.EqualValues(t, 1, rt.Rank('C'))
	require.EqualValues(t, 2, rt.Rank('G'))
	require.EqualValues(t, 3, rt.Rank('T'))
}

func TestBuildRankTableDNAUnrecognized(t *testing.T) {
	rt := BuildRankTable(ModeDNA, []byte("ACGTN"))
	require.Equal(t, 1, rt.Unrecognized)
	require.EqualValues(t, 0, rt.Rank('N'))
}

func TestBuildRankTableProteinDenseAscending(t *testing.T) {
	// Occurring bytes: 'A' (0x41), 'C' (0x43), 'M' (0x4D). Ranks must
	// come out in ascending byte order regardless of first-seen order.
	rt := BuildRankTable(ModeProtein, []byte("MCA"))
	require.Equal(t, 3, rt.AlphabetSize)
	require.EqualValues(t, 0, rt.Rank('A'))
	require.EqualValues(t, 1, rt.Rank('C'))
	require.EqualValues(t, 2, rt.Rank('M'))
}

func TestBuildRankTableProteinFoldsLtoI(t *testing.T) {
	rt := BuildRankTable(ModeProtein, []byte("LI"))
	require.Equal(t, 1, rt.AlphabetSize, "L should fold into I, leaving one distinct symbol")
}

func TestBitsFor(t *testing.T) {
	cases := []struct {
		n    int
		bits uint8
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{20, 5},
		{256, 8},
	}
	for _, c := range cases {
		require.EqualValues(t, c.bits, bitsFor(c.n), "bitsFor(%d)", c.n)
	}
}

func TestChooseWidth(t *testing.T) {
	w, err := ChooseWidth(8)
	require.NoError(t, err)
	require.Equal(t, Width8, w)

	w, err = ChooseWidth(9)
	require.NoError(t, err)
	require.Equal(t, Width16, w)

	w, err = ChooseWidth(32)
	require.NoError(t, err)
	require.Equal(t, Width32, w)

	_, err = ChooseWidth(33)
	require.ErrorIs(t, err, ErrAlphabetTooLarge)
}

func TestPackKGramsPreservesOrder(t *testing.T) {
	// For DNA, 2 bits/char, k=4 packs 8 bits per word: comparing packed
	// words as plain integers must agree with comparing the 4-character
	// windows they encode, lexicographically over rank order.
	rt := BuildRankTable(ModeDNA, []byte("ACGTACGTAAAA"))
	text := []byte("ACGTACGTAAAA")
	packed := PackKGrams[uint8](rt, text, 4)
	require.Len(t, packed, 3)

	// "ACGT" == "ACGT"; "AAAA" vs "ACGT": A == A, then A < C, so "AAAA" < "ACGT".
	require.Less(t, packed[2], packed[0])
	require.Equal(t, packed[0], packed[1])
}

func TestPackKGramsLastWordPadding(t *testing.T) {
	rt := BuildRankTable(ModeDNA, []byte("ACGTA"))
	packed := PackKGrams[uint8](rt, []byte("ACGTA"), 4)
	require.Len(t, packed, 2)
	// Last word only has one real character ('A', rank 0) in its high
	// bits; the remaining low bits are zero padding.
	require.EqualValues(t, 0, packed[1])
}
