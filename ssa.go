package libsaispacked

import "sort"

// Options controls how BuildSparseSuffixArray compacts and samples its
// input.
type Options struct {
	// Sparseness is the factor k: only every k'th suffix is kept in the
	// result. Must be >= 1.
	Sparseness int
	// Mode selects the alphabet compaction strategy (DNA or protein).
	Mode Mode
	// Optimized selects the packed-alphabet construction path. When
	// false, the engine instead builds the full suffix array of the
	// unpacked text and subsamples it afterward; this is slower and
	// exists only as a correctness oracle for the optimized path's
	// output, not a recommended default.
	Optimized bool
}

// BuildSparseSuffixArray builds a sparse suffix array of text under
// opts. The returned slice holds text offsets of every opts.Sparseness
// 'th suffix, in suffix-sorted order. The second return value is the
// number of input bytes that fell outside the selected mode's alphabet
// (always 0 outside ModeDNA, where out-of-alphabet bytes are folded to
// rank 0 rather than rejected).
func BuildSparseSuffixArray(text []byte, opts Options) ([]int64, int, error) {
	if opts.Sparseness < 1 {
		return nil, 0, ErrInvalidInput
	}
	if len(text) == 0 {
		return []int64{}, 0, nil
	}

	rt := BuildRankTable(opts.Mode, text)

	var sa []int64
	var err error
	if !opts.Optimized {
		sa, err = buildUnoptimized(text, opts)
	} else {
		sa, err = buildOptimized(text, opts, rt)
	}
	if err != nil {
		return nil, rt.Unrecognized, err
	}
	return sa, rt.Unrecognized, nil
}

// buildOptimized implements the default path: compact the alphabet,
// bit-pack k consecutive characters into one machine word per sampled
// position, and run SA-IS directly on the packed stream. The resulting
// indexes address the packed stream, so they are scaled back up by k
// to become offsets into the original text.
//
// As a special case, k == 1 skips compaction and packing entirely and
// runs the engine on the raw bytes (folded for protein mode), matching
// the reference driver's own special-case for an unsampled SA.
func buildOptimized(text []byte, opts Options, rt *RankTable) ([]int64, error) {
	k := opts.Sparseness

	if k == 1 {
		folded := text
		if opts.Mode == ModeProtein {
			folded = foldLtoI(text)
		}
		return computeSuffixArray(folded, 256), nil
	}

	requiredBits := RequiredBits(rt, k)
	width, err := ChooseWidth(requiredBits)
	if err != nil {
		return nil, err
	}

	var sa []int64
	switch width {
	case Width8:
		packed := PackKGrams[uint8](rt, text, k)
		sa = computeSuffixArray(packed, 1<<uint(requiredBits))
	case Width16:
		packed := PackKGrams[uint16](rt, text, k)
		sa = computeSuffixArray(packed, 1<<uint(requiredBits))
	case Width32:
		// 1<<requiredBits can run into the billions here, far too
		// large for a dense frequency/bucket array. Since the packed
		// words that actually occur are a small, arbitrary subset of
		// that range, rank-compact them into a dense alphabet first
		// (order-preserving, so the resulting suffix array over the
		// compacted stream is identical to one over the original
		// packed stream) and run the engine over that instead.
		packed := PackKGrams[uint32](rt, text, k)
		dense, denseMax := compactDense(packed)
		sa = computeSuffixArray(dense, denseMax)
	}

	for i := range sa {
		sa[i] *= int64(k)
	}
	return sa, nil
}

// buildUnoptimized builds the full suffix array of the unpacked
// (protein-folded, if applicable) text and keeps only the entries
// whose offset is a multiple of k, preserving suffix order. It serves as
// a reference for buildOptimized's output, in the tests and in
// cmd/build-ssa's -u mode; it does strictly more work for the same
// result.
func buildUnoptimized(text []byte, opts Options) ([]int64, error) {
	k := opts.Sparseness

	folded := text
	if opts.Mode == ModeProtein {
		folded = foldLtoI(text)
	}

	full := computeSuffixArray(folded, 256)

	sa := make([]int64, 0, (len(text)+k-1)/k)
	for _, v := range full {
		if v%int64(k) == 0 {
			sa = append(sa, v)
		}
	}
	return sa, nil
}

// foldLtoI returns a copy of text with every 'L' replaced by 'I',
// matching the protein-alphabet fold the reference driver applies once
// to the whole buffer right after reading it.
func foldLtoI(text []byte) []byte {
	out := make([]byte, len(text))
	for i, c := range text {
		if c == 'L' {
			c = 'I'
		}
		out[i] = c
	}
	return out
}

// compactDense rank-compacts an arbitrary slice of uint32 values into
// a dense, order-preserving int64 alphabet starting at 0, returning
// the compacted slice and the number of distinct values (the new
// alphabet size).
func compactDense(packed []uint32) ([]int64, int) {
	order := make([]int, len(packed))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return packed[order[a]] < packed[order[b]] })

	dense := make([]int64, len(packed))
	rank := int64(-1)
	var last uint32
	for pos, i := range order {
		if pos == 0 || packed[i] != last {
			rank++
			last = packed[i]
		}
		dense[i] = rank
	}
	return dense, int(rank + 1)
}
