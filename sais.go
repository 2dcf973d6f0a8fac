// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-go file.

package libsaispacked

// This file implements induced-sorting suffix array construction
// (SA-IS) over an arbitrary-size integer alphabet, producing a 64-bit
// index suffix array. It started life as the standard library's
// index/suffixarray SA-IS implementation: that code hand-duplicates
// the algorithm once per symbol width (byte text, int32 text, int64
// text) because Go lacked generics when it was written. Here the
// duplicated families collapse into one implementation parameterized
// over the symbol's underlying integer type; every scan, bucket
// computation, and the sign-bit work-queue convention below matches
// that original line for line in behavior.

// symbol is the set of integer types SA-IS can run over directly: the
// three packed k-gram widths the alphabet compactor produces, plus the
// int64 "name" alphabet that the LMS-substring reduction recurses on.
type symbol interface {
	~uint8 | ~uint16 | ~uint32 | ~int64
}

// computeSuffixArray builds the suffix array of text, a sequence over
// an alphabet of textMax symbols (values [0, textMax)). It returns a
// freshly allocated 64-bit suffix array of the same length as text.
func computeSuffixArray[T symbol](text []T, textMax int) []int64 {
	sa := make([]int64, len(text))
	tmp := make([]int64, 2*textMax)
	saisCompute(text, textMax, sa, tmp)
	return sa
}

// saisCompute computes the suffix array of text, whose elements must
// all lie in [0, textMax). The result is stored in sa, which the
// caller must ensure is already zeroed and exactly len(text) long. The
// caller must supply tmp with len(tmp) >= textMax; with len(tmp) >=
// 2*textMax the algorithm avoids recomputing character frequencies.
func saisCompute[T symbol](text []T, textMax int, sa, tmp []int64) {
	if len(sa) != len(text) || len(tmp) < textMax {
		panic("libsais-packed: misuse of saisCompute")
	}

	// Trivial base cases. Sorting 0 or 1 things is easy.
	if len(text) == 0 {
		return
	}
	if len(text) == 1 {
		sa[0] = 0
		return
	}

	// Establish slices indexed by symbol value holding frequency and
	// bucket-sort offsets. If there's only enough tmp for one slice, we
	// make it the bucket offsets and recompute the frequency each time
	// it's needed.
	var freq, bucket []int64
	if len(tmp) >= 2*textMax {
		freq, bucket = tmp[:textMax], tmp[textMax:2*textMax]
		freq[0] = -1 // mark as uninitialized
	} else {
		freq, bucket = nil, tmp[:textMax]
	}

	// Each of the following calls makes one scan through sa. See the
	// individual functions for documentation about each's role.
	numLMS := placeLMS(text, sa, freq, bucket, textMax)
	if numLMS <= 1 {
		// 0 or 1 items are already sorted. Do nothing.
	} else {
		induceSubL(text, sa, freq, bucket, textMax)
		induceSubS(text, sa, freq, bucket, textMax)
		lengthLMS(text, sa, numLMS)
		maxID := assignID(text, sa, numLMS)
		if maxID < numLMS {
			mapSubproblem(sa, numLMS)
			recurse(sa, tmp, numLMS, maxID)
			unmap(text, sa, numLMS)
		} else {
			// Every LMS-substring is unique, so LMS-suffix order
			// matches LMS-substring order; just copy it down.
			copy(sa, sa[len(sa)-numLMS:])
		}
		expand(text, freq, bucket, sa, numLMS, textMax)
	}
	induceL(text, sa, freq, bucket, textMax)
	induceS(text, sa, freq, bucket, textMax)

	// Mark for caller that we overwrote tmp.
	tmp[0] = -1
}

// freqOf returns the symbol frequencies for text, as a slice indexed
// by symbol value. If freq is nil, freqOf uses and returns bucket. If
// freq is non-nil, freqOf assumes freq[0] >= 0 means the frequencies
// are already computed; the caller must set freq[0] = -1 to force
// recomputation once the frequency data is stale.
func freqOf[T symbol](text []T, freq, bucket []int64, textMax int) []int64 {
	if freq != nil && freq[0] >= 0 {
		return freq
	}
	if freq == nil {
		freq = bucket
	}
	freq = freq[:textMax]
	clear(freq)
	for _, c := range text {
		freq[c]++
	}
	return freq
}

// bucketMin stores into bucket[c] the minimum index in the bucket for
// symbol c in a bucket-sort of text.
func bucketMin[T symbol](text []T, freq, bucket []int64, textMax int) {
	freq = freqOf(text, freq, bucket, textMax)
	freq = freq[:textMax]
	bucket = bucket[:textMax]
	total := int64(0)
	for i, n := range freq {
		bucket[i] = total
		total += n
	}
}

// bucketMax stores into bucket[c] the maximum index (exclusive) in the
// bucket for symbol c in a bucket-sort of text.
func bucketMax[T symbol](text []T, freq, bucket []int64, textMax int) {
	freq = freqOf(text, freq, bucket, textMax)
	freq = freq[:textMax]
	bucket = bucket[:textMax]
	total := int64(0)
	for i, n := range freq {
		total += n
		bucket[i] = total
	}
}

// The SA-IS algorithm proceeds as a sequence of scans through sa. Each
// of the functions below implements one scan, and they appear here in
// the order they execute.

// placeLMS places into sa the text indexes of the final characters of
// the LMS-substrings of text, sorted into the rightmost ends of their
// buckets.
//
// The imaginary sentinel at the end of text is the final character of
// the final LMS-substring, but there is no bucket for it (it sorts
// below every real symbol); the caller must treat sa[-1] as if it
// held len(text).
//
// LMS-substring character indexes are always >= 1, so 0 is safe to use
// as a "not present" marker here and in most later functions, up until
// induceL below.
func placeLMS[T symbol](text []T, sa, freq, bucket []int64, textMax int) int {
	bucketMax(text, freq, bucket, textMax)

	numLMS := 0
	lastB := int64(-1)
	bucket = bucket[:textMax]

	// This loop walks backward over text, stopping at each position i
	// where text[i] is L-type and text[i+1] is S-type -- i.e. i+1 starts
	// an LMS-substring. c0, c1 are text[i], text[i+1]; scanning backward
	// lets the loop track the current S/L type and flip it only when
	// c0 != c1, per the usual SA-IS type rule:
	//
	//	- position len(text) is type S (the sentinel)
	//	- position i is type S if text[i] < text[i+1], or text[i] ==
	//	  text[i+1] and i+1 is type S
	//	- position i is type L if text[i] > text[i+1], or text[i] ==
	//	  text[i+1] and i+1 is type L
	//
	// isTypeS starts false so that the sentinel position itself (which
	// truly is type S) is never recorded as an LMS-substring start.
	var c0, c1 T
	isTypeS := false
	for i := len(text) - 1; i >= 0; i-- {
		c0, c1 = text[i], c0
		if c0 < c1 {
			isTypeS = true
		} else if c0 > c1 && isTypeS {
			isTypeS = false

			b := bucket[c1] - 1
			bucket[c1] = b
			sa[b] = int64(i + 1)
			lastB = b
			numLMS++
		}
	}

	// The scan above recorded LMS-substring starts, but we want ends.
	// Every start index but the leftmost one is also the end of the
	// previous LMS-substring (the rightmost substring's end is the implicit
	// sentinel, which the caller substitutes separately), so drop the
	// leftmost recorded start -- unless numLMS <= 1, in which case the
	// caller skips the recursion and wants substring starts as-is.
	if numLMS > 1 {
		sa[lastB] = 0
	}
	return numLMS
}

// induceSubL inserts the L-type text indexes of LMS-substrings into
// sa, given that the final characters of the LMS-substrings are
// already placed (sorted, at the right end of their buckets).
//
// Each LMS-substring looks like /S+L+S/: one or more S-type
// characters, one or more L-type, and a final S-type. induceSubL
// leaves behind only the leftmost L-type index of each substring --
// it removes the final S-type index present on entry, and inserts
// then removes the interior L-type indexes, keeping only the one
// induceSubS needs next.
func induceSubL[T symbol](text []T, sa, freq, bucket []int64, textMax int) {
	bucketMin(text, freq, bucket, textMax)
	bucket = bucket[:textMax]

	// While scanning left to right, each sa[i] = j > 0 is a correctly
	// placed entry for which j-1 is known to be type L. We can place
	// j-1 immediately, but we need to tell apart a j-1 whose own
	// predecessor (j-2) is type L (process now) from type S (leave for
	// the caller): we record that distinction by negating j-1 when its
	// predecessor is type S. Either way the insertion lands later in
	// the scan, so sa doubles as input, output, and work queue.
	k := len(text) - 1
	c0, c1 := text[k-1], text[k]
	if c0 < c1 {
		k = -k
	}

	cB := c1
	b := bucket[cB]
	sa[b] = int64(k)
	b++

	for i := 0; i < len(sa); i++ {
		j := int(sa[i])
		if j == 0 {
			continue
		}
		if j < 0 {
			sa[i] = int64(-j)
			continue
		}
		sa[i] = 0

		k := j - 1
		c0, c1 := text[k-1], text[k]
		if c0 < c1 {
			k = -k
		}

		if cB != c1 {
			bucket[cB] = b
			cB = c1
			b = bucket[cB]
		}
		sa[b] = int64(k)
		b++
	}
}

// induceSubS inserts the S-type text indexes of LMS-substrings into
// sa, given that the leftmost L-type indexes are already placed
// (sorted, at the left end of their buckets). It leaves behind only
// the LMS-substring start indexes, sorted, compacted into the top of
// sa -- exactly the indexes the reduction needs.
func induceSubS[T symbol](text []T, sa, freq, bucket []int64, textMax int) {
	bucketMax(text, freq, bucket, textMax)
	bucket = bucket[:textMax]

	var cB T
	b := bucket[cB]

	top := len(sa)
	for i := len(sa) - 1; i >= 0; i-- {
		j := int(sa[i])
		if j == 0 {
			continue
		}
		sa[i] = 0
		if j < 0 {
			top--
			sa[top] = int64(-j)
			continue
		}

		k := j - 1
		c1 := text[k]
		c0 := text[k-1]
		if c0 > c1 {
			k = -k
		}

		if cB != c1 {
			bucket[cB] = b
			cB = c1
			b = bucket[cB]
		}
		b--
		sa[b] = int64(k)
	}
}

// lengthLMS computes and records the length of each LMS-substring of
// text. The length for the substring starting at index j is stored at
// sa[j/2] (safe because index j-1 is always type L and can't hold an
// LMS-substring index already).
//
// Two exceptions exist, both optimizations for assignID below. The
// final LMS-substring is recorded with length 0 -- otherwise
// impossible -- so it is trivially distinct from every other
// substring without a text comparison (it is the only one that runs
// into the implicit sentinel). And if an LMS-substring is short enough
// that its bytes pack into a uint32 with the packed value >=
// len(text), sa[j/2] stores that packed encoding directly instead of a
// length, so two substrings whose encodings match are known equal
// without reading text at all. This shortcut only fires for the
// original 8-bit-symbol text; for wider packed symbols and the int64
// reduction alphabet, lengthLMS always falls back to a plain length.
func lengthLMS[T symbol](text []T, sa []int64, numLMS int) {
	end := 0 // index of current LMS-substring end (0 = final substring)

	cx := uint32(0)
	packable := isByteSymbol[T]()

	var c0, c1 T
	isTypeS := false
	for i := len(text) - 1; i >= 0; i-- {
		c0, c1 = text[i], c0
		if packable {
			cx = cx<<8 | uint32(c1)+1
		}
		if c0 < c1 {
			isTypeS = true
		} else if c0 > c1 && isTypeS {
			isTypeS = false

			j := i + 1
			var code int64
			if end == 0 {
				code = 0
			} else {
				code = int64(end - j)
				if packable && code <= 32/8 && ^cx >= uint32(len(text)) {
					code = int64(^cx)
				}
			}
			sa[j>>1] = code
			end = j + 1
			if packable {
				cx = uint32(c1) + 1
			}
		}
	}
}

// isByteSymbol reports whether T is the original 8-bit symbol type,
// the only width lengthLMS's packed-encoding shortcut applies to.
func isByteSymbol[T symbol]() bool {
	var zero T
	_, ok := any(zero).(uint8)
	return ok
}

// assignID assigns a dense ID numbering to the set of LMS-substrings,
// respecting string order and equality, and returns the largest ID
// assigned. sa[len(sa)-numLMS:] holds the LMS-substring start indexes
// in sorted order (from induceSubS), so a single left-to-right scan
// assigns the same ID to adjacent equal substrings. The new ID for the
// substring at index j overwrites the length lengthLMS stored at
// sa[j/2].
func assignID[T symbol](text []T, sa []int64, numLMS int) int {
	id := 0
	lastLen := int64(-1)
	lastPos := int64(0)
	for _, j := range sa[len(sa)-numLMS:] {
		n := sa[j/2]
		same := false
		if n == lastLen {
			if uint64(n) >= uint64(len(text)) {
				same = true
			} else {
				n := int(n)
				this := text[j:][:n]
				last := text[lastPos:][:n]
				same = true
				for i := 0; i < n; i++ {
					if this[i] != last[i] {
						same = false
						break
					}
				}
			}
		}
		if !same {
			id++
			lastPos = j
			lastLen = n
		}
		sa[j/2] = int64(id)
	}
	return id
}

// mapSubproblem maps the LMS-substrings in text to their new IDs,
// producing the recursion's subproblem. assignID already wrote sa[i]
// as either 0 or the ID for the LMS-substring starting at index 2*i
// or 2*i+1; this just drops the zeros and shifts IDs down by one (IDs
// start at 1, but the subproblem's alphabet starts at 0), packing the
// result into the top of sa so the recursion result fits in the
// bottom, ready for expand.
func mapSubproblem(sa []int64, numLMS int) {
	w := len(sa)
	for i := len(sa) / 2; i >= 0; i-- {
		j := sa[i]
		if j > 0 {
			w--
			sa[w] = j - 1
		}
	}
}

// recurse solves the subproblem built by mapSubproblem: it sits at the
// right end of sa, the result is written to the left end, and the
// middle of sa is available as scratch.
func recurse(sa, oldTmp []int64, numLMS, maxID int) {
	dst, saTmp, text := sa[:numLMS], sa[numLMS:len(sa)-numLMS], sa[len(sa)-numLMS:]

	// The subproblem has length at most len(sa)/2, so sa always has
	// room for both it and its suffix array; in practice its length
	// runs closer to len(sa)/3 (LMS-substrings average about 3
	// characters), leaving saTmp comfortably larger than maxID most of
	// the time. Reuse the largest scratch buffer available rather than
	// allocate, falling back to a fresh allocation only when neither
	// oldTmp nor saTmp is big enough.
	tmp := oldTmp
	if len(tmp) < len(saTmp) {
		tmp = saTmp
	}
	if len(tmp) < numLMS {
		n := maxID
		if n < numLMS/2 {
			n = numLMS / 2
		}
		tmp = make([]int64, n)
	}

	clear(dst)
	saisCompute(text, maxID, dst, tmp)
}

// unmap reverses mapSubproblem: sa[:numLMS] holds the recursion's
// suffix array (which LMS-substring, numbered in text order, comes
// K'th), and sa[len(sa)-numLMS:] holds the subproblem's ID text. unmap
// first overwrites the ID text with the text index of each
// LMS-substring start, in text order, then replaces each entry of
// sa[:numLMS] with the corresponding text index, keeping the
// recursion's sorted order.
func unmap[T symbol](text []T, sa []int64, numLMS int) {
	unmapTbl := sa[len(sa)-numLMS:]
	j := len(unmapTbl)

	var c0, c1 T
	isTypeS := false
	for i := len(text) - 1; i >= 0; i-- {
		c0, c1 = text[i], c0
		if c0 < c1 {
			isTypeS = true
		} else if c0 > c1 && isTypeS {
			isTypeS = false
			j--
			unmapTbl[j] = int64(i + 1)
		}
	}

	sub := sa[:numLMS]
	for i := 0; i < len(sub); i++ {
		sub[i] = unmapTbl[sub[i]]
	}
}

// expand distributes the sorted LMS-suffix indexes from sa[:numLMS]
// into the tops of their buckets, in order, leaving room for induceL
// to slot the L-type indexes in between.
func expand[T symbol](text []T, freq, bucket, sa []int64, numLMS, textMax int) {
	bucketMax(text, freq, bucket, textMax)
	bucket = bucket[:textMax]

	x := numLMS - 1
	saX := sa[x]
	c := text[saX]
	b := bucket[c] - 1
	bucket[c] = b

	for i := len(sa) - 1; i >= 0; i-- {
		if i != int(b) {
			sa[i] = 0
			continue
		}
		sa[i] = saX

		if x > 0 {
			x--
			saX = sa[x]
			c = text[saX]
			b = bucket[c] - 1
			bucket[c] = b
		}
	}
}

// induceL inserts L-type text indexes into sa, given that the
// leftmost S-type indexes are already placed, sorted, in the right
// halves of their buckets. It leaves every L-type index in sa but
// negates the leftmost one of each run, marking it for induceS.
func induceL[T symbol](text []T, sa, freq, bucket []int64, textMax int) {
	bucketMin(text, freq, bucket, textMax)
	bucket = bucket[:textMax]

	k := len(text) - 1
	c0, c1 := text[k-1], text[k]
	if c0 < c1 {
		k = -k
	}

	cB := c1
	b := bucket[cB]
	sa[b] = int64(k)
	b++

	for i := 0; i < len(sa); i++ {
		j := int(sa[i])
		if j <= 0 {
			continue
		}

		k := j - 1
		c1 := text[k]
		if k > 0 {
			if c0 := text[k-1]; c0 < c1 {
				k = -k
			}
		}

		if cB != c1 {
			bucket[cB] = b
			cB = c1
			b = bucket[cB]
		}
		sa[b] = int64(k)
		b++
	}
}

// induceS places the negated markers induceL left behind into their
// final positions, producing the completed suffix array.
func induceS[T symbol](text []T, sa, freq, bucket []int64, textMax int) {
	bucketMax(text, freq, bucket, textMax)
	bucket = bucket[:textMax]

	var cB T
	b := bucket[cB]

	for i := len(sa) - 1; i >= 0; i-- {
		j := int(sa[i])
		if j >= 0 {
			continue
		}
		j = -j
		sa[i] = int64(j)

		k := j - 1
		c1 := text[k]
		if k > 0 {
			if c0 := text[k-1]; c0 <= c1 {
				k = -k
			}
		}

		if cB != c1 {
			bucket[cB] = b
			cB = c1
			b = bucket[cB]
		}
		b--
		sa[b] = int64(k)
	}
}
