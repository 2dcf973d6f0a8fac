package libsaispacked

import (
	"bufio"
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/pkg/errors"
)

// Header is the fixed-size preamble written before a compressed
// sparse suffix array file: how many bits each packed entry occupies,
// the sparseness factor the array was built with, and the number of
// entries that follow. Uncompressed files carry no header at all.
type Header struct {
	BitsPerElement uint8
	Sparseness     uint8
	Length         uint64
}

// bitsPerElementFor computes the compressed header's bits-per-element
// field the same way the original driver does: from the length of the
// *original*, unsampled text (sa_length * sparseness factor), not from
// the sparse array's own length. sa_length * sparseness is, by
// construction, the original text length (up to the rounding in the
// final, possibly partial, group of sparseness-factor characters).
func bitsPerElementFor(saLength int, sparseness uint8) uint8 {
	n := uint64(saLength) * uint64(sparseness)
	if n < 1 {
		n = 1
	}
	return uint8(bits.Len64(n))
}

// WriteSA writes sa to w. When compressed is true, it is preceded by a
// header (bits-per-element, sparseness, length) and the body is bit-packed
// at the width bitsPerElementFor computes, which holds values up to
// len(sa) * sparseness (the original text length, rounded up to a
// multiple of the sparseness factor), MSB-first within 64-bit words, exactly as the original driver's
// compress_sa does. When compressed is false, the header is omitted
// entirely and w holds nothing but len(sa) raw little-endian uint64s; a
// reader must already know sa's length (e.g. from the file size) to
// parse it back, matching the original driver's own uncompressed output.
func WriteSA(w io.Writer, sa []int64, sparseness uint8, compressed bool) error {
	bw := bufio.NewWriter(w)

	if !compressed {
		for _, v := range sa {
			if err := binary.Write(bw, binary.LittleEndian, uint64(v)); err != nil {
				return errors.Wrap(err, "writing raw body")
			}
		}
		return errors.Wrap(bw.Flush(), "flushing output")
	}

	bitsPerElement := bitsPerElementFor(len(sa), sparseness)

	if err := bw.WriteByte(bitsPerElement); err != nil {
		return errors.Wrap(err, "writing bits-per-element header")
	}
	if err := bw.WriteByte(sparseness); err != nil {
		return errors.Wrap(err, "writing sparseness header")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(sa))); err != nil {
		return errors.Wrap(err, "writing length header")
	}

	packed := compressSA(sa, bitsPerElement)
	for _, w64 := range packed {
		if err := binary.Write(bw, binary.LittleEndian, uint64(w64)); err != nil {
			return errors.Wrap(err, "writing packed body")
		}
	}

	return errors.Wrap(bw.Flush(), "flushing output")
}

// compressSA packs sa into consecutive bitsPerElement-wide fields,
// most-significant-bit first within each 64-bit output word, streaming
// across word boundaries. It mirrors the original driver's compress_sa
// bit for bit.
func compressSA(sa []int64, bitsPerElement uint8) []uint64 {
	out := make([]uint64, 0, (len(sa)*int(bitsPerElement)+63)/64)

	var element uint64
	shift := int8(64 - bitsPerElement)
	for _, v := range sa {
		u := uint64(v)
		if shift < 0 {
			element |= u >> uint(-shift)
			out = append(out, element)
			element = 0
			shift += 64
		}
		element |= u << uint(shift)
		shift -= int8(bitsPerElement)
	}
	out = append(out, element)
	return out
}

// maxSALength bounds how large a suffix array ReadSACompressed will
// attempt to allocate on the strength of a file's own header. A
// corrupted or adversarial header claiming an astronomical length is
// rejected with ErrAllocationFailure instead of being handed to make(),
// which would otherwise panic the process.
const maxSALength = 1 << 40

// ReadSACompressed reads a Header and bit-packed suffix array
// previously written by WriteSA(..., compressed=true).
func ReadSACompressed(r io.Reader) (Header, []int64, error) {
	br := bufio.NewReader(r)

	var hdr Header
	var err error
	if hdr.BitsPerElement, err = br.ReadByte(); err != nil {
		return hdr, nil, errors.Wrap(err, "reading bits-per-element header")
	}
	if hdr.Sparseness, err = br.ReadByte(); err != nil {
		return hdr, nil, errors.Wrap(err, "reading sparseness header")
	}
	if err := binary.Read(br, binary.LittleEndian, &hdr.Length); err != nil {
		return hdr, nil, errors.Wrap(err, "reading length header")
	}
	if hdr.Length > maxSALength {
		return hdr, nil, ErrAllocationFailure
	}

	numWords := (int(hdr.Length)*int(hdr.BitsPerElement) + 63) / 64
	packed := make([]uint64, numWords)
	for i := range packed {
		if err := binary.Read(br, binary.LittleEndian, &packed[i]); err != nil {
			return hdr, nil, errors.Wrap(err, "reading packed body")
		}
	}
	return hdr, decompressSA(packed, int(hdr.Length), hdr.BitsPerElement), nil
}

// ReadSARaw reads length raw little-endian uint64 entries previously
// written by WriteSA(..., compressed=false). Since the uncompressed
// format carries no header, the caller must already know length (e.g.
// from the file size) before calling this.
func ReadSARaw(r io.Reader, length int) ([]int64, error) {
	if length < 0 || length > maxSALength {
		return nil, ErrAllocationFailure
	}

	br := bufio.NewReader(r)
	sa := make([]int64, length)
	for i := range sa {
		var v uint64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return nil, errors.Wrap(err, "reading raw body")
		}
		sa[i] = int64(v)
	}
	return sa, nil
}

// decompressSA is the inverse of compressSA: it unpacks orig entries
// of bitsPerElement bits each, MSB-first, from packed 64-bit words.
func decompressSA(packed []uint64, origLength int, bitsPerElement uint8) []int64 {
	out := make([]int64, origLength)

	shift := int8(0)
	wordIdx := 0
	for i := 0; i < origLength; i++ {
		v := (packed[wordIdx] << uint(shift)) >> uint(64-bitsPerElement)
		shift += int8(bitsPerElement)

		if shift >= 64 {
			wordIdx++
			shift -= 64
			if shift > 0 && wordIdx < len(packed) {
				v |= packed[wordIdx] >> uint(64-shift)
			}
		}
		out[i] = int64(v)
	}
	return out
}
