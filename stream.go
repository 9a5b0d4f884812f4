// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Stream is a growable, seekable in-memory byte buffer used by both encoders
// and decoders. Encoders need random access to patch headers and deferred
// bit-field descriptors after the fact; decoders mostly append, but
// back-references (including Rocket's filler-value decoding) need to read
// back through already-written output. A single concrete type covers both roles, the way
// memory_stream.c backs every encoder in the reference implementation.
type Stream struct {
	buf []byte
	pos int
}

// NewStream returns an empty stream with cap bytes pre-reserved.
func NewStream(cap int) *Stream {
	return &Stream{buf: make([]byte, 0, cap)}
}

// NewStreamFromBytes wraps an existing slice for reading; Tell starts at 0.
func NewStreamFromBytes(b []byte) *Stream {
	return &Stream{buf: b}
}

// Bytes returns the stream's backing slice. The caller must not retain it
// across further writes, since append may reallocate.
func (s *Stream) Bytes() []byte {
	return s.buf
}

// Len returns the number of bytes currently in the stream.
func (s *Stream) Len() int {
	return len(s.buf)
}

// Tell returns the current read/write position.
func (s *Stream) Tell() int {
	return s.pos
}

// Seek moves the read/write position to an absolute offset.
func (s *Stream) Seek(pos int) {
	s.pos = pos
}

// Distance returns pos - from, matching the reference IO abstraction's
// Distance(iterator) helper used for header-relative size accounting.
func (s *Stream) Distance(from int) int {
	return s.pos - from
}

// WriteByte appends or overwrites one byte at the current position and
// advances it by one.
func (s *Stream) WriteByte(b byte) error {
	s.writeAt(s.pos, b)
	s.pos++
	return nil
}

// WriteBytes appends or overwrites a run of bytes at the current position.
func (s *Stream) WriteBytes(b []byte) {
	for _, v := range b {
		s.writeAt(s.pos, v)
		s.pos++
	}
}

func (s *Stream) writeAt(pos int, v byte) {
	if pos < len(s.buf) {
		s.buf[pos] = v
		return
	}
	for len(s.buf) < pos {
		s.buf = append(s.buf, 0)
	}
	s.buf = append(s.buf, v)
}

// ReadByte reads one byte at the current position and advances it by one.
func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, ErrInputOverrun
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// PeekByte returns the byte at the current position without advancing.
func (s *Stream) PeekByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, ErrInputOverrun
	}
	return s.buf[s.pos], nil
}

// Remaining reports how many bytes are left to read.
func (s *Stream) Remaining() int {
	return len(s.buf) - s.pos
}

// Fill appends count copies of value at the current position, as used by
// the filler-value pre-fill dictionaries and the Saxman/Faxman zero-fill
// match form.
func (s *Stream) Fill(value byte, count int) {
	for range count {
		s.writeAt(s.pos, value)
		s.pos++
	}
}

// Copy copies count bytes from distance bytes behind the current position
// to the current position, handling overlap (dist < count) the way LZ
// back-references require: newly written bytes become valid source for the
// remainder of the run. Grounded on the exponential-doubling technique from
// the teacher's copyBackRef, generalized to operate on the Stream's
// position rather than a raw output slice/index pair.
func (s *Stream) Copy(distance, count int) error {
	start := s.pos - distance
	if start < 0 {
		return ErrLookBehindUnderrun
	}

	for len(s.buf) < s.pos+count {
		s.buf = append(s.buf, 0)
	}

	if distance >= count {
		copy(s.buf[s.pos:s.pos+count], s.buf[start:start+count])
		s.pos += count
		return nil
	}

	copy(s.buf[s.pos:s.pos+distance], s.buf[start:s.pos])
	copied := distance
	for copied < count {
		n := copy(s.buf[s.pos+copied:s.pos+count], s.buf[s.pos:s.pos+copied])
		copied += n
	}
	s.pos += count
	return nil
}

// FillerCopy implements the decode-side Copy used by formats configured
// with a filler value (Rocket is the only one here): when the request
// reaches further back than bytes already written, the missing prefix is
// synthesized as filler rather than read from the (non-existent) dictionary
// contents, then the remainder is copied normally. Grounded on
// decompressors/common.h's DecompressorOutput::Copy filler_value branch.
func (s *Stream) FillerCopy(distance, count int, filler byte) error {
	limit := s.pos
	cappedDistance := distance
	if cappedDistance > limit {
		cappedDistance = limit
	}
	fillAmount := distance - cappedDistance
	if fillAmount > count {
		fillAmount = count
	}

	if fillAmount == 0 {
		return s.Copy(distance, count)
	}

	s.Fill(filler, fillAmount)
	count -= fillAmount
	if count <= 0 {
		return nil
	}

	// After filling, the real dictionary contents still begin at the same
	// absolute start position, so the distance from the new (post-fill)
	// position back to it is unchanged from the original request.
	return s.Copy(distance, count)
}
