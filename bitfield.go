// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// BitField reader/writer options. bitfield.h expresses these as four
// orthogonal C++ template parameters (refill timing, bit position, byte
// endianness, word width); per spec.md's Design Notes this module collapses
// them into a single runtime struct instead, since the branch cost of
// reading a field is negligible next to a match search or a byte write.

// RefillWhen controls whether a reader/writer's underlying byte access
// happens before or after the bit it serves is consumed/produced.
type RefillWhen int

const (
	// BeforePop/BeforePush: refill happens before the bit is served.
	BeforeAccess RefillWhen = iota
	// AfterPop/AfterPush: refill happens after the bit is served.
	AfterAccess
)

// BitPosition selects which end of the word the next bit comes from or
// goes to.
type BitPosition int

const (
	Low BitPosition = iota
	High
)

// Endian selects the byte order used when a multi-byte word is refilled
// or flushed.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

// BitFieldConfig is the runtime equivalent of bitfield.h's four template
// parameters, plus the word width in bytes.
type BitFieldConfig struct {
	Width      int // word width in bytes: 1, 2, or 4
	RefillWhen RefillWhen
	Position   BitPosition
	Endian     Endian
}

// totalBits returns the word width in bits.
func (c BitFieldConfig) totalBits() uint {
	return uint(c.Width) * 8
}

// BitReader reads single bits out of a byte stream, refilling its internal
// word from the stream according to its configuration. Grounded on
// bitfield.h's BitField::Reader.
type BitReader struct {
	cfg       BitFieldConfig
	in        *Stream
	bits      uint32
	remaining uint
}

// NewBitReader creates a reader over in using cfg.
func NewBitReader(in *Stream, cfg BitFieldConfig) *BitReader {
	return &BitReader{cfg: cfg, in: in}
}

func (r *BitReader) readWord() (uint32, error) {
	var word uint32
	for range r.cfg.Width {
		b, err := r.in.ReadByte()
		if err != nil {
			return 0, err
		}

		if r.cfg.Endian == BigEndian {
			word = word<<8 | uint32(b)
		} else {
			word = word>>8 | uint32(b)<<(r.cfg.totalBits()-8)
		}
	}
	return word, nil
}

// Pop reads and returns the next single bit (0 or 1).
func (r *BitReader) Pop() (uint, error) {
	// An AfterAccess reader also refills here: on its first Pop (its word
	// starts empty) and after a post-pop refill that found no input left.
	if r.remaining == 0 {
		word, err := r.readWord()
		if err != nil {
			return 0, err
		}
		r.bits = word
		r.remaining = r.cfg.totalBits()
	}

	var bit uint
	if r.cfg.Position == High {
		bit = uint(r.bits>>(r.cfg.totalBits()-1)) & 1
		r.bits <<= 1
	} else {
		bit = uint(r.bits) & 1
		r.bits >>= 1
	}
	r.remaining--

	if r.cfg.RefillWhen == AfterAccess && r.remaining == 0 {
		// Running out of input here is not an error yet: the bit just
		// popped is valid, and the next Pop retries the refill.
		if word, err := r.readWord(); err == nil {
			r.bits = word
			r.remaining = r.cfg.totalBits()
		}
	}

	return bit, nil
}

// PopN reads n bits (n <= 32, MSB-first assembly) and returns them as a
// single value.
func (r *BitReader) PopN(n uint) (uint, error) {
	var value uint
	for range n {
		bit, err := r.Pop()
		if err != nil {
			return 0, err
		}
		value = value<<1 | bit
	}
	return value, nil
}

// BitWriter accumulates bits and flushes completed words to a stream.
// Two flavours exist: inline (writes the word directly into the stream
// once full) and deferred/descriptor (reserves a placeholder immediately
// and patches it once full) — grounded on bitfield.h's Writer vs
// DescriptorFieldWriter split.
type BitWriter struct {
	cfg       BitFieldConfig
	out       *Stream
	bits      uint32
	remaining uint

	deferred bool
	wordPos  int // stream position of the word currently being filled
}

// NewBitWriter creates an inline writer: each completed word is written to
// the stream the moment it fills.
func NewBitWriter(out *Stream, cfg BitFieldConfig) *BitWriter {
	return &BitWriter{cfg: cfg, out: out, remaining: cfg.totalBits()}
}

// NewDescriptorWriter creates a deferred writer: a placeholder word is
// reserved immediately (via begin) and patched in place once it fills or
// Finish is called, matching bitfield.h's DescriptorFieldWriter.
func NewDescriptorWriter(out *Stream, cfg BitFieldConfig) *BitWriter {
	w := &BitWriter{cfg: cfg, out: out, deferred: true, remaining: cfg.totalBits()}
	w.begin()
	return w
}

func (w *BitWriter) begin() {
	w.wordPos = w.out.Tell()
	for range w.cfg.Width {
		_ = w.out.WriteByte(0)
	}
}

// flushWord writes the accumulated word out (inline: at the stream's
// current position; deferred: patched back into the reserved placeholder),
// then, if reopen is set, reserves a fresh placeholder immediately after
// (deferred writers only) — matching the reference's FinishDescriptorField
// immediately followed by BeginDescriptorField on every mid-stream word
// completion. The final flush at end of stream passes reopen=false.
func (w *BitWriter) flushWord(reopen bool) {
	if !w.deferred {
		w.writeWordAt(w.out.Tell())
		return
	}

	savePos := w.out.Tell()
	w.writeWordAt(w.wordPos)
	w.out.Seek(savePos)
	if reopen {
		w.begin()
	}
}

func (w *BitWriter) writeWordAt(pos int) {
	w.out.Seek(pos)
	for i := range w.cfg.Width {
		var b byte
		if w.cfg.Endian == BigEndian {
			shift := uint(w.cfg.Width-1-i) * 8
			b = byte(w.bits >> shift)
		} else {
			shift := uint(i) * 8
			b = byte(w.bits >> shift)
		}
		_ = w.out.WriteByte(b)
	}
}

// Push writes a single bit into the current word. Depending on cfg's
// refill timing, a full word is detected and flushed either just before
// the new bit is written (BeforeAccess) or immediately after (AfterAccess)
// — the two behave identically in steady state but place the flush on
// opposite sides of the word boundary, which matters for which payload
// bytes land before or after a given descriptor word in the final stream.
func (w *BitWriter) Push(bit uint) {
	if w.cfg.RefillWhen == BeforeAccess && w.remaining == 0 {
		w.flushWord(true)
		w.remaining = w.cfg.totalBits()
		w.bits = 0
	}

	if w.cfg.Position == High {
		w.bits >>= 1
		if bit != 0 {
			w.bits |= 1 << (w.cfg.totalBits() - 1)
		}
	} else {
		w.bits <<= 1
		if bit != 0 {
			w.bits |= 1
		}
	}
	w.remaining--

	if w.cfg.RefillWhen == AfterAccess && w.remaining == 0 {
		w.flushWord(true)
		w.remaining = w.cfg.totalBits()
		w.bits = 0
	}
}

// PushN writes the low n bits of value, MSB-first.
func (w *BitWriter) PushN(value uint, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		w.Push((value >> uint(i)) & 1)
	}
}

// Finish flushes a partially-filled word, aligning the remaining bits the
// way bitfield.h's Flush() does (shift away from the configured position,
// so the first bit pushed sits where the paired reader pops first and the
// unused zero bits settle at the configured end), and writes/patches it without
// reserving another placeholder — the stream ends here.
func (w *BitWriter) Finish() {
	if w.remaining == w.cfg.totalBits() {
		return
	}

	if w.cfg.Position == High {
		w.bits >>= w.remaining
	} else {
		w.bits <<= w.remaining
	}
	w.remaining = w.cfg.totalBits()
	w.flushWord(false)
}
