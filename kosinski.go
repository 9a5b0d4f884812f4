// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Kosinski constants, grounded on original_source/kosinski.c and
// decompressors/kosinski.h.
const (
	kosinskiMaxMatchLength   = 0x100
	kosinskiMaxMatchDistance = 0x2000
	kosinskiLiteralCost      = 1 + 8
)

// kosinskiReaderBitFieldConfig mirrors decompressors/kosinski.h's
// BitField::Reader<2, AfterPop, PopWhere::Low, Little, T>.
func kosinskiReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 2, RefillWhen: AfterAccess, Position: Low, Endian: LittleEndian}
}

// kosinskiWriterBitFieldConfig mirrors kosinski.c's PutDescriptorBit, which
// builds the descriptor word with `descriptor >>= 1; descriptor |= bit <<
// 15` — new bits enter at the high end, opposite of the reader's pop
// direction (this is what makes the first bit written come back out first
// when popped low-to-high on the way in and low-first on the way out).
func kosinskiWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 2, RefillWhen: AfterAccess, Position: High, Endian: LittleEndian}
}

// kosinskiMatchCost mirrors kosinski.c's GetMatchCost: short form (12 bits:
// four descriptor bits plus the offset byte) for short, close matches; medium and long
// forms for everything else, in that priority order.
func kosinskiMatchCost(distance, length int) int {
	switch {
	case length >= 2 && length <= 5 && distance <= 0x100:
		return 12
	case length >= 3 && length <= 9:
		return 18
	case length >= 3:
		return 26
	default:
		return 0
	}
}

// KosinskiCompress encodes data as a Kosinski bitstream.
func KosinskiCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   kosinskiMaxMatchLength,
		MaximumMatchDistance: kosinskiMaxMatchDistance,
		LiteralCost:          kosinskiLiteralCost,
		MatchCost:            kosinskiMatchCost,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data))
	bw := NewDescriptorWriter(out, kosinskiWriterBitFieldConfig())

	for _, m := range matches {
		if m.IsLiteral() {
			bw.Push(1)
			_ = out.WriteByte(data[m.Destination])
			continue
		}

		dist := m.Distance()
		length := m.Length
		negDist := -dist

		switch {
		case length <= 5 && dist <= 0x100:
			bw.Push(0)
			bw.Push(0)
			bw.PushN(uint(length-2), 2)
			_ = out.WriteByte(byte(negDist & 0xFF))
		case length <= 9:
			bw.Push(0)
			bw.Push(1)
			_ = out.WriteByte(byte(negDist & 0xFF))
			_ = out.WriteByte(byte(((negDist >> 5) & 0xF8) | ((length - 2) & 7)))
		default:
			bw.Push(0)
			bw.Push(1)
			_ = out.WriteByte(byte(negDist & 0xFF))
			_ = out.WriteByte(byte((negDist >> 5) & 0xF8))
			_ = out.WriteByte(byte(length - 1))
		}
	}

	bw.Push(0)
	bw.Push(1)
	out.WriteBytes([]byte{0x00, 0xF0, 0x00})
	bw.Finish()

	return out.Bytes(), nil
}

// KosinskiDecompress decodes a Kosinski bitstream produced by
// KosinskiCompress (or any conforming encoder) until its terminator.
func KosinskiDecompress(data []byte) ([]byte, error) {
	out, _, err := kosinskiDecompressStream(NewStreamFromBytes(data))
	return out, err
}

// kosinskiDecompressStream decodes from in (starting at its current
// position) and reports how many input bytes were consumed, so the
// moduled wrapper can advance past exactly one module.
func kosinskiDecompressStream(in *Stream) ([]byte, int, error) {
	br := NewBitReader(in, kosinskiReaderBitFieldConfig())
	out := NewStream(in.Remaining() * 2)

	for {
		bit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("kosinski", in.Tell(), err)
		}

		if bit == 1 {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinski", in.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		formBit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("kosinski", in.Tell(), err)
		}

		var length, dist int

		if formBit == 0 {
			lenBits, err := br.PopN(2)
			if err != nil {
				return nil, 0, newFormatError("kosinski", in.Tell(), err)
			}
			length = int(lenBits) + 2

			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinski", in.Tell(), err)
			}
			dist = 0x100 - int(b)
		} else {
			low, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinski", in.Tell(), err)
			}
			high, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinski", in.Tell(), err)
			}

			len3 := int(high & 7)
			if len3 == 0 {
				countByte, err := in.ReadByte()
				if err != nil {
					return nil, 0, newFormatError("kosinski", in.Tell(), err)
				}
				count := int(countByte) + 1

				if count == 1 {
					return out.Bytes(), in.Tell(), nil
				}
				if count == 2 {
					continue
				}
				length = count
			} else {
				length = len3 + 2
			}

			raw13 := int(high&0xF8)<<5 | int(low)
			dist = kosinskiMaxMatchDistance - raw13
		}

		if err := out.Copy(dist, length); err != nil {
			return nil, 0, newFormatError("kosinski", in.Tell(), err)
		}
	}
}

// kosinskiModuledOptions returns the conventional module framing used by
// Kosinski's moduled variant (common.c's RegularWrapper default alignment).
func kosinskiModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 16, HeaderSize: 2}
}

// KosinskiModuledCompress compresses data as a sequence of independently
// Kosinski-compressed modules.
func KosinskiModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, kosinskiModuledOptions(), func(chunk []byte) ([]byte, error) {
		return KosinskiCompress(chunk)
	})
}

// KosinskiModuledDecompress reverses KosinskiModuledCompress.
func KosinskiModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, kosinskiModuledOptions(), func(compressed []byte, _ int) ([]byte, int, error) {
		return kosinskiDecompressStream(NewStreamFromBytes(compressed))
	})
}
