// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Kosinski+ constants, grounded on original_source/kosinskiplus.c and
// decompressors/kosinskiplus.h. Unlike plain Kosinski, its maximum match
// length extends 8 past the 0x100 boundary (CLOWNLZSS_MAKE_COMPRESSION_FUNCTION's
// 0x100 + 8 argument) to accommodate the long form's single length byte
// encoding length-9 in one byte (0..255 -> length 9..264, clamped here to
// the format's actual long-form minimum of 10).
const (
	kosinskiPlusMaxMatchLength   = 0x100 + 8
	kosinskiPlusMaxMatchDistance = 0x2000
	kosinskiPlusLiteralCost      = 1 + 8
)

// kosinskiPlusWriterBitFieldConfig mirrors kosinskiplus.c's PutDescriptorBit,
// which refills before the bit is pushed (BeforeAccess) and builds the
// descriptor word low-end-first (`descriptor <<= 1; descriptor |= bit`).
func kosinskiPlusWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}
}

// kosinskiPlusReaderBitFieldConfig mirrors decompressors/kosinskiplus.h's
// BitField::Reader<1, BeforePop, PopWhere::High, Big, T>: a push-low writer
// is read back correctly only by popping from the high end, since the
// first bit pushed ends up in the word's highest surviving position after
// repeated left shifts.
func kosinskiPlusReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
}

// kosinskiPlusMatchCost mirrors kosinskiplus.c's GetMatchCost. Note the
// length-10 minimum for the long form, where plain Kosinski's long form
// starts at length 3: Kosinski+'s long-form length byte stores length-9,
// and a stored 0 (length 9) is the terminator.
func kosinskiPlusMatchCost(distance, length int) int {
	switch {
	case length >= 2 && length <= 5 && distance <= 0x100:
		return 12
	case length >= 3 && length <= 9:
		return 18
	case length >= 10:
		return 26
	default:
		return 0
	}
}

// KosinskiPlusCompress encodes data as a Kosinski+ bitstream.
func KosinskiPlusCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   kosinskiPlusMaxMatchLength,
		MaximumMatchDistance: kosinskiPlusMaxMatchDistance,
		LiteralCost:          kosinskiPlusLiteralCost,
		MatchCost:            kosinskiPlusMatchCost,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data))
	bw := NewDescriptorWriter(out, kosinskiPlusWriterBitFieldConfig())

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
			// Short form: the offset byte is written BETWEEN the two
			// "type" descriptor bits and the two length bits, exactly
			// as kosinskiplus.c interleaves its PutDescriptorBit and
			// write calls.
			bw.Push(0)
			bw.Push(0)
			_ = out.WriteByte(byte(negDist & 0xFF))
			bw.PushN(uint(length-2), 2)
		case length <= 9:
			bw.Push(0)
			bw.Push(1)
			_ = out.WriteByte(byte(((negDist >> 5) & 0xF8) | ((10 - length) & 7)))
			_ = out.WriteByte(byte(negDist & 0xFF))
		default:
			bw.Push(0)
			bw.Push(1)
			_ = out.WriteByte(byte((negDist >> 5) & 0xF8))
			_ = out.WriteByte(byte(negDist & 0xFF))
			_ = out.WriteByte(byte(length - 9))
		}
	}

	bw.Push(0)
	bw.Push(1)
	out.WriteBytes([]byte{0xF0, 0x00, 0x00})
	bw.Finish()

	return out.Bytes(), nil
}

// KosinskiPlusDecompress decodes a Kosinski+ bitstream produced by
// KosinskiPlusCompress until its terminator.
func KosinskiPlusDecompress(data []byte) ([]byte, error) {
	out, _, err := kosinskiPlusDecompressStream(NewStreamFromBytes(data))
	return out, err
}

// kosinskiPlusDecompressStream mirrors decompressors/kosinskiplus.h's
// Decompress exactly, including its unusual interleaving of descriptor-bit
// pops and byte reads in the short match form.
func kosinskiPlusDecompressStream(in *Stream) ([]byte, int, error) {
	br := NewBitReader(in, kosinskiPlusReaderBitFieldConfig())
	out := NewStream(in.Remaining() * 2)

	for {
		bit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
		}

		if bit == 1 {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		formBit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
		}

		var length, dist int

		if formBit == 1 {
			high, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
			}
			low, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
			}

			raw13 := int(high&0xF8)<<5 | int(low)
			dist = kosinskiPlusMaxMatchDistance - raw13

			len3 := int(high & 7)
			if len3 != 0 {
				length = 10 - len3
			} else {
				countByte, err := in.ReadByte()
				if err != nil {
					return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
				}
				count := int(countByte) + 9
				if count == 9 {
					return out.Bytes(), in.Tell(), nil
				}
				length = count
			}
		} else {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
			}
			dist = 0x100 - int(b)

			length = 2
			bit2, err := br.Pop()
			if err != nil {
				return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
			}
			if bit2 == 1 {
				length += 2
			}
			bit3, err := br.Pop()
			if err != nil {
				return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
			}
			if bit3 == 1 {
				length++
			}
		}

		if err := out.Copy(dist, length); err != nil {
			return nil, 0, newFormatError("kosinskiplus", in.Tell(), err)
		}
	}
}

// kosinskiPlusDefaultModuleSize is the conventional module size used by the
// Sonic-series tools that call ModuledKosinskiPlusCompress; unlike plain
// Kosinski, the original API takes module_size as a caller argument rather
// than hard-coding it, but callers overwhelmingly pass 0x1000.
const kosinskiPlusDefaultModuleSize = 0x1000

func kosinskiPlusModuledOptions(moduleSize int) *ModuledOptions {
	if moduleSize <= 0 {
		moduleSize = kosinskiPlusDefaultModuleSize
	}
	return &ModuledOptions{ModuleSize: moduleSize, ModuleAlignment: 1, HeaderSize: 2}
}

// KosinskiPlusModuledCompress compresses data as a sequence of
// independently Kosinski+-compressed modules, each of at most moduleSize
// uncompressed bytes (pass 0 to use the conventional 0x1000 default).
func KosinskiPlusModuledCompress(data []byte, moduleSize int) ([]byte, error) {
	opts := kosinskiPlusModuledOptions(moduleSize)
	return ModuledCompress(data, opts, func(chunk []byte) ([]byte, error) {
		return KosinskiPlusCompress(chunk)
	})
}

// KosinskiPlusModuledDecompress reverses KosinskiPlusModuledCompress.
func KosinskiPlusModuledDecompress(data []byte, moduleSize int) ([]byte, error) {
	opts := kosinskiPlusModuledOptions(moduleSize)
	return ModuledDecompress(data, opts, func(compressed []byte, _ int) ([]byte, int, error) {
		return kosinskiPlusDecompressStream(NewStreamFromBytes(compressed))
	})
}
