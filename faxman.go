// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Faxman constants, grounded on original_source/faxman.c,
// compressors/faxman.h and decompressors/faxman.h. Faxman has no
// terminator match: its 2-byte little-endian header gives the *total
// number of descriptor bits* in the stream (not bytes), and decoding stops
// the instant that many bits have been popped.
const (
	faxmanMaxMatchLength   = 0x1F + 3
	faxmanMaxMatchDistance = 0x800
	faxmanLiteralCost      = 1 + 8
	faxmanZeroFillDistance = 0x800
)

// faxmanWriterBitFieldConfig mirrors faxman.c's PutDescriptorBit, which
// checks for a full word before decrementing (BeforeAccess) and builds the
// word high-end-first (`descriptor >>= 1; descriptor |= bit << 7`).
func faxmanWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: LittleEndian}
}

// faxmanReaderBitFieldConfig mirrors decompressors/faxman.h's
// Reader<1, BeforePop, PopWhere::Low, Little, T> — pop-low pairs with the
// writer's push-high, as with plain Kosinski.
func faxmanReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: LittleEndian}
}

// faxmanMatchCost mirrors faxman.c's GetMatchCost.
func faxmanMatchCost(distance, length int) int {
	switch {
	case length >= 2 && length <= 5 && distance <= 0x100:
		return 2 + 8 + 2
	case length >= 3:
		return 2 + 16
	default:
		return 0
	}
}

// faxmanFindExtraMatches mirrors faxman.c's FindExtraMatches: within reach
// of a zero-fill reference (offset < 0x800), a run of literal zero bytes
// at least 3 long can be encoded as a cheap "zero fill" match instead of a
// real back-reference, by aiming the match's source at its own
// destination (Distance() == 0, a value no genuine match can produce).
func faxmanFindExtraMatches(data []byte, totalValues, i int, nodes []graphEdge) {
	if i >= 0x800 {
		return
	}

	maxReadAhead := faxmanMaxMatchLength
	if totalValues-i < maxReadAhead {
		maxReadAhead = totalValues - i
	}

	for k := 0; k < maxReadAhead; k++ {
		if data[i+k] != 0 {
			break
		}

		if k+1 < 3 {
			continue
		}

		cost := 2 + 16
		if nodes[i+k+1].cost > nodes[i].cost+cost {
			nodes[i+k+1].cost = nodes[i].cost + cost
			nodes[i+k+1].previousNode = i
			nodes[i+k+1].matchOffset = i
		}
	}
}

// FaxmanCompress encodes data as a Faxman bitstream.
func FaxmanCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   faxmanMaxMatchLength,
		MaximumMatchDistance: faxmanMaxMatchDistance,
		LiteralCost:          faxmanLiteralCost,
		MatchCost:            faxmanMatchCost,
		ExtraMatches:         faxmanFindExtraMatches,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data))
	headerPos := out.Tell()
	out.WriteBytes([]byte{0x00, 0x00})

	bw := NewDescriptorWriter(out, faxmanWriterBitFieldConfig())
	totalBits := 0
	push := func(bit uint) {
		bw.Push(bit)
		totalBits++
	}

	for _, m := range matches {
		if m.IsLiteral() {
			push(1)
			_ = out.WriteByte(data[m.Destination])
			continue
		}

		dist := m.Distance()
		if dist == 0 {
			dist = faxmanZeroFillDistance
		}
		length := m.Length

		if length >= 2 && length <= 5 && dist <= 0x100 {
			push(0)
			push(0)
			_ = out.WriteByte(byte(-dist & 0xFF))
			push(uint(((length - 2) >> 1) & 1))
			push(uint((length - 2) & 1))
		} else {
			push(0)
			push(1)
			_ = out.WriteByte(byte((dist - 1) & 0xFF))
			_ = out.WriteByte(byte((((dist - 1) & 0x700) >> 3) | ((length - 3) & 0x1F)))
		}
	}

	bw.Finish()

	endPos := out.Tell()
	out.Seek(headerPos)
	out.WriteBytes([]byte{byte(totalBits), byte(totalBits >> 8)})
	out.Seek(endPos)

	return out.Bytes(), nil
}

// FaxmanDecompress decodes a Faxman bitstream produced by FaxmanCompress,
// stopping once its header's declared descriptor bit count is exhausted.
func FaxmanDecompress(data []byte) ([]byte, error) {
	out, _, err := faxmanDecompressStream(NewStreamFromBytes(data))
	return out, err
}

func faxmanDecompressStream(in *Stream) ([]byte, int, error) {
	lo, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("faxman", in.Tell(), err)
	}
	hi, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("faxman", in.Tell(), err)
	}
	remainingBits := int(hi)<<8 | int(lo)

	br := NewBitReader(in, faxmanReaderBitFieldConfig())
	out := NewStream(in.Remaining() * 2)

	pop := func() (uint, error) {
		remainingBits--
		return br.Pop()
	}

	for remainingBits > 0 {
		bit, err := pop()
		if err != nil {
			return nil, 0, newFormatError("faxman", in.Tell(), err)
		}

		if bit == 1 {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("faxman", in.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		formBit, err := pop()
		if err != nil {
			return nil, 0, newFormatError("faxman", in.Tell(), err)
		}

		var distance, count int

		if formBit == 1 {
			first, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("faxman", in.Tell(), err)
			}
			second, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("faxman", in.Tell(), err)
			}

			distance = (int(first) | ((int(second) << 3) & 0x700)) + 1
			count = int(second&0x1F) + 3
		} else {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("faxman", in.Tell(), err)
			}
			distance = 0x100 - int(b)
			count = 2

			bit2, err := pop()
			if err != nil {
				return nil, 0, newFormatError("faxman", in.Tell(), err)
			}
			if bit2 == 1 {
				count += 2
			}
			bit3, err := pop()
			if err != nil {
				return nil, 0, newFormatError("faxman", in.Tell(), err)
			}
			if bit3 == 1 {
				count++
			}
		}

		if distance > out.Len() {
			out.Fill(0, count)
		} else if err := out.Copy(distance, count); err != nil {
			return nil, 0, newFormatError("faxman", in.Tell(), err)
		}
	}

	return out.Bytes(), in.Tell(), nil
}

func faxmanModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 2, HeaderSize: 2}
}

// FaxmanModuledCompress compresses data as a sequence of independently
// Faxman-compressed modules.
func FaxmanModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, faxmanModuledOptions(), func(chunk []byte) ([]byte, error) {
		return FaxmanCompress(chunk)
	})
}

// FaxmanModuledDecompress reverses FaxmanModuledCompress.
func FaxmanModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, faxmanModuledOptions(), func(compressed []byte, _ int) ([]byte, int, error) {
		return faxmanDecompressStream(NewStreamFromBytes(compressed))
	})
}
