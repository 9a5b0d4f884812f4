// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Rocket constants, grounded on original_source/rocket.c,
// compressors/rocket.h and decompressors/rocket.h. Rocket's descriptor
// field is a full byte (8 flag bits) rather than a 16-bit word, its header
// carries two separate 2-byte big-endian fields (uncompressed size, then
// compressed size), and it has no terminator match: decoding stops once
// either the header's declared compressed byte count or its declared
// uncompressed byte count is reached, whichever comes first.
const (
	rocketMaxMatchLength   = 0x40
	rocketMaxMatchDistance = 0x400
	rocketLiteralCost      = 1 + 8
	rocketMatchCost        = 1 + 16
	rocketFillerValue      = 0x20
)

// rocketWriterBitFieldConfig mirrors rocket.c's PutDescriptorBit, which
// checks for a full byte before decrementing (BeforeAccess) and builds the
// descriptor high-end-first (`descriptor >>= 1; descriptor |= bit << 7`).
func rocketWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
}

// rocketReaderBitFieldConfig mirrors decompressors/rocket.h's
// Reader<1, BeforePop, PopWhere::Low, Big, T>.
func rocketReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}
}

// rocketCost is Rocket's GetMatchCost: every match costs the same
// regardless of distance or length, since both are packed into two fixed
// bytes alongside the descriptor bit.
func rocketCost(distance, length int) int {
	return rocketMatchCost
}

// RocketCompress encodes data as a Rocket bitstream.
func RocketCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   rocketMaxMatchLength,
		MaximumMatchDistance: rocketMaxMatchDistance,
		LiteralCost:          rocketLiteralCost,
		MatchCost:            rocketCost,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data) + 4)

	dataSize := len(data)
	out.WriteBytes([]byte{byte(dataSize >> 8), byte(dataSize)})

	headerPos := out.Tell()
	out.WriteBytes([]byte{0x00, 0x00})

	bw := NewDescriptorWriter(out, rocketWriterBitFieldConfig())

	for _, m := range matches {
		if m.IsLiteral() {
			bw.Push(1)
			_ = out.WriteByte(data[m.Destination])
			continue
		}

		offset := (m.Source + (rocketMaxMatchDistance - rocketMaxMatchLength)) % rocketMaxMatchDistance
		length := m.Length

		bw.Push(0)
		_ = out.WriteByte(byte(((offset>>8)&3) | ((length-1)<<2)))
		_ = out.WriteByte(byte(offset & 0xFF))
	}

	bw.Finish()

	endPos := out.Tell()
	length := endPos - headerPos
	out.Seek(headerPos)
	out.WriteBytes([]byte{byte(length >> 8), byte(length)})
	out.Seek(endPos)

	return out.Bytes(), nil
}

// RocketDecompress decodes a Rocket bitstream produced by RocketCompress.
func RocketDecompress(data []byte) ([]byte, error) {
	out, _, err := rocketDecompressStream(NewStreamFromBytes(data))
	return out, err
}

// rocketDecompressStream mirrors decompressors/rocket.h's Decompress: unlike
// every other format here, Rocket has no terminator match, so the loop
// checks both the declared compressed byte count (input exhaustion) and the
// declared uncompressed byte count (output satisfied) on every iteration.
func rocketDecompressStream(in *Stream) ([]byte, int, error) {
	start := in.Tell()

	hi0, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("rocket", in.Tell(), err)
	}
	lo0, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("rocket", in.Tell(), err)
	}
	uncompressedSize := int(hi0)<<8 | int(lo0)

	headerPos := in.Tell()

	hi1, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("rocket", in.Tell(), err)
	}
	lo1, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("rocket", in.Tell(), err)
	}
	compressedSize := int(hi1)<<8 | int(lo1)

	br := NewBitReader(in, rocketReaderBitFieldConfig())
	out := NewStream(uncompressedSize)

	for in.Distance(headerPos) < compressedSize {
		if out.Len() >= uncompressedSize {
			break
		}

		bit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("rocket", in.Tell(), err)
		}

		if bit == 1 {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("rocket", in.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		first, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("rocket", in.Tell(), err)
		}
		second, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("rocket", in.Tell(), err)
		}

		word := int(first)<<8 | int(second)
		dictionaryIndex := (word + rocketMaxMatchLength) % rocketMaxMatchDistance
		count := (word >> 10) + 1

		outputPosition := out.Len()
		distance := (rocketMaxMatchDistance+outputPosition-dictionaryIndex-1)%rocketMaxMatchDistance + 1

		if err := out.FillerCopy(distance, count, rocketFillerValue); err != nil {
			return nil, 0, newFormatError("rocket", in.Tell(), err)
		}
	}

	return out.Bytes(), in.Tell() - start, nil
}

func rocketModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 2, HeaderSize: 2}
}

// RocketModuledCompress compresses data as a sequence of independently
// Rocket-compressed modules.
func RocketModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, rocketModuledOptions(), func(chunk []byte) ([]byte, error) {
		return RocketCompress(chunk)
	})
}

// RocketModuledDecompress reverses RocketModuledCompress.
func RocketModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, rocketModuledOptions(), func(compressed []byte, _ int) ([]byte, int, error) {
		return rocketDecompressStream(NewStreamFromBytes(compressed))
	})
}
