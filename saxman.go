// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Saxman constants, grounded on original_source/saxman.c,
// compressors/saxman.h and decompressors/saxman.h/.c. Saxman is a classic
// fixed-size ring-buffer LZSS: matches encode the absolute source
// position biased by -0x12 and masked to 12 bits, and decoding recovers
// the real distance as (output_position - dictionary_index) mod 0x1000,
// with a remainder of 0 read as 0x1000 — not a literal "distance" field. A built-in zero-fill sentinel
// (match_offset == 0xFFF) stands in for runs of zero bytes near the start
// of the stream, before a real dictionary exists to reference.
const (
	saxmanMaxMatchLength     = 0x12
	saxmanMaxMatchDistance   = 0x1000
	saxmanLiteralCost        = 1 + 8
	saxmanDictionaryBias     = 0xF + 3
	saxmanZeroFillMatchIndex = 0xFFF
)

// saxmanWriterBitFieldConfig mirrors compressors/saxman.h's
// DescriptorFieldWriter<1, BeforePush, PushWhere::High, Little, T>.
func saxmanWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: LittleEndian}
}

// saxmanReaderBitFieldConfig mirrors decompressors/saxman.h's
// Reader<1, BeforePop, PopWhere::Low, Little, T>.
func saxmanReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: LittleEndian}
}

func saxmanMatchCost(distance, length int) int {
	if length >= 3 {
		return 1 + 16
	}
	return 0
}

// saxmanFindExtraMatches mirrors saxman.c's FindExtraMatches: a run of
// literal zero bytes near the start of the data can be referenced via the
// fixed match_offset sentinel 0xFFF, which always decodes through the
// zero-fill branch regardless of the real output position.
func saxmanFindExtraMatches(data []byte, totalValues, i int, nodes []graphEdge) {
	if i >= 0x1000 {
		return
	}

	maxReadAhead := saxmanMaxMatchLength
	if totalValues-i < maxReadAhead {
		maxReadAhead = totalValues - i
	}

	for k := 0; k < maxReadAhead && data[i+k] == 0; k++ {
		cost := saxmanMatchCost(0, k+1)
		if cost != 0 && nodes[i+k+1].cost > nodes[i].cost+cost {
			nodes[i+k+1].cost = nodes[i].cost + cost
			nodes[i+k+1].previousNode = i
			nodes[i+k+1].matchOffset = saxmanZeroFillMatchIndex
		}
	}
}

func saxmanCompress(data []byte, withHeader bool) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   saxmanMaxMatchLength,
		MaximumMatchDistance: saxmanMaxMatchDistance,
		LiteralCost:          saxmanLiteralCost,
		MatchCost:            saxmanMatchCost,
		ExtraMatches:         saxmanFindExtraMatches,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data))

	var headerPos int
	if withHeader {
		headerPos = out.Tell()
		out.WriteBytes([]byte{0x00, 0x00})
	}

	bw := NewDescriptorWriter(out, saxmanWriterBitFieldConfig())

	for _, m := range matches {
		if m.IsLiteral() {
			bw.Push(1)
			_ = out.WriteByte(data[m.Destination])
			continue
		}

		offset := m.Source - saxmanDictionaryBias
		length := m.Length

		bw.Push(0)
		_ = out.WriteByte(byte(offset & 0xFF))
		_ = out.WriteByte(byte(((offset & 0xF00) >> 4) | ((length - 3) & 0xF)))
	}

	bw.Finish()

	if withHeader {
		endPos := out.Tell()
		length := endPos - headerPos - 2
		out.Seek(headerPos)
		out.WriteBytes([]byte{byte(length), byte(length >> 8)})
		out.Seek(endPos)
	}

	return out.Bytes(), nil
}

// SaxmanCompressWithHeader encodes data as a Saxman bitstream prefixed
// with a 2-byte little-endian compressed-length header.
func SaxmanCompressWithHeader(data []byte) ([]byte, error) {
	return saxmanCompress(data, true)
}

// SaxmanCompressWithoutHeader encodes data as a bare Saxman bitstream,
// with no length header (the caller is expected to track the compressed
// size separately, as Saxman is often embedded in an already-sized
// container).
func SaxmanCompressWithoutHeader(data []byte) ([]byte, error) {
	return saxmanCompress(data, false)
}

func saxmanDecompress(in *Stream, compressedLength int) ([]byte, error) {
	start := in.Tell()
	br := NewBitReader(in, saxmanReaderBitFieldConfig())
	out := NewStream(compressedLength * 2)

	for in.Tell()-start < compressedLength {
		bit, err := br.Pop()
		if err != nil {
			return nil, newFormatError("saxman", in.Tell(), err)
		}

		if bit == 1 {
			b, err := in.ReadByte()
			if err != nil {
				return nil, newFormatError("saxman", in.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		first, err := in.ReadByte()
		if err != nil {
			return nil, newFormatError("saxman", in.Tell(), err)
		}
		second, err := in.ReadByte()
		if err != nil {
			return nil, newFormatError("saxman", in.Tell(), err)
		}

		dictionaryIndex := (int(first) | ((int(second) << 4) & 0xF00)) + saxmanDictionaryBias
		count := int(second&0xF) + 3
		outputPosition := out.Len()

		raw := outputPosition - dictionaryIndex
		distance := ((raw%0x1000)+0x1000-1)%0x1000 + 1

		if distance > outputPosition {
			out.Fill(0, count)
		} else if err := out.Copy(distance, count); err != nil {
			return nil, newFormatError("saxman", in.Tell(), err)
		}
	}

	return out.Bytes(), nil
}

// SaxmanDecompressWithHeader decodes a Saxman bitstream whose first 2
// bytes (little-endian) give the compressed length that follows.
func SaxmanDecompressWithHeader(data []byte) ([]byte, error) {
	in := NewStreamFromBytes(data)
	lo, err := in.ReadByte()
	if err != nil {
		return nil, newFormatError("saxman", in.Tell(), err)
	}
	hi, err := in.ReadByte()
	if err != nil {
		return nil, newFormatError("saxman", in.Tell(), err)
	}
	return saxmanDecompress(in, int(hi)<<8|int(lo))
}

// SaxmanDecompressWithoutHeader decodes a bare Saxman bitstream occupying
// the whole of data (no length header).
func SaxmanDecompressWithoutHeader(data []byte) ([]byte, error) {
	return saxmanDecompress(NewStreamFromBytes(data), len(data))
}

func saxmanModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 2, HeaderSize: 2}
}

// SaxmanModuledCompress compresses data as a sequence of independently
// Saxman-compressed modules, each carrying its own with-header length
// prefix — ModuledSaxmanDecompress in the reference always reads each
// module through the header-bearing Decompress overload.
func SaxmanModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, saxmanModuledOptions(), func(chunk []byte) ([]byte, error) {
		return SaxmanCompressWithHeader(chunk)
	})
}

// SaxmanModuledDecompress reverses SaxmanModuledCompress.
func SaxmanModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, saxmanModuledOptions(), func(compressed []byte, uncompressedSize int) ([]byte, int, error) {
		in := NewStreamFromBytes(compressed)
		lo, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("saxman", in.Tell(), err)
		}
		hi, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("saxman", in.Tell(), err)
		}
		out, err := saxmanDecompress(in, int(hi)<<8|int(lo))
		return out, in.Tell(), err
	})
}
