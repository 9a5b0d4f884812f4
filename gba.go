// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Gba constants, grounded on compressors/gba.h and decompressors/gba.h. GBA
// is the Game Boy Advance BIOS's built-in LZSS decompressor (compression
// type 0x10, shared with the GBA/NDS BIOS's Huffman and RLE routines): a
// plain back-reference LZSS with a 4-byte little-endian header (a
// compression-type byte, then a 3-byte uncompressed size) and output padded
// to a 4-byte boundary, since the BIOS requires both the compressed data's
// length and its placement in memory to be word-aligned.
const (
	gbaBIOSCompressionType          = 0x10
	gbaMinimumMatchLength           = 3
	gbaMaximumMatchLength           = 18
	gbaMinimumMatchDistance         = 1
	gbaMinimumMatchDistanceVRAMSafe = 2
	gbaMaximumMatchDistance         = 0x1000
	gbaLiteralCost                  = 1 + 8
	gbaMatchCost                    = 1 + 16
)

// gbaWriterBitFieldConfig mirrors compressors/gba.h's
// DescriptorFieldWriter<1, BeforePush, PushWhere::Low, Big, T>.
func gbaWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}
}

// gbaReaderBitFieldConfig mirrors decompressors/gba.h's
// Reader<1, BeforePop, PopWhere::High, Big, T> — pop-high pairs with the
// writer's push-low, as with Kosinski+/Comper/Chameleon/Enigma.
func gbaReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
}

func gbaMatchCostFunc(distance, length int) int {
	if length < gbaMinimumMatchLength {
		return 0
	}
	return gbaMatchCost
}

// gbaMatchCostVRAMSafeFunc additionally forbids distance-1 matches, since
// decompressing straight into VRAM one byte behind the write cursor is
// unsafe on real GBA hardware (the BIOS routine reads and writes through
// the same 16-bit-access-only memory).
func gbaMatchCostVRAMSafeFunc(distance, length int) int {
	if length < gbaMinimumMatchLength || distance < gbaMinimumMatchDistanceVRAMSafe {
		return 0
	}
	return gbaMatchCost
}

func gbaCompress(data []byte, cost MatchCostFunc) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   gbaMaximumMatchLength,
		MaximumMatchDistance: gbaMaximumMatchDistance,
		LiteralCost:          gbaLiteralCost,
		MatchCost:            cost,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data) + 8)
	headerPos := out.Tell()
	out.WriteBytes([]byte{0x00, 0x00, 0x00, 0x00})

	bw := NewDescriptorWriter(out, gbaWriterBitFieldConfig())

	for _, m := range matches {
		if m.IsLiteral() {
			bw.Push(0)
			_ = out.WriteByte(data[m.Destination])
			continue
		}

		length := m.Length - gbaMinimumMatchLength
		offset := m.Distance() - 1

		bw.Push(1)
		_ = out.WriteByte(byte((length << 4) | (offset >> 8)))
		_ = out.WriteByte(byte(offset & 0xFF))
	}

	bw.Finish()

	dataSize := len(data)
	endPos := out.Tell()
	out.Seek(headerPos)
	out.WriteBytes([]byte{
		gbaBIOSCompressionType,
		byte(dataSize),
		byte(dataSize >> 8),
		byte(dataSize >> 16),
	})
	out.Seek(endPos)

	// The BIOS requires both the compressed size and its load address to
	// be a multiple of 4; only the former is this function's concern.
	for out.Distance(headerPos)%4 != 0 {
		_ = out.WriteByte(0)
	}

	return out.Bytes(), nil
}

// GbaCompress encodes data as a GBA BIOS LZSS bitstream.
func GbaCompress(data []byte) ([]byte, error) {
	return gbaCompress(data, gbaMatchCostFunc)
}

// GbaVRAMSafeCompress is GbaCompress with matches of distance 1 disallowed,
// for output that will be decompressed directly into VRAM.
func GbaVRAMSafeCompress(data []byte) ([]byte, error) {
	return gbaCompress(data, gbaMatchCostVRAMSafeFunc)
}

// GbaDecompress decodes a GBA BIOS LZSS bitstream produced by GbaCompress
// (or the BIOS's own encoder).
func GbaDecompress(data []byte) ([]byte, error) {
	out, _, err := gbaDecompressStream(NewStreamFromBytes(data))
	return out, err
}

func gbaReadHeader(in *Stream) (int, error) {
	if _, err := in.ReadByte(); err != nil { // compression type, discarded
		return 0, err
	}
	b0, err := in.ReadByte()
	if err != nil {
		return 0, err
	}
	b1, err := in.ReadByte()
	if err != nil {
		return 0, err
	}
	b2, err := in.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(b0) | int(b1)<<8 | int(b2)<<16, nil
}

func gbaDecompressStream(in *Stream) ([]byte, int, error) {
	start := in.Tell()

	uncompressedSize, err := gbaReadHeader(in)
	if err != nil {
		return nil, 0, newFormatError("gba", in.Tell(), err)
	}

	br := NewBitReader(in, gbaReaderBitFieldConfig())
	out := NewStream(uncompressedSize)

	for out.Len() < uncompressedSize {
		bit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("gba", in.Tell(), err)
		}

		if bit == 0 {
			b, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("gba", in.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		b0, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("gba", in.Tell(), err)
		}
		b1, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("gba", in.Tell(), err)
		}

		count := int((b0>>4)&0xF) + gbaMinimumMatchLength
		distance := (int(b0&0xF)<<8 | int(b1)) + gbaMinimumMatchDistance

		if err := out.Copy(distance, count); err != nil {
			return nil, 0, newFormatError("gba", in.Tell(), err)
		}
	}

	return out.Bytes(), in.Tell() - start, nil
}

func gbaModuledOptions(moduleSize int) *ModuledOptions {
	if moduleSize <= 0 {
		moduleSize = 0x1000
	}
	return &ModuledOptions{ModuleSize: moduleSize, ModuleAlignment: 4, HeaderSize: 4, LittleEndianHeader: true}
}

// GbaModuledCompress compresses data as a sequence of independently
// GBA-compressed modules, each padded to a 4-byte boundary.
func GbaModuledCompress(data []byte, moduleSize int) ([]byte, error) {
	return ModuledCompress(data, gbaModuledOptions(moduleSize), func(chunk []byte) ([]byte, error) {
		return GbaCompress(chunk)
	})
}

// GbaModuledDecompress reverses GbaModuledCompress.
func GbaModuledDecompress(data []byte, moduleSize int) ([]byte, error) {
	return ModuledDecompress(data, gbaModuledOptions(moduleSize), func(compressed []byte, _ int) ([]byte, int, error) {
		return gbaDecompressStream(NewStreamFromBytes(compressed))
	})
}
