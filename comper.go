// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Comper constants, grounded on original_source/comper.c,
// compressors/comper.h and decompressors/comper.h. Comper operates on
// 16-bit values rather than individual bytes: every distance and length
// the parser produces is in units of 2-byte values, and must be doubled to
// get a byte count/distance before touching the output Stream (which is
// always byte-addressed).
const (
	comperBytesPerValue      = 2
	comperMaxMatchLength     = 0x100
	comperMaxMatchDistance   = 0x100
	comperLiteralCost        = 1 + 16
	comperMatchCost          = 1 + 16
)

// comperWriterBitFieldConfig mirrors compressors/comper.h's
// DescriptorFieldWriter<2, BeforePush, PushWhere::Low, Big, T>.
func comperWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 2, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}
}

// comperReaderBitFieldConfig mirrors decompressors/comper.h's
// Reader<2, BeforePop, PopWhere::High, Big, T>: same BeforeAccess timing,
// and since the writer pushes low-end-first, the reader must pop
// high-end-first to recover the original bit order.
func comperReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 2, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
}

// comperCost is Comper's GetMatchCost: every match costs the same
// regardless of distance or length, since both are always encoded in two
// fixed-size bytes.
func comperCost(distance, length int) int {
	return comperMatchCost
}

// ComperCompress encodes data as a Comper bitstream. data's length must be
// even, since Comper encodes pairs of bytes as a single 16-bit value.
func ComperCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(data)%comperBytesPerValue != 0 {
		return nil, ErrOddLength
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        comperBytesPerValue,
		MaximumMatchLength:   comperMaxMatchLength,
		MaximumMatchDistance: comperMaxMatchDistance,
		LiteralCost:          comperLiteralCost,
		MatchCost:            comperCost,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data))
	bw := NewDescriptorWriter(out, comperWriterBitFieldConfig())

	for _, m := range matches {
		if m.IsLiteral() {
			bw.Push(0)
			_ = out.WriteByte(data[m.Destination*2+0])
			_ = out.WriteByte(data[m.Destination*2+1])
			continue
		}

		dist := m.Distance()
		length := m.Length

		bw.Push(1)
		_ = out.WriteByte(byte(-dist & 0xFF))
		_ = out.WriteByte(byte(length - 1))
	}

	bw.Push(1)
	out.WriteBytes([]byte{0x00, 0x00})
	bw.Finish()

	return out.Bytes(), nil
}

// ComperDecompress decodes a Comper bitstream produced by ComperCompress
// until its terminator (a match form whose raw count byte is zero).
func ComperDecompress(data []byte) ([]byte, error) {
	out, _, err := comperDecompressStream(NewStreamFromBytes(data))
	return out, err
}

func comperDecompressStream(in *Stream) ([]byte, int, error) {
	br := NewBitReader(in, comperReaderBitFieldConfig())
	out := NewStream(in.Remaining() * 2)

	for {
		bit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("comper", in.Tell(), err)
		}

		if bit == 0 {
			lo, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("comper", in.Tell(), err)
			}
			hi, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("comper", in.Tell(), err)
			}
			_ = out.WriteByte(lo)
			_ = out.WriteByte(hi)
			continue
		}

		rawDist, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("comper", in.Tell(), err)
		}
		rawCount, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("comper", in.Tell(), err)
		}

		if rawCount == 0 {
			return out.Bytes(), in.Tell(), nil
		}

		distance := (0x100 - int(rawDist)) * 2
		count := (int(rawCount) + 1) * 2

		if err := out.Copy(distance, count); err != nil {
			return nil, 0, newFormatError("comper", in.Tell(), err)
		}
	}
}

func comperModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 2, HeaderSize: 2}
}

// ComperModuledCompress compresses data as a sequence of independently
// Comper-compressed modules.
func ComperModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, comperModuledOptions(), func(chunk []byte) ([]byte, error) {
		return ComperCompress(chunk)
	})
}

// ComperModuledDecompress reverses ComperModuledCompress.
func ComperModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, comperModuledOptions(), func(compressed []byte, _ int) ([]byte, int, error) {
		return comperDecompressStream(NewStreamFromBytes(compressed))
	})
}
