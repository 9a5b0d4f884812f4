// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Chameleon constants, grounded on original_source/chameleon.c,
// compressors/chameleon.h and decompressors/chameleon.h. Unlike every
// other format here, Chameleon stores its descriptor bits in one
// contiguous section (length-prefixed by a 2-byte big-endian header) and
// its literals/match payloads in a second section immediately following —
// two independent passes over the same match list, rather than one
// interleaved stream.
const (
	chameleonMaxMatchLength   = 0xFF
	chameleonMaxMatchDistance = 0x7FF
	chameleonLiteralCost      = 1 + 8
)

// chameleonBitFieldConfig mirrors compressors/chameleon.h's
// Writer<1, BeforePush, PushWhere::Low, Big, T>; chameleonReaderBitFieldConfig
// mirrors decompressors/chameleon.h's Reader<1, BeforePop, PopWhere::High,
// Big, T> — push-low pairs with pop-high, as established by Kosinski+.
func chameleonBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}
}

func chameleonReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
}

// chameleonMatchCost mirrors chameleon.c's GetMatchCost.
func chameleonMatchCost(distance, length int) int {
	switch {
	case length >= 2 && length <= 3 && distance < 0x100:
		return 2 + 8 + 1
	case length >= 3 && length <= 5:
		return 2 + 3 + 8 + 2
	case length >= 6:
		return 2 + 3 + 8 + 2 + 8
	default:
		return 0
	}
}

// ChameleonCompress encodes data as a Chameleon bitstream: a 2-byte
// descriptor-section length header, the descriptor bits, then the
// literal bytes and match offset/length payloads.
func ChameleonCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   chameleonMaxMatchLength,
		MaximumMatchDistance: chameleonMaxMatchDistance,
		LiteralCost:          chameleonLiteralCost,
		MatchCost:            chameleonMatchCost,
	})
	if err != nil {
		return nil, err
	}

	descBuf := NewStream(len(matches))
	bw := NewBitWriter(descBuf, chameleonBitFieldConfig())

	for _, m := range matches {
		if m.IsLiteral() {
			bw.Push(1)
			continue
		}

		dist := m.Distance()
		length := m.Length

		switch {
		case length <= 3 && dist < 0x100:
			bw.Push(0)
			bw.Push(0)
			bw.Push(boolBit(length == 3))
		case length <= 5:
			bw.Push(0)
			bw.Push(1)
			bw.Push(boolBit(dist&(1<<10) != 0))
			bw.Push(boolBit(dist&(1<<9) != 0))
			bw.Push(boolBit(dist&(1<<8) != 0))
			bw.Push(boolBit(length == 5))
			bw.Push(boolBit(length == 4))
		default:
			bw.Push(0)
			bw.Push(1)
			bw.Push(boolBit(dist&(1<<10) != 0))
			bw.Push(boolBit(dist&(1<<9) != 0))
			bw.Push(boolBit(dist&(1<<8) != 0))
			bw.Push(1)
			bw.Push(1)
		}
	}

	bw.Push(0)
	bw.Push(1)
	bw.Push(0)
	bw.Push(0)
	bw.Push(0)
	bw.Push(1)
	bw.Push(1)
	bw.Finish()

	out := NewStream(2 + descBuf.Len() + len(data))
	out.WriteBytes([]byte{byte(descBuf.Len() >> 8), byte(descBuf.Len())})
	out.WriteBytes(descBuf.Bytes())

	for _, m := range matches {
		if m.IsLiteral() {
			_ = out.WriteByte(data[m.Destination])
			continue
		}

		dist := m.Distance()
		length := m.Length

		switch {
		case length <= 3 && dist < 0x100:
			_ = out.WriteByte(byte(dist))
		case length <= 5:
			_ = out.WriteByte(byte(dist & 0xFF))
		default:
			_ = out.WriteByte(byte(dist & 0xFF))
			_ = out.WriteByte(byte(length))
		}
	}

	out.WriteBytes([]byte{0x00, 0x00})

	return out.Bytes(), nil
}

func boolBit(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// ChameleonDecompress decodes a Chameleon bitstream produced by
// ChameleonCompress until its terminator.
func ChameleonDecompress(data []byte) ([]byte, error) {
	out, _, err := chameleonDecompressStream(NewStreamFromBytes(data))
	return out, err
}

func chameleonDecompressStream(data0 *Stream) ([]byte, int, error) {
	base := data0.Tell()
	full := data0.Bytes()

	headerBytes := make([]byte, 2)
	data0.Seek(base)
	for i := range headerBytes {
		b, err := data0.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("chameleon", data0.Tell(), err)
		}
		headerBytes[i] = b
	}
	descLen := int(headerBytes[0])<<8 | int(headerBytes[1])

	descStream := NewStreamFromBytes(full)
	descStream.Seek(base + 2)
	br := NewBitReader(descStream, chameleonReaderBitFieldConfig())

	payload := NewStreamFromBytes(full)
	payload.Seek(base + 2 + descLen)

	out := NewStream(len(full) * 2)

	for {
		bit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("chameleon", payload.Tell(), err)
		}

		if bit == 1 {
			b, err := payload.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("chameleon", payload.Tell(), err)
			}
			_ = out.WriteByte(b)
			continue
		}

		distByte, err := payload.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("chameleon", payload.Tell(), err)
		}
		distance := int(distByte)

		formBit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("chameleon", payload.Tell(), err)
		}

		var count int

		if formBit == 0 {
			extra, err := br.Pop()
			if err != nil {
				return nil, 0, newFormatError("chameleon", payload.Tell(), err)
			}
			count = 2 + int(extra)
		} else {
			if b, err := br.Pop(); err != nil {
				return nil, 0, newFormatError("chameleon", payload.Tell(), err)
			} else if b == 1 {
				distance += 1 << 10
			}
			if b, err := br.Pop(); err != nil {
				return nil, 0, newFormatError("chameleon", payload.Tell(), err)
			} else if b == 1 {
				distance += 1 << 9
			}
			if b, err := br.Pop(); err != nil {
				return nil, 0, newFormatError("chameleon", payload.Tell(), err)
			} else if b == 1 {
				distance += 1 << 8
			}

			x1, err := br.Pop()
			if err != nil {
				return nil, 0, newFormatError("chameleon", payload.Tell(), err)
			}

			if x1 == 0 {
				x0, err := br.Pop()
				if err != nil {
					return nil, 0, newFormatError("chameleon", payload.Tell(), err)
				}
				if x0 == 0 {
					count = 3
				} else {
					count = 4
				}
			} else {
				x0, err := br.Pop()
				if err != nil {
					return nil, 0, newFormatError("chameleon", payload.Tell(), err)
				}
				if x0 == 0 {
					count = 5
				} else {
					lenByte, err := payload.ReadByte()
					if err != nil {
						return nil, 0, newFormatError("chameleon", payload.Tell(), err)
					}
					count = int(lenByte)
					if count < 6 {
						return out.Bytes(), payload.Tell() - base, nil
					}
				}
			}
		}

		if err := out.Copy(distance, count); err != nil {
			return nil, 0, newFormatError("chameleon", payload.Tell(), err)
		}
	}
}

func chameleonModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 2, HeaderSize: 2}
}

// ChameleonModuledCompress compresses data as a sequence of independently
// Chameleon-compressed modules.
func ChameleonModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, chameleonModuledOptions(), func(chunk []byte) ([]byte, error) {
		return ChameleonCompress(chunk)
	})
}

// ChameleonModuledDecompress reverses ChameleonModuledCompress.
func ChameleonModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, chameleonModuledOptions(), func(compressed []byte, _ int) ([]byte, int, error) {
		return chameleonDecompressStream(NewStreamFromBytes(compressed))
	})
}
