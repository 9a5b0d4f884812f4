// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

// Rage constants, grounded on original_source/rage.c, compressors/rage.h
// and decompressors/rage.h. Rage is Streets of Rage 2's format: really an
// RLE scheme wearing an LZSS parser's clothes, built by feeding the shared
// cost-optimal parser three synthetic edge families instead of a plain
// literal/match split — uncompressed runs (a match pointing at its own
// destination), byte-repeat runs (a sentinel standing in for "repeat this
// value"), and real dictionary back-references, each with its own opcode
// family and no shared descriptor bit stream at all. A long dictionary
// match compiles to more than one opcode: a 2-byte header capturing up to
// 7 bytes, followed by 1-byte "more of the same" continuations in blocks
// of up to 0x1F bytes reusing the just-set distance.
//
// The reference passes an effectively unbounded dictionary-match window
// (0xFFFFFFFF) into its parser, which its own source comments flag as
// likely a bug ("TODO - Shouldn't the distance limit be 0x2000?") since
// the wire format can only encode a 13-bit distance. This port does not
// reproduce the unbounded window: it is capped at 0x1FFF, the largest
// distance the 13-bit field can encode.
const (
	rageMaxMatchLength     = 0x1FFF
	rageMaxMatchDistance   = 0x1FFF
	rageLiteralCost        = 0xFFFFFFF
	rageRLEMaxRun          = 0xFFF + 4
	rageUncompressedMaxRun = 0x1FFF
	rageRLESentinelBase    = -1 << 30
)

// rageRLESentinel encodes "repeat this byte value" as a Source far below
// any real value-index or literalSource, mirroring FindExtraMatches' use
// of 0xFFFFFF00 | value as an out-of-band marker recognized by the
// "(offset & 0xFFFFFF00) == 0xFFFFFF00" check in rage.c's Compress.
func rageRLESentinel(value byte) int {
	return rageRLESentinelBase - int(value)
}

func rageIsRLESentinel(source int) bool {
	return source <= rageRLESentinelBase
}

func rageRLEValue(source int) byte {
	return byte(rageRLESentinelBase - source)
}

// rageMatchCost mirrors rage.c's GetMatchCost: a real dictionary match
// costs a 2-byte opcode for its first 7 bytes, plus one more byte for
// every additional block of up to 0x1F bytes.
func rageMatchCost(distance, length int) int {
	if length < 4 {
		return 0
	}
	extra := length - 7
	if extra < 0 {
		extra = 0
	}
	continuations := (extra + 0x1F - 1) / 0x1F
	return (2 + continuations) * 8
}

// rageFindExtraMatches mirrors rage.c's FindExtraMatches: byte-repeat runs
// (RLE-matches) and uncompressed runs are both synthesized here rather
// than discovered by the window search, since neither is a real
// back-reference into already-seen data.
func rageFindExtraMatches(data []byte, totalValues, i int, nodes []graphEdge) {
	rleMax := rageRLEMaxRun
	if totalValues-i < rleMax {
		rleMax = totalValues - i
	}

	for k := 0; k < rleMax; k++ {
		if data[i+k] != data[i] {
			break
		}

		length := k + 1
		if length < 4 {
			continue
		}

		extraBlock := 1
		if length-4 > 0xF {
			extraBlock = 2
		}
		cost := (extraBlock + 1) * 8

		if nodes[i+length].cost > nodes[i].cost+cost {
			nodes[i+length].cost = nodes[i].cost + cost
			nodes[i+length].previousNode = i
			nodes[i+length].matchOffset = rageRLESentinel(data[i])
		}
	}

	runMax := rageUncompressedMaxRun
	if totalValues-i < runMax {
		runMax = totalValues - i
	}

	for k := 0; k < runMax; k++ {
		length := k + 1
		extraByte := 1
		if length > 0x1F {
			extraByte = 2
		}
		cost := (length + extraByte) * 8

		if nodes[i+length].cost > nodes[i].cost+cost {
			nodes[i+length].cost = nodes[i].cost + cost
			nodes[i+length].previousNode = i
			nodes[i+length].matchOffset = i
		}
	}
}

// RageCompress encodes data as a Rage bitstream: a 2-byte little-endian
// header giving the total compressed length (the header's own 2 bytes
// included), then a run of
// byte-aligned opcodes with no descriptor bit stream.
func RageCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	matches, err := FindOptimalMatches(data, ParserConfig{
		BytesPerValue:        1,
		MaximumMatchLength:   rageMaxMatchLength,
		MaximumMatchDistance: rageMaxMatchDistance,
		LiteralCost:          rageLiteralCost,
		MatchCost:            rageMatchCost,
		ExtraMatches:         rageFindExtraMatches,
	})
	if err != nil {
		return nil, err
	}

	out := NewStream(len(data) + 2)

	headerPos := out.Tell()
	out.WriteBytes([]byte{0x00, 0x00})

	for _, m := range matches {
		length := m.Length

		switch {
		case m.Destination == m.Source:
			// Uncompressed run.
			if length > 0x1F {
				_ = out.WriteByte(byte(0x20 | ((length >> 8) & 0x1F)))
				_ = out.WriteByte(byte(length & 0xFF))
			} else {
				_ = out.WriteByte(byte(length))
			}
			for k := 0; k < length; k++ {
				_ = out.WriteByte(data[m.Source+k])
			}

		case rageIsRLESentinel(m.Source):
			length -= 4
			if length > 0xF {
				_ = out.WriteByte(byte(0x40 | 0x10 | ((length >> 8) & 0xF)))
				_ = out.WriteByte(byte(length & 0xFF))
			} else {
				_ = out.WriteByte(byte(0x40 | (length & 0xF)))
			}
			_ = out.WriteByte(rageRLEValue(m.Source))

		default:
			distance := m.Destination - m.Source
			length -= 4

			thing := length
			if thing > 3 {
				thing = 3
			}

			_ = out.WriteByte(byte(0x80 | (thing << 5) | ((distance >> 8) & 0x1F)))
			_ = out.WriteByte(byte(distance & 0xFF))

			length -= thing
			for length != 0 {
				thing = length
				if thing > 0x1F {
					thing = 0x1F
				}
				_ = out.WriteByte(byte(0x60 | thing))
				length -= thing
			}
		}
	}

	endPos := out.Tell()
	size := endPos - headerPos
	out.Seek(headerPos)
	out.WriteBytes([]byte{byte(size), byte(size >> 8)})
	out.Seek(endPos)

	return out.Bytes(), nil
}

// RageDecompress decodes a Rage bitstream produced by RageCompress.
func RageDecompress(data []byte) ([]byte, error) {
	out, _, err := rageDecompressStream(NewStreamFromBytes(data))
	return out, err
}

// rageDecompressStream mirrors decompressors/rage.h's Decompress exactly,
// including its persistence of the most recently used distance across
// iterations for the "repeat with same distance" opcode family (0x60).
func rageDecompressStream(in *Stream) ([]byte, int, error) {
	start := in.Tell()

	lo, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("rage", in.Tell(), err)
	}
	hi, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("rage", in.Tell(), err)
	}
	compressedSize := int(hi)<<8 | int(lo)

	out := NewStream(in.Remaining() * 2)
	distance := 0

	for in.Distance(start) < compressedSize {
		firstByte, err := in.ReadByte()
		if err != nil {
			return nil, 0, newFormatError("rage", in.Tell(), err)
		}

		switch firstByte >> 5 {
		case 0, 1:
			var count int
			if firstByte&0x20 != 0 {
				b, err := in.ReadByte()
				if err != nil {
					return nil, 0, newFormatError("rage", in.Tell(), err)
				}
				count = (int(firstByte)<<8)&0x1F00 | int(b)
			} else {
				count = int(firstByte)
			}

			for k := 0; k < count; k++ {
				b, err := in.ReadByte()
				if err != nil {
					return nil, 0, newFormatError("rage", in.Tell(), err)
				}
				_ = out.WriteByte(b)
			}

		case 2:
			count := 4
			if firstByte&0x10 != 0 {
				b, err := in.ReadByte()
				if err != nil {
					return nil, 0, newFormatError("rage", in.Tell(), err)
				}
				count += (int(firstByte)<<8)&0xF00 | int(b)
			} else {
				count += int(firstByte & 0xF)
			}

			value, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("rage", in.Tell(), err)
			}
			out.Fill(value, count)

		case 3:
			count := int(firstByte & 0x1F)
			if err := out.Copy(distance, count); err != nil {
				return nil, 0, newFormatError("rage", in.Tell(), err)
			}

		default:
			second, err := in.ReadByte()
			if err != nil {
				return nil, 0, newFormatError("rage", in.Tell(), err)
			}
			count := int((firstByte>>5)&3) + 4
			distance = (int(firstByte)<<8)&0x1F00 | int(second)
			if err := out.Copy(distance, count); err != nil {
				return nil, 0, newFormatError("rage", in.Tell(), err)
			}
		}
	}

	return out.Bytes(), in.Tell() - start, nil
}

func rageModuledOptions() *ModuledOptions {
	return &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 2, HeaderSize: 2}
}

// RageModuledCompress compresses data as a sequence of independently
// Rage-compressed modules.
func RageModuledCompress(data []byte) ([]byte, error) {
	return ModuledCompress(data, rageModuledOptions(), func(chunk []byte) ([]byte, error) {
		return RageCompress(chunk)
	})
}

// RageModuledDecompress reverses RageModuledCompress.
func RageModuledDecompress(data []byte) ([]byte, error) {
	return ModuledDecompress(data, rageModuledOptions(), func(compressed []byte, _ int) ([]byte, int, error) {
		return rageDecompressStream(NewStreamFromBytes(compressed))
	})
}
