// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import "math/bits"

// Enigma constants, grounded on compressors/enigma.h and
// decompressors/enigma.h. Enigma compresses Sega tilemaps: 16-bit values
// made of a handful of "render flag" bits (priority, palette, flip) packed
// above an 11-bit tile index. Unlike every other format here it is not an
// LZSS derivative at all — there is no sliding-window back-reference, only
// a greedy run-length classifier (constant/incrementing/decrementing runs
// of inline values, or literal bundles of up to 15 values that fit none of
// those patterns) — so it bypasses the shared cost-optimal parser
// entirely.
const (
	enigmaMaxRunLength     = 0x10
	enigmaMaxRawBundle     = 0xF
	enigmaRenderFlagBits   = 5
	enigmaTileIndexShift   = 3 + 8
	enigmaTerminatorMarker = 7
	enigmaTerminatorCount  = 0xF
)

// Run type codes, written into the 3-bit descriptor field alongside
// enigmaTerminatorMarker/7 (the literal-bundle/terminator marker); all four
// values have their top bit set, so the decoder's single leading "inline or
// repeat-previous" selector bit is always 1 for streams this encoder
// produces. The "repeat previous" compact forms (selector bit 0) are dead
// code on the encode side but still fully supported on decode, since nothing
// stops a third-party Enigma stream from using them.
const (
	enigmaRunSame = iota + 4
	enigmaRunIncrement
	enigmaRunDecrement
)

// enigmaWriterBitFieldConfig mirrors compressors/enigma.h's
// BitField::Writer<1, BeforePush, PushWhere::Low, Big, T>.
func enigmaWriterBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: Low, Endian: BigEndian}
}

// enigmaReaderBitFieldConfig mirrors decompressors/enigma.h's
// BitField<1, BeforePop, PopWhere::High, Big, T> — pop-high pairs with the
// writer's push-low, as established by Kosinski+/Comper/Chameleon.
func enigmaReaderBitFieldConfig() BitFieldConfig {
	return BitFieldConfig{Width: 1, RefillWhen: BeforeAccess, Position: High, Endian: BigEndian}
}

func enigmaReadWord(data []byte, pos int) int {
	return int(data[pos])<<8 | int(data[pos+1])
}

// enigmaGetRun mirrors compressors/enigma.h's GetRun: starting at pos, find
// the longest run of identical, successively-incrementing, or
// successively-decrementing 16-bit values, preferring Same over Increment
// over Decrement on a tie (matching the reference's strictly-less-than
// upgrade chain).
func enigmaGetRun(data []byte, pos, dataLen int) (runType, length int) {
	maxLen := enigmaMaxRunLength
	if remaining := (dataLen - pos) / 2; remaining < maxLen {
		maxLen = remaining
	}

	first := enigmaReadWord(data, pos)

	runLength := func(next func(i int) int) int {
		i := 1
		for ; i < maxLen; i++ {
			if enigmaReadWord(data, pos+i*2) != next(i) {
				break
			}
		}
		return i
	}

	literalLen := runLength(func(int) int { return first })
	incLen := runLength(func(i int) int { return first + i })
	decLen := runLength(func(i int) int { return first - i })

	runType, length = enigmaRunSame, literalLen
	if length < incLen {
		runType, length = enigmaRunIncrement, incLen
	}
	if length < decLen {
		runType, length = enigmaRunDecrement, decLen
	}
	return runType, length
}

// EnigmaCompress encodes data (a sequence of big-endian 16-bit tile words)
// as an Enigma bitstream. data's length must be even.
func EnigmaCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(data)%2 != 0 {
		return nil, ErrOddLength
	}

	combined := 0
	for i := 0; i < len(data); i += 2 {
		combined |= enigmaReadWord(data, i)
	}

	inlineValueLength := bits.Len(uint(combined & 0x7FF))
	renderFlagsMask := combined >> (16 - enigmaRenderFlagBits)

	out := NewStream(len(data))
	_ = out.WriteByte(byte(inlineValueLength))
	_ = out.WriteByte(byte(renderFlagsMask))
	// incremental_copy_word/literal_copy_word: always zero, since this
	// encoder never emits the compact "repeat previous inline value" forms
	// that would read them back.
	out.WriteBytes([]byte{0x00, 0x00, 0x00, 0x00})

	bw := NewBitWriter(out, enigmaWriterBitFieldConfig())

	writeInline := func(pos int) {
		value := enigmaReadWord(data, pos)

		for i := 0; i < enigmaRenderFlagBits; i++ {
			if renderFlagsMask&(1<<(enigmaRenderFlagBits-i-1)) == 0 {
				continue
			}
			bit := uint(0)
			if value&(1<<(16-i-1)) != 0 {
				bit = 1
			}
			bw.Push(bit)
		}

		bw.PushN(uint(value), uint(inlineValueLength))
	}

	pos := 0
	for pos < len(data) {
		maxLen := enigmaMaxRawBundle
		if remaining := (len(data) - pos) / 2; remaining < maxLen {
			maxLen = remaining
		}

		rawCopyLength := 0
		var runType, runLength int
		for ; rawCopyLength < maxLen; rawCopyLength++ {
			runType, runLength = enigmaGetRun(data, pos+rawCopyLength*2, len(data))
			if runLength != 1 {
				break
			}
		}

		if rawCopyLength > 0 {
			bw.PushN(enigmaTerminatorMarker, 3)
			bw.PushN(uint(rawCopyLength-1), 4)
			for i := 0; i < rawCopyLength; i++ {
				writeInline(pos + i*2)
			}
		}
		pos += rawCopyLength * 2
		if pos == len(data) {
			break
		}

		bw.PushN(uint(runType), 3)
		bw.PushN(uint(runLength-1), 4)
		writeInline(pos)
		pos += runLength * 2
	}

	bw.PushN(enigmaTerminatorMarker, 3)
	bw.PushN(enigmaTerminatorCount, 4)
	bw.Finish()

	return out.Bytes(), nil
}

// EnigmaDecompress decodes an Enigma bitstream produced by EnigmaCompress
// (or any conforming Enigma stream) until its terminator.
func EnigmaDecompress(data []byte) ([]byte, error) {
	out, _, err := enigmaDecompressStream(NewStreamFromBytes(data))
	return out, err
}

func enigmaDecompressStream(in *Stream) ([]byte, int, error) {
	start := in.Tell()

	inlineValueLength, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("enigma", in.Tell(), err)
	}
	renderFlagsMaskByte, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("enigma", in.Tell(), err)
	}
	renderFlagsMask := int(renderFlagsMaskByte)

	hi0, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("enigma", in.Tell(), err)
	}
	lo0, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("enigma", in.Tell(), err)
	}
	incrementalCopyWord := int(hi0)<<8 | int(lo0)

	hi1, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("enigma", in.Tell(), err)
	}
	lo1, err := in.ReadByte()
	if err != nil {
		return nil, 0, newFormatError("enigma", in.Tell(), err)
	}
	literalCopyWord := int(hi1)<<8 | int(lo1)

	br := NewBitReader(in, enigmaReaderBitFieldConfig())
	out := NewStream(in.Remaining() * 2)

	writeWord := func(v int) {
		_ = out.WriteByte(byte(v >> 8))
		_ = out.WriteByte(byte(v))
	}

	getInline := func() (int, error) {
		renderFlags := 0
		for i := 0; i < enigmaRenderFlagBits; i++ {
			renderFlags <<= 1
			if renderFlagsMask&(1<<(enigmaRenderFlagBits-i-1)) != 0 {
				bit, err := br.Pop()
				if err != nil {
					return 0, err
				}
				renderFlags |= int(bit)
			}
		}
		renderFlags <<= enigmaTileIndexShift

		low, err := br.PopN(uint(inlineValueLength))
		if err != nil {
			return 0, err
		}
		return renderFlags | int(low), nil
	}

	getCount := func() (int, error) {
		v, err := br.PopN(4)
		return int(v) + 1, err
	}

	for {
		topBit, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("enigma", in.Tell(), err)
		}

		if topBit == 0 {
			bit, err := br.Pop()
			if err != nil {
				return nil, 0, newFormatError("enigma", in.Tell(), err)
			}
			count, err := getCount()
			if err != nil {
				return nil, 0, newFormatError("enigma", in.Tell(), err)
			}

			if bit == 0 {
				for i := 0; i < count; i++ {
					writeWord(incrementalCopyWord)
				}
				incrementalCopyWord++
			} else {
				for i := 0; i < count; i++ {
					writeWord(literalCopyWord)
				}
			}
			continue
		}

		bit1, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("enigma", in.Tell(), err)
		}
		bit2, err := br.Pop()
		if err != nil {
			return nil, 0, newFormatError("enigma", in.Tell(), err)
		}
		count, err := getCount()
		if err != nil {
			return nil, 0, newFormatError("enigma", in.Tell(), err)
		}

		switch {
		case bit1 == 0 && bit2 == 0:
			value, err := getInline()
			if err != nil {
				return nil, 0, newFormatError("enigma", in.Tell(), err)
			}
			for i := 0; i < count; i++ {
				writeWord(value)
			}

		case bit1 == 0:
			value, err := getInline()
			if err != nil {
				return nil, 0, newFormatError("enigma", in.Tell(), err)
			}
			for i := 0; i < count; i++ {
				writeWord(value)
				value++
			}

		case bit2 == 0:
			value, err := getInline()
			if err != nil {
				return nil, 0, newFormatError("enigma", in.Tell(), err)
			}
			for i := 0; i < count; i++ {
				writeWord(value)
				value--
			}

		default:
			if count == enigmaMaxRunLength {
				return out.Bytes(), in.Tell() - start, nil
			}
			for i := 0; i < count; i++ {
				value, err := getInline()
				if err != nil {
					return nil, 0, newFormatError("enigma", in.Tell(), err)
				}
				writeWord(value)
			}
		}
	}
}

const enigmaDefaultModuleSize = 0x1000

func enigmaModuledOptions(moduleSize int) *ModuledOptions {
	if moduleSize <= 0 {
		moduleSize = enigmaDefaultModuleSize
	}
	return &ModuledOptions{ModuleSize: moduleSize, ModuleAlignment: 2, HeaderSize: 2}
}

// EnigmaModuledCompress compresses data as a sequence of independently
// Enigma-compressed modules of at most moduleSize uncompressed bytes (pass
// 0 for the conventional 0x1000 default).
func EnigmaModuledCompress(data []byte, moduleSize int) ([]byte, error) {
	opts := enigmaModuledOptions(moduleSize)
	return ModuledCompress(data, opts, func(chunk []byte) ([]byte, error) {
		return EnigmaCompress(chunk)
	})
}

// EnigmaModuledDecompress reverses EnigmaModuledCompress.
func EnigmaModuledDecompress(data []byte, moduleSize int) ([]byte, error) {
	opts := enigmaModuledOptions(moduleSize)
	return ModuledDecompress(data, opts, func(compressed []byte, _ int) ([]byte, int, error) {
		return enigmaDecompressStream(NewStreamFromBytes(compressed))
	})
}
