// SPDX-License-Identifier: MIT
// Source: github.com/clownacy/go-lzss

package lzss

import (
	"bytes"
	"testing"
)

// identityChunkCodec treats each module as stored-uncompressed, so
// ModuledCompress/ModuledDecompress's own framing (header, alignment
// padding, module boundaries) can be tested in isolation from any format's
// opcode encoding.
func identityCompress(chunk []byte) ([]byte, error) {
	return append([]byte{}, chunk...), nil
}

func identityDecompress(compressed []byte, uncompressedSize int) ([]byte, int, error) {
	if len(compressed) < uncompressedSize {
		return nil, 0, ErrInputOverrun
	}
	return compressed[:uncompressedSize], uncompressedSize, nil
}

func TestModuledCompressDecompressRoundTrip(t *testing.T) {
	opts := &ModuledOptions{ModuleSize: 16, ModuleAlignment: 4, HeaderSize: 2}

	data := make([]byte, 16*3+5)
	for i := range data {
		data[i] = byte(i)
	}

	compressed, err := ModuledCompress(data, opts, identityCompress)
	if err != nil {
		t.Fatalf("ModuledCompress: %v", err)
	}

	got, err := ModuledDecompress(compressed, opts, identityDecompress)
	if err != nil {
		t.Fatalf("ModuledDecompress: %v", err)
	}

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(data))
	}
}

// TestModuledCompressHeaderEncoding checks the header value and its layout
// directly: (size % moduleSize) | ((size / moduleSize) << 12), regardless
// of HeaderSize, per common.c's ModuledCompressionWrapper.
func TestModuledCompressHeaderEncoding(t *testing.T) {
	for _, tc := range []struct {
		name       string
		size       int
		headerSize int
		little     bool
	}{
		{"2-byte-big-endian", 0x2345, 2, false},
		{"4-byte-little-endian", 0x2345, 4, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts := &ModuledOptions{ModuleSize: 0x1000, ModuleAlignment: 1, HeaderSize: tc.headerSize, LittleEndianHeader: tc.little}

			data := make([]byte, tc.size)
			compressed, err := ModuledCompress(data, opts, identityCompress)
			if err != nil {
				t.Fatalf("ModuledCompress: %v", err)
			}

			wantHeader := (tc.size % opts.ModuleSize) | ((tc.size / opts.ModuleSize) << 12)
			gotHeader := decodeModuleHeader(compressed[:tc.headerSize], tc.little)

			if gotHeader != wantHeader {
				t.Fatalf("header: got %#x want %#x", gotHeader, wantHeader)
			}
		})
	}
}

// TestModuledCompressAlignmentPadding checks every module after the first
// starts on an opts.ModuleAlignment boundary measured from the end of the
// header (not from the start of the compressed stream), matching
// ModuledCompressionWrapper's per-module `compressed_size % module_alignment`
// padding — and that no padding precedes the very first module.
func TestModuledCompressAlignmentPadding(t *testing.T) {
	opts := &ModuledOptions{ModuleSize: 5, ModuleAlignment: 8, HeaderSize: 2}

	// A chunk codec that returns a size not already a multiple of the
	// alignment, so padding before the next module is actually exercised.
	oddSizeCompress := func(chunk []byte) ([]byte, error) {
		return append([]byte{0xFF}, chunk...), nil
	}

	data := make([]byte, 5*3+2)
	compressed, err := ModuledCompress(data, opts, oddSizeCompress)
	if err != nil {
		t.Fatalf("ModuledCompress: %v", err)
	}

	headerLen := opts.headerSize()
	pos := headerLen
	moduleSizes := []int{5 + 1, 5 + 1, 5 + 1, 2 + 1} // oddSizeCompress prepends one byte
	for i, size := range moduleSizes {
		if i > 0 && (pos-headerLen)%opts.ModuleAlignment != 0 {
			t.Fatalf("module %d starts at offset %d, not aligned relative to the header end", i, pos)
		}
		if pos >= len(compressed) || compressed[pos] != 0xFF {
			t.Fatalf("module %d not found at header-relative aligned offset %d", i, pos)
		}
		pos += size
		if i < len(moduleSizes)-1 {
			for (pos-headerLen)%opts.ModuleAlignment != 0 {
				pos++
			}
		}
	}
	if pos > len(compressed) {
		t.Fatalf("computed end %d exceeds compressed length %d", pos, len(compressed))
	}
}

// TestModuledCompressAlignmentPaddingHeaderNotDivisor checks the exact
// offset of the second module for an alignment that does not divide the
// header size, using Kosinski's actual ModuleAlignment=16, HeaderSize=2
// combination, and round-trips the result. With data sized so the first module compresses
// to 20 bytes (not a multiple of 16), the correct, header-relative pad
// target is `(pos-headerLen) % 16 == 0`, i.e. pos == 2+32 == 34 (12 bytes of
// padding), not pos == 32 (the wrong, absolute-position target that would
// pad only 10 bytes).
func TestModuledCompressAlignmentPaddingHeaderNotDivisor(t *testing.T) {
	opts := &ModuledOptions{ModuleSize: 20, ModuleAlignment: 16, HeaderSize: 2}

	fixedSizeCompress := func(chunk []byte) ([]byte, error) {
		out := make([]byte, 20)
		copy(out, chunk)
		return out, nil
	}

	data := make([]byte, 20+3)
	compressed, err := ModuledCompress(data, opts, fixedSizeCompress)
	if err != nil {
		t.Fatalf("ModuledCompress: %v", err)
	}

	const wantSecondModuleOffset = 34 // header(2) + module0(20) + pad(12)
	if len(compressed) < wantSecondModuleOffset+3 {
		t.Fatalf("compressed too short: got %d bytes, want at least %d", len(compressed), wantSecondModuleOffset+3)
	}
	if !bytes.Equal(compressed[wantSecondModuleOffset:wantSecondModuleOffset+3], data[20:23]) {
		t.Fatalf("second module not found at header-relative aligned offset %d: got % x", wantSecondModuleOffset, compressed[wantSecondModuleOffset:wantSecondModuleOffset+3])
	}

	got, err := ModuledDecompress(compressed, opts, func(chunk []byte, uncompressedSize int) ([]byte, int, error) {
		if len(chunk) < 20 {
			return nil, 0, ErrInputOverrun
		}
		return chunk[:uncompressedSize], 20, nil
	})
	if err != nil {
		t.Fatalf("ModuledDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got % x want % x", got, data)
	}
}

func TestModuledDecompressRejectsZeroModuleSize(t *testing.T) {
	if _, err := ModuledCompress([]byte{1, 2, 3}, &ModuledOptions{}, identityCompress); err == nil {
		t.Fatalf("expected error for zero ModuleSize")
	}
	if _, err := ModuledDecompress([]byte{0, 0}, &ModuledOptions{}, identityDecompress); err == nil {
		t.Fatalf("expected error for zero ModuleSize")
	}
}
